package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for embed creation
type CreateEmbedRequest struct {
	ChannelID *int64 `json:"channel_id"`                 // Target channel, optional
	Content   string `json:"content" binding:"required"` // Embed body as a JSON object
}

// CreateEmbedHandler stores a new embed record (admin)
func (a *API) CreateEmbedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		var req CreateEmbedRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		embed, err := a.embeds.Create(&userID, req.ChannelID, req.Content)
		if err != nil {
			a.fail(c, err) // Content that is not a JSON object comes back as 400
			return
		}
		c.JSON(http.StatusCreated, gin.H{"embed": embed})
	}
}

// ListEmbedsHandler lists every embed live in a channel (admin)
func (a *API) ListEmbedsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := a.embeds.ListActive()
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"embeds": records})
	}
}

// GetEmbedHandler returns one embed record (admin)
func (a *API) GetEmbedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		embed, err := a.embeds.Get(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"embed": embed})
	}
}

// Request struct for embed edits
type EditEmbedRequest struct {
	Content string `json:"content" binding:"required"` // Replacement JSON body
}

// EditEmbedHandler replaces an embed's content (admin)
func (a *API) EditEmbedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req EditEmbedRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		embed, err := a.embeds.UpdateContent(id, req.Content)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"embed": embed})
	}
}

// Request struct for recording where an embed was posted
type MarkPostedRequest struct {
	ChannelID int64 `json:"channel_id" binding:"required"` // Channel the message landed in
	MessageID int64 `json:"message_id" binding:"required"` // Message id of the posted embed
}

// MarkPostedHandler records the channel and message an embed was posted
// as, so later edits can find it (admin)
func (a *API) MarkPostedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req MarkPostedRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := a.embeds.MarkPosted(id, req.ChannelID, req.MessageID); err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Embed marked as posted"})
	}
}

// DeleteEmbedHandler removes an embed record (admin)
func (a *API) DeleteEmbedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		count, err := a.embeds.Delete(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": count})
	}
}
