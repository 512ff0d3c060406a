package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Picture URL validation
	"strings"  // String manipulation

	"guildbank/internal/store" // Repositories

	"github.com/gin-gonic/gin" // Gin web framework
)

// isValidPictureURL accepts http(s) URLs pointing at a jpg, jpeg or png
func isValidPictureURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false // Only web URLs can be rendered by the chat layer
	}
	path := strings.ToLower(u.Path)
	return strings.HasSuffix(path, ".jpg") ||
		strings.HasSuffix(path, ".jpeg") ||
		strings.HasSuffix(path, ".png")
}

// Request struct for character creation
type CreateCharacterRequest struct {
	Name        string `json:"name" binding:"required"` // Unique short name
	DisplayName string `json:"display_name"`            // Name shown in character
	PictureURL  string `json:"picture_url"`             // Portrait URL
	NPC         bool   `json:"npc"`                     // Non-player character flag
}

// CreateCharacterHandler adds a character for the caller
func (a *API) CreateCharacterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		var req CreateCharacterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate the portrait URL when one is given
		if req.PictureURL != "" && !isValidPictureURL(req.PictureURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Picture URL must be an http(s) jpg, jpeg or png"})
			return
		}
		// An empty display name falls back to the short name
		if req.DisplayName == "" {
			req.DisplayName = req.Name
		}
		character, err := a.directory.CreateCharacter(userID, req.Name, req.DisplayName, req.PictureURL, req.NPC)
		if err != nil {
			a.fail(c, err) // Duplicate names come back as 400
			return
		}
		c.JSON(http.StatusCreated, gin.H{"character": character})
	}
}

// ListCharactersHandler lists the caller's own characters
func (a *API) ListCharactersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		characters, err := a.directory.Characters(userID)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"characters": characters})
	}
}

// ActiveCharacterHandler returns the caller's active character
func (a *API) ActiveCharacterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		character, err := a.directory.ActiveCharacter(userID)
		if err != nil {
			a.fail(c, err) // No active character selected becomes 400
			return
		}
		c.JSON(http.StatusOK, gin.H{"character": character})
	}
}

// Request struct for picking the active character
type SetActiveRequest struct {
	CharacterID *uint `json:"character_id"` // nil clears the selection
}

// SetActiveHandler points the caller at one of their characters
func (a *API) SetActiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		var req SetActiveRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := a.directory.SetActive(userID, req.CharacterID); err != nil {
			a.fail(c, err) // Someone else's character looks like a missing one
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Active character updated"})
	}
}

// Request struct for character edits. Only the listed fields are editable;
// the account number and guild rank are not on this surface.
type EditCharacterRequest struct {
	Name        *string `json:"name"`         // New unique short name
	DisplayName *string `json:"display_name"` // New display name
	PictureURL  *string `json:"picture_url"`  // New portrait URL
	Level       *int    `json:"level"`        // New character level
	ClearLevel  bool    `json:"clear_level"`  // Unset the level
}

// EditCharacterHandler edits one of the caller's characters
func (a *API) EditCharacterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		// Only the owner may edit; a foreign character looks missing
		character, err := a.directory.Get(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		if character.UserID != userID {
			a.fail(c, store.ErrNotFound)
			return
		}
		var req EditCharacterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply each requested field through the typed setters
		if req.Name != nil {
			if err := a.directory.Rename(id, *req.Name); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.DisplayName != nil {
			if err := a.directory.SetDisplayName(id, *req.DisplayName); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.PictureURL != nil {
			if *req.PictureURL != "" && !isValidPictureURL(*req.PictureURL) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Picture URL must be an http(s) jpg, jpeg or png"})
				return
			}
			if err := a.directory.SetPictureURL(id, *req.PictureURL); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.Level != nil || req.ClearLevel {
			level := req.Level
			if req.ClearLevel {
				level = nil // Explicit clear wins over a supplied value
			}
			if err := a.directory.SetLevel(id, level); err != nil {
				a.fail(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Character updated"})
	}
}

// ListAllCharactersHandler lists every character (admin)
func (a *API) ListAllCharactersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		characters, err := a.directory.All()
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"characters": characters})
	}
}

// Request struct for rank changes
type SetRankRequest struct {
	Rank *uint `json:"rank"` // Guild rank role; nil clears it
}

// SetRankHandler sets a character's guild rank (admin)
func (a *API) SetRankHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req SetRankRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := a.directory.SetRank(id, req.Rank); err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Rank updated"})
	}
}

// Request struct for NPC flag changes
type SetNPCRequest struct {
	NPC bool `json:"npc"` // Non-player character flag
}

// SetNPCHandler flips a character's NPC flag (admin)
func (a *API) SetNPCHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req SetNPCRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := a.directory.SetNPC(id, req.NPC); err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Character updated"})
	}
}

// DeleteCharacterHandler removes a character (admin). The guild bank
// account is protected.
func (a *API) DeleteCharacterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		count, err := a.directory.Delete(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		if count == 0 {
			a.fail(c, store.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": count})
	}
}
