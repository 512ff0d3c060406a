package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for quest creation. The id is caller-chosen so the quest
// number matches whatever the game master announced.
type CreateQuestRequest struct {
	ID          uint   `json:"id" binding:"required"`    // Quest number
	Date        string `json:"date" binding:"required"`  // When the quest runs
	Multi       string `json:"multi"`                    // Party size text
	Tier        int    `json:"tier"`                     // Difficulty tier
	RankID      uint   `json:"rank_id"`                  // Minimum guild rank
	Reward      string `json:"reward"`                   // Reward text
	Title       string `json:"title" binding:"required"` // Quest title
	Description string `json:"description"`              // Quest body
}

// CreateQuestHandler creates a quest and its backing embed (admin)
func (a *API) CreateQuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateQuestRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		quest, err := a.quests.Create(req.ID, req.Date, req.Multi, req.Tier, req.RankID, req.Reward, req.Title, req.Description)
		if err != nil {
			a.fail(c, err) // Duplicate quest numbers come back as 400
			return
		}
		c.JSON(http.StatusCreated, gin.H{"quest": quest})
	}
}

// ListQuestsHandler lists every quest (admin)
func (a *API) ListQuestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := a.quests.All()
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quests": all})
	}
}

// GetQuestHandler returns one quest with its signed-up party (admin)
func (a *API) GetQuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		quest, err := a.quests.Get(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		party, err := a.quests.Party(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quest": quest, "party": party})
	}
}

// Request struct for quest edits. Only the listed fields are editable;
// every applied edit refreshes the backing embed.
type EditQuestRequest struct {
	Status      *int    `json:"status"`      // New board status
	Title       *string `json:"title"`       // New title
	Description *string `json:"description"` // New body
	Reward      *string `json:"reward"`      // New reward text
	Tier        *int    `json:"tier"`        // New difficulty tier
}

// EditQuestHandler edits a quest through its typed setters (admin)
func (a *API) EditQuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req EditQuestRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Status != nil {
			if err := a.quests.SetStatus(id, *req.Status); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.Title != nil {
			if err := a.quests.SetTitle(id, *req.Title); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.Description != nil {
			if err := a.quests.SetDescription(id, *req.Description); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.Reward != nil {
			if err := a.quests.SetReward(id, *req.Reward); err != nil {
				a.fail(c, err)
				return
			}
		}
		if req.Tier != nil {
			if err := a.quests.SetTier(id, *req.Tier); err != nil {
				a.fail(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quest updated"})
	}
}

// Request struct for quest signups
type AssignQuestRequest struct {
	CharacterID uint `json:"character_id" binding:"required"` // Character to sign up
}

// AssignQuestHandler signs a character up for a quest (admin)
func (a *API) AssignQuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req AssignQuestRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The character must exist before it can join a party
		if _, err := a.directory.Get(req.CharacterID); err != nil {
			a.fail(c, err)
			return
		}
		if err := a.quests.AssignCharacter(id, req.CharacterID); err != nil {
			a.fail(c, err) // Double signups come back as 400
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Character assigned"})
	}
}

// DeleteQuestHandler removes a quest, its signups and its embed (admin)
func (a *API) DeleteQuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		count, err := a.quests.Delete(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": count})
	}
}
