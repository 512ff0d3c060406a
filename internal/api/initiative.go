package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for adding a combatant
type InitiativeSetRequest struct {
	Name  string `json:"name" binding:"required"` // Combatant name
	Value int    `json:"value"`                   // Initiative value
}

// InitiativeSetHandler adds a combatant or replaces their value
func (a *API) InitiativeSetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitiativeSetRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		a.initiative.Set(req.Name, req.Value)
		c.JSON(http.StatusOK, gin.H{"order": a.initiative.Entries()})
	}
}

// InitiativeListHandler returns the turn order, highest first
func (a *API) InitiativeListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"order": a.initiative.Entries()})
	}
}

// InitiativeRemoveHandler removes the first combatant whose name contains
// the given fragment
func (a *API) InitiativeRemoveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if !a.initiative.Remove(name) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No combatant matches " + name})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": a.initiative.Entries()})
	}
}

// InitiativeClearHandler empties the turn order
func (a *API) InitiativeClearHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.initiative.Clear()
		c.JSON(http.StatusOK, gin.H{"message": "Initiative cleared"})
	}
}
