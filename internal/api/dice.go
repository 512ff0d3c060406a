package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for a dice roll
type RollRequest struct {
	Expression string `json:"expression" binding:"required"` // Dice expression, e.g. "2d6+3"
}

// RollHandler evaluates a dice expression for the caller
func (a *API) RollHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RollRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := a.dice.Evaluate(req.Expression) // Parse and roll
		if err != nil {
			a.fail(c, err) // Malformed expressions come back as 400
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"expression": req.Expression, // Echo of what was rolled
			"result":     result,         // Total, kept rolls, crit flags
		})
	}
}
