package middleware

import (
	"net/http" // HTTP status codes

	"guildbank/internal/domain" // Database models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // ORM library
)

// AdminOnlyMiddleware restricts access to admin users
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user domain.User
		// Fetch the user from the database
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// Check if the user has the admin role
		if user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next() // Proceed to the next handler
	}
}
