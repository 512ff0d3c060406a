package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID         uint   `json:"id"`          // User ID
	Username   string `json:"username"`    // Username
	Role       string `json:"role"`        // User role
	ActiveChar *uint  `json:"active_char"` // Currently selected character
}

// ListUsersHandler returns every user with their active character (admin)
func (a *API) ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := a.users.All()
		if err != nil {
			a.fail(c, err)
			return
		}
		// Map users to response format, dropping the password hash
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:         u.ID,         // User ID
				Username:   u.Username,   // Username
				Role:       u.Role,       // User role
				ActiveChar: u.ActiveChar, // Selected character
			}
		}
		c.JSON(http.StatusOK, gin.H{"users": resp})
	}
}

// ErrorLogHandler returns the most recent unexpected errors, newest first
// (admin). An optional ?limit=N caps the count.
func (a *API) ErrorLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0 // Zero means everything retained
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v // Cap the count if valid
			}
		}
		c.JSON(http.StatusOK, gin.H{"errors": a.errors.Last(limit)})
	}
}
