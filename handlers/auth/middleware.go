package auth

import (
	"net/http"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		userID, err := utils.ExtractUserIDFromToken(authHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Fetch the user with its profile so handlers can gate on flags
		var user models.User
		if err := utils.DB.Preload("Profile").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("user", user)

		c.Next()
	}
}

// PremiumRequired gates a route on the paid premium flag.
func PremiumRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			c.Abort()
			return
		}
		if !user.Profile.IsPremium {
			c.JSON(http.StatusForbidden, gin.H{"error": "Premium access required for this feature. Please upgrade to continue."})
			c.Abort()
			return
		}
		c.Next()
	}
}
