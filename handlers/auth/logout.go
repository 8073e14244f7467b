package auth

import (
	"net/http"

	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

func Logout(c *gin.Context) {
	user, exists := CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	// Remove the refresh token from the database
	if err := utils.DB.Model(&user).Update("refresh_token", "").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful.",
	})
}
