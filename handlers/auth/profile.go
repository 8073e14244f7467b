package auth

import (
	"net/http"

	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	user, exists := CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"profile":  user.Profile,
	})
}

// UpdateProfile lets a user change their bio. Role and verification flags
// are fixed at registration or set by the billing callback.
func UpdateProfile(c *gin.Context) {
	user, exists := CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Bio string `json:"bio" binding:"max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bio must be at most 500 characters."})
		return
	}

	if err := utils.DB.Model(&user.Profile).Update("bio", input.Bio).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated."})
}
