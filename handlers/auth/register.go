package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register validates a signup, holds it as a pending registration and
// sends an OTP. Nothing reaches the users table until the code is
// confirmed.
func Register(c *gin.Context) {
	var input struct {
		Username    string `json:"username" binding:"required,min=3,max=30"`
		Email       string `json:"email" binding:"required,email"`
		PhoneNumber string `json:"phone_number" binding:"required,msisdn"`
		Password    string `json:"password" binding:"required,min=8"`
		Role        string `json:"role"`
		AjiraID     string `json:"ajira_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Phone numbers must use the +254 format."})
		return
	}

	if input.Role == "" {
		input.Role = models.RoleJobSeeker
	}
	if input.Role != models.RoleJobSeeker && input.Role != models.RoleEmployer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be job_seeker or employer."})
		return
	}

	if input.AjiraID != "" && !ajiraIDPattern.MatchString(input.AjiraID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ajira ID must use the format AJ-123456."})
		return
	}

	var existingUser models.User
	if err := utils.DB.Where("username = ? OR email = ?", input.Username, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "This username or email is already registered. Please login or use different details."})
		return
	}

	var existingProfile models.Profile
	if err := utils.DB.Where("phone_number = ?", input.PhoneNumber).First(&existingProfile).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "This phone number is already registered."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your password. Please try again."})
		return
	}

	// A new signup for the same phone supersedes any earlier pending one.
	if err := utils.DB.Where("phone_number = ?", input.PhoneNumber).
		Delete(&models.PendingRegistration{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue processing your request. Please try again later."})
		return
	}

	pending := models.PendingRegistration{
		Username:     input.Username,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		AjiraID:      input.AjiraID,
	}
	if err := utils.DB.Create(&pending).Error; err != nil {
		log.Printf("Failed to hold pending registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue processing your request. Please try again later."})
		return
	}

	challenge, err := issueChallenge(input.PhoneNumber, models.ChallengePurposeRegistration)
	if err != nil {
		log.Printf("Failed to issue registration challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue processing your request. Please try again later."})
		return
	}

	if utils.SendOTPSMS(input.PhoneNumber, challenge.Code) {
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to " + input.PhoneNumber})
	} else {
		// The signup stays held so the user can retry verification once
		// the gateway recovers.
		c.JSON(http.StatusOK, gin.H{"message": "SMS failed. Please try again or check the number.", "sms_sent": false})
	}
}

// VerifyOTP commits a pending registration once the phone is confirmed.
func VerifyOTP(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		OTP         string `json:"otp" binding:"required,len=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and the 6-digit code are required."})
		return
	}

	ok, failMsg := answerChallenge(input.PhoneNumber, models.ChallengePurposeRegistration, input.OTP)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": failMsg})
		return
	}

	var pending models.PendingRegistration
	if err := utils.DB.Where("phone_number = ?", input.PhoneNumber).First(&pending).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or no pending registration. Please sign up again."})
		return
	}

	user := models.User{
		Username: pending.Username,
		Email:    pending.Email,
		Password: pending.PasswordHash,
		Profile: models.Profile{
			Role:            pending.Role,
			AjiraID:         pending.AjiraID,
			PhoneNumber:     pending.PhoneNumber,
			IsPhoneVerified: true,
			IsVerified:      pending.AjiraID != "",
		},
	}

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		var taken models.User
		if err := tx.Where("username = ? OR email = ?", pending.Username, pending.Email).First(&taken).Error; err == nil {
			return gorm.ErrDuplicatedKey
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Delete(&pending).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Someone took the username or email while the code was in flight.
			c.JSON(http.StatusConflict, gin.H{"error": "This username or email was taken just now. Please try again."})
			return
		}
		log.Printf("Failed to create user in the database: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue creating your account. Please contact support."})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	if err := utils.DB.Model(&user).Update("refresh_token", utils.HashToken(refreshToken)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Account created and verified successfully! Welcome to Nerdo.",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"profile":  user.Profile,
		},
	})
}
