package auth

import (
	"log"
	"net/http"
	"time"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RequestPasswordReset handles password reset requests by generating and
// sending a new OTP to the account's phone.
func RequestPasswordReset(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required."})
		return
	}

	var profile models.Profile
	if err := utils.DB.Where("phone_number = ?", input.PhoneNumber).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No account found with that phone number."})
		return
	}

	challenge, err := issueChallenge(input.PhoneNumber, models.ChallengePurposePasswordReset)
	if err != nil {
		log.Printf("Failed to issue password reset challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue saving the OTP. Please try again later."})
		return
	}

	if !utils.SendOTPSMS(input.PhoneNumber, challenge.Code) {
		// Fall back to email when the account has one on file.
		var user models.User
		if err := utils.DB.First(&user, profile.UserID).Error; err == nil && user.Email != "" {
			utils.SendOTPEmail(user.Email, challenge.Code)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your phone. Please verify."})
}

// VerifyPasswordReset validates the OTP and mints a single-use reset
// ticket the client presents alongside the new password.
func VerifyPasswordReset(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		OTP         string `json:"otp" binding:"required,len=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and the 6-digit code are required."})
		return
	}

	ok, failMsg := answerChallenge(input.PhoneNumber, models.ChallengePurposePasswordReset, input.OTP)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": failMsg})
		return
	}

	ticket := models.VerificationChallenge{
		ID:          uuid.NewString(),
		PhoneNumber: input.PhoneNumber,
		Code:        "",
		Purpose:     models.ChallengePurposeResetConfirm,
		ExpiresAt:   time.Now().Add(otpValidityDuration),
	}
	if err := utils.DB.Create(&ticket).Error; err != nil {
		log.Printf("Failed to mint reset ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue processing your request. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "OTP verified successfully.",
		"reset_token": ticket.ID,
	})
}

// ConfirmPasswordReset sets the new password, gated on the reset ticket.
func ConfirmPasswordReset(c *gin.Context) {
	var input struct {
		ResetToken  string `json:"reset_token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token and a new password of at least 8 characters are required."})
		return
	}

	var ticket models.VerificationChallenge
	if err := utils.DB.Where("id = ? AND purpose = ?", input.ResetToken, models.ChallengePurposeResetConfirm).
		First(&ticket).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token. Please start again."})
		return
	}
	if ticket.Consumed || time.Now().After(ticket.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token. Please start again."})
		return
	}

	var profile models.Profile
	if err := utils.DB.Where("phone_number = ?", ticket.PhoneNumber).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No account found with that phone number."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your password. Please try again."})
		return
	}

	if err := utils.DB.Model(&models.User{}).Where("id = ?", profile.UserID).
		Update("password", string(hashedPassword)).Error; err != nil {
		log.Printf("Failed to update user password in the database: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue updating your password. Please try again later."})
		return
	}

	// The ticket is single-use.
	utils.DB.Model(&ticket).Update("consumed", true)

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset successfully. You can now log in with your new password."})
}
