package auth

import (
	"math/rand"
	"regexp"
	"time"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const otpValidityDuration = 10 * time.Minute

var ajiraIDPattern = regexp.MustCompile(`^AJ-\d{6}$`)

var msisdnPattern = regexp.MustCompile(`^\+254\d{9}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
			return msisdnPattern.MatchString(fl.Field().String())
		})
	}
}

// generateOTP generates a 6-digit OTP
func generateOTP() string {
	source := rand.NewSource(time.Now().UnixNano())
	r := rand.New(source)
	const digits = "0123456789"
	otp := make([]byte, 6)
	for i := range otp {
		otp[i] = digits[r.Intn(len(digits))]
	}
	return string(otp)
}

// issueChallenge supersedes any live challenge for the phone and purpose
// and creates a fresh one.
func issueChallenge(phone string, purpose string) (*models.VerificationChallenge, error) {
	if err := utils.DB.Where("phone_number = ? AND purpose = ?", phone, purpose).
		Delete(&models.VerificationChallenge{}).Error; err != nil {
		return nil, err
	}

	challenge := models.VerificationChallenge{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		Code:        generateOTP(),
		Purpose:     purpose,
		ExpiresAt:   time.Now().Add(otpValidityDuration),
	}
	if err := utils.DB.Create(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// answerChallenge checks a submitted code against the live challenge for
// the phone and purpose, consuming it on a match. The bool reports the
// match; the error message is what the client should see on failure.
func answerChallenge(phone string, purpose string, code string) (bool, string) {
	var challenge models.VerificationChallenge
	err := utils.DB.Where("phone_number = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC").First(&challenge).Error
	if err != nil {
		return false, "Session expired or no pending verification. Please start again."
	}

	if !challenge.Live(time.Now()) {
		return false, "Session expired or no pending verification. Please start again."
	}

	if challenge.Code != code {
		utils.DB.Model(&challenge).Update("attempts", challenge.Attempts+1)
		return false, "Invalid code. Please try again."
	}

	utils.DB.Model(&challenge).Update("consumed", true)
	return true, ""
}

// CurrentUser pulls the authenticated user placed in the context by
// AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := userInterface.(models.User)
	return user, ok
}
