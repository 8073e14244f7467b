package auth

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", Login)
	r.POST("/auth/refresh", RefreshToken)
	return r
}

func seedVerifiedUser(t *testing.T, db *gorm.DB, password string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username: "kamau",
		Email:    "kamau@example.com",
		Password: string(hashed),
		Profile: models.Profile{
			Role:            models.RoleJobSeeker,
			PhoneNumber:     "+254701234567",
			IsPhoneVerified: true,
		},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginAndRefresh(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	user := seedVerifiedUser(t, db, "str0ngpass")
	r := sessionRouter()

	w := postJSON(t, r, "/auth/login", gin.H{"email": user.Email, "password": "str0ngpass"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}

	var session struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("login should issue both tokens")
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.RefreshToken != utils.HashToken(session.RefreshToken) {
		t.Error("stored refresh token should be the hash of the issued one")
	}

	// Refresh rotates the token pair.
	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": session.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", w.Code, w.Body.String())
	}
	var rotated struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Error("refresh should rotate the refresh token")
	}

	// The old refresh token no longer matches the stored hash.
	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": session.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("replayed refresh status = %d, want 401", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	user := seedVerifiedUser(t, db, "str0ngpass")
	r := sessionRouter()

	w := postJSON(t, r, "/auth/login", gin.H{"email": user.Email, "password": "wrongpass"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	w = postJSON(t, r, "/auth/login", gin.H{"email": "ghost@example.com", "password": "str0ngpass"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", w.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	user := seedVerifiedUser(t, db, "oldpassword")
	stubSMSGateway(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/password-reset", RequestPasswordReset)
	r.POST("/auth/password-reset/verify", VerifyPasswordReset)
	r.POST("/auth/password-reset/confirm", ConfirmPasswordReset)
	r.POST("/auth/login", Login)

	phone := user.Profile.PhoneNumber

	w := postJSON(t, r, "/auth/password-reset", gin.H{"phone_number": phone})
	if w.Code != http.StatusOK {
		t.Fatalf("request status = %d: %s", w.Code, w.Body.String())
	}

	var challenge models.VerificationChallenge
	if err := db.Where("phone_number = ? AND purpose = ?", phone,
		models.ChallengePurposePasswordReset).First(&challenge).Error; err != nil {
		t.Fatalf("challenge not issued: %v", err)
	}

	w = postJSON(t, r, "/auth/password-reset/verify", gin.H{"phone_number": phone, "otp": challenge.Code})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", w.Code, w.Body.String())
	}
	var verified struct {
		ResetToken string `json:"reset_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &verified); err != nil {
		t.Fatalf("decode verify: %v", err)
	}
	if verified.ResetToken == "" {
		t.Fatal("verify should mint a reset token")
	}

	w = postJSON(t, r, "/auth/password-reset/confirm", gin.H{
		"reset_token":  verified.ResetToken,
		"new_password": "brandnewpass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/auth/login", gin.H{"email": user.Email, "password": "brandnewpass"})
	if w.Code != http.StatusOK {
		t.Errorf("login with new password status = %d: %s", w.Code, w.Body.String())
	}
	w = postJSON(t, r, "/auth/login", gin.H{"email": user.Email, "password": "oldpassword"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login with old password status = %d, want 401", w.Code)
	}

	// The reset ticket is single-use.
	w = postJSON(t, r, "/auth/password-reset/confirm", gin.H{
		"reset_token":  verified.ResetToken,
		"new_password": "anotherpass1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("reused ticket status = %d, want 401", w.Code)
	}
}

func TestPasswordResetUnknownPhone(t *testing.T) {
	setupDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/password-reset", RequestPasswordReset)

	w := postJSON(t, r, "/auth/password-reset", gin.H{"phone_number": "+254799999999"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
