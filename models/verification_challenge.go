package models

import "time"

const (
	ChallengePurposeRegistration  = "registration"
	ChallengePurposePasswordReset = "password_reset"
	ChallengePurposeResetConfirm  = "password_reset_confirm"
)

// VerificationChallenge is a short-lived OTP record. One live challenge
// exists per phone and purpose; issuing a new one supersedes the old.
type VerificationChallenge struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	PhoneNumber string    `gorm:"index;not null" json:"phone_number"`
	Code        string    `gorm:"not null" json:"-"`
	Purpose     string    `gorm:"not null" json:"purpose"` // registration, password_reset, password_reset_confirm
	Attempts    int       `gorm:"default:0" json:"-"`
	Consumed    bool      `gorm:"default:false" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Live reports whether the challenge can still be answered.
func (c *VerificationChallenge) Live(now time.Time) bool {
	return !c.Consumed && c.Attempts < 5 && now.Before(c.ExpiresAt)
}
