package models

import "time"

// PendingRegistration holds a signup that has not yet confirmed its phone
// number. Nothing is written to the users table until the OTP is answered;
// the password is already bcrypt-hashed here. One pending row per phone.
type PendingRegistration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"not null" json:"username"`
	Email        string    `gorm:"not null" json:"email"`
	PhoneNumber  string    `gorm:"uniqueIndex;not null" json:"phone_number"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:job_seeker" json:"role"`
	AjiraID      string    `gorm:"column:ajira_id" json:"ajira_id"`
	CreatedAt    time.Time `json:"created_at"`
}
