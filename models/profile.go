package models

import "gorm.io/gorm"

const (
	RoleJobSeeker = "job_seeker"
	RoleEmployer  = "employer"
)

type Profile struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   string `gorm:"not null;default:job_seeker" json:"role"` // job_seeker or employer

	AjiraID     string `gorm:"column:ajira_id" json:"ajira_id"` // e.g. AJ-123456
	PhoneNumber string `gorm:"unique" json:"phone_number"`
	Bio         string `gorm:"size:500" json:"bio"`

	IsVerified         bool `gorm:"default:false" json:"is_verified"`
	IsPhoneVerified    bool `gorm:"default:false" json:"is_phone_verified"`
	IsEmployerVerified bool `gorm:"default:false" json:"is_employer_verified"`
	IsPremium          bool `gorm:"default:false" json:"is_premium"`
}
