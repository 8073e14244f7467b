package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	RefreshToken string `gorm:"column:refresh_token" json:"-"`

	Profile Profile `json:"profile"`
}
