package models

import (
	"time"

	"gorm.io/gorm"
)

// JobReminder marks a job a user wants to be nudged about before its
// deadline. NotifiedAt keeps the sweep from texting the same user twice.
type JobReminder struct {
	gorm.Model
	UserID     uint       `gorm:"uniqueIndex:ux_user_job;not null" json:"user_id"`
	JobID      uint       `gorm:"uniqueIndex:ux_user_job;not null" json:"job_id"`
	NotifiedAt *time.Time `json:"notified_at"`

	Job Job `json:"job"`
}
