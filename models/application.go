package models

import "gorm.io/gorm"

type Application struct {
	gorm.Model
	JobID       uint   `gorm:"uniqueIndex:ux_job_applicant;not null" json:"job_id"`
	ApplicantID uint   `gorm:"uniqueIndex:ux_job_applicant;not null" json:"applicant_id"`
	Status      string `gorm:"not null;default:Pending" json:"status"` // Pending, Accepted, Rejected

	Job Job `json:"job"`
}
