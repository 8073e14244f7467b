package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var JobTypes = []string{"Freelance", "Contract", "Part-Time", "Full-Time", "Internship"}

var JobCategories = []string{"Tech", "Design", "Writing", "Admin", "Marketing", "Video"}

var ExperienceLevels = []string{"Entry", "Intermediate", "Expert"}

type Job struct {
	gorm.Model
	AuthorID    uint            `gorm:"index;not null" json:"author_id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Budget      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"budget"`

	JobType         string `gorm:"not null;default:Freelance" json:"job_type"`
	Category        string `gorm:"not null;default:Tech" json:"category"`
	ExperienceLevel string `gorm:"not null;default:Entry" json:"experience_level"`

	Deadline   time.Time `gorm:"not null" json:"deadline"`
	IsApproved bool      `gorm:"default:true" json:"is_approved"`

	Applications []Application `json:"-"`
}

func ValidJobType(t string) bool { return contains(JobTypes, t) }

func ValidJobCategory(c string) bool { return contains(JobCategories, c) }

func ValidExperienceLevel(l string) bool { return contains(ExperienceLevels, l) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
