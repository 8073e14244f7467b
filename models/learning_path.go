package models

import "gorm.io/gorm"

const (
	LearningPathActive    = "active"
	LearningPathCompleted = "completed"
	LearningPathArchived  = "archived"
)

// RoadmapVideo is one video attached to a roadmap phase.
type RoadmapVideo struct {
	Title     string `json:"title"`
	VideoID   string `json:"video_id"`
	Channel   string `json:"channel"`
	Thumbnail string `json:"thumbnail"`
}

// RoadmapPhase is one ordered step of a generated roadmap.
type RoadmapPhase struct {
	Order  int            `json:"order"`
	Title  string         `json:"title"`
	Videos []RoadmapVideo `json:"videos"`
}

type LearningPath struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null" json:"user_id"`
	Topic      string `gorm:"size:255;not null" json:"topic"`
	SkillLevel string `gorm:"not null;default:beginner" json:"skill_level"`
	Duration   int    `gorm:"not null" json:"duration"` // in weeks

	// RoadmapData holds the generated phase list as JSON.
	RoadmapData string `gorm:"type:json" json:"-"`

	Status string `gorm:"not null;default:active" json:"status"` // active, completed, archived
}
