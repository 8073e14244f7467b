package migrations

import (
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
)

func MigrateUsers() {
	utils.DB.AutoMigrate(&models.User{}, &models.Profile{},
		&models.PendingRegistration{}, &models.VerificationChallenge{})
}

func MigrateBilling() {
	utils.DB.AutoMigrate(&models.MpesaTransaction{})
}

func MigrateOpportunities() {
	utils.DB.AutoMigrate(&models.Job{}, &models.Application{}, &models.JobReminder{})
}

func MigrateCommunity() {
	utils.DB.AutoMigrate(&models.Post{}, &models.Comment{}, &models.PostLike{})
}

func MigrateLearning() {
	utils.DB.AutoMigrate(&models.LearningPath{})
}
