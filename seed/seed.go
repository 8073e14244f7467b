// seed/seed.go
package seed

import (
	"errors"
	"log"
	"time"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemoEmployer creates a verified employer with one open job so a
// fresh install has something on the job market. Skips if present.
func SeedDemoEmployer() error {
	var existing models.User
	err := utils.DB.Where("username = ?", "nerdo_demo").First(&existing).Error
	if err == nil {
		log.Println("Demo employer already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe.2024"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	employer := models.User{
		Username: "nerdo_demo",
		Email:    "demo@nerdo.africa",
		Password: string(hashed),
		Profile: models.Profile{
			Role:               models.RoleEmployer,
			PhoneNumber:        "+254700000000",
			IsPhoneVerified:    true,
			IsEmployerVerified: true,
		},
	}
	if err := utils.DB.Create(&employer).Error; err != nil {
		return err
	}

	job := models.Job{
		AuthorID:        employer.ID,
		Title:           "Junior Content Writer",
		Description:     "Write short articles about digital work opportunities for Kenyan youth.",
		Budget:          decimal.NewFromInt(5000),
		JobType:         "Freelance",
		Category:        "Writing",
		ExperienceLevel: "Entry",
		Deadline:        time.Now().AddDate(0, 1, 0),
		IsApproved:      true,
	}
	return utils.DB.Create(&job).Error
}
