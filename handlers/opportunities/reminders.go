package opportunities

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

// ToggleReminder flips the deadline reminder for a job on or off.
// Premium only; employers cannot set reminders.
func ToggleReminder(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if user.Profile.Role == models.RoleEmployer {
		c.JSON(http.StatusForbidden, gin.H{"error": "Employers cannot set reminders."})
		return
	}

	var job models.Job
	if err := utils.DB.First(&job, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var reminder models.JobReminder
	err := utils.DB.Where("user_id = ? AND job_id = ?", user.ID, job.ID).First(&reminder).Error
	if err == nil {
		// Toggle OFF
		if err := utils.DB.Delete(&reminder).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reminder"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"reminded": false,
			"message":  fmt.Sprintf("Reminder removed for '%s'.", job.Title),
		})
		return
	}

	reminder = models.JobReminder{UserID: user.ID, JobID: job.ID}
	if err := utils.DB.Create(&reminder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set reminder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reminded": true,
		"message":  "Reminder set! We'll notify you 3 days before the deadline.",
	})
}

// SweepDeadlineReminders texts every reminder holder whose job closes in
// three days. Each reminder is notified at most once; it is run from the
// -sweep-reminders flag on a daily schedule.
func SweepDeadlineReminders() int {
	target := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	var reminders []models.JobReminder
	err := utils.DB.Preload("Job").
		Joins("JOIN jobs ON jobs.id = job_reminders.job_id").
		Where("DATE(jobs.deadline) = ? AND job_reminders.notified_at IS NULL", target).
		Find(&reminders).Error
	if err != nil {
		log.Printf("Reminder sweep query failed: %v", err)
		return 0
	}

	sent := 0
	for _, reminder := range reminders {
		var profile models.Profile
		if err := utils.DB.Where("user_id = ?", reminder.UserID).First(&profile).Error; err != nil || profile.PhoneNumber == "" {
			continue
		}

		msg := fmt.Sprintf("Reminder: The job '%s' closes on %s. Good luck!",
			reminder.Job.Title, reminder.Job.Deadline.Format("2006-01-02"))
		if !utils.SendSMS(profile.PhoneNumber, msg) {
			log.Printf("Failed to send reminder SMS for job %d to user %d", reminder.JobID, reminder.UserID)
			continue
		}

		now := time.Now()
		utils.DB.Model(&reminder).Update("notified_at", &now)
		sent++
	}

	log.Printf("Reminder sweep done, sent %d reminders for deadline %s", sent, target)
	return sent
}
