package opportunities

import (
	"fmt"
	"net/http"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

// ApplyJob submits an application. One per user per job; employers and
// job authors cannot apply.
func ApplyJob(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var job models.Job
	if err := utils.DB.First(&job, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if job.AuthorID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot apply to your own job."})
		return
	}

	if user.Profile.Role == models.RoleEmployer {
		c.JSON(http.StatusForbidden, gin.H{"error": "Employers cannot apply for jobs."})
		return
	}

	var existing models.Application
	if err := utils.DB.Where("job_id = ? AND applicant_id = ?", job.ID, user.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied for this job."})
		return
	}

	application := models.Application{
		JobID:       job.ID,
		ApplicantID: user.ID,
		Status:      "Pending",
	}
	if err := utils.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Application submitted for %s!", job.Title)})
}

// MyApplications lists the caller's applications with their jobs.
func MyApplications(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var applications []models.Application
	if err := utils.DB.Preload("Job").Where("applicant_id = ?", user.ID).
		Order("created_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}
