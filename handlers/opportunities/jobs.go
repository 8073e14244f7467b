package opportunities

import (
	"net/http"
	"time"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type jobInput struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Description     string          `json:"description" binding:"required"`
	Budget          decimal.Decimal `json:"budget" binding:"required"`
	JobType         string          `json:"job_type" binding:"required"`
	Category        string          `json:"category" binding:"required"`
	ExperienceLevel string          `json:"experience_level" binding:"required"`
	Deadline        string          `json:"deadline" binding:"required"` // YYYY-MM-DD
}

func (in *jobInput) validate() (time.Time, string) {
	if !models.ValidJobType(in.JobType) {
		return time.Time{}, "Unknown job type."
	}
	if !models.ValidJobCategory(in.Category) {
		return time.Time{}, "Unknown category."
	}
	if !models.ValidExperienceLevel(in.ExperienceLevel) {
		return time.Time{}, "Unknown experience level."
	}
	deadline, err := time.Parse("2006-01-02", in.Deadline)
	if err != nil {
		return time.Time{}, "Deadline must use the YYYY-MM-DD format."
	}
	return deadline, ""
}

// ListJobs returns approved jobs with search and filter support.
func ListJobs(c *gin.Context) {
	query := utils.DB.Where("is_approved = ?", true)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if jobType := c.Query("type"); jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("experience_level = ?", level)
	}

	var jobs []models.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"categories": models.JobCategories,
		"types":      models.JobTypes,
		"levels":     models.ExperienceLevels,
	})
}

func GetJob(c *gin.Context) {
	var job models.Job
	if err := utils.DB.First(&job, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var applicationCount int64
	utils.DB.Model(&models.Application{}).Where("job_id = ?", job.ID).Count(&applicationCount)

	c.JSON(http.StatusOK, gin.H{
		"job":               job,
		"application_count": applicationCount,
	})
}

// CreateJob is restricted to verified employers; their jobs go live
// immediately.
func CreateJob(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if user.Profile.Role != models.RoleEmployer || !user.Profile.IsEmployerVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only verified employers can post jobs."})
		return
	}

	var input jobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please fill all required job fields."})
		return
	}
	deadline, msg := input.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	job := models.Job{
		AuthorID:        user.ID,
		Title:           input.Title,
		Description:     input.Description,
		Budget:          input.Budget,
		JobType:         input.JobType,
		Category:        input.Category,
		ExperienceLevel: input.ExperienceLevel,
		Deadline:        deadline,
		IsApproved:      true,
	}
	if err := utils.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post job"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Job posted successfully!", "job": job})
}

func UpdateJob(c *gin.Context) {
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
	if job.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to edit this job."})
		return
	}

	var input jobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please fill all required job fields."})
		return
	}
	deadline, msg := input.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	job.Title = input.Title
	job.Description = input.Description
	job.Budget = input.Budget
	job.JobType = input.JobType
	job.Category = input.Category
	job.ExperienceLevel = input.ExperienceLevel
	job.Deadline = deadline

	if err := utils.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job updated successfully!", "job": job})
}

func DeleteJob(c *gin.Context) {
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
	if job.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this job."})
		return
	}

	if err := utils.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully."})
}

// MyJobs lists jobs authored by the caller, approved or not.
func MyJobs(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var jobs []models.Job
	if err := utils.DB.Where("author_id = ?", user.ID).Order("created_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
