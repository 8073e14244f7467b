package learning

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

const (
	minPhases         = 3
	maxPhases         = 8
	maxVideosPerPhase = 3

	videoCacheTTL     = 24 * time.Hour
	recentSearchLimit = 5
)

var geminiClient *GeminiClient

var youtubeClient *YouTubeClient

func gemini() *GeminiClient {
	if geminiClient == nil {
		geminiClient = NewGeminiClient()
	}
	return geminiClient
}

func youtube() *YouTubeClient {
	if youtubeClient == nil {
		youtubeClient = NewYouTubeClient()
	}
	return youtubeClient
}

// SetClients swaps the external clients, used by tests.
func SetClients(g *GeminiClient, y *YouTubeClient) {
	geminiClient = g
	youtubeClient = y
}

func phaseCount(durationWeeks int) int {
	if durationWeeks < minPhases {
		return minPhases
	}
	if durationWeeks > maxPhases {
		return maxPhases
	}
	return durationWeeks
}

func buildPrompt(topic string, skillLevel string, phases int) string {
	return fmt.Sprintf(
		"You are a curriculum planner. Produce a numbered list of exactly %d phase titles "+
			"for a %s-level learner studying %q. One short title per line, no commentary.",
		phases, skillLevel, topic)
}

// Numbered list markers the text model is known to emit: "1.", "1)", "-", "*".
var listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s*`)

// parseRoadmapTopics extracts up to max phase titles from the model's
// raw text, tolerating the numbering styles it alternates between.
func parseRoadmapTopics(text string, max int) []string {
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, "*")
		if line == "" {
			continue
		}
		topics = append(topics, line)
		if len(topics) == max {
			break
		}
	}
	return topics
}

// fallbackPhases is the fixed template list used when text generation
// fails; the request still succeeds.
func fallbackPhases(topic string, phases int) []string {
	templates := []string{
		"Introduction to %s",
		"%s fundamentals",
		"Core %s concepts",
		"Hands-on %s practice",
		"Intermediate %s techniques",
		"Building a %s project",
		"Advanced %s topics",
		"%s revision and next steps",
	}
	if phases > len(templates) {
		phases = len(templates)
	}
	out := make([]string, 0, phases)
	for _, tmpl := range templates[:phases] {
		out = append(out, fmt.Sprintf(tmpl, topic))
	}
	return out
}

func videosForPhase(phase string) []models.RoadmapVideo {
	cacheKey := "yt:roadmap:" + phase

	var cached []models.RoadmapVideo
	if hit, err := utils.GetRedisObject(cacheKey, &cached); err == nil && hit {
		return cached
	}

	videos, err := youtube().SearchVideos(phase, maxVideosPerPhase)
	if err != nil {
		// A phase without videos is still a usable phase.
		utils.LogError("learning", "videosForPhase", "youtube search", phase, err)
		return []models.RoadmapVideo{}
	}

	if err := utils.SetRedisObject(cacheKey, videos, videoCacheTTL); err != nil {
		utils.LogError("learning", "videosForPhase", "cache write", phase, err)
	}
	return videos
}

// GenerateRoadmap builds and persists a learning roadmap for the caller.
func GenerateRoadmap(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Topic         string `json:"topic" binding:"required,max=255"`
		SkillLevel    string `json:"skill_level" binding:"required,oneof=beginner intermediate advanced"`
		DurationWeeks int    `json:"duration_weeks" binding:"required,min=1,max=52"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic, skill level (beginner/intermediate/advanced) and duration in weeks (1-52) are required."})
		return
	}

	phases := phaseCount(input.DurationWeeks)

	var titles []string
	text, err := gemini().GenerateText(buildPrompt(input.Topic, input.SkillLevel, phases))
	if err != nil {
		utils.LogError("learning", "GenerateRoadmap", "gemini", input.Topic, err)
	} else {
		titles = parseRoadmapTopics(text, phases)
	}
	if len(titles) == 0 {
		titles = fallbackPhases(input.Topic, phases)
	}

	roadmap := make([]models.RoadmapPhase, 0, len(titles))
	for i, title := range titles {
		roadmap = append(roadmap, models.RoadmapPhase{
			Order:  i + 1,
			Title:  title,
			Videos: videosForPhase(title),
		})
	}

	data, err := json.Marshal(roadmap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble roadmap"})
		return
	}

	path := models.LearningPath{
		UserID:      user.ID,
		Topic:       input.Topic,
		SkillLevel:  input.SkillLevel,
		Duration:    input.DurationWeeks,
		RoadmapData: string(data),
		Status:      models.LearningPathActive,
	}
	if err := utils.DB.Create(&path).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save roadmap"})
		return
	}

	if err := utils.PushRedisRecent(fmt.Sprintf("recent:%d", user.ID), input.Topic, recentSearchLimit); err != nil {
		utils.LogError("learning", "GenerateRoadmap", "recent searches", user.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      path.ID,
		"topic":   path.Topic,
		"status":  path.Status,
		"roadmap": roadmap,
	})
}

// ListRoadmaps returns the caller's roadmaps, newest first.
func ListRoadmaps(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var paths []models.LearningPath
	if err := utils.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&paths).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roadmaps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roadmaps": paths})
}

func loadOwnRoadmap(c *gin.Context) (models.LearningPath, bool) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return models.LearningPath{}, false
	}

	var path models.LearningPath
	if err := utils.DB.First(&path, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
		return models.LearningPath{}, false
	}
	if path.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this roadmap."})
		return models.LearningPath{}, false
	}
	return path, true
}

func GetRoadmap(c *gin.Context) {
	path, ok := loadOwnRoadmap(c)
	if !ok {
		return
	}

	var roadmap []models.RoadmapPhase
	if err := json.Unmarshal([]byte(path.RoadmapData), &roadmap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored roadmap is unreadable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          path.ID,
		"topic":       path.Topic,
		"skill_level": path.SkillLevel,
		"duration":    path.Duration,
		"status":      path.Status,
		"roadmap":     roadmap,
	})
}

func UpdateRoadmapStatus(c *gin.Context) {
	path, ok := loadOwnRoadmap(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required,oneof=active completed archived"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active, completed or archived."})
		return
	}

	if err := utils.DB.Model(&path).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roadmap"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Roadmap updated.", "status": input.Status})
}

func DeleteRoadmap(c *gin.Context) {
	path, ok := loadOwnRoadmap(c)
	if !ok {
		return
	}

	if err := utils.DB.Delete(&path).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete roadmap"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Roadmap deleted."})
}

// RecentSearches returns the caller's last few roadmap topics.
func RecentSearches(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	topics, err := utils.GetRedisRecent(fmt.Sprintf("recent:%d", user.ID))
	if err != nil {
		utils.LogError("learning", "RecentSearches", "redis", user.ID, err)
		topics = nil
	}
	if topics == nil {
		topics = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"recent": topics})
}
