package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/handlers/billing"
	"github.com/7ever/Nerdo.Africa/handlers/community"
	"github.com/7ever/Nerdo.Africa/handlers/learning"
	"github.com/7ever/Nerdo.Africa/handlers/opportunities"
	"github.com/7ever/Nerdo.Africa/migrations"
	"github.com/7ever/Nerdo.Africa/seed"
	"github.com/7ever/Nerdo.Africa/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	sweepReminders := flag.Bool("sweep-reminders", false, "send deadline reminder SMS and exit")
	flag.Parse()

	utils.MustLoadJwtSecret()
	utils.ConnectDatabase()
	utils.ConnectRedis()

	migrations.MigrateUsers()
	migrations.MigrateBilling()
	migrations.MigrateOpportunities()
	migrations.MigrateCommunity()
	migrations.MigrateLearning()

	if *sweepReminders {
		opportunities.SweepDeadlineReminders()
		return
	}

	// Seed Initial Data
	if err := seed.SeedDemoEmployer(); err != nil {
		log.Fatalf("Failed to seed demo employer: %v", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://nerdo.africa"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/auth/register", auth.Register)
	r.POST("/auth/verify-otp", auth.VerifyOTP)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/refresh", auth.RefreshToken)
	r.POST("/auth/password-reset/request", auth.RequestPasswordReset)
	r.POST("/auth/password-reset/verify", auth.VerifyPasswordReset)
	r.POST("/auth/password-reset/confirm", auth.ConfirmPasswordReset)

	// The gateway delivers this unauthenticated.
	r.POST("/billing/callback", billing.MpesaCallback)

	r.GET("/jobs", opportunities.ListJobs)
	r.GET("/jobs/:id", opportunities.GetJob)

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/auth/logout", auth.Logout)
		protected.GET("/profile", auth.GetProfile)
		protected.PUT("/profile", auth.UpdateProfile)

		protected.POST("/billing/premium/initiate", billing.InitiatePremiumPayment)
		protected.GET("/billing/transactions", billing.GetTransactions)

		protected.POST("/jobs", opportunities.CreateJob)
		protected.PUT("/jobs/:id", opportunities.UpdateJob)
		protected.DELETE("/jobs/:id", opportunities.DeleteJob)
		protected.POST("/jobs/:id/apply", opportunities.ApplyJob)
		protected.GET("/my/jobs", opportunities.MyJobs)
		protected.GET("/my/applications", opportunities.MyApplications)
		protected.POST("/jobs/:id/reminder", auth.PremiumRequired(), opportunities.ToggleReminder)

		protected.GET("/community/posts", community.ListPosts)
		protected.POST("/community/posts", community.CreatePost)
		protected.GET("/community/posts/:id", community.GetPost)
		protected.DELETE("/community/posts/:id", community.DeletePost)
		protected.POST("/community/posts/:id/comments", community.CreateComment)
		protected.POST("/community/posts/:id/like", community.ToggleLike)

		learningRoutes := protected.Group("/learning")
		learningRoutes.Use(auth.PremiumRequired())
		{
			learningRoutes.POST("/roadmaps", learning.GenerateRoadmap)
			learningRoutes.GET("/roadmaps", learning.ListRoadmaps)
			learningRoutes.GET("/roadmaps/:id", learning.GetRoadmap)
			learningRoutes.PUT("/roadmaps/:id/status", learning.UpdateRoadmapStatus)
			learningRoutes.DELETE("/roadmaps/:id", learning.DeleteRoadmap)
			learningRoutes.GET("/recent", learning.RecentSearches)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
