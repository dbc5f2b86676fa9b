package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"aula-ceip-api/controllers"
	"aula-ceip-api/middleware"
	"aula-ceip-api/models"
)

func SetupRoutes(router *gin.Engine, api *controllers.API, db *gorm.DB) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", api.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Aula CEIP API is running",
				})
			})

			// Families without an account can still hand in work
			public.POST("/public/submissions", api.CreatePublicSubmission)

			// Published announcements are readable without a session
			public.GET("/announcements", api.GetAnnouncements)
			public.GET("/announcements/:id", api.GetAnnouncement)
			public.GET("/subjects", api.GetSubjects)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(db))
		{
			// User profile
			protected.GET("/profile", api.GetProfile)
			protected.PUT("/change-password", api.ChangePassword)

			// Submissions
			submissions := protected.Group("/submissions")
			{
				// Families see their own, reviewers see everything
				submissions.GET("", api.GetSubmissions)
				submissions.GET("/:id", api.GetSubmission)

				// Only family accounts hand in work through the portal
				submissions.POST("", middleware.RequireRole(models.RoleFamily), api.CreateSubmission)

				// Review actions are for teachers and admins
				submissions.PATCH("/:id", middleware.RequireReviewer(), api.UpdateSubmissionReview)
				submissions.POST("/:id/approve", middleware.RequireReviewer(), api.ApproveSubmission)
				submissions.POST("/:id/reject", middleware.RequireReviewer(), api.RejectSubmission)
				submissions.POST("/:id/notify", middleware.RequireReviewer(), api.NotifySubmission)
			}

			// Announcements (write side)
			announcements := protected.Group("/announcements")
			{
				announcements.POST("", middleware.RequireReviewer(), api.CreateAnnouncement)
				announcements.PUT("/:id", middleware.RequireReviewer(), api.UpdateAnnouncement)
				announcements.DELETE("/:id", middleware.RequireReviewer(), api.DeleteAnnouncement)
			}

			// Family provisioning (admin only)
			families := protected.Group("/families")
			{
				families.GET("", middleware.RequireReviewer(), api.GetFamilies)
				families.POST("", middleware.RequireRole(models.RoleAdmin), api.CreateFamily)
			}

			// In-app notification feed
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", api.GetNotifications)
				notifications.GET("/counter", api.GetNotificationCounter)
				notifications.PUT("/:id/read", api.MarkNotificationRead)
				notifications.PUT("/read-all", api.MarkAllNotificationsRead)
			}
		}
	}
}
