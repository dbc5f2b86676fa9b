package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"aula-ceip-api/config"
	"aula-ceip-api/controllers"
	"aula-ceip-api/middleware"
	"aula-ceip-api/monitor"
	"aula-ceip-api/routes"
	"aula-ceip-api/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	db := config.InitDB()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the services. Everything downstream takes its dependencies
	// explicitly so nothing reaches back into package globals.
	mailer := config.NewSMTPMailerFromEnv()
	store := services.NewSubmissionStore(db)
	directory := services.NewDirectory(db)
	dispatcher := services.NewNotificationDispatcher(directory, mailer, os.Getenv("APP_BASE_URL"))
	reviews := services.NewReviewService(store, dispatcher)
	api := controllers.NewAPI(db, store, reviews, dispatcher, mailer)

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.LoggerWithWriter(config.LogWriter))

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Ops pages (register before the v1 tree)
	monitor.RegisterMonitorPage(router)
	monitor.RegisterLogsRoute(router)

	// Setup routes
	routes.SetupRoutes(router, api, db)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if ginMode == "release" {
		log.Printf("Running in production mode")
	} else {
		log.Printf("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
