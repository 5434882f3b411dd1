package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"bothub-api/config"
	"bothub-api/handlers"
	"bothub-api/helper"
	"bothub-api/middleware"
	"bothub-api/repositories"
	"bothub-api/services"
	"bothub-api/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	// Initialize database
	db := config.InitDB()

	// Blob storage collaborator
	blobs, err := storage.NewS3Store(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to initialize blob storage")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	botRepo := repositories.NewBotRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	botService := services.NewBotService(botRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo)

	// Initialize handlers
	httpHelper := helper.NewHTTPHelper()
	authHandler := handlers.NewAuthHandler(authService, httpHelper)
	botHandler := handlers.NewBotHandler(botService, httpHelper)
	ratingHandler := handlers.NewRatingHandler(ratingService, httpHelper)
	uploadHandler := handlers.NewUploadHandler(blobs, httpHelper)

	// Setup router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public catalog
		v1.GET("/bots", botHandler.ListBots)
		v1.GET("/bots/:id", botHandler.GetBot)

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.DELETE("/profile", authHandler.DeleteAccount)

			// Bots
			protected.POST("/bots", botHandler.CreateBot)
			protected.GET("/my-bots", botHandler.GetMyBots)
			protected.DELETE("/bots/:id", botHandler.DeleteBot)

			// Ratings
			protected.POST("/ratings", ratingHandler.SubmitRating)

			// Uploads
			protected.POST("/uploads", uploadHandler.Upload)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Info("server starting")
	log.Fatal(http.ListenAndServe(":"+port, router))
}
