package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sniplink/snip/pkg/snip/admin"
	"github.com/sniplink/snip/pkg/snip/auth"
	"github.com/sniplink/snip/pkg/snip/clicks"
	"github.com/sniplink/snip/pkg/snip/database"
	"github.com/sniplink/snip/pkg/snip/links"
	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/redirect"
	"github.com/sniplink/snip/pkg/snip/shortid"
	"github.com/sniplink/snip/pkg/snip/store"
	"go.uber.org/zap"
)

// @title Snip API
// @version 1.0
// @description A URL shortener with per-click analytics.

// @license.name MIT

// @host localhost:8080

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Get database path from environment or use default
	dbPath := os.Getenv("SNIP_DB_PATH")
	if dbPath == "" {
		dbPath = "snip.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Create default admin user if no admin exists
	if err := ensureAdminExists(); err != nil {
		logger.Fatal("Failed to ensure admin user exists", zap.Error(err))
	}

	// Core components
	db := database.GetDB()
	linkStore := store.NewLinkStore(db, shortid.New())
	clickRecorder := store.NewClickRecorder(db, linkStore, logger)

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Admin routes (JWT, admin flag required)
		adminHandler := admin.NewHandler(db, linkStore)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		adminHandler.RegisterRoutes(adminGroup)
	}

	// Link management and click history live at the root, matching the
	// short-URL scheme (/create, /edit/:id, /clicks/url/:id, ...)
	authed := r.Group("", auth.AuthMiddleware())
	{
		linksHandler := links.NewHandler(linkStore)
		linksHandler.RegisterRoutes(authed)

		clicksHandler := clicks.NewHandler(clickRecorder)
		clicksHandler.RegisterRoutes(authed)
	}

	// Redirect route (public, must be registered LAST to avoid conflicts)
	redirectHandler := redirect.NewHandler(linkStore, clickRecorder, logger)
	redirectHandler.RegisterRoutes(r)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting snip server", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// ensureAdminExists creates a default admin user if no admin exists in
// the database.
func ensureAdminExists() error {
	db := database.GetDB()

	// Check if any admin user exists
	var count int64
	if err := db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Create default admin user
	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        "admin@snip.local",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: admin@snip.local (password: changeme)")
	return nil
}
