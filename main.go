// main.go
package main

import (
	"log"
	"os"
	"time"

	"hackportal/database"
	"hackportal/handlers"
	"hackportal/middleware"
	"hackportal/models"
	"hackportal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database (owned here, injected everywhere else)
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	qrDir := getEnv("QR_DIR", "./public/qrcodes")
	baseURL := getEnv("PORTAL_BASE_URL", "http://localhost:3000")
	qrService, err := services.NewQRService(db, qrDir, baseURL)
	if err != nil {
		log.Fatalf("Failed to initialize QR service: %v", err)
	}

	handlers.Init(db, qrService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// Generated QR images
	app.Static("/qrcodes", qrDir)

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/logout", handlers.Logout)
	authGroup.Get("/me", middleware.AuthMiddleware, handlers.Me)

	// Check-in (any authenticated staff account)
	api.Post("/checkin", middleware.AuthMiddleware, handlers.Checkin)

	// Team registry
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	api.Get("/teams", middleware.AuthMiddleware, handlers.GetTeams)
	api.Get("/teams/export", middleware.AuthMiddleware, requireAdmin, handlers.ExportTeams)
	// Public: the ticket page loads its own team record by ID
	api.Get("/teams/:id", handlers.GetTeam)
	api.Post("/teams", middleware.AuthMiddleware, requireAdmin, handlers.CreateTeam)
	api.Put("/teams", middleware.AuthMiddleware, requireAdmin, handlers.UpdateTeam)
	api.Delete("/teams", middleware.AuthMiddleware, requireAdmin, handlers.WipeTeams)
	api.Delete("/teams/:id", middleware.AuthMiddleware, requireAdmin, handlers.DeleteTeam)

	// Admin batch + analytics
	api.Post("/admin/generate-qr", middleware.AuthMiddleware, requireAdmin, handlers.GenerateQRCodes)
	api.Get("/analytics", middleware.AuthMiddleware, requireAdmin, handlers.GetAnalytics)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
