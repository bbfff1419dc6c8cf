package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"shortr-be/internal/cache"
	"shortr-be/internal/config"
	"shortr-be/internal/controllers"
	"shortr-be/internal/database"
	"shortr-be/internal/jwt"
	"shortr-be/internal/liveness"
	"shortr-be/internal/middleware"
	"shortr-be/internal/repository"
	"shortr-be/internal/service"
	"shortr-be/internal/shortcode"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis cache (optional - continue without it)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Println("Connected to Redis cache")
		}
	}

	// Initialize repositories
	urlRepo := repository.NewURLRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLHours)*time.Hour,
	)

	// Initialize services
	checker := liveness.NewChecker(time.Duration(cfg.LivenessTimeout) * time.Second)
	generator := shortcode.NewGenerator()
	urlService := service.NewURLService(urlRepo, checker, generator, cacheClient, cfg.BaseURL)
	authService := service.NewAuthService(userRepo, urlRepo, jwtService)

	// Initialize controllers
	shortenerController := controllers.NewShortenerController(urlService)
	authController := controllers.NewAuthController(authService)
	qrcodeController := controllers.NewQRCodeController(urlService)

	// Create a Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Public redirect endpoint
	router.GET("/r/:shortCode", shortenerController.RedirectToURL)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.GET("/profile", middleware.AuthMiddleware(jwtService), authController.GetProfile)
			auth.GET("/check", middleware.AuthMiddleware(jwtService), authController.CheckAuth)
		}

		url := api.Group("/url")
		{
			// Creation requires a signed-in owner; the service layer itself
			// tolerates anonymous rows.
			url.POST("/shorten", middleware.AuthMiddleware(jwtService), shortenerController.CreateShortURL)

			url.GET("/stats/:shortCode", shortenerController.GetURLStats)
			url.GET("/all", middleware.OptionalAuthMiddleware(jwtService), shortenerController.GetAllURLs)
			url.DELETE("/:shortCode", middleware.OptionalAuthMiddleware(jwtService), shortenerController.DeleteURL)
			url.GET("/qrcode/:shortCode", qrcodeController.GenerateQRCode)
		}
	}

	log.Printf("Server starting on http://localhost:%s", cfg.Port)
	router.Run(":" + cfg.Port)
}
