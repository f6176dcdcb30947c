package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/auth"
	"github.com/mfcastro/task-manager-api/internal/config"
	"github.com/mfcastro/task-manager-api/internal/database"
	"github.com/mfcastro/task-manager-api/internal/handlers"
	"github.com/mfcastro/task-manager-api/internal/middleware"
	"github.com/mfcastro/task-manager-api/internal/repository"
	"github.com/mfcastro/task-manager-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// The frontend is served from a separate origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Wire repositories, services and handlers
	taskRepo := repository.NewTaskRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	taskService := services.NewTaskService(taskRepo)
	authService := services.NewAuthService(userRepo)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(authService, taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
			authRoutes.POST("/refresh", middleware.RequireAuth(tokens), authHandler.Refresh)
		}

		// User routes; check-email stays public so the signup form can
		// validate before an account exists
		users := api.Group("/users")
		{
			users.GET("/profile", middleware.RequireAuth(tokens), userHandler.Profile)
			users.GET("/check-email/:email", userHandler.CheckEmail)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stats", taskHandler.Stats)
			tasks.GET("/categories", taskHandler.Categories)
			tasks.GET("/overdue", taskHandler.Overdue)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/toggle", taskHandler.ToggleTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
