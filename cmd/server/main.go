package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/config"
	"github.com/tasksync/tasksync-api/internal/constants"
	"github.com/tasksync/tasksync-api/internal/database"
	"github.com/tasksync/tasksync-api/internal/handlers"
	"github.com/tasksync/tasksync-api/internal/logger"
	"github.com/tasksync/tasksync-api/internal/middleware"
	"github.com/tasksync/tasksync-api/internal/notify"
	"github.com/tasksync/tasksync-api/internal/repository"
	"github.com/tasksync/tasksync-api/internal/services"
	"github.com/tasksync/tasksync-api/internal/watch"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, cleanup := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer cleanup()

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
	r := gin.New()
	r.Use(ginzap.Ginzap(zl, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(zl, true))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Services
	scheduler := notify.NewLogScheduler(zl)
	authService := services.NewAuthService(userRepo)
	reminderService := services.NewReminderService(reminderRepo, scheduler, zl)
	taskService := services.NewTaskService(taskRepo, reminderService)
	lifelineService := services.NewLifelineService(userRepo, taskRepo, zl)
	sweepService := services.NewSweepService(userRepo, taskRepo, lifelineService, reminderService, zl)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(authService, taskService, lifelineService, reminderService)
	userHandler := handlers.NewUserHandler(authService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskSync API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", middleware.RequireAdmin(), taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTask(), taskHandler.GetTask)
			tasks.POST("/:id/assign", middleware.RequireTask(), taskHandler.AssignTask)
			tasks.POST("/:id/complete", middleware.RequireTask(), taskHandler.CompleteTask)
		}
	}

	// Background evaluation passes, standing in for live-query snapshots.
	watcher := watch.New(sweepService, cfg.PollInterval, zl)
	watcher.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		watcher.Stop()
		os.Exit(0)
	}()

	// Start server
	zl.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
