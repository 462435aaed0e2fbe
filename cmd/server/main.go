package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/api"
	"github.com/MatthewCrocker7/bestball-backend/internal/api/handlers"
	"github.com/MatthewCrocker7/bestball-backend/internal/api/middleware"
	"github.com/MatthewCrocker7/bestball-backend/internal/providers"
	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
	"github.com/MatthewCrocker7/bestball-backend/internal/services"
	"github.com/MatthewCrocker7/bestball-backend/pkg/config"
	"github.com/MatthewCrocker7/bestball-backend/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	breaker := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, 60*time.Second, logger)

	keys, err := providers.NewAPIKeyPool(cfg.SportradarAPIKeys)
	if err != nil {
		logrus.Fatalf("Failed to build API key pool: %v", err)
	}
	client := providers.NewSportradarClient(keys, providers.ClientOptions{
		BaseURL:       cfg.SportradarBaseURL,
		Timeout:       cfg.ExternalAPITimeout,
		RequestRate:   cfg.APIRequestRate,
		RetryAttempts: cfg.APIRetryAttempts,
		RetryBackoff:  cfg.APIRetryBackoff,
	}, logger)

	pgaRepo := repository.NewPgaRepository(db.DB)
	gameRepo := repository.NewGameRepository(db.DB, cacheService, logger)

	pgaUpdate := services.NewPgaUpdateService(client, pgaRepo, breaker, logger)
	gameSync := services.NewGameSyncService(gameRepo, pgaRepo, logger)
	manager := services.NewGameManagerService(gameRepo, pgaRepo, cfg.PotFeeMultiplier, logger)

	scheduler := services.NewUpdateScheduler(pgaUpdate, gameSync, breaker, cfg, logger)
	if err := scheduler.Start(); err != nil {
		logrus.Fatalf("Failed to start update scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db, cacheService)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, manager, pgaRepo, scheduler, breaker, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
