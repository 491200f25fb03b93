package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/gameassets/backend/docs"
	"github.com/gameassets/backend/internal/cache"
	"github.com/gameassets/backend/internal/config"
	"github.com/gameassets/backend/internal/database"
	"github.com/gameassets/backend/internal/handlers"
	"github.com/gameassets/backend/internal/logger"
	"github.com/gameassets/backend/internal/middleware"
	"github.com/gameassets/backend/internal/models"
	"github.com/gameassets/backend/internal/repositories"
	"github.com/gameassets/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Game Assets API
// @version 1.0
// @description Stores game sprites, audio clips and player scores in MongoDB

// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Game Assets Service")

	// Connect to database
	client, err := database.Connect(context.Background(), cfg.Database.URI, cfg.Database.OperationTimeout)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := client.Database(cfg.Database.Name)

	// Run migrations
	if err := database.RunMigrations(client, cfg.Database.Name, cfg.Migrations.Path, logger.Logger); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Leaderboard cache
	var leaderboard services.LeaderboardCache = cache.NoopLeaderboard{}
	var redisClient *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Logger.Warn("Redis unavailable, leaderboard reads will go to the database", zap.Error(err))
		}
		cancel()
		leaderboard = cache.NewRedisLeaderboard(redisClient, cfg.Redis.TTL, logger.Logger)
		logger.Logger.Info("Leaderboard cache enabled", zap.String("addr", addr))
	}

	// Initialize repositories and services
	spriteService := services.NewAssetService(
		repositories.NewAssetRepository(db, models.SpriteKind, cfg.Database.OperationTimeout, logger.Logger),
		models.SpriteKind, logger.Logger,
	)
	audioService := services.NewAssetService(
		repositories.NewAssetRepository(db, models.AudioKind, cfg.Database.OperationTimeout, logger.Logger),
		models.AudioKind, logger.Logger,
	)
	scoreService := services.NewScoreService(
		repositories.NewScoreRepository(db, cfg.Database.OperationTimeout, logger.Logger),
		leaderboard, logger.Logger,
	)

	// Initialize handlers
	rootHandler := handlers.NewRootHandler(cfg.Database.Name, logger.Logger)
	spriteHandler := handlers.NewAssetHandler(spriteService, logger.Logger)
	audioHandler := handlers.NewAssetHandler(audioService, logger.Logger)
	scoreHandler := handlers.NewScoreHandler(scoreService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.MaxUploadBytes()))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	rootHandler.RegisterRoutes(r)
	spriteHandler.RegisterRoutes(r)
	audioHandler.RegisterRoutes(r)
	scoreHandler.RegisterRoutes(r)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second, // Longer timeout for file uploads
		WriteTimeout: 30 * time.Second + cfg.Database.OperationTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Logger.Error("Failed to disconnect from database", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
