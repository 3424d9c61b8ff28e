package main

// @title Place Directory API
// @version 1.0.0
// @description Community directory of accessible places. Users submit locations with postal addresses that are geocoded and validated on save, tag them with accessibility features, review them and bookmark favorites. Queries rank results by distance from a reference point.

// @contact.name API Support
// @contact.email support@place-directory.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/place-directory/docs/swagger"
	"github.com/place-directory/internal/config"
	httpDelivery "github.com/place-directory/internal/delivery/http"
	"github.com/place-directory/internal/delivery/http/handler"
	"github.com/place-directory/internal/infrastructure/nominatim"
	"github.com/place-directory/internal/infrastructure/profanity"
	"github.com/place-directory/internal/pkg/logger"
	"github.com/place-directory/internal/repository/cache"
	"github.com/place-directory/internal/repository/postgres"
	"github.com/place-directory/internal/repository/storage"
	"github.com/place-directory/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Place Directory")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL and run migrations
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Migrations applied")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Connect to blob storage
	blobStorage, err := storage.NewMinioStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to connect to blob storage", zap.Error(err))
	}
	log.Info("Blob storage connected")

	// 6. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 7. Initialize repositories
	locationRepo := postgres.NewLocationRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	userRepo := postgres.NewUserRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	featureRepo := postgres.NewFeatureRepository(db)
	pictureRepo := postgres.NewPictureRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	sessionRepo := cache.NewSessionRepository(redisClient)
	geocoder := nominatim.NewClient(&cfg.Geocoder, log)
	log.Info("Repositories initialized")

	// 8. Initialize use cases
	locationUC := usecase.NewLocationUseCase(
		locationRepo,
		favoriteRepo,
		reviewRepo,
		pictureRepo,
		blobStorage,
		geocoder,
		log,
		cfg.Geocoder.PrimaryCountry,
	)

	queryUC := usecase.NewQueryUseCase(
		locationRepo,
		favoriteRepo,
		log,
		cfg.Geocoder.DefaultLatitude,
		cfg.Geocoder.DefaultLongitude,
	)

	reviewUC := usecase.NewReviewUseCase(
		reviewRepo,
		locationRepo,
		profanity.NewChecker(),
		log,
	)

	userUC := usecase.NewUserUseCase(
		userRepo,
		sessionRepo,
		blobStorage,
		log,
		cfg.Session.TTL,
	)

	featureUC := usecase.NewFeatureUseCase(
		featureRepo,
		cacheRepo,
		log,
		cfg.Cache.FeaturesCacheTTL,
	)

	pictureUC := usecase.NewPictureUseCase(
		pictureRepo,
		locationRepo,
		blobStorage,
		log,
	)
	log.Info("Use cases initialized")

	// 9. Initialize HTTP handlers
	locationHandler := handler.NewLocationHandler(locationUC, queryUC, log)
	reviewHandler := handler.NewReviewHandler(reviewUC, log)
	userHandler := handler.NewUserHandler(userUC, log, cfg.Session.CookieName, cfg.Session.TTL)
	featureHandler := handler.NewFeatureHandler(featureUC, log)
	pictureHandler := handler.NewPictureHandler(pictureUC, log)
	log.Info("HTTP handlers initialized")

	// 10. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		userUC,
		locationHandler,
		reviewHandler,
		userHandler,
		featureHandler,
		pictureHandler,
	)
	log.Info("HTTP server initialized")

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
