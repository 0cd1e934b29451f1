package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init("foodgram-api", config.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return err
	}

	store, mediaDir, err := newImageStore(cfg)
	if err != nil {
		return err
	}

	images := service.NewImageService(store)
	users := service.NewUserService(db, images)
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret, cfg.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := router.SetupRouter(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		MediaDir:    mediaDir,
		Registry:    registry,
		Services: api.Services{
			Auth:                  authService,
			Users:                 users,
			Recipes:               service.NewRecipeService(db, images, users),
			Catalog:               service.NewCatalogService(db),
			Health:                healthCheck(db),
			RecipeCreationLimiter: middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit),
		},
	})

	srv := server.New(cfg, engine)
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		logger.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Logger.Info().Msg("server stopped")
	return nil
}

// newImageStore returns the configured store and, for the local driver, the
// directory to serve under /media.
func newImageStore(cfg *config.Config) (storage.ImageStore, string, error) {
	if cfg.StorageDriver == "s3" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Store(s3cfg), "", nil
	}
	store, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaURL)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.MediaDir, nil
}

func healthCheck(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	}
}
