package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxAgeDays: cfg.LogMaxAgeDays,
		MaxBackups: cfg.LogMaxBackups,
	})
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationDir); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, running without cache and rate limits")
		cache = nil
	}

	ctx := context.Background()
	store, err := newMediaStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize media store")
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	images := service.NewImageService(store)
	memberships := service.NewMembershipService(db)

	handler := router.SetupRouter(router.Dependencies{
		DB:             db,
		Auth:           auth,
		Recipes:        service.NewRecipeService(db, images, memberships),
		Memberships:    memberships,
		Shopping:       service.NewShoppingListService(db),
		Catalog:        service.NewCatalogService(db, cache),
		Images:         images,
		Limiter:        middleware.NewRecipeCreationRateLimiter(cache, cfg.RecipeCreateLimit),
		AllowedOrigins: cfg.AllowedOrigins,
		MediaBaseURL:   cfg.MediaBaseURL,
	})

	srv := server.New(cfg, handler)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logrus.WithError(err).Fatal("server error")
		}
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("received signal")
	}

	logrus.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.WithError(err).Fatal("server shutdown error")
	}
	if cache != nil {
		_ = cache.Close()
	}
	logrus.Info("server stopped")
}

func newMediaStore(ctx context.Context, cfg *config.Config) (service.MediaStore, error) {
	if cfg.MediaDriver == "s3" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s3Config.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return service.NewS3MediaStore(s3Config), nil
	}
	return service.NewLocalMediaStore(cfg.MediaDir, cfg.MediaBaseURL), nil
}
