package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/pkg/logger"
)

func main() {
	path := flag.String("file", "fixtures/catalog.yaml", "YAML file with ingredients and tags")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel})

	db, err := database.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationDir); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	f, err := os.Open(*path)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open catalog fixture")
	}
	defer f.Close()

	fixture, err := service.ParseCatalogFixture(f)
	if err != nil {
		logrus.WithError(err).Fatal("invalid catalog fixture")
	}

	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, catalog cache will not be invalidated")
		cache = nil
	}

	tags, ingredients, err := service.NewCatalogService(db, cache).Import(context.Background(), fixture)
	if err != nil {
		logrus.WithError(err).Fatal("failed to import catalog")
	}

	logrus.WithFields(logrus.Fields{
		"file":        *path,
		"tags":        tags,
		"ingredients": ingredients,
	}).Info("catalog seeded")
}
