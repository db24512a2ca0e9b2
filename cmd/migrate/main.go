package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/pkg/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR or ./migrations)")
	flag.Parse()

	logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL")})

	db, migrationsDir, err := connect(*dir)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if *rollback {
		name, err := db.Rollback(ctx, migrationsDir)
		if errors.Is(err, database.ErrNoMigrations) {
			logrus.Info("no migrations to rollback")
			return
		}
		if err != nil {
			logrus.WithError(err).Fatal("rollback failed")
		}
		logrus.WithField("migration", name).Info("successfully rolled back migration")
		return
	}

	applied, err := db.Migrate(ctx, migrationsDir)
	if err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}
	logrus.WithField("applied", len(applied)).Info("all migrations applied successfully")
}

// connect prefers DATABASE_URL and falls back to the application config
func connect(dir string) (*database.DB, string, error) {
	if dir == "" {
		dir = os.Getenv("MIGRATIONS_DIR")
	}
	if dir == "" {
		dir = "migrations"
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := database.Connect(url)
		return db, dir, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, "", err
	}
	db, err := database.New(cfg)
	return db, dir, err
}
