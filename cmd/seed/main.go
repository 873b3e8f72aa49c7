package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/inkle/inkle-api/internal/config"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/logger"
)

// seed creates the owner account from OWNER_NAME, OWNER_EMAIL and
// OWNER_PASSWORD. Running it again promotes the existing account instead.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	activityService := services.NewActivityService(db, nil, cfg.Activity.FeedLimit, cfg.Activity.CacheTTL, logger)
	accountService := services.NewAccountService(db, activityService, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	owner, err := accountService.EnsureOwner(ctx, &services.RegisterRequest{
		Name:     os.Getenv("OWNER_NAME"),
		Email:    os.Getenv("OWNER_EMAIL"),
		Password: os.Getenv("OWNER_PASSWORD"),
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create owner")
	}

	logger.WithField("user_id", owner.ID).Info("Owner account ready")
}
