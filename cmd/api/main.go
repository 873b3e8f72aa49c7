package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkle/inkle-api/internal/config"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/internal/server"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/cache"
	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/inkle/inkle-api/pkg/queue"
	_ "go.uber.org/automaxprocs"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.Info("Starting Inkle API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	var feedCache services.FeedCache
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(
			cfg.Redis.Addr(),
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			cfg.Redis.MinIdleConns,
		)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()); err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		feedCache = redisClient
	}

	var producer queue.Publisher = queue.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.SocialEvents)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	activityService := services.NewActivityService(db, feedCache, cfg.Activity.FeedLimit, cfg.Activity.CacheTTL, logger)
	accountService := services.NewAccountService(db, activityService, producer, logger)
	graphService := services.NewGraphService(db, activityService, producer, logger)
	postService := services.NewPostService(db, activityService, producer, logger)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Deps{
		DB:        db,
		Accounts:  accountService,
		Graph:     graphService,
		Posts:     postService,
		Activity:  activityService,
		JWTSecret: cfg.JWT.Secret,
		TokenTTL:  cfg.JWT.ExpireTime,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
