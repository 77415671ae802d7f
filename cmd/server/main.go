// cmd/server/main.go
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

	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/events"
	"github.com/lacra/agritrace-backend/internal/i18n"
	"github.com/lacra/agritrace-backend/internal/middleware"
	"github.com/lacra/agritrace-backend/internal/router"
	"github.com/lacra/agritrace-backend/internal/sequence"
	"github.com/lacra/agritrace-backend/internal/storage"
	"github.com/lacra/agritrace-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logFormat := cfg.Server.LogFormat
	if cfg.Environment == "production" {
		logFormat = "json"
	}
	utils.ConfigureLogger(cfg.Server.LogLevel, logFormat)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	var rdb *redis.Client
	if cfg.Sequence.Backend == "redis" {
		rdb, err = database.ConnectRedis(cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to redis")
		}
		defer rdb.Close()
	}

	alloc, err := sequence.NewAllocator(cfg.Sequence, db, rdb)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create sequence allocator")
	}
	policy, err := sequence.ParsePolicy(cfg.Sequence.OverflowPolicy)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid overflow policy")
	}
	logrus.WithFields(logrus.Fields{
		"backend": cfg.Sequence.Backend,
		"policy":  policy,
	}).Info("Sequence allocator ready")

	store, err := storage.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize label storage")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := events.NewHub()
	go hub.Run(ctx)

	publishers := events.Fanout{hub}
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publishers = append(publishers, kafkaPublisher)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Initialize(router.Dependencies{
		DB:        db,
		Config:    cfg,
		Issuer:    sequence.NewIssuer(alloc, policy),
		Store:     store,
		Publisher: publishers,
		Hub:       hub,
		Limiter:   limiter,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	// Stop the hub and limiter, then drain pending event deliveries.
	stop()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close kafka publisher")
		}
	}

	logrus.Info("Server exited")
}
