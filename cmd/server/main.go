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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/courtside-ai-go/internal/api"
	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/enrichment"
	"github.com/courtside/courtside-ai-go/internal/logging"
	"github.com/courtside/courtside-ai-go/internal/resolver"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/courtside/courtside-ai-go/internal/telemetry"
)

func main() {
	// Load .env if present; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close Redis client")
		}
	}()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	cancelPing()

	statsClient := statsapi.NewClient(&cfg.StatsAPI, logger)
	resultCache := resolver.NewResultCache(redisClient, logger)
	res := resolver.New(statsClient, resultCache, cfg.Cache, logger)

	manager := controller.NewManager(res, cfg.Analysis, cfg.Session, logger)
	manager.StartSweeper(time.Minute)
	defer manager.Close()

	enrich := enrichment.New(statsClient, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.RequestLogger(logger))

	api.SetupRoutes(router, api.Deps{
		Manager:    manager,
		Enrichment: enrich,
		Redis:      redisClient,
		Config:     cfg,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
