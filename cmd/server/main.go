// Schedule file validation service - Server Entry Point
//
// Loads configuration and the validation policy, then serves the upload
// validation API over HTTP.
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
	"github.com/joho/godotenv"
	"github.com/schedcheck/internal/config"
	"github.com/schedcheck/internal/handler"
	"github.com/schedcheck/internal/logger"
	"github.com/schedcheck/internal/policy"
	"github.com/schedcheck/internal/service"
	"github.com/schedcheck/pkg/sanitizer"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	isDev := os.Getenv("GIN_MODE") != "release"

	zapLogger, err := logger.New(isDev)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting schedule validation service",
		zap.Bool("development", isDev),
	)

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	pol, err := policy.Load(cfg.Validation.PolicyFile)
	if err != nil {
		zapLogger.Fatal("failed to load policy", zap.Error(err), zap.String("policy_file", cfg.Validation.PolicyFile))
	}

	zapLogger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.Int64("max_upload_size", cfg.Server.MaxUploadSize),
		zap.String("policy_file", cfg.Validation.PolicyFile),
		zap.Bool("parallel_stages", cfg.Validation.ParallelStages),
		zap.Int("universities", len(pol.Universities)),
	)

	validator := service.NewValidator(
		pol,
		sanitizer.New(cfg.Validation.MaxDecodeSize),
		service.ValidatorConfig{
			Parallel:    cfg.Validation.ParallelStages,
			SampleLines: cfg.Validation.SampleLines,
		},
		zapLogger,
	)

	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(validator, pol, cfg.Server.MaxUploadSize, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}
