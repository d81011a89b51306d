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
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/config"
	"github.com/yashrajoria/storefront/mockapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := mockapi.New(mockapi.Config{
		JWTSecret:      cfg.JWTSecret,
		AdminEmail:     cfg.AdminEmail,
		AdminPassword:  cfg.AdminPassword,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      rate.Limit(20),
		RateBurst:      50,
		Logger:         logger.Log,
	})
	if err != nil {
		logger.Log.Fatal("failed to create mock backend", zap.Error(err))
	}
	if err := server.SeedDemoCatalog(); err != nil {
		logger.Log.Fatal("failed to seed demo catalog", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.MockAPIAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Info("mock backend listening",
			zap.String("addr", cfg.MockAPIAddr),
			zap.String("admin_email", cfg.AdminEmail))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
	logger.Log.Info("server shutdown complete")
}
