// Package main is the entry point for the Shortly URL shortener backend.
package main

import (
	"Shortly-Backend/internal/auth"
	"Shortly-Backend/internal/cache"
	"Shortly-Backend/internal/config"
	"Shortly-Backend/internal/database"
	httpHandler "Shortly-Backend/internal/handler/http"
	"Shortly-Backend/internal/repository/postgres"
	"Shortly-Backend/internal/service"
	"Shortly-Backend/pkg/logger"
	"Shortly-Backend/pkg/useragent"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting Shortly backend")

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	storage := postgres.New(db, log)

	// Optional resolution cache
	var linkCache service.LinkCache
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis connection", zap.Error(err))
			}
		}()

		cacheTTL := cfg.URLShortener.LinkTTL
		if cacheTTL > time.Hour {
			cacheTTL = time.Hour
		}
		linkCache = cache.New(redisClient, cacheTTL, log)
		log.Info("resolution cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	urlShortener := service.NewURLShortener(storage, &cfg.URLShortener)
	resolver := service.NewResolver(storage, linkCache, log)
	cleanup := service.NewCleanup(storage, cfg.URLShortener.LinkTTL, cfg.URLShortener.SweepInterval, log)

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey: []byte(cfg.Auth.Secret),
		TokenTTL:  cfg.Auth.TokenTTL,
		Issuer:    cfg.Auth.Issuer,
	})
	passwordService := auth.NewPasswordServiceWithCost(cfg.Auth.BcryptCost)
	uaParser := useragent.New(log)

	server := httpHandler.NewServer(
		storage,
		urlShortener,
		resolver,
		jwtService,
		passwordService,
		uaParser,
		log,
		cfg.URLShortener.BaseURL,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      server.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// Background TTL sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go cleanup.Run(sweepCtx)

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down Shortly backend...")

	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}
