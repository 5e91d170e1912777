package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mwasonga/customer-console/internal/cache"
	"github.com/mwasonga/customer-console/internal/config"
	"github.com/mwasonga/customer-console/internal/db"
	"github.com/mwasonga/customer-console/internal/handler"
	"github.com/mwasonga/customer-console/internal/repository"
	"github.com/mwasonga/customer-console/internal/service"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting customer accounts API server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to the Redis list cache. The API degrades to uncached
	// reads if Redis is down, so this failure is not fatal.
	listCache, err := cache.NewRedisCache(cache.RedisConfig{
		URL: cfg.Cache.RedisURL,
		Key: cfg.Cache.Key,
		TTL: cfg.Cache.TTL,
	}, logger)
	if err != nil {
		logger.Warn("list cache unavailable, continuing without it", slog.String("error", err.Error()))
		listCache = nil
	} else {
		defer listCache.Close()
	}

	// Initialize layers
	accountRepo := repository.NewAccountRepository(database.DB)
	accountSvc := service.NewAccountService(accountRepo, listCache, logger)

	accountHandler := handler.NewAccountHandler(accountSvc, logger)
	healthHandler := handler.NewHealthHandler(database.DB, listCache, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)

	r.Get("/health", healthHandler.Health)
	r.Route("/customer-accounts", accountHandler.Routes)

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
