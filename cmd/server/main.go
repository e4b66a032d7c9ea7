// Package main is the entry point for the code review server.
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

	"github.com/ericfisherdev/codereview/internal/api"
	"github.com/ericfisherdev/codereview/internal/api/middleware"
	"github.com/ericfisherdev/codereview/internal/config"
	"github.com/ericfisherdev/codereview/internal/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := config.LoadEnvFiles("."); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.UsesDefaultSecret() {
		logger.Warn("SESSION_SECRET is not set, using the insecure default")
	}

	rateLimiter, err := middleware.NewRateLimitManager(ctx, middleware.RateLimitConfig{
		Requests:      cfg.GetRateLimitRequests(),
		Window:        cfg.GetRateLimitWindow(),
		UseRedis:      cfg.GetRedisAddr() != "",
		RedisAddr:     cfg.GetRedisAddr(),
		RedisPassword: cfg.GetRedisPassword(),
		RedisDB:       cfg.GetRedisDB(),
	})
	if err != nil {
		return fmt.Errorf("rate limiter setup: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Server:      cfg,
		Logger:      logger,
		OAuth:       services.NewOAuthService(cfg),
		Sessions:    services.NewSessionService(cfg),
		Reviews:     services.NewReviewService(cfg),
		GitHub:      services.NewGitHubService(cfg),
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.GetServerPort(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("environment", cfg.GetEnvironment()),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
