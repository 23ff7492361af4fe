package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weathermood/internal/api/http"
	"weathermood/internal/config"
	"weathermood/internal/scheduler"
	"weathermood/internal/store"
	"weathermood/internal/timezone"
	"weathermood/internal/weather"
	"weathermood/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr := cfg.NewLogger()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Timezone lookup for resolved coordinates.
	tzResolver, err := timezone.NewResolver()
	if err != nil {
		log.Fatalf("failed to initialize timezone resolver: %v", err)
	}

	// Provider client with resilience (backoff + circuit breaker).
	owm := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, tzResolver, logr)

	var geo weather.Geocoder = owm
	var client weather.ProviderClient = owm
	if cfg.ProviderRPS > 0 {
		geo = providers.NewRateLimitedGeocoder(geo, cfg.ProviderRPS, cfg.ProviderBurst)
		client = providers.NewRateLimitedClient(client, cfg.ProviderRPS, cfg.ProviderBurst)
	}

	// In-memory store holding the latest model per query.
	memStore := store.NewMemoryStore()

	// Core service orchestrating the resolve/fetch/normalize pipeline.
	service := weather.NewService(geo, client, memStore, logr, cfg.HTTPTimeout)

	// Scheduler that periodically refreshes watched locations.
	sched := scheduler.New(cfg.WatchQueries, cfg.RefreshInterval, service, logr)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weathermood",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathermood",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logr.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logr.Error("error during shutdown", "error", err)
	}
}
