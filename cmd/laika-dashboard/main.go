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

	httpapi "github.com/avotins/laika-dashboard/internal/api/http"
	"github.com/avotins/laika-dashboard/internal/app"
	"github.com/avotins/laika-dashboard/internal/config"
	"github.com/avotins/laika-dashboard/internal/location"
	"github.com/avotins/laika-dashboard/internal/scheduler"
	"github.com/avotins/laika-dashboard/internal/store"
	"github.com/avotins/laika-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Durable settings: saved city, unit preference, location cache.
	settings, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open settings store: %v", err)
	}
	defer settings.Close()

	// Shared HTTP client for outbound provider calls. Per-request timeouts
	// come from contexts, not the client.
	httpClient := &http.Client{}

	forecast := providers.NewForecastClient(httpClient, cfg.ForecastURL, cfg.Timezone, cfg.ForecastDays, cfg.PastDays, cfg.HTTPTimeout)
	geocoder := providers.NewGeocodingClient(httpClient, cfg.GeocodingURL, cfg.Language, cfg.CountryCode, cfg.HTTPTimeout)
	ipClient := providers.NewIPClient(httpClient, cfg.IPLookupURL, cfg.HTTPTimeout)

	// No platform GPS capability in the server deployment; the resolver
	// falls through cache → IP.
	resolver := location.NewResolver(location.Config{
		Cache:       settings,
		IP:          ipClient,
		CacheMaxAge: cfg.LocationCacheMaxAge,
		GPSOptions: location.Options{
			Timeout:      cfg.GPSTimeout,
			HighAccuracy: true,
			MaxAge:       cfg.GPSMaxAge,
		},
	})

	service := app.NewService(cfg, settings, resolver, forecast, geocoder)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	if err := service.Bootstrap(bootCtx); err != nil {
		// Not fatal: the periodic refresh retries the same pipeline.
		log.Printf("ERROR: bootstrap load failed: %v", err)
	}
	bootCancel()

	sched := scheduler.New(service, cfg.SunRefreshInterval, cfg.RefreshInterval, cfg.HTTPTimeout)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	fa := fiber.New(fiber.Config{
		AppName:               "laika-dashboard",
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
	fa.Use(logger.New())
	fa.Use(recover.New())

	// Basic health endpoint
	fa.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "laika-dashboard",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(fa, service)

	go func() {
		if err := fa.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fa.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
