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

	httpapi "github.com/glasscast/weathercore/internal/api/http"
	"github.com/glasscast/weathercore/internal/config"
	"github.com/glasscast/weathercore/internal/location"
	"github.com/glasscast/weathercore/internal/scheduler"
	"github.com/glasscast/weathercore/internal/store"
	"github.com/glasscast/weathercore/internal/weather"
	"github.com/glasscast/weathercore/internal/weather/providers"
	"github.com/glasscast/weathercore/internal/weather/resilience"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Base fetch client for the configured provider schema.
	var base weather.Client
	switch cfg.Provider {
	case config.ProviderOpenWeather:
		base = providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, cfg.ForecastDays)
	default:
		base = providers.NewWeatherAPIClient(httpClient, cfg.WeatherAPIKey, cfg.ForecastDays)
	}

	// Decorator stack, innermost first: breaker guards the provider,
	// rate limit throttles outbound calls, retry handles transient
	// network failures, cache sits outermost so hits skip everything.
	var client weather.Client = resilience.NewBreakerClient(base, cfg.Provider)
	client = resilience.NewRateLimitedClient(client, cfg.RateLimitRPS, cfg.RateLimitBurst)
	client = resilience.NewRetryClient(client, resilience.Policy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
	})
	client = weather.NewCachedClient(client, cfg.CacheTTL)

	// In-memory favorites, owned here rather than by the view layer.
	favorites := store.NewFavorites()

	// Device location bridge, wired only when a coordinate source is
	// configured.
	var bridge *location.Bridge
	if cfg.DeviceLat != nil && cfg.DeviceLon != nil {
		device := location.NewStaticSource(*cfg.DeviceLat, *cfg.DeviceLon)
		geo := location.NewGoogleGeocoder(cfg.GeocoderAPIKey)
		bridge = location.NewBridge(device, geo)
	}

	// Scheduler keeping the cache warm for favorited locations.
	refresher := scheduler.New(client, favorites, cfg.RefreshInterval)
	if err := refresher.Start(); err != nil {
		log.Fatalf("failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weathercore",
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
			"service": "weathercore",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, client, bridge, favorites)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
