package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/merry-weather/internal/api/http"
	"github.com/i474232898/merry-weather/internal/config"
	"github.com/i474232898/merry-weather/internal/logging"
	"github.com/i474232898/merry-weather/internal/scheduler"
	"github.com/i474232898/merry-weather/internal/store"
	"github.com/i474232898/merry-weather/internal/telemetry"
	"github.com/i474232898/merry-weather/internal/weather"
	"github.com/i474232898/merry-weather/internal/weather/providers"
)

const serviceName = "merry-weather"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "console")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	shutdownTracing, err := telemetry.Setup(serviceName, cfg.TraceExporter, cfg.ZipkinURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}

	// Process-wide cache shared by geocoding and weather lookups.
	cache := store.NewMemoryStore(store.WithLogger(log.With().Str("component", "cache").Logger()))

	sweeper := scheduler.New(cache, cfg.CheckPeriod(), log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start cache sweep")
	}
	defer sweeper.Stop()

	app := newApp(cfg, cache, log)

	port := cfg.Port

	go func() {
		log.Info().Str("port", port).Msg("server listening")
		if err := app.Listen(":" + port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error flushing traces")
	}
}

// newApp wires the providers, resolver and service into a Fiber app.
func newApp(cfg *config.AppConfig, cache *store.MemoryStore, log zerolog.Logger) *fiber.App {
	// Shared HTTP client for outbound provider calls; its timeout bounds every upstream call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	resolver := weather.NewResolver(
		providers.NewOpenMeteoGeocoder(httpClient, cfg.GeocodingURL, cfg.GeocodingLanguage),
		providers.NewNominatimProvider(httpClient, cfg.ReverseURL, cfg.UserAgent, cfg.ReverseLanguage),
		cache,
		cfg.GeocodingTTL(),
		log,
	)

	service := weather.NewService(
		cache,
		resolver,
		providers.NewOpenMeteoProvider(httpClient, cfg.ForecastURL),
		weather.Config{
			WeatherTTL:   cfg.WeatherTTL(),
			GeocodingTTL: cfg.GeocodingTTL(),
			Coalesce:     cfg.CoalesceRequests,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${method} ${path} - ${status} (${latency})\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"message":   "Weather API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	httpapi.RegisterRoutes(app, service, cache, log)
	app.Use(httpapi.NotFoundHandler)

	return app
}
