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

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lmt927/weather-notify/internal/analyzer"
	httpapi "github.com/lmt927/weather-notify/internal/api/http"
	"github.com/lmt927/weather-notify/internal/app"
	"github.com/lmt927/weather-notify/internal/config"
	"github.com/lmt927/weather-notify/internal/notifier"
	"github.com/lmt927/weather-notify/internal/scheduler"
	"github.com/lmt927/weather-notify/internal/store"
	"github.com/lmt927/weather-notify/internal/weather"
	"github.com/lmt927/weather-notify/internal/weather/providers"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("ERROR: failed to load config: %v", err)
		return 1
	}

	// Shared HTTP client for outbound calls (weather API, notification relay).
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider, err := buildProvider(cfg, httpClient)
	if err != nil {
		log.Printf("ERROR: failed to build forecast provider: %v", err)
		return 1
	}

	sender, err := notifier.NewFromConfig(httpClient, cfg.Notifier)
	if err != nil {
		log.Printf("ERROR: failed to build notifier: %v", err)
		return 1
	}

	fileStore := store.NewFileStore(cfg.HistoryFile, cfg.RunRecordFile)
	application := app.New(cfg, provider, fileStore, analyzer.New(cfg.Thresholds), sender)

	if !cfg.Daemon {
		// One-shot batch: fetch, analyze, persist, notify, record, exit.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := application.Run(ctx); err != nil {
			return 1
		}
		return 0
	}

	return runDaemon(cfg, application, fileStore)
}

// runDaemon keeps the process up, runs the pipeline daily at the configured
// time and serves a read-only status API.
func runDaemon(cfg *config.AppConfig, application *app.App, fileStore *store.FileStore) int {
	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("ERROR: invalid TIMEZONE %q: %v", cfg.Timezone, err)
		return 1
	}

	sched := scheduler.New(tz, cfg.NotifyAt, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := application.Run(ctx); err != nil {
			log.Printf("ERROR: scheduled run failed: %v", err)
		}
	})
	if err := sched.Start(); err != nil {
		log.Printf("ERROR: failed to start scheduler: %v", err)
		return 1
	}
	defer sched.Stop()

	fiberApp := fiber.New(fiber.Config{
		AppName:               "weather-notify",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	fiberApp.Use(logger.New())
	fiberApp.Use(recover.New())

	httpapi.RegisterRoutes(fiberApp, fileStore)

	go func() {
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: daemon mode, daily run at %s %s, status API on :%s", cfg.NotifyAt, cfg.Timezone, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}

	return 0
}

// buildProvider selects and wires the configured forecast source.
func buildProvider(cfg *config.AppConfig, client *http.Client) (weather.ForecastProvider, error) {
	switch cfg.Provider {
	case "qweather":
		return providers.NewQWeatherProvider(client, cfg.QWeatherAPIKey, cfg.QWeatherLocationID, cfg.QWeatherBaseURL), nil
	case "openmeteo":
		if cfg.LocationLat != nil && cfg.LocationLon != nil {
			return providers.NewOpenMeteoProvider(client, *cfg.LocationLat, *cfg.LocationLon), nil
		}
		lat, lon, err := providers.ResolveCoordinates(cfg.GeocoderAPIKey, cfg.LocationCity, cfg.LocationCountry)
		if err != nil {
			return nil, fmt.Errorf("resolve location: %w", err)
		}
		log.Printf("INFO: resolved %s,%s to %.4f,%.4f", cfg.LocationCity, cfg.LocationCountry, lat, lon)
		return providers.NewOpenMeteoProvider(client, lat, lon), nil
	default:
		return nil, fmt.Errorf("unknown weather provider: %s", cfg.Provider)
	}
}
