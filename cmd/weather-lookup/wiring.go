package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/history"
	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

// bootstrap loads configuration and builds the logger, reporting any
// configuration warnings through it.
func bootstrap() (*config.AppConfig, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}
	return cfg, log, nil
}

func newWeatherService(cfg *config.AppConfig, log *zap.SugaredLogger) *weather.Service {
	// Transport defaults; no timeout override.
	provider := providers.NewOpenWeatherProvider(&http.Client{}, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)

	var supplements weather.SupplementalSource = weather.NewRandomSupplements(cfg.DisplayLocation, nil)
	if cfg.AirQualitySource == config.AirQualityOpenWeather {
		supplements = weather.NewAirQualityOverlay(provider, supplements, log)
	}

	return weather.NewService(provider, supplements, cfg.DisplayLocation, log)
}

// openHistoryStore builds the configured backend. Connection problems are not
// reported here; see the startup ping in runServer.
func openHistoryStore(ctx context.Context, cfg *config.AppConfig) (history.Store, error) {
	switch cfg.HistoryBackend {
	case config.BackendPostgres:
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.BackendRedis:
		return store.NewRedisStore(cfg.RedisURL)
	default:
		return store.NewMemoryStore(), nil
	}
}
