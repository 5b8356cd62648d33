package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

// History backends.
const (
	BackendAuto     = "auto"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Air quality sources.
const (
	AirQualityRandom      = "random"
	AirQualityOpenWeather = "openweather"
)

type AppConfig struct {
	Port string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// HistoryBackend is resolved; it is never BackendAuto.
	HistoryBackend string
	DatabaseURL    string
	RedisURL       string

	// HistorySaveTimeout bounds each background history write.
	HistorySaveTimeout time.Duration

	// DisplayLocation is used for date labels, weekday and hour labels and
	// day grouping. Sunrise/sunset use the searched location's own offset.
	DisplayLocation *time.Location

	AirQualitySource string

	// HealthCheckInterval controls how often the history store is pinged.
	HealthCheckInterval time.Duration

	LogLevel  string
	LogFormat string

	// Warnings are non-fatal findings to log once a logger exists.
	Warnings []string
}

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("could not load .env file: %v", err))
	}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHERMAP_API_KEY", os.Getenv("OPENWEATHER_API_KEY"))
	if cfg.OpenWeatherAPIKey == "" {
		cfg.Warnings = append(cfg.Warnings,
			"OPENWEATHERMAP_API_KEY is not set; weather lookups will fail until it is configured")
	}
	cfg.OpenWeatherBaseURL = strings.TrimRight(
		getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL), "/")

	var err error
	if cfg.HistorySaveTimeout, err = getenvDuration("HISTORY_SAVE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.HealthCheckInterval, err = getenvDuration("HEALTH_CHECK_INTERVAL", "1m"); err != nil {
		return nil, err
	}

	if err := cfg.resolveHistoryBackend(); err != nil {
		return nil, err
	}

	cfg.DisplayLocation = time.Local
	if tz := os.Getenv("DISPLAY_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
		}
		cfg.DisplayLocation = loc
	}

	cfg.AirQualitySource = strings.ToLower(getenvDefault("AIR_QUALITY_SOURCE", AirQualityRandom))
	switch cfg.AirQualitySource {
	case AirQualityRandom, AirQualityOpenWeather:
	default:
		return nil, fmt.Errorf("invalid AIR_QUALITY_SOURCE %q: use %s or %s",
			cfg.AirQualitySource, AirQualityRandom, AirQualityOpenWeather)
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	return cfg, nil
}

// resolveHistoryBackend picks the history store. In auto mode a usable
// DATABASE_URL wins, then REDIS_URL, then memory.
func (cfg *AppConfig) resolveHistoryBackend() error {
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	if cfg.DatabaseURL != "" && common.IsPlaceholderDSN(cfg.DatabaseURL) {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_URL contains placeholder credentials; ignoring it")
		cfg.DatabaseURL = ""
	}

	backend := strings.ToLower(getenvDefault("HISTORY_BACKEND", BackendAuto))
	switch backend {
	case BackendAuto:
		switch {
		case cfg.DatabaseURL != "":
			backend = BackendPostgres
		case cfg.RedisURL != "":
			backend = BackendRedis
		default:
			backend = BackendMemory
			cfg.Warnings = append(cfg.Warnings,
				"DATABASE_URL must be set with valid credentials; using in-memory history (data will not persist between restarts)")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("HISTORY_BACKEND=postgres requires a valid DATABASE_URL")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return errors.New("HISTORY_BACKEND=redis requires REDIS_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid HISTORY_BACKEND %q", backend)
	}

	cfg.HistoryBackend = backend
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
