package weather

import (
	"context"
	"errors"
)

var (
	// ErrCityNotFound is returned when the upstream has no match for a city name.
	ErrCityNotFound = errors.New("city not found")

	// ErrUpstream wraps every other provider failure: transport errors,
	// non-2xx responses, an open circuit or an undecodable payload.
	ErrUpstream = errors.New("weather provider failure")
)

// Provider abstracts the upstream weather API (OpenWeatherMap).
type Provider interface {
	Name() string
	CurrentByCity(ctx context.Context, city string) (CurrentConditions, error)
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (CurrentConditions, error)

	// Forecast returns chronologically ordered 3-hour samples.
	Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error)

	SuggestCities(ctx context.Context, query string, limit int) ([]string, error)
}

// AirQualityFetcher is implemented by providers that expose a real air
// quality index on the 1 (best) to 5 scale.
type AirQualityFetcher interface {
	AirQuality(ctx context.Context, lat, lon float64) (int, error)
}

