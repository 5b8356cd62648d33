package weather

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Service assembles normalized weather documents from a provider and a
// supplemental data source.
type Service struct {
	provider    Provider
	supplements SupplementalSource
	loc         *time.Location
	logger      *zap.SugaredLogger

	// forecasts collapses concurrent forecast fetches for the same point.
	forecasts singleflight.Group
}

// NewService creates a new Service. loc is the zone used for date labels,
// day grouping and hourly labels; nil means the server's local zone.
func NewService(provider Provider, supplements SupplementalSource, loc *time.Location, logger *zap.SugaredLogger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		provider:    provider,
		supplements: supplements,
		loc:         loc,
		logger:      logger,
	}
}

// ByCity looks up current conditions by city name, then the forecast for the
// coordinates the provider resolved.
func (s *Service) ByCity(ctx context.Context, city string) (*Document, error) {
	current, err := s.provider.CurrentByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("current conditions for %q: %w", city, err)
	}

	samples := s.forecast(ctx, current.Coord.Lat, current.Coord.Lon)
	return s.assemble(ctx, current, samples), nil
}

// ByCoordinates fetches current conditions and the forecast concurrently.
func (s *Service) ByCoordinates(ctx context.Context, lat, lon float64) (*Document, error) {
	var (
		current CurrentConditions
		samples []ForecastSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.provider.CurrentByCoordinates(gctx, lat, lon)
		return err
	})
	g.Go(func() error {
		samples = s.forecast(gctx, lat, lon)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("current conditions for %f,%f: %w", lat, lon, err)
	}

	return s.assemble(ctx, current, samples), nil
}

// forecast fetches the 3-hour samples once. A failure is logged and yields
// no samples so the document degrades instead of failing.
//
// The shared fetch runs detached from any one caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (s *Service) forecast(ctx context.Context, lat, lon float64) []ForecastSample {
	key := strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)

	shared := context.WithoutCancel(ctx)
	ch := s.forecasts.DoChan(key, func() (any, error) {
		return s.provider.Forecast(shared, lat, lon)
	})

	var (
		v   any
		err error
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		v, err = res.Val, res.Err
	}
	if err != nil {
		s.logger.Warnw("forecast unavailable; serving current conditions only",
			"lat", lat, "lon", lon, "err", err)
		return nil
	}
	return v.([]ForecastSample)
}

func (s *Service) assemble(ctx context.Context, current CurrentConditions, samples []ForecastSample) *Document {
	daily := AggregateDaily(samples, s.loc)
	stats := ComputeStats(current, daily)

	doc := &Document{
		City:           current.City,
		Country:        current.Country,
		Lat:            current.Coord.Lat,
		Lon:            current.Coord.Lon,
		Condition:      current.Condition,
		Description:    current.Description,
		Icon:           current.Icon,
		Temp:           current.Temp,
		FeelsLike:      current.FeelsLike,
		TempMin:        current.TempMin,
		TempMax:        current.TempMax,
		Humidity:       current.Humidity,
		Pressure:       current.Pressure,
		Wind:           current.WindSpeed,
		Visibility:     current.Visibility,
		Sunrise:        FormatClockLabel(current.Sunrise, current.TimezoneOffset),
		Sunset:         FormatClockLabel(current.Sunset, current.TimezoneOffset),
		Date:           FormatShortDate(current.ObservedAt, s.loc),
		Forecast:       daily,
		HourlyForecast: SelectHourly(samples, s.loc),
		Stats:          &stats,
	}

	s.supplement(ctx, current, doc)
	return doc
}

// supplement fills the optional fields. Each one is omitted on error.
func (s *Service) supplement(ctx context.Context, current CurrentConditions, doc *Document) {
	if s.supplements == nil {
		return
	}

	if history, err := s.supplements.TemperatureHistory(ctx, current); err != nil {
		s.logger.Warnw("temperature history unavailable", "city", current.City, "err", err)
	} else {
		doc.TemperatureHistory = history
	}

	if uv, err := s.supplements.UVIndex(ctx, current); err != nil {
		s.logger.Warnw("uv index unavailable", "city", current.City, "err", err)
	} else {
		doc.UVIndex = &uv
	}

	if aqi, err := s.supplements.AirQuality(ctx, current); err != nil {
		s.logger.Warnw("air quality unavailable", "city", current.City, "err", err)
	} else {
		doc.AirQuality = &aqi
	}
}
