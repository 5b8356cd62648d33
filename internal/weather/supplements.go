package weather

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

const historyDays = 7

// SupplementalSource provides the document fields the forecast API does not
// carry: a trailing temperature history, a UV index and an air quality index.
type SupplementalSource interface {
	TemperatureHistory(ctx context.Context, current CurrentConditions) ([]TemperatureHistoryEntry, error)
	UVIndex(ctx context.Context, current CurrentConditions) (int, error)
	AirQuality(ctx context.Context, current CurrentConditions) (int, error)
}

// RandomSupplements fabricates plausible values around the current reading.
// It stands in until real historical, UV and air quality feeds are wired.
type RandomSupplements struct {
	loc *time.Location
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSupplements returns a generator labelling dates in loc. A nil rng
// is replaced by a time-seeded one.
func NewRandomSupplements(loc *time.Location, rng *rand.Rand) *RandomSupplements {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &RandomSupplements{loc: loc, now: time.Now, rng: rng}
}

// TemperatureHistory returns seven days ending today, oldest first, each
// within ±5 degrees of the current temperature.
func (r *RandomSupplements) TemperatureHistory(_ context.Context, current CurrentConditions) ([]TemperatureHistoryEntry, error) {
	today := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]TemperatureHistoryEntry, 0, historyDays)
	for i := historyDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		offset := r.rng.Float64()*10 - 5
		entries = append(entries, TemperatureHistoryEntry{
			Date:        FormatShortDate(day.Unix(), r.loc),
			Temperature: roundTo(current.Temp+offset, 1),
		})
	}
	return entries, nil
}

// UVIndex returns a value in [1,8].
func (r *RandomSupplements) UVIndex(context.Context, CurrentConditions) (int, error) {
	return r.intIn(1, 8), nil
}

// AirQuality returns a value in [1,5], 1 being best.
func (r *RandomSupplements) AirQuality(context.Context, CurrentConditions) (int, error) {
	return r.intIn(1, 5), nil
}

func (r *RandomSupplements) intIn(lo, hi int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.IntN(hi-lo+1)
}

// AirQualityOverlay serves air quality from a real upstream index and
// everything else from the wrapped source. When the upstream call fails the
// wrapped source's value is used instead.
type AirQualityOverlay struct {
	SupplementalSource

	fetcher AirQualityFetcher
	logger  *zap.SugaredLogger
}

func NewAirQualityOverlay(fetcher AirQualityFetcher, fallback SupplementalSource, logger *zap.SugaredLogger) *AirQualityOverlay {
	return &AirQualityOverlay{
		SupplementalSource: fallback,
		fetcher:            fetcher,
		logger:             logger,
	}
}

func (o *AirQualityOverlay) AirQuality(ctx context.Context, current CurrentConditions) (int, error) {
	aqi, err := o.fetcher.AirQuality(ctx, current.Coord.Lat, current.Coord.Lon)
	if err == nil {
		return aqi, nil
	}
	o.logger.Warnw("air quality lookup failed; using fallback",
		"city", current.City, "err", err)
	return o.SupplementalSource.AirQuality(ctx, current)
}
