package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const defaultSaveTimeout = 5 * time.Second

// Recorder saves history in the background so a slow or failing store never
// delays or fails the weather response.
type Recorder struct {
	store   Store
	logger  *zap.SugaredLogger
	timeout time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

// NewRecorder creates a Recorder. A non-positive timeout uses five seconds.
func NewRecorder(store Store, logger *zap.SugaredLogger, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = defaultSaveTimeout
	}
	return &Recorder{
		store:   store,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Record schedules a save for doc and returns immediately.
func (r *Recorder) Record(userID int64, doc *weather.Document) {
	rec := NewRecord(userID, doc, r.now())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		// Detached from the request so the save outlives the response.
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.store.Save(ctx, rec); err != nil {
			r.logger.Errorw("failed to save search history",
				"id", rec.ID, "city", rec.City, "err", err)
		}
	}()
}

// Wait blocks until every scheduled save has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
