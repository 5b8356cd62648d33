package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	defaultInterval = time.Minute
	pingTimeout     = 5 * time.Second
)

// Pinger is anything whose reachability can be checked, typically the
// history store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreStatus is the outcome of the most recent check.
type StoreStatus struct {
	Backend   string    `json:"backend"`
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}

// Scheduler periodically pings the history store and remembers the result
// for the health endpoint.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Pinger
	backend   string
	interval  time.Duration
	logger    *zap.SugaredLogger

	mu     sync.RWMutex
	status StoreStatus
}

// New creates a new Scheduler. A non-positive interval means one minute.
func New(target Pinger, backend string, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		backend:   backend,
		interval:  interval,
		logger:    logger,
		status:    StoreStatus{Backend: backend},
	}
}

// Start schedules the check and starts the underlying scheduler. The first
// check runs immediately.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.Check)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Check pings the store once and records the outcome.
func (s *Scheduler) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	st := StoreStatus{Backend: s.backend, Healthy: true, CheckedAt: time.Now().UTC()}
	if err := s.target.Ping(ctx); err != nil {
		st.Healthy = false
		st.Error = err.Error()
	}

	s.mu.Lock()
	prev := s.status
	s.status = st
	s.mu.Unlock()

	switch {
	case !st.Healthy && (prev.Healthy || prev.CheckedAt.IsZero()):
		s.logger.Errorw("history store unreachable", "backend", s.backend, "err", st.Error)
	case st.Healthy && !prev.Healthy && !prev.CheckedAt.IsZero():
		s.logger.Infow("history store recovered", "backend", s.backend)
	}
}

// Status returns the most recent check result. Before the first check
// Healthy is false and CheckedAt is zero.
func (s *Scheduler) Status() StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
