package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/history"
)

var (
	// ErrNotFound is returned when no history record has the given id.
	ErrNotFound = errors.New("search history record not found")
)

// MemoryStore is a concurrency-safe in-memory history store. Nothing
// survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// records in insertion order
	records []history.Record

	// key: record id, value: index into records
	index map[uuid.UUID]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[uuid.UUID]int),
	}
}

// Save appends a record.
func (s *MemoryStore) Save(_ context.Context, rec history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.index[rec.ID]; dup {
		return errors.New("duplicate search history id " + rec.ID.String())
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

// Recent returns the user's newest records, at most limit of them.
func (s *MemoryStore) Recent(_ context.Context, userID int64, limit int) ([]history.Record, error) {
	result := s.collect(func(r history.Record) bool { return r.UserID == userID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Favorites returns all of the user's favorite records, newest first.
func (s *MemoryStore) Favorites(_ context.Context, userID int64) ([]history.Record, error) {
	return s.collect(func(r history.Record) bool {
		return r.UserID == userID && r.Favorite
	}), nil
}

// ToggleFavorite flips the favorite flag of the user's record with the given id.
func (s *MemoryStore) ToggleFavorite(_ context.Context, userID int64, id uuid.UUID) (history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok || s.records[i].UserID != userID {
		return history.Record{}, ErrNotFound
	}
	s.records[i].Favorite = !s.records[i].Favorite
	return s.records[i], nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// collect returns matching records newest first. Records with equal
// timestamps keep reverse insertion order.
func (s *MemoryStore) collect(match func(history.Record) bool) []history.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]history.Record, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if match(s.records[i]) {
			result = append(result, s.records[i])
		}
	}

	slices.SortStableFunc(result, func(a, b history.Record) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})
	return result
}
