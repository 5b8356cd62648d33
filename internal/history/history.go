package history

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	// DefaultUserID is the implicit user every lookup is recorded against.
	DefaultUserID int64 = 1

	// RecentLimit caps the recent-searches view.
	RecentLimit = 20
)

// Record is one successful lookup. Only Favorite ever changes after creation.
type Record struct {
	ID          uuid.UUID `json:"id"`
	UserID      int64     `json:"userId"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature int       `json:"temperature"`
	Condition   string    `json:"condition"`
	Timestamp   time.Time `json:"timestamp"`
	Favorite    bool      `json:"favorite"`
}

// NewRecord captures the searchable summary of a weather document.
func NewRecord(userID int64, doc *weather.Document, now time.Time) Record {
	return Record{
		ID:          uuid.New(),
		UserID:      userID,
		City:        doc.City,
		Country:     doc.Country,
		Temperature: int(math.Round(doc.Temp)),
		Condition:   doc.Condition,
		Timestamp:   now.UTC(),
	}
}

// Store persists search history. Implementations must be safe for
// concurrent use. Reads return records newest first.
type Store interface {
	Save(ctx context.Context, rec Record) error

	// Recent returns at most limit records for the user.
	Recent(ctx context.Context, userID int64, limit int) ([]Record, error)

	// Favorites returns every favorite record for the user.
	Favorites(ctx context.Context, userID int64) ([]Record, error)

	// ToggleFavorite flips the favorite flag of one of the user's records and
	// returns the updated record. Unknown ids, and ids owned by another user,
	// yield store.ErrNotFound.
	ToggleFavorite(ctx context.Context, userID int64, id uuid.UUID) (Record, error)

	Ping(ctx context.Context) error
	Close() error
}
