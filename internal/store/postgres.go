package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/weather-lookup/internal/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_history (
	id          uuid PRIMARY KEY,
	user_id     bigint NOT NULL,
	city        text NOT NULL,
	country     text NOT NULL,
	temperature integer NOT NULL,
	condition   text NOT NULL,
	searched_at timestamptz NOT NULL,
	favorite    boolean NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS search_history_user_time_idx
	ON search_history (user_id, searched_at DESC);
`

const recordColumns = `id, user_id, city, country, temperature, condition, searched_at, favorite`

// PostgresStore keeps search history in a search_history table.
type PostgresStore struct {
	pool *pgxpool.Pool

	mu       sync.Mutex
	migrated bool
}

// NewPostgresStore builds a pool for dsn without connecting. Only a malformed
// dsn fails here; an unreachable database surfaces on Ping and on each
// operation, and the table is created on first successful use.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// ready creates the table once. A failed attempt is retried on the next call.
func (s *PostgresStore) ready(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated {
		return nil
	}
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	s.migrated = true
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, rec history.Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO search_history (`+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgtype.UUID{Bytes: rec.ID, Valid: true}, rec.UserID, rec.City, rec.Country,
		rec.Temperature, rec.Condition, rec.Timestamp, rec.Favorite,
	)
	if err != nil {
		return fmt.Errorf("insert search history: %w", err)
	}
	return nil
}

// Recent treats a non-positive limit as no limit.
func (s *PostgresStore) Recent(ctx context.Context, userID int64, limit int) ([]history.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var n *int
	if limit > 0 {
		n = &limit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+`
		 FROM search_history
		 WHERE user_id = $1
		 ORDER BY searched_at DESC
		 LIMIT $2`,
		userID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	return collectRecords(rows)
}

func (s *PostgresStore) Favorites(ctx context.Context, userID int64) ([]history.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+`
		 FROM search_history
		 WHERE user_id = $1 AND favorite
		 ORDER BY searched_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("favorite searches: %w", err)
	}
	return collectRecords(rows)
}

// ToggleFavorite flips the flag in a single statement.
func (s *PostgresStore) ToggleFavorite(ctx context.Context, userID int64, id uuid.UUID) (history.Record, error) {
	if err := s.ready(ctx); err != nil {
		return history.Record{}, err
	}
	row := s.pool.QueryRow(ctx,
		`UPDATE search_history SET favorite = NOT favorite
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+recordColumns,
		pgtype.UUID{Bytes: id, Valid: true}, userID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return history.Record{}, ErrNotFound
	}
	if err != nil {
		return history.Record{}, fmt.Errorf("toggle favorite: %w", err)
	}
	return rec, nil
}

// Ping checks connectivity and finishes the schema setup if an earlier
// attempt could not reach the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return err
	}
	return s.ready(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func collectRecords(rows pgx.Rows) ([]history.Record, error) {
	defer rows.Close()

	records := make([]history.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read search history: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (history.Record, error) {
	var (
		rec history.Record
		id  pgtype.UUID
	)
	err := row.Scan(&id, &rec.UserID, &rec.City, &rec.Country,
		&rec.Temperature, &rec.Condition, &rec.Timestamp, &rec.Favorite)
	if err != nil {
		return history.Record{}, err
	}
	rec.ID = uuid.UUID(id.Bytes)
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}
