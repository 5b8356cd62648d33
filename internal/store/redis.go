package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/history"
)

const (
	redisKeyPrefix    = "weather-lookup:history:"
	maxToggleAttempts = 3
)

// RedisStore keeps each record as a JSON string and indexes them per user
// in sorted sets scored by search time.
type RedisStore struct {
	rc *redis.Client
}

// NewRedisStore builds a client for url (redis://...). The client dials on
// demand, so an unreachable server only shows up on Ping and on operations.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{rc: redis.NewClient(opts)}, nil
}

func recordKey(id uuid.UUID) string {
	return redisKeyPrefix + "record:" + id.String()
}

func userKey(userID int64) string {
	return redisKeyPrefix + "user:" + strconv.FormatInt(userID, 10)
}

func favoritesKey(userID int64) string {
	return redisKeyPrefix + "favorites:" + strconv.FormatInt(userID, 10)
}

func score(rec history.Record) float64 {
	return float64(rec.Timestamp.UnixMilli())
}

func (s *RedisStore) Save(ctx context.Context, rec history.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode search history: %w", err)
	}

	_, err = s.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, recordKey(rec.ID), payload, 0)
		pipe.ZAdd(ctx, userKey(rec.UserID), &redis.Z{Score: score(rec), Member: rec.ID.String()})
		if rec.Favorite {
			pipe.ZAdd(ctx, favoritesKey(rec.UserID), &redis.Z{Score: score(rec), Member: rec.ID.String()})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save search history: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, userID int64, limit int) ([]history.Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	return s.load(ctx, userKey(userID), stop)
}

func (s *RedisStore) Favorites(ctx context.Context, userID int64) ([]history.Record, error) {
	return s.load(ctx, favoritesKey(userID), -1)
}

// ToggleFavorite flips the flag under WATCH so concurrent toggles of the
// same record cannot lose an update.
func (s *RedisStore) ToggleFavorite(ctx context.Context, userID int64, id uuid.UUID) (history.Record, error) {
	key := recordKey(id)

	var updated history.Record
	toggle := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var rec history.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode search history: %w", err)
		}
		if rec.UserID != userID {
			return ErrNotFound
		}
		rec.Favorite = !rec.Favorite

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode search history: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			if rec.Favorite {
				pipe.ZAdd(ctx, favoritesKey(rec.UserID), &redis.Z{Score: score(rec), Member: rec.ID.String()})
			} else {
				pipe.ZRem(ctx, favoritesKey(rec.UserID), rec.ID.String())
			}
			return nil
		})
		if err == nil {
			updated = rec
		}
		return err
	}

	for i := 0; i < maxToggleAttempts; i++ {
		err := s.rc.Watch(ctx, toggle, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrNotFound) {
			return history.Record{}, ErrNotFound
		}
		if err != nil {
			return history.Record{}, fmt.Errorf("toggle favorite: %w", err)
		}
		return updated, nil
	}
	return history.Record{}, fmt.Errorf("toggle favorite: %w", redis.TxFailedErr)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rc.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rc.Close()
}

// load resolves the newest ids in an index set to records. Ids whose record
// key has vanished are skipped.
func (s *RedisStore) load(ctx context.Context, index string, stop int64) ([]history.Record, error) {
	ids, err := s.rc.ZRevRange(ctx, index, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read history index: %w", err)
	}

	records := make([]history.Record, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKeyPrefix + "record:" + id
	}
	values, err := s.rc.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read history records: %w", err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec history.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode search history: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
