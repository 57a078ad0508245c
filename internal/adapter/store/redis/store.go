// Package redis implements the session store: durable, string-keyed JSON
// persistence with a generation-timestamp freshness check.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/soulease/guidance/internal/domain"
)

// envelope wraps every stored value with its generation timestamp. The
// timestamp is used solely for staleness checks; there is no version number
// or integrity hash.
type envelope struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Store implements domain.SessionStore over Redis. Writes are unconditional
// and unlocked: concurrent writers under one key race and the last write
// wins, which is acceptable for the single-consumer session model.
type Store struct {
	rdb *goredis.Client
	now func() time.Time
}

// New constructs a Store around an existing Redis client.
func New(rdb *goredis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

// NewAt constructs a Store with an injected clock, for freshness tests.
func NewAt(rdb *goredis.Client, now func() time.Time) *Store {
	return &Store{rdb: rdb, now: now}
}

// GetJSON loads the value under key into dst. It reports a miss when the key
// is absent, the stored entry is older than maxAge (maxAge <= 0 disables the
// check), or the stored bytes are corrupt (corrupt entries are deleted).
func (s *Store) GetJSON(ctx context.Context, key string, maxAge time.Duration, dst any) (bool, error) {
	tracer := otel.Tracer("store.redis")
	ctx, span := tracer.Start(ctx, "store.GetJSON")
	defer span.End()

	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("op=store.get: %w", err)
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		// data corrupt: treat as miss by deleting
		slog.Warn("corrupt store entry dropped", slog.String("key", key), slog.Any("error", err))
		_ = s.rdb.Del(ctx, key).Err()
		return false, nil
	}
	if maxAge > 0 && s.now().Sub(env.GeneratedAt) > maxAge {
		return false, nil
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		slog.Warn("corrupt store payload dropped", slog.String("key", key), slog.Any("error", err))
		_ = s.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// PutJSON serializes v and stores it unconditionally under key, stamping the
// current time as the generation timestamp.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	tracer := otel.Tracer("store.redis")
	ctx, span := tracer.Start(ctx, "store.PutJSON")
	defer span.End()

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("op=store.put marshal: %w", err)
	}
	env := envelope{GeneratedAt: s.now().UTC(), Payload: payload}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("op=store.put envelope: %w", err)
	}
	if err := s.rdb.Set(ctx, key, b, 0).Err(); err != nil {
		return fmt.Errorf("op=store.put: %w", err)
	}
	return nil
}

// Del removes the given keys. Missing keys are not an error.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("op=store.del: %w", err)
	}
	return nil
}

// Ping reports store health for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("op=store.ping: %w", err)
	}
	return nil
}

var _ domain.SessionStore = (*Store)(nil)
