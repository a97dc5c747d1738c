package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"collabfeed/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Store is a nil-safe JSON cache over a Redis client. A Store with no client
// turns every call into a pass-through.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps rdb; rdb may be nil.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.rdb == nil {
		return false, nil
	}
	ctx, span := observability.TraceRedisOperation(ctx, "get")
	defer span.End()

	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache errors never fail the read.
func (s *Store) Aside(ctx context.Context, family, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := s.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues(family, "error").Inc()
	case found:
		observability.CacheLookups.WithLabelValues(family, "hit").Inc()
		return nil
	default:
		observability.CacheLookups.WithLabelValues(family, "miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = s.SetJSON(ctx, key, dest, ttl)
	return nil
}

// InvalidatePrefix deletes every key beginning with prefix.
func (s *Store) InvalidatePrefix(ctx context.Context, prefix string) {
	if s == nil || s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		s.rdb.Del(ctx, keys...)
	}
}
