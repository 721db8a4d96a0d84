package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderKey = "Idempotency-Key"

	// DefaultLockTTL bounds how long a crashed request can hold a key. It
	// must outlast the slowest bulk run.
	DefaultLockTTL = 10 * time.Minute
)

// ReleaseScript deletes the lock only while it still holds the caller's
// token, so an expired holder cannot free a newer request's lock.
const ReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// CachedResponse is the replayable part of a completed request.
type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store keeps completed responses and in-flight locks in Redis.
type Store struct {
	rdb      redis.Cmdable
	ttl      time.Duration
	lockTTL  time.Duration
	newToken func() string
}

type Option func(*Store)

// WithLockTTL overrides DefaultLockTTL. Non-positive values are ignored.
func WithLockTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTTL = d
		}
	}
}

// WithTokenFunc replaces the random lock token generator.
func WithTokenFunc(fn func() string) Option {
	return func(s *Store) {
		s.newToken = fn
	}
}

func NewStore(rdb redis.Cmdable, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		rdb:      rdb,
		ttl:      ttl,
		lockTTL:  DefaultLockTTL,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key scopes an idempotency key to the route and the acting user.
func Key(route, userID, idempotencyKey string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", route, userID, idempotencyKey)
}

func lockKey(key string) string {
	return key + ":lock"
}

// Get returns the cached response, or nil when none is stored.
func (s *Store) Get(ctx context.Context, key string) (*CachedResponse, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var cached CachedResponse
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &cached, nil
}

// Acquire takes the in-flight lock and returns its token. ok is false when
// another request with the same key is still running.
func (s *Store) Acquire(ctx context.Context, key string) (token string, ok bool, err error) {
	token = s.newToken()
	ok, err = s.rdb.SetNX(ctx, lockKey(key), token, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire idempotency lock: %w", err)
	}
	return token, ok, nil
}

func (s *Store) Save(ctx context.Context, key string, resp CachedResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := s.rdb.Set(ctx, key, string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}
	return nil
}

// Release frees the lock if it is still held with token.
func (s *Store) Release(ctx context.Context, key, token string) error {
	if err := s.rdb.Eval(ctx, ReleaseScript, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency lock: %w", err)
	}
	return nil
}
