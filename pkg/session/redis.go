package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/nexus/pkg/cache"
)

const redisPrefix = "nexus:session:"

// RedisStore keeps sessions in redis so they survive restarts and are
// shared between instances. Expiry is delegated to the redis key TTL.
type RedisStore struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewRedisStore returns a store over c. A ttl of zero keeps keys forever.
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{c: c, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, id Identity) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.c.Set(ctx, redisPrefix+tok, id, s.ttl); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}
	return tok, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (Identity, bool, error) {
	if token == "" {
		return Identity{}, false, nil
	}
	var id Identity
	err := s.c.Get(ctx, redisPrefix+token, &id)
	if errors.Is(err, cache.ErrMiss) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("session: resolve: %w", err)
	}
	return id, true, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.c.Del(ctx, redisPrefix+token); err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}
	return nil
}
