package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultViewTTL bounds how long a render survives without invalidation.
const DefaultViewTTL = 10 * time.Minute

// Store caches rendered dashboard views in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a view cache. A non-positive ttl uses DefaultViewTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// CacheView stores a rendered view under key.
func (s *Store) CacheView(ctx context.Context, key string, body []byte) error {
	if err := s.client.Set(ctx, key, body, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache view: %w", err)
	}
	return nil
}

// GetCachedView returns the render stored under key. ok is false on a miss.
func (s *Store) GetCachedView(ctx context.Context, key string) (body []byte, ok bool, err error) {
	body, err = s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached view: %w", err)
	}
	return body, true, nil
}

// Invalidate drops every cached render of path and of the views nested under it.
func (s *Store) Invalidate(ctx context.Context, path string) error {
	for _, pattern := range ViewPatterns(path) {
		if err := s.deleteMatching(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", path, err)
		}
	}
	return nil
}

// FlushViews removes all cached renders.
func (s *Store) FlushViews(ctx context.Context) error {
	if err := s.deleteMatching(ctx, KeyPrefixView+"*"); err != nil {
		return fmt.Errorf("failed to flush views: %w", err)
	}
	return nil
}

func (s *Store) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete view key: %w", err)
		}
	}
	return iter.Err()
}
