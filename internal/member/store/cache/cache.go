// Package cache is the read-side projection cache in front of the
// member store. Entries are written through on save and invalidated on
// conflict; a miss falls back to the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mirathi/internal/member"
	"mirathi/pkg/domain"
	"mirathi/pkg/platform/sentinel"
)

const (
	memberKeyPrefix = "mirathi:member:"

	// DefaultTTL keeps cached projections short-lived; the store is
	// the source of truth.
	DefaultTTL = 15 * time.Minute
)

// ProjectionCache stores member projections in Redis.
type ProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Option configures a ProjectionCache.
type Option func(*ProjectionCache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *ProjectionCache) { c.ttl = ttl }
}

func New(client *redis.Client, opts ...Option) *ProjectionCache {
	c := &ProjectionCache{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached projection or sentinel.ErrNotFound on a miss.
func (c *ProjectionCache) Get(ctx context.Context, id domain.MemberID) (member.Projection, error) {
	body, err := c.client.Get(ctx, memberKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return member.Projection{}, sentinel.ErrNotFound
	}
	if err != nil {
		return member.Projection{}, fmt.Errorf("cache get member: %w", err)
	}
	var p member.Projection
	if err := json.Unmarshal(body, &p); err != nil {
		return member.Projection{}, fmt.Errorf("cache unmarshal member: %w", err)
	}
	return p, nil
}

// Set writes a projection through to the cache.
func (c *ProjectionCache) Set(ctx context.Context, p member.Projection) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache marshal member: %w", err)
	}
	if err := c.client.Set(ctx, memberKeyPrefix+p.ID, body, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set member: %w", err)
	}
	return nil
}

// Invalidate drops the cached projection. A missing key is not an
// error.
func (c *ProjectionCache) Invalidate(ctx context.Context, id domain.MemberID) error {
	if err := c.client.Del(ctx, memberKeyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("cache invalidate member: %w", err)
	}
	return nil
}
