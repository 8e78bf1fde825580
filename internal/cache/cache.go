package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const defaultTTL = time.Hour

// Cache stores catalog documents in Redis as JSON, keyed by kind and id.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ travel.Cache = (*Cache)(nil)

// NewCache constructs a Cache with a 1-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// Connect parses redisURL, creates a client, and verifies connectivity with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func destinationKey(id uuid.UUID) string { return "destination:" + id.String() }
func packageKey(id uuid.UUID) string     { return "package:" + id.String() }

// GetDestination returns the cached destination, or nil, nil on a miss.
func (c *Cache) GetDestination(ctx context.Context, id uuid.UUID) (*travel.Destination, error) {
	return get[travel.Destination](ctx, c.client, destinationKey(id))
}

// SetDestination caches d under its id.
func (c *Cache) SetDestination(ctx context.Context, d *travel.Destination) error {
	if d == nil {
		return nil
	}
	return c.set(ctx, destinationKey(d.ID), d)
}

// DeleteDestination drops the cached destination.
func (c *Cache) DeleteDestination(ctx context.Context, id uuid.UUID) error {
	return c.del(ctx, destinationKey(id))
}

// GetPackage returns the cached package, or nil, nil on a miss.
func (c *Cache) GetPackage(ctx context.Context, id uuid.UUID) (*travel.Package, error) {
	return get[travel.Package](ctx, c.client, packageKey(id))
}

// SetPackage caches p under its id. The populated destination is not stored,
// so a destination change never leaves a stale copy inside a package entry.
func (c *Cache) SetPackage(ctx context.Context, p *travel.Package) error {
	if p == nil {
		return nil
	}
	bare := *p
	bare.Destination = nil
	return c.set(ctx, packageKey(p.ID), &bare)
}

// DeletePackage drops the cached package.
func (c *Cache) DeletePackage(ctx context.Context, id uuid.UUID) error {
	return c.del(ctx, packageKey(id))
}

func get[T any](ctx context.Context, client *redis.Client, key string) (*T, error) {
	val, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(val, &v); err != nil {
		return nil, fmt.Errorf("unmarshaling cached %s: %w", key, err)
	}
	return &v, nil
}

func (c *Cache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}
