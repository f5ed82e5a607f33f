package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// InvalidationChannel is the pub/sub channel clients subscribe to for
// stale-view notifications
const InvalidationChannel = "views:invalidate"

// Invalidator signals the presentation layer that a named view's cached data
// is stale. Fire-and-forget: failures are logged, never surfaced.
type Invalidator interface {
	Invalidate(ctx context.Context, view string)
	Close() error
}

// RedisInvalidator deletes the cached payload for a view and publishes its
// name so connected clients refetch on next render
type RedisInvalidator struct {
	client *redis.Client
}

// NewRedisInvalidator connects to Redis and returns an invalidator backed by it
func NewRedisInvalidator(addr, password string, db int) (*RedisInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisInvalidator{client: client}, nil
}

// Invalidate drops the cached view entry and notifies subscribers
func (r *RedisInvalidator) Invalidate(ctx context.Context, view string) {
	if err := r.client.Del(ctx, "view:"+view).Err(); err != nil {
		log.Printf("cache: failed to delete view %q: %v", view, err)
	}
	if err := r.client.Publish(ctx, InvalidationChannel, view).Err(); err != nil {
		log.Printf("cache: failed to publish invalidation for %q: %v", view, err)
	}
}

// Close releases the underlying Redis connection
func (r *RedisInvalidator) Close() error {
	return r.client.Close()
}

// NoopInvalidator is used when Redis is not configured. Invalidations are
// logged so the behavior stays observable in development.
type NoopInvalidator struct{}

// NewNoopInvalidator returns an invalidator that only logs
func NewNoopInvalidator() *NoopInvalidator {
	return &NoopInvalidator{}
}

// Invalidate logs the invalidation and drops it
func (n *NoopInvalidator) Invalidate(ctx context.Context, view string) {
	log.Printf("cache: view %q invalidated (no redis configured)", view)
}

// Close is a no-op
func (n *NoopInvalidator) Close() error {
	return nil
}
