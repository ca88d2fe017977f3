package cache

import (
	"Shortly-Backend/internal/config"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "link:"

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg *config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// LinkCache caches shortCode -> destination URL lookups on the
// resolution hot path. Misses and errors both fall through to the
// store, so the cache can never serve a link the store has lost.
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *LinkCache {
	return &LinkCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// GetURL returns the cached destination for a code, if present.
func (c *LinkCache) GetURL(ctx context.Context, shortCode string) (string, bool) {
	url, err := c.client.Get(ctx, keyPrefix+shortCode).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache lookup failed", zap.String("short_code", shortCode), zap.Error(err))
		}
		return "", false
	}
	return url, true
}

// SetURL stores the destination for a code. Entries expire on their own,
// bounded by the link retention window.
func (c *LinkCache) SetURL(ctx context.Context, shortCode, url string) {
	if err := c.client.Set(ctx, keyPrefix+shortCode, url, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("short_code", shortCode), zap.Error(err))
	}
}

// Delete evicts a code, used when the store no longer knows it.
func (c *LinkCache) Delete(ctx context.Context, shortCode string) {
	if err := c.client.Del(ctx, keyPrefix+shortCode).Err(); err != nil {
		c.log.Warn("cache delete failed", zap.String("short_code", shortCode), zap.Error(err))
	}
}
