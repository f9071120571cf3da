// Package cache provides Redis-backed caches for hot read paths.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisTemplateCache caches mall templates by mall name. Every ingestion run
// resolves its template once; the cache keeps that lookup off the database.
// Entries are invalidated when a template is saved or deleted.
type RedisTemplateCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisTemplateCacheOption is a functional option for configuring the cache
type RedisTemplateCacheOption func(*RedisTemplateCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisTemplateCacheOption {
	return func(c *RedisTemplateCache) {
		c.logger = logger
	}
}

// NewRedisTemplateCache creates a template cache with its own Redis client
func NewRedisTemplateCache(cfg *config.RedisConfig, opts ...RedisTemplateCacheOption) (*RedisTemplateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisTemplateCache{
		client:     client,
		ownsClient: true,
		ttl:        cfg.TemplateTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	if cache.ttl == 0 {
		cache.ttl = 10 * time.Minute
	}

	return cache, nil
}

// NewRedisTemplateCacheWithClient creates a cache over an existing client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisTemplateCacheWithClient(client *redis.Client, ttl time.Duration, opts ...RedisTemplateCacheOption) *RedisTemplateCache {
	cache := &RedisTemplateCache{
		client: client,
		ttl:    ttl,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	if cache.ttl == 0 {
		cache.ttl = 10 * time.Minute
	}
	return cache
}

func (c *RedisTemplateCache) key(mallName string) string {
	return fmt.Sprintf("mall_template:%s", shared.NormalizeKey(mallName))
}

// Get retrieves a cached template. A cache miss returns (nil, nil).
func (c *RedisTemplateCache) Get(ctx context.Context, mallName string) (*mall.Template, error) {
	data, err := c.client.Get(ctx, c.key(mallName)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get template from cache",
			zap.String("mall_name", mallName),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get template from cache: %w", err)
	}

	var t mall.Template
	if err := json.Unmarshal(data, &t); err != nil {
		// Treat a corrupt entry as a miss and let the DB refill it
		c.logger.Warn("Discarding corrupt template cache entry",
			zap.String("mall_name", mallName),
			zap.Error(err))
		_ = c.client.Del(ctx, c.key(mallName)).Err()
		return nil, nil
	}
	return &t, nil
}

// Set stores a template with the configured TTL.
func (c *RedisTemplateCache) Set(ctx context.Context, t *mall.Template) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}
	if err := c.client.Set(ctx, c.key(t.MallName), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache template: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for a mall.
func (c *RedisTemplateCache) Invalidate(ctx context.Context, mallName string) error {
	if err := c.client.Del(ctx, c.key(mallName)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate template cache: %w", err)
	}
	return nil
}

// Close releases the Redis client if this cache owns it.
func (c *RedisTemplateCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
