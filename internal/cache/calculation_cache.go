package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/formulab/backend-go/internal/config"
	"github.com/formulab/backend-go/internal/domain"
)

const (
	calculationKeyPrefix     = "calculation:result"
	calculationScanBatchSize = 100
)

// CalculationCache memoizes calculation results keyed by the content
// fingerprint of their input.
type CalculationCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.CalculationResult, bool, error)
	Set(ctx context.Context, fingerprint string, result *domain.CalculationResult) error
	Invalidate(ctx context.Context, fingerprint string) error
	InvalidateAll(ctx context.Context) error
}

type redisCalculationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type memoryCalculationCache struct {
	store *gocache.Cache
}

type noopCalculationCache struct{}

// NewCalculationCache builds a cache from configuration: Redis when the
// backend is "redis", an in-process TTL cache for "memory", and a no-op cache
// when disabled.
func NewCalculationCache(cfg config.CacheConfig) (CalculationCache, error) {
	if !cfg.Enabled {
		return &noopCalculationCache{}, nil
	}

	if cfg.Backend == "redis" {
		client, ttl, err := newRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return &redisCalculationCache{client: client, ttl: ttl}, nil
	}

	ttl := time.Duration(cfg.ResultTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &memoryCalculationCache{
		store: gocache.New(ttl, 2*ttl),
	}, nil
}

// NewNoopCalculationCache returns a cache that stores nothing.
func NewNoopCalculationCache() CalculationCache {
	return &noopCalculationCache{}
}

func calculationKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s", calculationKeyPrefix, fingerprint)
}

func (c *redisCalculationCache) Get(ctx context.Context, fingerprint string) (*domain.CalculationResult, bool, error) {
	payload, err := c.client.Get(ctx, calculationKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.CalculationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode calculation cache: %w", err)
	}
	return &result, true, nil
}

func (c *redisCalculationCache) Set(ctx context.Context, fingerprint string, result *domain.CalculationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode calculation cache: %w", err)
	}
	if err := c.client.Set(ctx, calculationKey(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisCalculationCache) Invalidate(ctx context.Context, fingerprint string) error {
	return c.client.Del(ctx, calculationKey(fingerprint)).Err()
}

func (c *redisCalculationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, calculationKeyPrefix, calculationScanBatchSize)
}

func (c *memoryCalculationCache) Get(_ context.Context, fingerprint string) (*domain.CalculationResult, bool, error) {
	entry, ok := c.store.Get(fingerprint)
	if !ok {
		return nil, false, nil
	}
	result, ok := entry.(*domain.CalculationResult)
	if !ok {
		return nil, false, nil
	}
	return result, true, nil
}

func (c *memoryCalculationCache) Set(_ context.Context, fingerprint string, result *domain.CalculationResult) error {
	c.store.SetDefault(fingerprint, result)
	return nil
}

func (c *memoryCalculationCache) Invalidate(_ context.Context, fingerprint string) error {
	c.store.Delete(fingerprint)
	return nil
}

func (c *memoryCalculationCache) InvalidateAll(_ context.Context) error {
	c.store.Flush()
	return nil
}

func (n *noopCalculationCache) Get(ctx context.Context, fingerprint string) (*domain.CalculationResult, bool, error) {
	return nil, false, nil
}

func (n *noopCalculationCache) Set(ctx context.Context, fingerprint string, result *domain.CalculationResult) error {
	return nil
}

func (n *noopCalculationCache) Invalidate(ctx context.Context, fingerprint string) error {
	return nil
}

func (n *noopCalculationCache) InvalidateAll(ctx context.Context) error {
	return nil
}
