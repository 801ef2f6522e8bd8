package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/certify-backend/internal/config"
	"github.com/stemsi/certify-backend/internal/model"
)

// ErrCacheMiss is returned when a document is not cached.
var ErrCacheMiss = errors.New("cache miss")

// CertificationCache keeps recently served certification documents in Redis.
type CertificationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCertificationCache creates a new CertificationCache.
func NewCertificationCache(rdb *redis.Client, ttl time.Duration) *CertificationCache {
	return &CertificationCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached document for name.
func (c *CertificationCache) Get(ctx context.Context, name string) (model.Certification, error) {
	data, err := c.rdb.Get(ctx, config.CacheKey.CertificationByNameKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Certification{}, ErrCacheMiss
		}
		return model.Certification{}, fmt.Errorf("get cached certification: %w", err)
	}

	var cert model.Certification
	if err := json.Unmarshal(data, &cert); err != nil {
		return model.Certification{}, fmt.Errorf("unmarshal cached certification: %w", err)
	}
	return cert, nil
}

// Set caches cert under name.
func (c *CertificationCache) Set(ctx context.Context, name string, cert model.Certification) error {
	data, err := json.Marshal(cert)
	if err != nil {
		return fmt.Errorf("marshal certification: %w", err)
	}
	return c.rdb.Set(ctx, config.CacheKey.CertificationByNameKey(name), data, c.ttl).Err()
}

// Invalidate drops the cached documents for the given names and the name index.
func (c *CertificationCache) Invalidate(ctx context.Context, names ...string) error {
	pipe := c.rdb.Pipeline()
	for _, n := range names {
		if n == "" {
			continue
		}
		pipe.Del(ctx, config.CacheKey.CertificationByNameKey(n))
	}
	pipe.Del(ctx, config.CacheKey.CertificationIndexKey())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}

// GetIndex returns the cached list of certification names.
func (c *CertificationCache) GetIndex(ctx context.Context) ([]string, error) {
	names, err := c.rdb.LRange(ctx, config.CacheKey.CertificationIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get cached index: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrCacheMiss
	}
	return names, nil
}

// SetIndex replaces the cached list of certification names.
func (c *CertificationCache) SetIndex(ctx context.Context, names []string) error {
	key := config.CacheKey.CertificationIndexKey()

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if len(names) > 0 {
		values := make([]interface{}, len(names))
		for i, n := range names {
			values[i] = n
		}
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache index: %w", err)
	}
	return nil
}
