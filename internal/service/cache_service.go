package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a keyed, TTL-bounded store with explicit invalidation hooks.
// It is never a source of truth; a backend failure is reported as a miss
// so reads degrade to the database instead of failing.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

const (
	// Batch size for SCAN during prefix invalidation
	scanBatchSize = 100
)

type redisCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisCache(client *redis.Client, log *logrus.Logger) Cache {
	return &redisCache{client: client, log: log}
}

// Get reports a miss when the key is absent OR when Redis is unreachable.
// The backend error is logged, not surfaced; callers fall through to the
// database either way.
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnf("Cache get failed for key %s: %+v", key, err)
		}
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warnf("Cache entry for key %s is corrupt, dropping: %+v", key, err)
		c.client.Del(ctx, key)
		return false, nil
	}

	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.Warnf("Cache set failed for key %s: %+v", key, err)
		return fmt.Errorf("cache set for key %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warnf("Cache delete failed for keys %v: %+v", keys, err)
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// DeleteByPrefix clears every key under the prefix via SCAN + DEL.
// A blunt instrument: acceptable while the patient set is small and
// writes are infrequent.
func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()

	batch := make([]string, 0, scanBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				c.log.Warnf("Cache prefix delete failed for %s: %+v", prefix, err)
				return fmt.Errorf("cache prefix delete %s: %w", prefix, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warnf("Cache scan failed for prefix %s: %+v", prefix, err)
		return fmt.Errorf("cache scan %s: %w", prefix, err)
	}

	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			c.log.Warnf("Cache prefix delete failed for %s: %+v", prefix, err)
			return fmt.Errorf("cache prefix delete %s: %w", prefix, err)
		}
	}

	return nil
}
