package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"tindibandi/models"
)

var ErrCacheMiss = errors.New("cache miss")

// MenuCache caches menu listings keyed by the serialized filter.
type MenuCache interface {
	Get(ctx context.Context, key string) ([]models.MenuItem, error)
	Set(ctx context.Context, key string, items []models.MenuItem) error
	Invalidate(ctx context.Context) error
}

type RedisMenuCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisMenuCache(client *redis.Client) *RedisMenuCache {
	return &RedisMenuCache{
		client:  client,
		baseTTL: 10 * time.Minute,
	}
}

func cacheKey(key string) string {
	return "menu:" + key
}

func (r *RedisMenuCache) Get(ctx context.Context, key string) ([]models.MenuItem, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err)
	}
	return items, nil
}

func (r *RedisMenuCache) Set(ctx context.Context, key string, items []models.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}

	// Jitter keeps a busy menu from expiring everywhere at once.
	ttl := r.baseTTL + time.Duration(rand.Intn(120))*time.Second
	if err := r.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisMenuCache) Invalidate(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, cacheKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}
