package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 键不存在
var ErrCacheMiss = errors.New("cache miss")

// CacheService 缓存服务接口
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	InvalidatePattern(ctx context.Context, pattern string) error
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache 创建 Redis 缓存服务
// prefix 是所有键的命名空间前缀，由调用方从配置传入
func NewRedisCache(client *redis.Client, prefix string) CacheService {
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// getKey 获取完整的缓存键
func (c *RedisCache) getKey(key string) string {
	return c.prefix + key
}

// Get 获取缓存，键不存在时返回 ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	fullKey := c.getKey(key)
	val, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set 设置缓存，expiration 为 0 表示不过期
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	fullKey := c.getKey(key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

// Delete 删除缓存
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	fullKey := c.getKey(key)
	return c.client.Del(ctx, fullKey).Err()
}

// Exists 检查缓存是否存在
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	fullKey := c.getKey(key)
	result, err := c.client.Exists(ctx, fullKey).Result()
	return result > 0, err
}

// InvalidatePattern 根据模式批量删除缓存
func (c *RedisCache) InvalidatePattern(ctx context.Context, pattern string) error {
	fullPattern := c.prefix + pattern
	keys, err := c.client.Keys(ctx, fullPattern).Result()
	if err != nil {
		return fmt.Errorf("cache keys error: %w", err)
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}

	return nil
}

// MemoryCache 内存缓存实现（用于开发/测试）
type MemoryCache struct {
	data map[string]*cacheItem
	mu   sync.RWMutex
}

type cacheItem struct {
	value      []byte
	expiration time.Time // 零值表示不过期
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() CacheService {
	return &MemoryCache{
		data: make(map[string]*cacheItem),
	}
}

func (c *MemoryCache) getKey(key string) string {
	return "mem:" + key
}

func (it *cacheItem) expired() bool {
	return !it.expiration.IsZero() && time.Now().After(it.expiration)
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.data[c.getKey(key)]
	if !exists || item.expired() {
		return ErrCacheMiss
	}

	if err := json.Unmarshal(item.value, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem{value: data}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
	}
	c.data[c.getKey(key)] = item

	// 清理过期项
	c.cleanup()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, c.getKey(key))
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.data[c.getKey(key)]
	if !exists || item.expired() {
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) InvalidatePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fullPattern := c.getKey(pattern)
	for key := range c.data {
		if matched, _ := filepath.Match(fullPattern, key); matched {
			delete(c.data, key)
		}
	}

	return nil
}

func (c *MemoryCache) cleanup() {
	for key, item := range c.data {
		if item.expired() {
			delete(c.data, key)
		}
	}
}
