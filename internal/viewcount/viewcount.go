// Package viewcount suppresses repeated article views from the same viewer
// within a time window.
package viewcount

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Window remembers keys for a fixed duration
type Window interface {
	// FirstSeen records key and reports whether it was absent from the window
	FirstSeen(ctx context.Context, key string) (bool, error)
}

// Key builds the window key for one viewer of one article
func Key(articleID int64, viewerKey string) string {
	return fmt.Sprintf("article:%d:%s", articleID, viewerKey)
}

// MemoryWindow is a bounded in-process window. When full the least recently
// added key is evicted early, which at worst counts a view twice.
type MemoryWindow struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, struct{}]
}

func NewMemoryWindow(size int, ttl time.Duration) *MemoryWindow {
	return &MemoryWindow{
		cache: expirable.NewLRU[string, struct{}](size, nil, ttl),
	}
}

func (w *MemoryWindow) FirstSeen(_ context.Context, key string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.cache.Peek(key); ok {
		return false, nil
	}
	w.cache.Add(key, struct{}{})
	return true, nil
}

// Len returns the number of keys currently held
func (w *MemoryWindow) Len() int {
	return w.cache.Len()
}

// RedisWindow shares the window between processes using SET NX EX
type RedisWindow struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisWindow connects to redisURL and verifies the connection
func NewRedisWindow(redisURL string, ttl time.Duration) (*RedisWindow, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisWindowWithClient(client, ttl), nil
}

// NewRedisWindowWithClient creates a window from an existing client
func NewRedisWindowWithClient(client *redis.Client, ttl time.Duration) *RedisWindow {
	return &RedisWindow{client: client, ttl: ttl, prefix: "views:"}
}

func (w *RedisWindow) FirstSeen(ctx context.Context, key string) (bool, error) {
	ok, err := w.client.SetNX(ctx, w.prefix+key, 1, w.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (w *RedisWindow) Close() error {
	return w.client.Close()
}
