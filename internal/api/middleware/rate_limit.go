package middleware

import (
	"container/list"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// fixedWindow counts requests inside a fixed time window. The count
// resets when the window rolls over.
type fixedWindow struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
	limit       int
	window      time.Duration
}

func newFixedWindow(limit int, window time.Duration) *fixedWindow {
	return &fixedWindow{
		windowStart: time.Now(),
		limit:       limit,
		window:      window,
	}
}

// Allow reports whether another request fits in the current window.
func (w *fixedWindow) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.Sub(w.windowStart) >= w.window {
		w.windowStart = now
		w.count = 0
	}

	if w.count >= w.limit {
		return false
	}
	w.count++
	return true
}

// windowCache is an LRU cache of per-client windows, bounding memory
// regardless of how many distinct clients show up.
type windowCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
	capacity int
}

type windowCacheItem struct {
	key    string
	window *fixedWindow
}

func newWindowCache(capacity int) *windowCache {
	return &windowCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// get returns the window for key, creating it via factory on a miss.
func (c *windowCache) get(key string, factory func() *fixedWindow) *fixedWindow {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.order.MoveToFront(elem)
		return elem.Value.(*windowCacheItem).window
	}

	window := factory()
	elem := c.order.PushFront(&windowCacheItem{key: key, window: window})
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*windowCacheItem).key)
		}
	}
	return window
}

func (c *windowCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// redisWindow implements the same ceiling as a sliding window over
// Redis, for deployments with more than one instance.
type redisWindow struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// Allow counts requests in the trailing window for key.
func (rw *redisWindow) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", rw.keyPrefix, key)
	now := time.Now()
	windowStart := now.Add(-rw.window)

	pipe := rw.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.Unix(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, rw.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}

	count, err := countCmd.Result()
	if err != nil {
		return false, fmt.Errorf("redis rate limit count: %w", err)
	}
	return count < int64(rw.limit), nil
}

// RateLimitConfig holds configuration for the rate limiting
// middleware.
type RateLimitConfig struct {
	// KeyGenerator derives the limiting key for a request. Defaults to
	// the client IP.
	KeyGenerator func(c *gin.Context) string
	// Requests is the ceiling per window.
	Requests int
	// Window is the window length.
	Window time.Duration
	// CacheCapacity bounds the in-memory window cache (default 10000).
	CacheCapacity int
	// UseRedis switches to Redis-backed limiting shared across
	// instances.
	UseRedis      bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitManager owns the limiter state behind the middleware.
type RateLimitManager struct {
	cache       *windowCache
	redisWindow *redisWindow
	config      RateLimitConfig
}

// NewRateLimitManager creates a rate limit manager. With UseRedis set
// it connects eagerly and fails if Redis is unreachable.
func NewRateLimitManager(ctx context.Context, config RateLimitConfig) (*RateLimitManager, error) {
	if config.CacheCapacity == 0 {
		config.CacheCapacity = 10000
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = func(c *gin.Context) string { return c.ClientIP() }
	}

	manager := &RateLimitManager{
		cache:  newWindowCache(config.CacheCapacity),
		config: config,
	}

	if config.UseRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		manager.redisWindow = &redisWindow{
			client:    client,
			keyPrefix: "rate_limit",
			limit:     config.Requests,
			window:    config.Window,
		}
	}

	return manager, nil
}

// Allow checks whether a request for key fits under the ceiling.
func (rm *RateLimitManager) Allow(ctx context.Context, key string) (bool, error) {
	if rm.redisWindow != nil {
		return rm.redisWindow.Allow(ctx, key)
	}
	window := rm.cache.get(key, func() *fixedWindow {
		return newFixedWindow(rm.config.Requests, rm.config.Window)
	})
	return window.Allow(), nil
}

// TrackedClients returns how many distinct clients currently hold a
// window in memory.
func (rm *RateLimitManager) TrackedClients() int {
	return rm.cache.len()
}

// Middleware returns the gin handler enforcing the ceiling. A limiter
// backend error fails open: the request proceeds and the response is
// tagged so the condition is visible.
func (rm *RateLimitManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rm.config.KeyGenerator(c)

		allowed, err := rm.Allow(c.Request.Context(), key)
		if err != nil {
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests, please try again later.",
			})
			return
		}

		c.Next()
	}
}
