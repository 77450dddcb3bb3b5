package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"kanban_api/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. It returns nil when addr is empty or the
// server does not answer, and callers then run without Redis.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", "addr", addr, "error", err)
		_ = rdb.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return rdb
}

// KeyFunc picks the identity a limit applies to. An empty key skips the limit.
type KeyFunc func(c *gin.Context) string

func ByIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByUser needs JWT to have run first.
func ByUser(c *gin.Context) string {
	return UserID(c)
}

// RateLimit is a fixed-window limiter (INCR/EXPIRE) named for its key space.
// With rdb nil it counts in process memory; on Redis errors it lets the
// request through.
func RateLimit(rdb *redis.Client, name string, maxRequests int, window time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	mem := newMemoryWindow()
	windowSec := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		ident := keyFn(c)
		if ident == "" {
			c.Next()
			return
		}

		var count int64
		if rdb == nil {
			count = int64(mem.hit(ident, window))
		} else {
			key := "rl:" + name + ":" + windowSec + ":" + ident
			ctx := c.Request.Context()

			val, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				c.Header("X-RateLimit-Error", "redis-error")
				c.Next()
				return
			}
			if val == 1 {
				rdb.Expire(ctx, key, window)
			}
			count = val
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-count), 10))

		if count > int64(maxRequests) {
			RLBlocked.WithLabelValues(name).Inc()
			c.Header("Retry-After", windowSec)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		RLRequests.WithLabelValues(name).Inc()
		c.Next()
	}
}

// WritesOnly applies mw to mutating methods and passes reads straight through.
func WritesOnly(mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			mw(c)
		}
	}
}
