package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/config"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/redis"
	"golang.org/x/time/rate"
)

// RateLimiter enforces a fixed-window request limit per caller IP. The
// counter lives in redis so the limit holds across instances; when redis is
// unreachable each instance falls back to a local token bucket rather than
// letting traffic through unmetered.
type RateLimiter struct {
	redis *redis.Client
	cfg   *config.Configuration
	log   *logger.Logger

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rdb *redis.Client, cfg *config.Configuration, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		redis: rdb,
		cfg:   cfg,
		log:   log,
		local: make(map[string]*rate.Limiter),
	}
}

// Handler returns the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	if !rl.cfg.RateLimit.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, err := rl.allowShared(c, ip)
		if err != nil {
			rl.log.Warnw("shared rate limit unavailable, using local limiter",
				"ip", ip,
				"error", err)
			allowed = rl.allowLocal(ip)
		}

		if !allowed {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHintf("Limited to %d requests per %s", rl.cfg.RateLimit.Requests, rl.cfg.RateLimit.Window).
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}

// allowShared increments the caller's counter for the current window. The
// first increment sets the window expiry.
func (rl *RateLimiter) allowShared(c *gin.Context, ip string) (bool, error) {
	window := rl.cfg.RateLimit.Window
	bucket := time.Now().Unix() / int64(window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%d", ip, bucket)

	ctx := c.Request.Context()
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := rl.redis.Expire(ctx, key, window).Err(); err != nil {
			rl.log.Warnw("failed to set rate limit expiry", "key", key, "error", err)
		}
	}

	return count <= int64(rl.cfg.RateLimit.Requests), nil
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.local[ip]
	if !ok {
		perSecond := float64(rl.cfg.RateLimit.Requests) / rl.cfg.RateLimit.Window.Seconds()
		limiter = rate.NewLimiter(rate.Limit(perSecond), rl.cfg.RateLimit.Requests)
		rl.local[ip] = limiter
	}

	return limiter.Allow()
}
