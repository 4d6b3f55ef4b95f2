package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/config"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitedRouter(t *testing.T, cfg *config.Configuration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	cfg.Redis.Address = mr.Addr()

	log := logger.NewNopLogger()
	rdb, err := redis.NewClient(cfg, log)
	require.NoError(t, err)

	limiter := NewRateLimiter(rdb, cfg, log)

	router := gin.New()
	router.Use(ErrorHandler(log), limiter.Handler())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return router, mr
}

func doPing(router *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Requests = 3
	router, _ := setupRateLimitedRouter(t, cfg)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doPing(router))
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Requests = 2
	router, _ := setupRateLimitedRouter(t, cfg)

	assert.Equal(t, http.StatusOK, doPing(router))
	assert.Equal(t, http.StatusOK, doPing(router))
	assert.Equal(t, http.StatusTooManyRequests, doPing(router))
}

func TestRateLimiterFallsBackWhenRedisDown(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Requests = 2
	router, mr := setupRateLimitedRouter(t, cfg)

	mr.Close()

	// The local token bucket takes over with the same budget.
	assert.Equal(t, http.StatusOK, doPing(router))
	assert.Equal(t, http.StatusOK, doPing(router))
	assert.Equal(t, http.StatusTooManyRequests, doPing(router))
}

func TestRateLimiterDisabled(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Requests = 1
	router, _ := setupRateLimitedRouter(t, cfg)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(router))
	}
}
