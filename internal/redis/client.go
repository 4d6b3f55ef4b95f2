package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/invomate/invomate/internal/config"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
)

// Client wraps the shared redis connection used for cross-instance
// counters.
type Client struct {
	*redis.Client
}

// NewClient creates a redis client and verifies connectivity.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to redis").
			Mark(ierr.ErrSystem)
	}

	log.Infow("connected to redis", "address", cfg.Redis.Address)
	return &Client{Client: rdb}, nil
}
