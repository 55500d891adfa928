package cache

import (
	"context"
	"fmt"
	"time"

	"growest_connect/config"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client used for the score cache.
var Client *redis.Client

// InitRedis connects the shared client. The cache is an optimization, so a
// failed ping is reported but the caller decides whether to continue.
func InitRedis(cfg *config.Config) error {
	Client = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the shared client.
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
