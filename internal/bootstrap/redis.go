package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/repolens/repolens/internal/config"

	"github.com/redis/go-redis/v9"
)

// initializeRedisClient creates the shared go-redis client used for the user
// cache and distributed rate limiting. Returns nil when no Redis address is
// configured; the application falls back to in-memory stores.
func initializeRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Printf("Redis client initialized (address: %s, db: %d)", cfg.RedisAddr, cfg.RedisDB)
	return client, nil
}
