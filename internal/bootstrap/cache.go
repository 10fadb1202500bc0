package bootstrap

import (
	"log"

	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/models"

	"github.com/redis/go-redis/v9"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeUserCache initializes the user cache. A shared Redis client
// promotes it to a distributed cache; otherwise it stays in-process.
func initializeUserCache(cfg *config.Config, redisClient *redis.Client) cache.Cache[models.User] {
	if redisClient != nil {
		log.Println("User cache: redis")
		return cache.NewRedisCache[models.User](redisClient, "repolens:users")
	}
	log.Println("User cache: memory (single instance only)")
	return cache.NewMemoryCache[models.User](cfg.UserCacheTTL)
}
