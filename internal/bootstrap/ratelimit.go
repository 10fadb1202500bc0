package bootstrap

import (
	"log"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	auth    gin.HandlerFunc
	webhook gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(cfg *config.Config, redisClient *redis.Client) rateLimitMiddlewares {
	noOpMiddleware := func(c *gin.Context) { c.Next() }

	if !cfg.EnableRateLimit {
		return rateLimitMiddlewares{
			auth:    noOpMiddleware,
			webhook: noOpMiddleware,
		}
	}

	storeType := middleware.RateLimitStoreMemory
	if redisClient != nil {
		storeType = middleware.RateLimitStoreRedis
	}
	log.Printf("Rate limiting enabled (store: %s)", storeType)

	createLimiter := func(requestsPerMinute int, endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient,
			CleanupInterval:   cfg.RateLimitCleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to create rate limiter for %s: %v", endpoint, err)
		}
		return limiter
	}

	return rateLimitMiddlewares{
		auth:    createLimiter(cfg.AuthRateLimit, "/auth"),
		webhook: createLimiter(cfg.WebhookRateLimit, "/webhooks/github"),
	}
}
