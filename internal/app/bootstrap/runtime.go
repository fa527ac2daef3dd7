package bootstrap

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/robotics-consultant/internal/config"
	httpmiddleware "github.com/wolfman30/robotics-consultant/internal/http/middleware"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRateLimiter picks the Redis limiter when a client is available and
// the in-memory token bucket otherwise. It returns nil when limiting is off.
func BuildRateLimiter(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) httpmiddleware.Limiter {
	if cfg == nil || cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient != nil {
		limiter, err := httpmiddleware.NewRedisRateLimiter(redisClient, cfg.RateLimitRPS, cfg.RateLimitBurst)
		if err == nil {
			logger.Info("rate limiting via redis", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
			return limiter
		}
		logger.Warn("redis rate limiter unavailable; using in-memory limiter", "error", err)
	}
	return httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}
