package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/utils/cache"
	"github.com/yarmel/photoshare/utils/response"
)

// RateLimiter enforces per-route request caps using Redis fixed windows.
// Redis being unreachable fails open so cache trouble never locks out
// legitimate users.
type RateLimiter struct {
	redisCache *cache.RedisCache
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisCache *cache.RedisCache) *RateLimiter {
	return &RateLimiter{redisCache: redisCache}
}

// PerRoute caps requests per client IP for the route it wraps. Excess
// requests get 429 with a Retry-After header before any handler runs.
func (r *RateLimiter) PerRoute(times int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil || r.redisCache == nil {
			return c.Next()
		}

		ctx := c.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", c.Route().Path, c.IP())

		count, err := r.redisCache.Increment(ctx, key)
		if err != nil {
			return c.Next()
		}

		if count == 1 {
			r.redisCache.Expire(ctx, key, window)
		}

		if count > int64(times) {
			ttl, _ := r.redisCache.TTL(ctx, key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 1 {
				retryAfter = int(window.Seconds())
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, "Rate limit exceeded. Try again later")
		}

		return c.Next()
	}
}
