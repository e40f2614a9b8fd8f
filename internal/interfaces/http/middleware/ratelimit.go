package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/infrastructure/ratelimit"
	"inboxlift/internal/shared/config"
	"inboxlift/internal/shared/constants"
	"inboxlift/internal/shared/logger"
	"inboxlift/internal/shared/utils"
)

// SnapshotRateLimit limits read-only entitlement lookups per client IP.
func SnapshotRateLimit(limiter ratelimit.RateLimiter, cfg *config.RateLimitConfig) gin.HandlerFunc {
	return rateLimitByIP(limiter, "rl:snapshot", ratelimit.Limits{
		PerMinute: cfg.SnapshotPerMinute,
	})
}

// MutationRateLimit limits state-changing entitlement calls (usage
// recording, bonus claims, checkout) per client IP.
func MutationRateLimit(limiter ratelimit.RateLimiter, cfg *config.RateLimitConfig) gin.HandlerFunc {
	return rateLimitByIP(limiter, "rl:mutation", ratelimit.Limits{
		PerMinute: cfg.MutationPerMinute,
		PerDay:    cfg.MutationPerDay,
	})
}

func rateLimitByIP(limiter ratelimit.RateLimiter, prefix string, limits ratelimit.Limits) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := prefix + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, limits)
		if err != nil {
			// Redis being down must not take the product down with it.
			logger.Warn("Rate limiter unavailable, allowing request",
				"key", key,
				"error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, constants.ErrMsgRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
