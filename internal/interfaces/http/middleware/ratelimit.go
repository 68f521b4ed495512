package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"srdashboard/internal/infrastructure/ratelimit"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

// RateLimiter enforces a per client IP request budget.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	limit   int
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, limit int, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		limit:   limit,
		logger:  logger,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := rl.limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err != nil {
			// If the backend is unavailable, allow the request to avoid blocking all traffic
			rl.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("Too many requests from this IP, please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}
