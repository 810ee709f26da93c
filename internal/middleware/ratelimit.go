package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/pkg/ratelimit"
	"diezagency/internal/pkg/response"
)

// RateLimit limits requests per client IP. A failing store lets requests
// through.
func RateLimit(limiter *ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))

		if !res.Allowed() {
			secs := int(math.Ceil(res.RetryAfter().Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
			response.Abort(c, http.StatusTooManyRequests, response.CodeRateLimited, "Too many requests")
			return
		}

		c.Next()
	}
}
