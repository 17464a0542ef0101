package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleetdesk-api-server/internal/ratelimit"
)

// RateLimit counts requests per action and client IP before the handler
// does any work. The limiter is injected rather than ambient so tests
// get a fresh one.
func RateLimit(limiter *ratelimit.Limiter, action string, window time.Duration, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := action + ":" + c.ClientIP()
		result := limiter.Check(key, window, max)

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts. Try again later."})
			return
		}
		c.Next()
	}
}
