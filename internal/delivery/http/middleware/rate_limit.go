package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"natsu-gallery-backend/pkg/ratelimit"
)

// SetRateLimitHeaders writes the standard RateLimit-* headers for d.
// RateLimit-Reset is the number of seconds until the window resets.
// Rejected decisions also get Retry-After.
func SetRateLimitHeaders(c *gin.Context, d ratelimit.Decision, now time.Time) {
	resetSeconds := strconv.Itoa(int(d.RetryAfter(now).Seconds()))

	c.Header("RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("RateLimit-Remaining", strconv.Itoa(d.Remaining))
	c.Header("RateLimit-Reset", resetSeconds)
	if !d.Allowed {
		c.Header("Retry-After", resetSeconds)
	}
}
