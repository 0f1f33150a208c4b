package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"natsu-gallery-backend/pkg/security"
)

// CORSMiddleware allows the configured front-end origins only. Requests from
// any other origin are aborted with 403 and logged as a security event.
// A single "*" entry allows every origin.
func CORSMiddleware(allowedOrigins []string, secLog *security.SecurityLogger) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}

	handler := cors.New(cfg)
	return func(c *gin.Context) {
		handler(c)
		if c.IsAborted() && c.Writer.Status() == http.StatusForbidden {
			secLog.LogCORSRejected(c.Request.Context(), RequestMeta(c), c.GetHeader("Origin"))
		}
	}
}
