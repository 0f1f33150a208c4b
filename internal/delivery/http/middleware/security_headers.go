package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

	// Swagger UI bootstraps with an inline script and loads its bundled JS,
	// CSS and data: icons from the same path.
	docsContentSecurityPolicy = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"frame-ancestors 'none'"
)

// SecurityHeadersMiddleware adds the security headers a JSON API needs.
// HSTS is only sent when hsts is true, i.e. behind TLS in production.
func SecurityHeadersMiddleware(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hsts {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		// Responses are JSON or plain text; nothing should ever be loaded from them.
		c.Header("Content-Security-Policy", apiContentSecurityPolicy)

		// Submissions carry personal data.
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}

// DocsContentSecurityPolicy replaces the API policy on the Swagger UI routes.
// It must run after SecurityHeadersMiddleware.
func DocsContentSecurityPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", docsContentSecurityPolicy)
		c.Next()
	}
}
