package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"natsu-gallery-backend/pkg/security"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "RequestID"
	maxRequestIDLen = 64
)

// RequestID propagates a well-formed incoming X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestMeta collects what security events record about the caller.
func RequestMeta(c *gin.Context) security.RequestMeta {
	return security.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: GetRequestID(c),
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
