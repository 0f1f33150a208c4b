package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"natsu-gallery-backend/pkg/apperror"
	"natsu-gallery-backend/pkg/ratelimit"
	"natsu-gallery-backend/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetRateLimitHeaders(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r := gin.New()
	r.GET("/ok", func(c *gin.Context) {
		SetRateLimitHeaders(c, ratelimit.Decision{Allowed: true, Limit: 5, Remaining: 3, ResetAt: now.Add(42 * time.Second)}, now)
		c.Status(http.StatusOK)
	})
	r.GET("/limited", func(c *gin.Context) {
		SetRateLimitHeaders(c, ratelimit.Decision{Limit: 5, ResetAt: now.Add(1500 * time.Millisecond)}, now)
		c.Status(http.StatusTooManyRequests)
	})

	w := serve(r, http.MethodGet, "/ok", nil)
	assert.Equal(t, "5", w.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "3", w.Header().Get("RateLimit-Remaining"))
	assert.Equal(t, "42", w.Header().Get("RateLimit-Reset"))
	assert.Empty(t, w.Header().Get("Retry-After"))

	w = serve(r, http.MethodGet, "/limited", nil)
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}

func TestErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), ErrorHandler(log))
	r.GET("/validation", func(c *gin.Context) {
		c.Error(apperror.Validation([]map[string]string{{"field": "name", "message": "required"}}))
	})
	r.GET("/limited", func(c *gin.Context) {
		c.Error(apperror.TooManyRequests("slow down"))
	})
	r.GET("/internal", func(c *gin.Context) {
		c.Error(errors.New("dial tcp 10.0.0.5:587: connection refused"))
	})

	w := serve(r, http.MethodGet, "/validation", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"field":"name","message":"required"}]}`, w.Body.String())

	w = serve(r, http.MethodGet, "/limited", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"slow down"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/internal", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, buf.String(), "10.0.0.5")
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for path, level := range map[string]string{"/ok": "INFO", "/bad": "WARN", "/fail": "ERROR"} {
		buf.Reset()
		serve(r, http.MethodGet, path, nil)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), path)
		assert.Equal(t, level, entry["level"], path)
		assert.Equal(t, path, entry["path"])
		assert.NotEmpty(t, entry["request_id"])
	}
}

func TestRecoveryLogsStackServerSide(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	core, events := observer.New(zapcore.DebugLevel)
	sec := security.NewSecurityLogger(zap.New(core), "natsu-gallery-backend", "test")

	r := gin.New()
	r.Use(RequestID(), Recovery(log, sec))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"`+InternalErrorMessage+`"}`, w.Body.String())
	assert.Contains(t, buf.String(), "kaboom")
	assert.Contains(t, buf.String(), "goroutine")
	assert.Equal(t, 1, events.FilterMessage(string(security.EventServerError)).Len())
}

func TestCORSMiddleware(t *testing.T) {
	core, events := observer.New(zapcore.DebugLevel)
	sec := security.NewSecurityLogger(zap.New(core), "natsu-gallery-backend", "test")

	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://natsu.example"}, sec))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", map[string]string{"Origin": "https://natsu.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://natsu.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Retry-After")

	w = serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code, "requests without Origin are not cross-origin")

	w = serve(r, http.MethodGet, "/", map[string]string{"Origin": "https://other.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 1, events.FilterMessage(string(security.EventCORSRejected)).Len())
}

func TestCORSMiddlewareWildcard(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"*"}, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", map[string]string{"Origin": "https://anything.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersHSTSOnlyWhenEnabled(t *testing.T) {
	for _, hsts := range []bool{true, false} {
		r := gin.New()
		r.Use(SecurityHeadersMiddleware(hsts))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, http.MethodGet, "/", nil)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, hsts, w.Header().Get("Strict-Transport-Security") != "")
	}
}

func TestDocsContentSecurityPolicyOverridesAPIPolicy(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(false))
	r.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/docs", DocsContentSecurityPolicy(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, apiContentSecurityPolicy, serve(r, http.MethodGet, "/api", nil).Header().Get("Content-Security-Policy"))

	w := serve(r, http.MethodGet, "/docs", nil)
	assert.Equal(t, docsContentSecurityPolicy, w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
