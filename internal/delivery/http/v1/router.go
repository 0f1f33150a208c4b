package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"natsu-gallery-backend/config"
	"natsu-gallery-backend/internal/delivery/http/middleware"
	"natsu-gallery-backend/internal/delivery/http/response"
	"natsu-gallery-backend/internal/domain"
	"natsu-gallery-backend/internal/usecase"
	"natsu-gallery-backend/pkg/security"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       usecase.HealthUsecase
	Config         *config.Config
	Logger         *slog.Logger
	SecurityLogger *security.SecurityLogger
	// Clock must be the rate limiter's clock so RateLimit-Reset agrees with it.
	Clock func() time.Time
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	r := gin.New()

	// ClientIP is the rate-limit key, so only listed proxies may set X-Forwarded-For.
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger, deps.SecurityLogger))
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins, deps.SecurityLogger))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.Environment == "production"))
	r.Use(middleware.ErrorHandler(deps.Logger))

	NewHealthHandler(r, deps.HealthUC)

	// Swagger
	r.GET("/swagger/*any", middleware.DocsContentSecurityPolicy(), ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	NewContactHandler(api, deps.ContactUC, deps.Config.MaxBodyBytes, deps.Clock)

	r.NoRoute(func(c *gin.Context) {
		response.Message(c, http.StatusNotFound, "Not Found")
	})

	return r, nil
}
