package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"natsu-gallery-backend/config"
	_ "natsu-gallery-backend/docs" // Important for Swagger
	v1 "natsu-gallery-backend/internal/delivery/http/v1"
	"natsu-gallery-backend/internal/usecase"
	"natsu-gallery-backend/pkg/email"
	"natsu-gallery-backend/pkg/logger"
	"natsu-gallery-backend/pkg/ratelimit"
	"natsu-gallery-backend/pkg/redis"
	"natsu-gallery-backend/pkg/security"
)

// @title           NATSU_GALLERY Backend API
// @version         1.0
// @description     Contact form relay for the NATSU_GALLERY site.
// @host            localhost:5000
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Setup Loggers
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting natsu gallery backend", "port", cfg.Port, "env", cfg.Environment)

	secLog := security.InitSecurityLogger(cfg.ServiceName, cfg.Environment)
	defer func() { _ = secLog.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup Rate Limiter
	memStore := ratelimit.NewMemoryStore()
	memStore.StartJanitor(ctx, cfg.RateLimitPruneInterval)

	var (
		store       ratelimit.Store = memStore
		limiterOpts []ratelimit.Option
		redisClient *goredis.Client
	)
	redisClient, err = redis.Connect(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		log.Info("Redis not configured, rate limiting is per instance")
	case err != nil:
		if cfg.RateLimitFailClosed {
			log.Error("Redis unavailable and RATE_LIMIT_FAIL_CLOSED is set", "error", err)
			os.Exit(1)
		}
		log.Warn("Redis unavailable, falling back to in-memory rate limiting", "error", err)
	default:
		defer redisClient.Close()
		store = ratelimit.NewRedisStore(redisClient)
		limiterOpts = append(limiterOpts,
			ratelimit.WithFallback(memStore),
			ratelimit.WithFailClosed(cfg.RateLimitFailClosed),
		)
		log.Info("Rate limiting backed by Redis", "fail_closed", cfg.RateLimitFailClosed)
	}
	limiter := ratelimit.New(store, cfg.RateLimitMax, cfg.RateLimitWindow(), limiterOpts...)

	// 4. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		log.Warn("Email service not fully configured - contact submissions will fail")
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(limiter, emailService, log, secLog)

	var pinger usecase.Pinger
	if redisClient != nil {
		pinger = usecase.PingFunc(func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		})
	}
	healthUC := usecase.NewHealthUsecase(pinger)

	// 6. Setup Router
	router, err := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		Config:         cfg,
		Logger:         log,
		SecurityLogger: secLog,
		Clock:          limiter.Now,
	})
	if err != nil {
		log.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Leaves room for the SMTP timeout plus response writing.
		WriteTimeout: cfg.EmailTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server is running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.EmailTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	stop()

	log.Info("Server exiting")
}
