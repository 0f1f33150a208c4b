package usecase

import (
	"context"
	"time"
)

// Pinger is anything whose liveness can be probed, e.g. a Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	redis   Pinger
	timeout time.Duration
}

// NewHealthUsecase reports process liveness plus the state of the optional
// Redis rate-limit store. redis may be nil when Redis is not configured.
func NewHealthUsecase(redis Pinger) HealthUsecase {
	return &healthUsecase{redis: redis, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"redis":  "disabled",
	}
	if u.redis == nil {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	if err := u.redis.Ping(ctx); err != nil {
		// The limiter falls back to memory, so the service stays up.
		status["redis"] = "down"
		return status
	}
	status["redis"] = "ok"
	return status
}
