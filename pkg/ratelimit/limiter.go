// Package ratelimit implements a fixed-window request counter keyed by client.
//
// The counting state lives behind a Store so the same Limiter can run on a
// process-local map or on Redis shared by every instance.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

var ErrStoreUnavailable = errors.New("ratelimit: store unavailable")

// Window is the counting state of one client key.
type Window struct {
	Start time.Time
	Count int
}

// Store records one hit for key and returns the window it was counted in.
// Implementations must make the read and the increment atomic per key.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error)
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the window resets, rounded up to whole seconds.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	secs := math.Ceil(d.ResetAt.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

type Limiter struct {
	store      Store
	fallback   Store
	limit      int
	window     time.Duration
	keyPrefix  string
	failClosed bool
	now        func() time.Time
}

type Option func(*Limiter)

// WithFallback sets the store used when the primary store returns an error.
func WithFallback(s Store) Option {
	return func(l *Limiter) { l.fallback = s }
}

// WithFailClosed makes store errors reject the request instead of falling back.
func WithFailClosed(failClosed bool) Option {
	return func(l *Limiter) { l.failClosed = failClosed }
}

func WithKeyPrefix(prefix string) Option {
	return func(l *Limiter) { l.keyPrefix = prefix }
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		store:     store,
		limit:     limit,
		window:    window,
		keyPrefix: "rl:contact:",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Limit() int {
	return l.limit
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

// Now is the limiter's clock; callers use it to compute Retry-After consistently.
func (l *Limiter) Now() time.Time {
	return l.now()
}

// Allow counts one request for clientKey and reports whether it fits in the
// current window. An error is only returned when the store failed and the
// limiter is configured to fail closed.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (Decision, error) {
	now := l.now()
	key := l.keyPrefix + clientKey

	w, err := l.store.Hit(ctx, key, l.window, now)
	if err != nil {
		if l.failClosed || l.fallback == nil {
			return Decision{Limit: l.limit, ResetAt: now.Add(l.window)}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		w, err = l.fallback.Hit(ctx, key, l.window, now)
		if err != nil {
			return Decision{Limit: l.limit, ResetAt: now.Add(l.window)}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	remaining := l.limit - w.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   w.Count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   w.Start.Add(l.window),
	}, nil
}
