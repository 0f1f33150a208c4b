package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	start   time.Time
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in a process-local map. It does not coordinate
// across instances.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.windows[key]
	if !ok || !now.Before(e.resetAt) {
		e = &memoryEntry{start: now, resetAt: now.Add(window)}
		s.windows[key] = e
	}
	e.count++

	return Window{Start: e.start, Count: e.count}, nil
}

// Prune drops every window that has already expired and returns how many were removed.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.windows {
		if !now.Before(e.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// StartJanitor prunes expired windows every interval until ctx is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Prune(now)
			}
		}
	}()
}
