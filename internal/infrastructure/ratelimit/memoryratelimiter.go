package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimiter is a per-process fixed window limiter for deployments
// without Redis.
type MemoryRateLimiter struct {
	policy  Policy
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewMemoryRateLimiter(policy Policy) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		policy:  policy,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.policy.Window {
		l.sweep(now)
		w = &window{start: now}
		l.windows[key] = w
	}

	if w.count >= l.policy.Limit {
		return Decision{Allowed: false, RetryAfter: w.start.Add(l.policy.Window).Sub(now)}, nil
	}
	w.count++
	return Decision{Allowed: true, Remaining: l.policy.Limit - w.count}, nil
}

func (l *MemoryRateLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
	return nil
}

// sweep drops expired windows; callers hold mu.
func (l *MemoryRateLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.policy.Window {
			delete(l.windows, k)
		}
	}
}
