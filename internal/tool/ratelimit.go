package tool

import (
	"fmt"
	"sync"
	"time"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// RateLimiter implements a sliding-window rate limiter keyed by tool name.
// Each tool gets its own window; whitelisted tools bypass the limit entirely.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	whitelist map[string]bool
	calls     map[string][]time.Time
	now       func() time.Time // for testing
}

// NewRateLimiter creates a rate limiter that allows limit calls per window
// for each tool. Tools in whitelist are never limited.
func NewRateLimiter(limit int, window time.Duration, whitelist []string) *RateLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, name := range whitelist {
		wl[name] = true
	}
	return &RateLimiter{
		limit:     limit,
		window:    window,
		whitelist: wl,
		calls:     make(map[string][]time.Time),
		now:       time.Now,
	}
}

// CheckAndRecord checks the limit for the tool and records the call in one
// atomic step. It returns domain.ErrRateLimited when the window is full; in
// that case the call is not recorded.
func (r *RateLimiter) CheckAndRecord(toolName string) error {
	if r.whitelist[toolName] {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	// Trim expired entries.
	entries := r.calls[toolName]
	n := 0
	for _, t := range entries {
		if t.After(cutoff) {
			entries[n] = t
			n++
		}
	}
	entries = entries[:n]

	if len(entries) >= r.limit {
		r.calls[toolName] = entries
		return fmt.Errorf("%w: %s exceeded %d calls per %s", domain.ErrRateLimited, toolName, r.limit, r.window)
	}

	r.calls[toolName] = append(entries, now)
	return nil
}

// Reset clears all recorded calls. Useful for testing.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = make(map[string][]time.Time)
}
