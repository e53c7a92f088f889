package core

import (
	"sync"
	"time"
)

const (
	DefaultRateLimit  = 5
	DefaultRateWindow = time.Minute
)

// RateLimiter is a fixed-window counter shared by every caller of the assistant.
// The window restarts once wall-clock time passes its end.
type RateLimiter struct {
	mu          sync.Mutex
	max         int
	window      time.Duration
	now         func() time.Time
	windowReset time.Time
	count       int
}

// NewRateLimiter allows max calls per window. A nil clock uses time.Now.
func NewRateLimiter(max int, window time.Duration, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	if max <= 0 {
		max = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		max:         max,
		window:      window,
		now:         now,
		windowReset: now().Add(window),
	}
}

// Allow consumes one slot of the current window. It never blocks.
func (l *RateLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.windowReset) {
		l.count = 0
		l.windowReset = now.Add(l.window)
	}
	if l.count >= l.max {
		return false
	}
	l.count++
	return true
}

// Remaining reports the calls left in the current window.
func (l *RateLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().After(l.windowReset) {
		return l.max
	}
	return l.max - l.count
}
