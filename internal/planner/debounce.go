package planner

import (
	"sync"
	"time"
)

// DefaultDebounce is the minimum spacing between two sent chat messages.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer drops sends that follow the last successful send too closely.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func NewDebouncer(interval time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{interval: interval, now: now}
}

// Allow reports whether a send is allowed now and, if so, records it as the
// last send. Sends are counted when they start, whatever their outcome.
func (d *Debouncer) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	return true
}
