package planner

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerAllow(t *testing.T) {
	clock := &stepClock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	d := NewDebouncer(DefaultDebounce, clock.Now)

	assert.True(t, d.Allow())
	clock.t = clock.t.Add(400 * time.Millisecond)
	assert.False(t, d.Allow())

	// A dropped send does not move the window.
	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.True(t, d.Allow())
}

func TestDebouncerConcurrentSends(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d := NewDebouncer(DefaultDebounce, func() time.Time { return now })

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Allow() {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), allowed.Load())
}
