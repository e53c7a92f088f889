package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestRateLimiterWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewRateLimiter(5, time.Minute, clock.Now)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(), "call %d", i+1)
		clock.Advance(time.Second)
	}
	assert.False(t, l.Allow(), "6th call in the window is refused")
	assert.Equal(t, 0, l.Remaining())

	clock.Advance(time.Minute)
	assert.True(t, l.Allow(), "first call after rollover")
	assert.Equal(t, 4, l.Remaining())
}

func TestRateLimiterDefaults(t *testing.T) {
	l := NewRateLimiter(0, 0, nil)
	assert.Equal(t, DefaultRateLimit, l.Remaining())
}
