package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(start time.Time) (*Limiter, *time.Time) {
	current := start
	l := New()
	l.now = func() time.Time { return current }
	return l, &current
}

func TestCheckAllowsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		res := l.Check("login:10.0.0.1", 15*time.Minute, 5)
		assert.True(t, res.Allowed, "call %d", i+1)
		assert.Equal(t, 4-i, res.Remaining)
	}

	res := l.Check("login:10.0.0.1", 15*time.Minute, 5)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestCheckWindowExpiryResetsCount(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(start)

	for i := 0; i < 6; i++ {
		l.Check("login:10.0.0.1", 15*time.Minute, 5)
	}
	assert.False(t, l.Check("login:10.0.0.1", 15*time.Minute, 5).Allowed)

	*now = start.Add(15*time.Minute + time.Second)

	res := l.Check("login:10.0.0.1", 15*time.Minute, 5)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, now.Add(15*time.Minute), res.ResetAt)
}

func TestCheckKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		l.Check("login:10.0.0.1", 15*time.Minute, 5)
	}
	assert.False(t, l.Check("login:10.0.0.1", 15*time.Minute, 5).Allowed)

	// A different IP and another action on the same IP both start fresh.
	assert.True(t, l.Check("login:10.0.0.2", 15*time.Minute, 5).Allowed)
	assert.True(t, l.Check("register:10.0.0.1", 15*time.Minute, 5).Allowed)
}

func TestCheckResetAtStaysFixedWithinWindow(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(start)

	first := l.Check("verify:10.0.0.1", 15*time.Minute, 10)
	*now = start.Add(5 * time.Minute)
	second := l.Check("verify:10.0.0.1", 15*time.Minute, 10)

	assert.Equal(t, first.ResetAt, second.ResetAt)
}
