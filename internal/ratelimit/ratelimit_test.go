package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Check_UnderLimit(t *testing.T) {
	l := New(5, 50, 200)
	now := time.Now()

	ok, msg := l.Check("user-1", now)
	require.True(t, ok)
	assert.Empty(t, msg)
}

func TestLimiter_Check_PerMinuteCap(t *testing.T) {
	l := New(2, 50, 200)
	now := time.Now()

	l.Record("user-1", now)
	l.Record("user-1", now.Add(time.Second))

	ok, msg := l.Check("user-1", now.Add(2*time.Second))
	assert.False(t, ok)
	assert.Contains(t, msg, "too quickly")
}

func TestLimiter_Check_SmallestWindowReportedFirst(t *testing.T) {
	l := New(1, 1, 1)
	now := time.Now()

	l.Record("user-1", now)

	ok, msg := l.Check("user-1", now.Add(time.Second))
	assert.False(t, ok)
	assert.Contains(t, msg, "too quickly", "the per-minute window should be checked before the wider ones")
}

func TestLimiter_Check_OldEntriesExpire(t *testing.T) {
	l := New(1, 50, 200)
	now := time.Now()

	l.Record("user-1", now)

	ok, _ := l.Check("user-1", now.Add(2*time.Minute))
	assert.True(t, ok, "entries older than the per-minute window should no longer count toward it")
}

func TestLimiter_Check_PerUserIsolation(t *testing.T) {
	l := New(1, 50, 200)
	now := time.Now()

	l.Record("user-1", now)

	ok, _ := l.Check("user-2", now)
	assert.True(t, ok, "one user's sends must not count against another user's limit")
}

func TestLimiter_Check_HourlyCap(t *testing.T) {
	l := New(1000, 2, 200)
	now := time.Now()

	l.Record("user-1", now)
	l.Record("user-1", now.Add(time.Minute))

	ok, msg := l.Check("user-1", now.Add(2*time.Minute))
	assert.False(t, ok)
	assert.Contains(t, msg, "hourly")
}

func TestLimiter_Check_DailyCap(t *testing.T) {
	l := New(1000, 1000, 2)
	now := time.Now()

	l.Record("user-1", now)
	l.Record("user-1", now.Add(time.Hour))

	ok, msg := l.Check("user-1", now.Add(2*time.Hour))
	assert.False(t, ok)
	assert.Contains(t, msg, "today's message limit")
}
