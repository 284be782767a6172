package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateGet(t *testing.T) {
	r := NewRegistry(time.Hour)
	s := r.Create(func(m string) string { return m })
	require.NotEmpty(t, s.ID)

	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	s := r.Create(func(m string) string { return m })

	assert.Zero(t, r.Sweep())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, r.Sweep())

	_, ok := r.Get(s.ID)
	assert.False(t, ok)
}

func TestWithRefreshesIdleClock(t *testing.T) {
	r := NewRegistry(30 * time.Millisecond)
	s := r.Create(func(m string) string { return m })

	time.Sleep(20 * time.Millisecond)
	s.With(func(*Session) {})
	time.Sleep(20 * time.Millisecond)

	// touched at t=20ms, so still inside the TTL at t=40ms
	assert.Zero(t, r.Sweep())
}
