package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryResolve(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := newSessionRegistry(time.Hour, func() time.Time { return now })

	id, err := reg.Create("alice")
	require.NoError(t, err)
	assert.Len(t, id, 32, "token should be 16 random bytes hex-encoded")

	username, ok := reg.Resolve(id)
	assert.True(t, ok)
	assert.Equal(t, "alice", username)

	// Still valid one second before expiry.
	now = now.Add(time.Hour - time.Second)
	username, ok = reg.Resolve(id)
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
}

func TestSessionRegistryExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := newSessionRegistry(time.Hour, func() time.Time { return now })

	id, err := reg.Create("alice")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, ok := reg.Resolve(id)
	assert.False(t, ok, "session must be invalid at its expiry instant")

	// Lazy eviction: the record is gone even if the clock rolls back.
	now = now.Add(-30 * time.Minute)
	_, ok = reg.Resolve(id)
	assert.False(t, ok)
}

func TestSessionRegistryRevoke(t *testing.T) {
	reg := newSessionRegistry(time.Hour, time.Now)

	id, err := reg.Create("alice")
	require.NoError(t, err)

	reg.Revoke(id)
	_, ok := reg.Resolve(id)
	assert.False(t, ok)

	// Revoking again, or revoking garbage, is a no-op.
	reg.Revoke(id)
	reg.Revoke("no-such-session")
}

func TestSessionRegistryTokensAreUnique(t *testing.T) {
	reg := newSessionRegistry(time.Hour, time.Now)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := reg.Create("alice")
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
