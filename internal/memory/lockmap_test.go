package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockMap_TryLock_GrantsWhenFree(t *testing.T) {
	m, err := newLockMap(4)
	require.NoError(t, err)

	mutex, ok := m.tryLock("user-1")
	require.True(t, ok)
	require.NotNil(t, mutex)
}

func TestLockMap_TryLock_DeniesWhenAlreadyHeld(t *testing.T) {
	m, err := newLockMap(4)
	require.NoError(t, err)

	_, ok := m.tryLock("user-1")
	require.True(t, ok)

	_, ok = m.tryLock("user-1")
	assert.False(t, ok, "a second caller must not acquire the same key's lock concurrently")
}

func TestLockMap_Unlock_AllowsReacquisition(t *testing.T) {
	m, err := newLockMap(4)
	require.NoError(t, err)

	mutex, ok := m.tryLock("user-1")
	require.True(t, ok)

	m.unlock("user-1", mutex)

	_, ok = m.tryLock("user-1")
	assert.True(t, ok, "after unlock the key should be acquirable again")
}

func TestLockMap_Unlock_ReturnsSameMutexFromIdlePool(t *testing.T) {
	m, err := newLockMap(4)
	require.NoError(t, err)

	first, ok := m.tryLock("user-1")
	require.True(t, ok)
	m.unlock("user-1", first)

	second, ok := m.tryLock("user-1")
	require.True(t, ok)
	assert.Same(t, first, second, "idle mutexes should be reused rather than reallocated")
}

func TestLockMap_DifferentKeysDoNotContend(t *testing.T) {
	m, err := newLockMap(4)
	require.NoError(t, err)

	_, ok1 := m.tryLock("user-1")
	_, ok2 := m.tryLock("user-2")

	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestLockMap_ActiveLockSurvivesIdleEviction(t *testing.T) {
	m, err := newLockMap(1)
	require.NoError(t, err)

	held, ok := m.tryLock("busy-user")
	require.True(t, ok)

	// Filling the idle pool beyond capacity must never evict an active lock.
	for i := 0; i < 5; i++ {
		key := "filler"
		mutex, ok := m.tryLock(key)
		require.True(t, ok)
		m.unlock(key, mutex)
	}

	_, ok = m.tryLock("busy-user")
	assert.False(t, ok, "busy-user's lock must still be held despite idle-pool churn")

	m.unlock("busy-user", held)
}
