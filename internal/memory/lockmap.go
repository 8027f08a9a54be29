package memory

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lockMap hands out a per-key mutex for non-blocking acquisition, bounded
// to lockMapCapacity idle entries. Mutexes currently held are tracked
// outside the LRU so a busy user's lock is never evicted out from under
// it; only idle (already-unlocked) mutexes are subject to eviction.
type lockMap struct {
	mu     sync.Mutex
	active map[string]*sync.Mutex
	idle   *lru.Cache[string, *sync.Mutex]
}

func newLockMap(capacity int) (*lockMap, error) {
	idle, err := lru.New[string, *sync.Mutex](capacity)
	if err != nil {
		return nil, err
	}
	return &lockMap{active: make(map[string]*sync.Mutex), idle: idle}, nil
}

// tryLock returns the key's mutex, already locked, if it was not already
// held by another caller.
func (m *lockMap) tryLock(key string) (*sync.Mutex, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.active[key]; busy {
		return nil, false
	}

	mutex, ok := m.idle.Get(key)
	if ok {
		m.idle.Remove(key)
	} else {
		mutex = &sync.Mutex{}
	}
	mutex.Lock()
	m.active[key] = mutex
	return mutex, true
}

// unlock releases key's mutex and returns it to the idle pool.
func (m *lockMap) unlock(key string, mutex *sync.Mutex) {
	m.mu.Lock()
	delete(m.active, key)
	m.idle.Add(key, mutex)
	m.mu.Unlock()
	mutex.Unlock()
}
