package service

import "sync"

// groupLocks serializes mutations per group. The engine assumes
// single-writer-at-a-time semantics and performs no locking itself, so the
// service layer owns the update queue: every load-mutate-persist cycle for a
// group runs under that group's lock. Reads skip it; balances and plans are
// re-derived on demand.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*sync.Mutex)}
}

// forGroup returns the mutex serializing writes to the given group.
func (l *groupLocks) forGroup(groupID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[groupID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[groupID] = m
	}
	return m
}
