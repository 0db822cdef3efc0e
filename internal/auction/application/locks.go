package application

import (
	"sync"

	"github.com/google/uuid"
)

// LockTable hands out one mutex per lot so that bid admission and closure
// for the same lot never interleave. The legacy client read the current
// highest bid and inserted the new one as separate unguarded calls; every
// read-validate-write sequence here runs under the lot's mutex instead.
//
// Locks are created on first use and kept for the process lifetime; the
// table grows with the number of distinct lots seen, which is bounded by
// the catalog size.
type LockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Get returns the mutex for a lot, creating it if needed.
func (t *LockTable) Get(id uuid.UUID) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	return m
}
