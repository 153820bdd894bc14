package engine

import "sync"

// accountLocks serializes submissions per account so the balance
// read-modify-write cannot race with a concurrent submission for the same
// account. Locks are created on first use and kept for the process lifetime;
// the key space is bounded by the number of active accounts.
type accountLocks struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns its unlock function.
func (a *accountLocks) acquire(key string) func() {
	a.mu.Lock()
	lock, ok := a.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[key] = lock
	}
	a.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
