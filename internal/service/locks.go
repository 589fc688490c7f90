package service

import "sync"

// userLocks serializes mutations per user ID. Statistics and subscription
// writes are read-modify-write over a whole document, so concurrent
// requests from the same user (e.g. two browser tabs) would otherwise
// lose updates.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// Acquire locks the mutex for the given user and returns its unlock func.
func (l *userLocks) Acquire(userID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
