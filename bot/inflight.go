package bot

import "sync"

// Inflight tracks users with a request in progress so the same user
// cannot stack duplicate fetches. It is advisory only, there is no
// shared resource behind it.
type Inflight struct {
	mu    sync.Mutex
	users map[int64]struct{}
}

// NewInflight returns an empty guard.
func NewInflight() *Inflight {
	return &Inflight{users: make(map[int64]struct{})}
}

// TryAcquire marks the user busy. Returns false if a request for the
// user is already running.
func (f *Inflight) TryAcquire(user int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.users[user]; busy {
		return false
	}
	f.users[user] = struct{}{}
	return true
}

// Busy reports whether the user currently has a request running.
func (f *Inflight) Busy(user int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.users[user]
	return busy
}

// Release clears the user's busy mark. Safe to call when not held.
func (f *Inflight) Release(user int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, user)
}
