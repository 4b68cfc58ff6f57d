package features

import (
	"sync"
	"time"
)

// SessionTracker keeps the per-session last-seen timestamp that feeds the
// time-since-last feature. Touch is an atomic read-modify-write under one
// lock, so concurrent requests from the same session never lose an update
// (they may still observe a near-zero delta, which is an accepted
// approximation).
type SessionTracker struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewSessionTracker creates an empty tracker.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		lastSeen: make(map[string]time.Time),
	}
}

// Touch records now as the session's last-seen time and returns the elapsed
// seconds since the previous contact, clamped to [0, max]. A first-ever
// contact returns 0.
func (t *SessionTracker) Touch(key string, now time.Time, max float64) float64 {
	t.mu.Lock()
	prev, ok := t.lastSeen[key]
	t.lastSeen[key] = now
	t.mu.Unlock()

	if !ok {
		return 0
	}

	delta := now.Sub(prev).Seconds()
	if delta < 0 {
		return 0
	}
	if delta > max {
		return max
	}
	return delta
}

// Len returns the number of tracked sessions.
func (t *SessionTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastSeen)
}

// Prune drops sessions idle for longer than ttl. Called periodically so the
// map does not grow without bound.
func (t *SessionTracker) Prune(now time.Time, ttl time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, seen := range t.lastSeen {
		if now.Sub(seen) > ttl {
			delete(t.lastSeen, key)
			removed++
		}
	}
	return removed
}
