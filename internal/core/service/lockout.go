package service

import (
	"sync"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultWindow      = 30 * time.Second
)

// Lockout is the client-side login throttle: after MaxAttempts consecutive
// failures, sign-in is refused locally for Window without touching the
// backend. A UX brake, not a security control; the backend keeps its own
// limits.
type Lockout struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	failures    int
	lockedUntil time.Time
	now         func() time.Time
}

func NewLockout(maxAttempts int, window time.Duration) *Lockout {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Lockout{maxAttempts: maxAttempts, window: window, now: time.Now}
}

// Allowed reports whether a sign-in attempt may proceed, and when not, how
// long until the lock lifts.
func (l *Lockout) Allowed() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := l.lockedUntil.Sub(l.now())
	if remaining > 0 {
		return false, remaining
	}
	return true, 0
}

// Fail records a failed attempt; on the Nth consecutive failure the lock
// window starts and the counter resets.
func (l *Lockout) Fail() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures++
	if l.failures >= l.maxAttempts {
		l.lockedUntil = l.now().Add(l.window)
		l.failures = 0
	}
}

// Reset clears the counter after a successful sign-in.
func (l *Lockout) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = 0
	l.lockedUntil = time.Time{}
}
