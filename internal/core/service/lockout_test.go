package service

import (
	"testing"
	"time"
)

func newTestLockout(start time.Time) (*Lockout, *time.Time) {
	l := NewLockout(3, 30*time.Second)
	now := start
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLockout_ThreeFailuresLockFor30s(t *testing.T) {
	l, now := newTestLockout(time.Unix(1000, 0))

	for i := 0; i < 3; i++ {
		if ok, _ := l.Allowed(); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		l.Fail()
	}

	ok, remaining := l.Allowed()
	if ok {
		t.Fatalf("4th attempt must be refused client-side")
	}
	if remaining != 30*time.Second {
		t.Fatalf("remaining = %v, want 30s", remaining)
	}

	*now = now.Add(29 * time.Second)
	if ok, _ := l.Allowed(); ok {
		t.Fatalf("still inside the lock window")
	}

	*now = now.Add(2 * time.Second)
	if ok, _ := l.Allowed(); !ok {
		t.Fatalf("lock should lift after the window")
	}
}

func TestLockout_TwoFailuresDoNotLock(t *testing.T) {
	l, _ := newTestLockout(time.Unix(1000, 0))
	l.Fail()
	l.Fail()
	if ok, _ := l.Allowed(); !ok {
		t.Fatalf("two failures must not lock")
	}
}

func TestLockout_ResetClearsCounter(t *testing.T) {
	l, _ := newTestLockout(time.Unix(1000, 0))
	l.Fail()
	l.Fail()
	l.Reset()
	l.Fail()
	l.Fail()
	if ok, _ := l.Allowed(); !ok {
		t.Fatalf("counter should have restarted after reset")
	}
}

func TestLockout_Defaults(t *testing.T) {
	l := NewLockout(0, 0)
	if l.maxAttempts != defaultMaxAttempts || l.window != defaultWindow {
		t.Fatalf("defaults not applied: %d %v", l.maxAttempts, l.window)
	}
}
