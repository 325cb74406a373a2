package schedule

import (
	"sync"
	"testing"
	"time"
)

// TestTimers_RunsCallback verifies a scheduled task fires under the lock.
func TestTimers_RunsCallback(t *testing.T) {
	var mu sync.Mutex
	timers := NewTimers(&mu)
	done := make(chan struct{})

	task := timers.AfterFunc(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback did not run")
	}
	if task.Cancel() {
		t.Fatalf("expected cancel after firing to return false")
	}
}

// TestTimers_CancelIsIdempotent verifies only the first cancel succeeds.
func TestTimers_CancelIsIdempotent(t *testing.T) {
	var mu sync.Mutex
	timers := NewTimers(&mu)
	fired := make(chan struct{}, 1)

	task := timers.AfterFunc(20*time.Millisecond, func() { fired <- struct{}{} })
	if !task.Cancel() {
		t.Fatalf("expected first cancel to succeed")
	}
	if task.Cancel() {
		t.Fatalf("expected second cancel to return false")
	}

	select {
	case <-fired:
		t.Fatalf("cancelled task fired")
	case <-time.After(60 * time.Millisecond):
	}
}

// TestTimers_CancelWhileWaitingForLock verifies a cancel issued by the lock
// holder wins over a callback blocked on the same lock.
func TestTimers_CancelWhileWaitingForLock(t *testing.T) {
	var mu sync.Mutex
	timers := NewTimers(&mu)
	fired := make(chan struct{}, 1)

	mu.Lock()
	task := timers.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
	time.Sleep(20 * time.Millisecond)
	cancelled := task.Cancel()
	mu.Unlock()

	if !cancelled {
		t.Fatalf("expected cancel to succeed while callback waits for lock")
	}
	select {
	case <-fired:
		t.Fatalf("cancelled task fired")
	case <-time.After(40 * time.Millisecond):
	}
}
