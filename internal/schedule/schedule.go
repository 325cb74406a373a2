// Package schedule provides cancellable delayed tasks.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a scheduled callback.
type Task interface {
	// Cancel stops the task. It returns true only for the call that
	// actually prevented the callback from running.
	Cancel() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

const (
	statePending int32 = iota
	stateFired
	stateCancelled
)

// Timers schedules callbacks on the runtime timer. Callbacks run while
// holding mu, so they serialize with every other holder of the same lock.
type Timers struct {
	mu sync.Locker
}

// NewTimers returns a scheduler whose callbacks hold mu while running.
func NewTimers(mu sync.Locker) *Timers {
	return &Timers{mu: mu}
}

// AfterFunc schedules fn to run after d.
func (t *Timers) AfterFunc(d time.Duration, fn func()) Task {
	task := &timerTask{}
	task.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// A cancel may win while this callback waits for the lock.
		if !task.state.CompareAndSwap(statePending, stateFired) {
			return
		}
		fn()
	})
	return task
}

type timerTask struct {
	state atomic.Int32
	timer *time.Timer
}

// Cancel stops the timer if it has not fired yet.
func (t *timerTask) Cancel() bool {
	if !t.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	t.timer.Stop()
	return true
}
