package testutil

import (
	"sort"
	"time"

	"github.com/frudas24/touchslice/internal/schedule"
)

// ManualScheduler implements schedule.Scheduler on a virtual clock that only
// moves when Advance is called.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

// Ensure ManualScheduler implements the interface.
var _ schedule.Scheduler = (*ManualScheduler)(nil)

type manualTask struct {
	due       time.Duration
	seq       int
	fn        func()
	fired     bool
	cancelled bool
}

// Cancel stops the task if it has not fired.
func (t *manualTask) Cancel() bool {
	if t.fired || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// AfterFunc schedules fn at now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) schedule.Task {
	s.seq++
	task := &manualTask{due: s.now + d, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// Advance moves the clock forward and runs every task that became due, in
// due order.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		task := s.nextDue(target)
		if task == nil {
			break
		}
		s.now = task.due
		task.fired = true
		task.fn()
	}
	s.now = target
}

// Pending returns the number of tasks that have neither fired nor been
// cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

// nextDue returns the earliest live task due at or before target.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	live := make([]*manualTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.fired && !t.cancelled {
			live = append(live, t)
		}
	}
	s.tasks = live
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].due == live[j].due {
			return live[i].seq < live[j].seq
		}
		return live[i].due < live[j].due
	})
	if len(live) == 0 || live[0].due > target {
		return nil
	}
	return live[0]
}
