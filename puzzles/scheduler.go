/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a scheduled action.
type Timer interface {
	// Stop cancels the action. It returns false if the action already ran
	// or was stopped before.
	Stop() bool
}

// Scheduler defers actions.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// WallClock schedules actions on real timers. Callbacks run on their own
// goroutine, so callers that need a single-threaded model must wrap it.
func WallClock() Scheduler {
	return wallClock{}
}

// Task is one action scheduled through a Tasks group.
type Task struct {
	group *Tasks
	timer Timer
	done  bool
}

// Stop cancels the task if it has not run yet.
func (k *Task) Stop() {
	if k == nil || k.done {
		return
	}
	k.done = true
	if k.timer != nil {
		k.timer.Stop()
	}
	delete(k.group.pending, k)
}

// Tasks groups the timers belonging to one puzzle instance. Once the group is
// stopped no callback scheduled through it will run, even one whose timer has
// already fired and is waiting to be delivered.
//
// Tasks is not safe for concurrent use; callbacks must be delivered on the
// goroutine that owns the group.
type Tasks struct {
	sched   Scheduler
	pending map[*Task]struct{}
	stopped bool
}

func NewTasks(sched Scheduler) *Tasks {
	return &Tasks{
		sched:   sched,
		pending: make(map[*Task]struct{}),
	}
}

// After runs fn once d has elapsed, unless the task or the group is stopped
// first.
func (t *Tasks) After(d time.Duration, fn func()) *Task {
	k := &Task{group: t}
	if t.stopped {
		k.done = true
		return k
	}

	t.pending[k] = struct{}{}
	k.timer = t.sched.AfterFunc(d, func() {
		if k.done || t.stopped {
			return
		}
		k.done = true
		delete(t.pending, k)
		fn()
	})

	return k
}

// Pending returns the number of tasks still waiting to run.
func (t *Tasks) Pending() int {
	return len(t.pending)
}

// Stop cancels every pending task and marks the group dead.
func (t *Tasks) Stop() {
	t.stopped = true
	for k := range t.pending {
		k.done = true
		if k.timer != nil {
			k.timer.Stop()
		}
		delete(t.pending, k)
	}
}

// ManualClock is a Scheduler driven by Advance instead of wall time.
// Callbacks run on the goroutine calling Advance, in due order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

func (m *manualTimer) Stop() bool {
	m.clock.mu.Lock()
	defer m.clock.mu.Unlock()

	if m.done {
		return false
	}
	m.done = true
	m.clock.prune()

	return true
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}
	c.seq++
	m := &manualTimer{clock: c, at: c.now + d, seq: c.seq, fn: fn}
	c.pending = append(c.pending, m)

	return m
}

// Now returns the time elapsed since the clock was created.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pending)
}

// Advance moves the clock forward by d, running every timer that falls due,
// including timers scheduled by the callbacks themselves.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d

	for {
		next := c.due(target)
		if next == nil {
			break
		}
		next.done = true
		c.now = next.at
		c.prune()

		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

func (c *ManualClock) due(target time.Duration) *manualTimer {
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})

	for _, m := range c.pending {
		if !m.done && m.at <= target {
			return m
		}
	}

	return nil
}

func (c *ManualClock) prune() {
	dst := c.pending[:0]
	for _, m := range c.pending {
		if !m.done {
			dst = append(dst, m)
		}
	}
	c.pending = dst
}
