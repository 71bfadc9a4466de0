/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// queuedScheduler models timers that have already fired and whose callbacks
// are waiting in an event queue: Stop always comes too late.
type queuedScheduler struct {
	fns []func()
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

func (q *queuedScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	q.fns = append(q.fns, fn)
	return firedTimer{}
}

func (q *queuedScheduler) fire() {
	fns := q.fns
	q.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func TestManualClockRunsInDueOrder(t *testing.T) {
	clock := NewManualClock()
	var got []string

	clock.AfterFunc(3*time.Second, func() { got = append(got, "c") })
	clock.AfterFunc(time.Second, func() { got = append(got, "a") })
	clock.AfterFunc(time.Second, func() { got = append(got, "b") })
	clock.AfterFunc(0, func() {
		got = append(got, "now")
		clock.AfterFunc(2*time.Second, func() { got = append(got, "nested") })
	})

	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"now", "a", "b", "nested"}, got)
	assert.Equal(t, 2*time.Second, clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"now", "a", "b", "nested", "c"}, got)
	assert.Zero(t, clock.Pending())
}

func TestManualClockStop(t *testing.T) {
	clock := NewManualClock()
	ran := false

	timer := clock.AfterFunc(time.Second, func() { ran = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(time.Minute)
	assert.False(t, ran)

	fired := clock.AfterFunc(time.Second, func() {})
	clock.Advance(time.Second)
	assert.False(t, fired.Stop())
}

func TestTaskStop(t *testing.T) {
	clock := NewManualClock()
	tasks := NewTasks(clock)
	var ran []int

	first := tasks.After(time.Second, func() { ran = append(ran, 1) })
	tasks.After(2*time.Second, func() { ran = append(ran, 2) })
	assert.Equal(t, 2, tasks.Pending())

	first.Stop()
	first.Stop()
	assert.Equal(t, 1, tasks.Pending())

	clock.Advance(time.Minute)
	assert.Equal(t, []int{2}, ran)
	assert.Zero(t, tasks.Pending())

	var nilTask *Task
	nilTask.Stop()
}

func TestTasksStopCancelsPending(t *testing.T) {
	clock := NewManualClock()
	tasks := NewTasks(clock)
	ran := 0

	tasks.After(time.Second, func() { ran++ })
	tasks.After(time.Hour, func() { ran++ })
	tasks.Stop()

	assert.Zero(t, clock.Pending())
	clock.Advance(2 * time.Hour)
	assert.Zero(t, ran)

	tasks.After(0, func() { ran++ })
	clock.Advance(time.Second)
	assert.Zero(t, ran, "scheduling on a stopped group is a no-op")
}

func TestTasksStopGuardsAlreadyFiredCallbacks(t *testing.T) {
	sched := &queuedScheduler{}
	tasks := NewTasks(sched)
	ran := false

	tasks.After(time.Second, func() { ran = true })
	tasks.Stop()
	sched.fire()

	assert.False(t, ran)
}
