/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgress(n int) (*Progress, *ManualClock) {
	clock := NewManualClock()

	return NewProgress(stubRegistry(n), clock, DefaultAdvanceDelay), clock
}

func TestNavigateIgnoresInvalidIndices(t *testing.T) {
	p, _ := newTestProgress(10)
	p.Navigate(3)
	epoch := p.Epoch()

	for _, i := range []int{-1 << 20, -100, -1, 10, 11, 1 << 20} {
		p.Navigate(i)
		assert.Equal(t, 3, p.ActiveIndex(), "navigate(%d)", i)
	}
	assert.Equal(t, epoch, p.Epoch())
}

func TestNavigateMovesWithinRange(t *testing.T) {
	p, _ := newTestProgress(10)

	for _, i := range []int{0, 9, 4, 4, 1} {
		p.Navigate(i)
		assert.Equal(t, i, p.ActiveIndex())
		assert.Equal(t, i, p.Active().ID)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	once, _ := newTestProgress(10)
	twice, _ := newTestProgress(10)

	once.Complete(4)
	twice.Complete(4)
	twice.Complete(4)

	assert.Equal(t, once.CompletedIDs(), twice.CompletedIDs())
	assert.Equal(t, []int{4}, twice.CompletedIDs())
	assert.True(t, twice.IsCompleted(4))
	assert.False(t, twice.IsCompleted(3))
}

func TestCompleteIgnoresInvalidIndices(t *testing.T) {
	p, clock := newTestProgress(10)

	p.Complete(-1)
	p.Complete(10)

	assert.Empty(t, p.CompletedIDs())
	assert.Zero(t, clock.Pending())
}

func TestCompleteAutoAdvancesAfterDelay(t *testing.T) {
	p, clock := newTestProgress(10)
	p.Navigate(2)
	epoch := p.Epoch()

	p.Complete(2)
	require.Equal(t, 2, p.ActiveIndex())

	clock.Advance(DefaultAdvanceDelay - time.Millisecond)
	assert.Equal(t, 2, p.ActiveIndex())

	clock.Advance(time.Millisecond)
	assert.Equal(t, 3, p.ActiveIndex())
	assert.NotEqual(t, epoch, p.Epoch())
	assert.Zero(t, clock.Pending())
}

func TestNavigateSupersedesPendingAdvance(t *testing.T) {
	cases := []struct {
		name   string
		target int
	}{
		{"elsewhere", 7},
		{"same puzzle", 2},
		{"backwards", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, clock := newTestProgress(10)
			p.Navigate(2)
			p.Complete(2)

			p.Navigate(tc.target)
			clock.Advance(10 * DefaultAdvanceDelay)

			assert.Equal(t, tc.target, p.ActiveIndex())
		})
	}
}

func TestStaleAdvanceIsNoOpWhenTimerAlreadyFired(t *testing.T) {
	sched := &queuedScheduler{}
	p := NewProgress(stubRegistry(10), sched, DefaultAdvanceDelay)

	p.Complete(0)
	require.Len(t, sched.fns, 1)

	p.Navigate(5)
	sched.fire()

	assert.Equal(t, 5, p.ActiveIndex())
}

func TestCompleteInactiveOrLastDoesNotAdvance(t *testing.T) {
	p, clock := newTestProgress(10)

	p.Complete(6)
	assert.Zero(t, clock.Pending(), "inactive puzzle")

	p.Navigate(9)
	p.Complete(9)
	assert.Zero(t, clock.Pending(), "last puzzle")

	clock.Advance(time.Minute)
	assert.Equal(t, 9, p.ActiveIndex())
}

func TestResetRestoresInitialState(t *testing.T) {
	p, clock := newTestProgress(10)
	p.Navigate(5)
	p.Complete(1)
	p.Complete(5)
	epoch := p.Epoch()

	p.Reset()
	clock.Advance(time.Minute)

	assert.Equal(t, 0, p.ActiveIndex())
	assert.Empty(t, p.CompletedIDs())
	assert.NotEqual(t, epoch, p.Epoch())

	p.Reset()
	assert.Equal(t, 0, p.ActiveIndex())
	assert.Empty(t, p.CompletedIDs())
}

func TestSummary(t *testing.T) {
	cases := []struct {
		total     int
		completed []int
		active    int
		want      Summary
	}{
		{10, nil, 0, Summary{Current: 1, Total: 10, Completed: 0, Percentage: 0}},
		{10, []int{0, 1, 2}, 3, Summary{Current: 4, Total: 10, Completed: 3, Percentage: 30}},
		{3, []int{0}, 2, Summary{Current: 3, Total: 3, Completed: 1, Percentage: 33}},
		{3, []int{0, 2}, 1, Summary{Current: 2, Total: 3, Completed: 2, Percentage: 67}},
		{8, []int{0}, 0, Summary{Current: 1, Total: 8, Completed: 1, Percentage: 13}},
	}

	for _, tc := range cases {
		p, _ := newTestProgress(tc.total)
		for _, id := range tc.completed {
			p.Complete(id)
		}
		p.Navigate(tc.active)

		assert.Equal(t, tc.want, p.Summary())
	}
}
