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

// sortByMoves puts the items in order using only move inputs.
func sortByMoves(t *testing.T, o *Ordering) {
	t.Helper()

	for want := range o.items {
		from := -1
		for i, item := range o.items {
			if item.Order == want {
				from = i
			}
		}
		require.NoError(t, o.Handle(Input{Action: "move", Index: from, To: want}))
	}
}

func TestOrderingStartsShuffled(t *testing.T) {
	for seed := range uint64(20) {
		o := &Ordering{}
		o.Mount(Env{Tasks: NewTasks(NewManualClock()), Rand: NewSource(seed)})

		assert.False(t, o.inOrder(), "seed %d", seed)
		assert.Len(t, o.items, len(orderItems))
	}
}

func TestOrderingHintsEscalate(t *testing.T) {
	o, h := mount[*Ordering](t, NewOrdering)

	for i := range 6 {
		require.NoError(t, o.Handle(Input{Action: "check"}))
		view := o.View().(OrderingView)
		assert.Equal(t, i+1, view.Attempts)
		assert.Equal(t, orderingHints[min(i, len(orderingHints)-1)], view.Message)
	}

	sortByMoves(t, o)
	require.NoError(t, o.Handle(Input{Action: "check"}))
	assert.True(t, o.View().(OrderingView).Solved)

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 1, h.completions)
}

func TestOrderingUpDown(t *testing.T) {
	o, _ := mount[*Ordering](t, NewOrdering)
	first, second := o.items[0], o.items[1]

	require.NoError(t, o.Handle(Input{Action: "up", Index: 0}))
	assert.Equal(t, first, o.items[0], "moving the top item up is a no-op")

	require.NoError(t, o.Handle(Input{Action: "down", Index: 0}))
	assert.Equal(t, second, o.items[0])
	assert.Equal(t, first, o.items[1])

	last := len(o.items) - 1
	bottom := o.items[last]
	require.NoError(t, o.Handle(Input{Action: "down", Index: last}))
	assert.Equal(t, bottom, o.items[last])
}

func TestOrderingRejectsBadInput(t *testing.T) {
	o, _ := mount[*Ordering](t, NewOrdering)

	assert.ErrorIs(t, o.Handle(Input{Action: "move", Index: 0, To: 9}), ErrInvalidInput)
	assert.ErrorIs(t, o.Handle(Input{Action: "up", Index: -1}), ErrInvalidInput)
	assert.ErrorIs(t, o.Handle(Input{Action: "shuffle"}), ErrUnknownAction)
}
