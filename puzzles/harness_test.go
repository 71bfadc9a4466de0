/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"testing"
)

// harness mounts one handler instance against a manual clock and counts
// completions the way the session does: once OnComplete runs, the puzzle is
// frozen.
type harness struct {
	clock       *ManualClock
	tasks       *Tasks
	completions int
	completed   bool
}

func (h *harness) env(seed uint64) Env {
	return Env{
		OnComplete:  func() { h.completions++; h.completed = true },
		IsCompleted: func() bool { return h.completed },
		Tasks:       h.tasks,
		Rand:        NewSource(seed),
	}
}

func mount[H Handler](t *testing.T, newHandler func() Handler) (H, *harness) {
	t.Helper()

	clock := NewManualClock()
	h := &harness{clock: clock, tasks: NewTasks(clock)}
	handler := newHandler()
	handler.Mount(h.env(42))

	typed, ok := handler.(H)
	if !ok {
		t.Fatalf("unexpected handler type %T", handler)
	}

	return typed, h
}

// stubHandler is a Handler that does nothing.
type stubHandler struct{}

func (stubHandler) Mount(Env)          {}
func (stubHandler) Handle(Input) error { return nil }
func (stubHandler) View() any          { return nil }

func newStub() Handler { return stubHandler{} }

func stubRegistry(n int) *Registry {
	descs := make([]Descriptor, n)
	for i := range descs {
		descs[i] = Descriptor{ID: i, Kind: "stub", Title: "stub", New: newStub}
	}

	return NewRegistry(descs...)
}
