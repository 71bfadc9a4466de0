/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import "time"

// Input is a single user event routed to the active handler.
type Input struct {
	Action string   `json:"action"`
	Target string   `json:"target,omitempty"` // entity or equation id
	Value  string   `json:"value,omitempty"`  // free text, date, colour, verb
	Values []string `json:"values,omitempty"` // full multi-select state
	Index  int      `json:"index,omitempty"`  // cell, dial, switch or list position
	To     int      `json:"to,omitempty"`     // drop position for reordering
	Number int      `json:"number,omitempty"` // pressed button or dial value
}

// Env is everything a handler may see of the outside world.
type Env struct {
	// OnComplete reports the win condition. Handlers call it at most once.
	OnComplete func()
	// IsCompleted reports whether this puzzle is already marked done. While
	// it returns true the handler is frozen.
	IsCompleted func() bool
	// Tasks owns every timer the handler schedules. It is stopped when the
	// instance is unmounted.
	Tasks *Tasks
	Rand  Source
}

// Handler is one puzzle's state machine.
//
// Mount resets all internal state. Handle applies a single input; user
// mistakes are ordinary transitions and return nil, while malformed input
// returns an error wrapping ErrUnknownAction or ErrInvalidInput. View
// returns a JSON-serialisable snapshot for the client.
type Handler interface {
	Mount(env Env)
	Handle(in Input) error
	View() any
}

// lifecycle carries the bookkeeping shared by every handler: the
// environment, the frozen check and the once-only completion.
type lifecycle struct {
	env Env
	won bool
}

func (l *lifecycle) frozen() bool {
	return l.env.IsCompleted != nil && l.env.IsCompleted()
}

// win records the win condition and schedules OnComplete after delay. Later
// calls are ignored.
func (l *lifecycle) win(delay time.Duration) {
	if l.won {
		return
	}
	l.won = true

	if l.env.OnComplete == nil {
		return
	}
	l.env.Tasks.After(delay, l.env.OnComplete)
}
