/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"slices"
	"time"
)

var (
	selectionOptions = []string{
		"angular", "vue", "svelte", "react", "ember", "backbone",
		"jquery", "polymer", "kendo", "lit", "alpine", "stimulus",
	}
	selectionAnswer = []string{"kendo", "react"}
)

// Selection is solved when exactly the two answer technologies are chosen.
type Selection struct {
	lifecycle
	selected []string
}

type SelectionView struct {
	Options  []string `json:"options"`
	Selected []string `json:"selected"`
	Want     int      `json:"want"`
	Hint     string   `json:"hint,omitempty"`
	Solved   bool     `json:"solved"`
}

func NewSelection() Handler {
	return &Selection{}
}

func (s *Selection) Mount(env Env) {
	s.lifecycle = lifecycle{env: env}
	s.selected = nil
}

func (s *Selection) Handle(in Input) error {
	if s.frozen() || s.won {
		return nil
	}

	switch in.Action {
	case "select":
		next := make([]string, 0, len(in.Values))
		for _, v := range in.Values {
			if !slices.Contains(selectionOptions, v) {
				return invalidInput("selection", "unknown option %q", v)
			}
			if !slices.Contains(next, v) {
				next = append(next, v)
			}
		}
		s.selected = next
	case "toggle":
		if !slices.Contains(selectionOptions, in.Value) {
			return invalidInput("selection", "unknown option %q", in.Value)
		}
		if i := slices.Index(s.selected, in.Value); i >= 0 {
			s.selected = slices.Delete(s.selected, i, i+1)
		} else {
			s.selected = append(s.selected, in.Value)
		}
	default:
		return unknownAction("selection", in.Action)
	}

	if s.correct() {
		s.win(time.Second)
	}

	return nil
}

func (s *Selection) correct() bool {
	if len(s.selected) != len(selectionAnswer) {
		return false
	}
	for _, want := range selectionAnswer {
		if !slices.Contains(s.selected, want) {
			return false
		}
	}

	return true
}

func (s *Selection) View() any {
	v := SelectionView{
		Options:  slices.Clone(selectionOptions),
		Selected: slices.Clone(s.selected),
		Want:     len(selectionAnswer),
		Solved:   s.won || s.frozen(),
	}
	if len(s.selected) > 0 && !s.correct() && !v.Solved {
		v.Hint = "Not quite right. Maybe there's a hint somewhere on this page.."
	}

	return v
}
