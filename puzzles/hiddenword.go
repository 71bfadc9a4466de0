/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	secretWord         = "REVELATION"
	hiddenWordFailures = 3
	hiddenWordIdleHint = 30 * time.Second
)

// HiddenWord hides its answer in a tooltip on one word of a short story.
type HiddenWord struct {
	lifecycle
	input    string
	found    bool
	tooltip  bool
	failures int
	idle     bool
}

type HiddenWordView struct {
	Input     string `json:"input"`
	Length    int    `json:"length"`
	Found     bool   `json:"found"`
	Tooltip   string `json:"tooltip,omitempty"`
	Failures  int    `json:"failures"`
	Hint      bool   `json:"hint"`
	Incorrect bool   `json:"incorrect"`
	Solved    bool   `json:"solved"`
}

func NewHiddenWord() Handler {
	return &HiddenWord{}
}

func (h *HiddenWord) Mount(env Env) {
	h.lifecycle = lifecycle{env: env}
	h.input = ""
	h.found = false
	h.tooltip = false
	h.failures = 0
	h.idle = false

	h.env.Tasks.After(hiddenWordIdleHint, func() {
		h.idle = true
	})
}

func (h *HiddenWord) Handle(in Input) error {
	if h.frozen() {
		return nil
	}

	switch in.Action {
	case "reveal":
		h.found = true
		h.tooltip = true
	case "hide":
		h.tooltip = false
	case "type":
		if h.won {
			return nil
		}
		h.input = cases.Upper(language.Und).String(in.Value)
		if h.matches() {
			h.win(time.Second)
		}
	case "submit":
		if h.won {
			return nil
		}
		if h.matches() {
			h.win(time.Second)
			return nil
		}
		h.failures++
	default:
		return unknownAction("hidden word", in.Action)
	}

	return nil
}

func (h *HiddenWord) matches() bool {
	fold := cases.Fold()

	return fold.String(h.input) == fold.String(secretWord)
}

// hintVisible reports whether the "try hovering" hint is shown: after enough
// failed submissions, or once the idle timer ran without the word being found.
func (h *HiddenWord) hintVisible() bool {
	return h.failures >= hiddenWordFailures || (h.idle && !h.found)
}

func (h *HiddenWord) View() any {
	solved := h.won || h.frozen()
	v := HiddenWordView{
		Input:     h.input,
		Length:    len([]rune(secretWord)),
		Found:     h.found,
		Failures:  h.failures,
		Hint:      !solved && h.hintVisible(),
		Incorrect: h.input != "" && !h.matches() && !solved,
		Solved:    solved,
	}
	if h.tooltip {
		v.Tooltip = secretWord
	}

	return v
}
