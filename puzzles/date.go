/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import "time"

const (
	dateLayout       = "2006-01-02"
	dateWrongDisplay = 3 * time.Second
)

var dateTarget = time.Date(1969, time.July, 20, 0, 0, 0, 0, time.UTC)

// DateMystery is solved by picking the day of the first moon landing.
type DateMystery struct {
	lifecycle
	selected  time.Time
	incorrect bool
	clear     *Task
}

type DateView struct {
	Clue      string `json:"clue"`
	Selected  string `json:"selected,omitempty"`
	Incorrect bool   `json:"incorrect"`
	Solved    bool   `json:"solved"`
}

func NewDateMystery() Handler {
	return &DateMystery{}
}

func (d *DateMystery) Mount(env Env) {
	d.lifecycle = lifecycle{env: env}
	d.selected = time.Time{}
	d.incorrect = false
	d.clear = nil
}

func (d *DateMystery) Handle(in Input) error {
	if d.frozen() {
		return nil
	}
	if in.Action != "select" {
		return unknownAction("date", in.Action)
	}
	if d.won {
		return nil
	}

	d.clear.Stop()
	d.incorrect = false

	if in.Value == "" {
		d.selected = time.Time{}
		return nil
	}

	picked, err := time.Parse(dateLayout, in.Value)
	if err != nil {
		return invalidInput("date", "%q is not a YYYY-MM-DD date", in.Value)
	}
	d.selected = picked

	if sameDay(picked, dateTarget) {
		d.win(time.Second)
		return nil
	}

	d.incorrect = true
	d.clear = d.env.Tasks.After(dateWrongDisplay, func() {
		d.incorrect = false
	})

	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

func (d *DateMystery) View() any {
	v := DateView{
		Clue:      `"That's one small step for man, one giant leap for mankind."`,
		Incorrect: d.incorrect,
		Solved:    d.won || d.frozen(),
	}
	if !d.selected.IsZero() {
		v.Selected = d.selected.Format(dateLayout)
	}

	return v
}
