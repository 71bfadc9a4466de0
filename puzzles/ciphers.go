/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import "time"

const (
	dialMin     = 1
	dialMax     = 10
	dialInitial = 5
)

type riddle struct {
	Text   string `json:"text"`
	answer int
}

var riddles = []riddle{
	{Text: "The loneliest number, yet the foundation of all counting systems.", answer: 1},
	{Text: "In binary, I am 11. In Roman numerals, I am III. In prime factorization, I am myself.", answer: 3},
	{Text: "The largest single digit, and the number of planets in our solar system if you exclude the dwarf planet.", answer: 8},
}

// Ciphers has one dial per riddle. Each dial is independent and stays
// editable until all three are right.
type Ciphers struct {
	lifecycle
	dials     []int
	attempted bool
}

type CiphersView struct {
	Riddles []riddle `json:"riddles"`
	Dials   []int    `json:"dials"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Status  string   `json:"status"`
	Solved  bool     `json:"solved"`
}

func NewCiphers() Handler {
	return &Ciphers{}
}

func (c *Ciphers) Mount(env Env) {
	c.lifecycle = lifecycle{env: env}
	c.dials = make([]int, len(riddles))
	for i := range c.dials {
		c.dials[i] = dialInitial
	}
	c.attempted = false
}

func (c *Ciphers) Handle(in Input) error {
	if c.frozen() || c.won {
		return nil
	}
	if in.Action != "set" {
		return unknownAction("ciphers", in.Action)
	}
	if in.Index < 0 || in.Index >= len(c.dials) {
		return invalidInput("ciphers", "no dial %d", in.Index)
	}

	c.dials[in.Index] = min(max(in.Number, dialMin), dialMax)
	c.attempted = true

	if c.correct() == len(riddles) {
		c.win(time.Second)
	}

	return nil
}

func (c *Ciphers) correct() int {
	n := 0
	for i, r := range riddles {
		if c.dials[i] == r.answer {
			n++
		}
	}

	return n
}

// Status is one of initial, all-wrong, partial or completed.
func (c *Ciphers) Status() string {
	switch {
	case c.won || c.frozen():
		return "completed"
	case !c.attempted:
		return "initial"
	}

	switch c.correct() {
	case 0:
		return "all-wrong"
	case len(riddles):
		return "completed"
	default:
		return "partial"
	}
}

func (c *Ciphers) View() any {
	dials := make([]int, len(c.dials))
	copy(dials, c.dials)
	status := c.Status()

	return CiphersView{
		Riddles: riddles,
		Dials:   dials,
		Min:     dialMin,
		Max:     dialMax,
		Status:  status,
		Solved:  status == "completed",
	}
}
