/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"fmt"
	"slices"
	"time"
)

// Switch is one node of a suppression graph. Turning it on forces every
// switch in Suppresses off.
type Switch struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	On         bool   `json:"on"`
	Suppresses []int  `json:"suppresses"`
}

// DefaultSwitches is the six-switch network used by the puzzle.
func DefaultSwitches() []Switch {
	return []Switch{
		{ID: 1, Name: "Main Power", Suppresses: []int{2, 4}},
		{ID: 2, Name: "Auxiliary", Suppresses: []int{3, 5}},
		{ID: 3, Name: "Security", Suppresses: []int{1, 6}},
		{ID: 4, Name: "Backup", Suppresses: []int{5}},
		{ID: 5, Name: "Emergency", Suppresses: []int{1, 3}},
		{ID: 6, Name: "Override", Suppresses: []int{2, 4}},
	}
}

// Network is a directed suppression graph. Cycles are allowed: suppression is
// applied once, at toggle time, and never propagates or reverts.
type Network struct {
	switches []Switch
}

// NewNetwork copies the given switches. Every id must be unique and every
// suppress target must exist.
func NewNetwork(switches []Switch) (*Network, error) {
	n := &Network{switches: make([]Switch, 0, len(switches))}
	for _, sw := range switches {
		if n.index(sw.ID) >= 0 {
			return nil, fmt.Errorf("duplicate switch id %d", sw.ID)
		}
		sw.Suppresses = slices.Clone(sw.Suppresses)
		n.switches = append(n.switches, sw)
	}

	for _, sw := range n.switches {
		for _, target := range sw.Suppresses {
			if n.index(target) < 0 {
				return nil, fmt.Errorf("switch %d suppresses unknown switch %d", sw.ID, target)
			}
		}
	}

	return n, nil
}

func (n *Network) index(id int) int {
	return slices.IndexFunc(n.switches, func(sw Switch) bool { return sw.ID == id })
}

// Toggle flips switch id. Switching on forces the switch's suppress list off,
// unconditionally; switching off touches nothing else. It reports whether the
// id exists.
func (n *Network) Toggle(id int) bool {
	i := n.index(id)
	if i < 0 {
		return false
	}

	if n.switches[i].On {
		n.switches[i].On = false
		return true
	}

	n.switches[i].On = true
	for _, target := range n.switches[i].Suppresses {
		if target == id {
			continue
		}
		n.switches[n.index(target)].On = false
	}

	return true
}

// AllOn reports the win condition.
func (n *Network) AllOn() bool {
	for _, sw := range n.switches {
		if !sw.On {
			return false
		}
	}

	return len(n.switches) > 0
}

// On returns the ids that are currently on, in network order.
func (n *Network) On() []int {
	var ids []int
	for _, sw := range n.switches {
		if sw.On {
			ids = append(ids, sw.ID)
		}
	}

	return ids
}

func (n *Network) Len() int {
	return len(n.switches)
}

// Switches returns a copy of the current state.
func (n *Network) Switches() []Switch {
	out := make([]Switch, len(n.switches))
	for i, sw := range n.switches {
		sw.Suppresses = slices.Clone(sw.Suppresses)
		out[i] = sw
	}

	return out
}

const switchesIntro = "Turn all switches ON simultaneously! But be careful - some switches control others..."

// Switches is the puzzle wrapper around a Network: it counts toggles and
// picks a hint for the attempt count.
type Switches struct {
	lifecycle
	layout   []Switch
	network  *Network
	attempts int
	message  string
}

type SwitchesView struct {
	Switches []Switch `json:"switches"`
	Active   int      `json:"active"`
	Attempts int      `json:"attempts"`
	Message  string   `json:"message"`
	Solved   bool     `json:"solved"`
}

func NewSwitches() Handler {
	return &Switches{layout: DefaultSwitches()}
}

// NewSwitchesWith builds the puzzle over a custom network.
func NewSwitchesWith(layout []Switch) func() Handler {
	return func() Handler {
		return &Switches{layout: layout}
	}
}

func (s *Switches) Mount(env Env) {
	network, err := NewNetwork(s.layout)
	if err != nil {
		panic("puzzles: " + err.Error())
	}

	s.lifecycle = lifecycle{env: env}
	s.network = network
	s.attempts = 0
	s.message = switchesIntro
}

func (s *Switches) Handle(in Input) error {
	if s.frozen() || s.won {
		return nil
	}
	if in.Action != "toggle" {
		return unknownAction("switches", in.Action)
	}
	if !s.network.Toggle(in.Index) {
		return invalidInput("switches", "no switch %d", in.Index)
	}
	s.attempts++

	if s.network.AllOn() {
		s.message = "SUCCESS! All systems online! The network is fully operational!"
		s.win(1500 * time.Millisecond)
		return nil
	}

	s.message = switchHint(s.attempts, len(s.network.On()), s.network.Len())

	return nil
}

func switchHint(attempts, on, total int) string {
	switch {
	case attempts <= 3:
		return fmt.Sprintf("%d/%d switches active. Each switch may control others when turned on...", on, total)
	case attempts <= 6:
		return "Strategy tip: Consider the order! Some switches must be turned on last to avoid conflicts."
	case attempts <= 10:
		return "Hint: Try turning on switches that don't control many others first!"
	default:
		return "Advanced hint: Start with switches 4 and 6, then work backwards!"
	}
}

func (s *Switches) View() any {
	return SwitchesView{
		Switches: s.network.Switches(),
		Active:   len(s.network.On()),
		Attempts: s.attempts,
		Message:  s.message,
		Solved:   s.won || s.frozen(),
	}
}
