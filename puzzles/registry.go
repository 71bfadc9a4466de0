/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package puzzles holds the puzzle state machines, the registry that orders
// them and the progress tracker that moves a player through them.
package puzzles

import "fmt"

// Descriptor is the static metadata for one puzzle. ID doubles as its index
// in the registry.
type Descriptor struct {
	ID          int
	Kind        string
	Title       string
	Description string
	New         func() Handler
}

// Registry is the ordered, immutable list of puzzles.
type Registry struct {
	descs []Descriptor
}

// NewRegistry panics unless the descriptors are numbered 0..n-1 in order and
// each has a constructor.
func NewRegistry(descs ...Descriptor) *Registry {
	if len(descs) == 0 {
		panic("puzzles: empty registry")
	}

	for i, d := range descs {
		if d.ID != i {
			panic(fmt.Sprintf("puzzles: descriptor %q has id %d at position %d", d.Title, d.ID, i))
		}
		if d.New == nil {
			panic(fmt.Sprintf("puzzles: descriptor %q has no handler", d.Title))
		}
	}

	out := make([]Descriptor, len(descs))
	copy(out, descs)

	return &Registry{descs: out}
}

// Get returns the descriptor at index. Callers must check Valid first.
func (r *Registry) Get(index int) Descriptor {
	if !r.Valid(index) {
		panic(fmt.Sprintf("puzzles: index %d out of range [0,%d)", index, len(r.descs)))
	}

	return r.descs[index]
}

func (r *Registry) Total() int {
	return len(r.descs)
}

func (r *Registry) Valid(index int) bool {
	return index >= 0 && index < len(r.descs)
}

// Titles returns the puzzle titles in order.
func (r *Registry) Titles() []string {
	titles := make([]string, len(r.descs))
	for i, d := range r.descs {
		titles[i] = d.Title
	}

	return titles
}

// Default returns the full puzzle sequence.
func Default() *Registry {
	return NewRegistry(
		Descriptor{ID: 0, Kind: "sequence", Title: "Number Sequence", Description: "Press buttons 1-9 in order", New: NewSequence},
		Descriptor{ID: 1, Kind: "date", Title: "Date Mystery", Description: "Find the correct date", New: NewDateMystery},
		Descriptor{ID: 2, Kind: "selection", Title: "Technology Selection", Description: "Select the right technologies", New: NewSelection},
		Descriptor{ID: 3, Kind: "hidden_word", Title: "The Hidden Word", Description: "Find the secret word in the story", New: NewHiddenWord},
		Descriptor{ID: 4, Kind: "ciphers", Title: "The Cipher of Three", Description: "Solve the riddles with precision", New: NewCiphers},
		Descriptor{ID: 5, Kind: "colors", Title: "Color Equation Solver", Description: "Mix colors using color theory", New: NewColors},
		Descriptor{ID: 6, Kind: "memory", Title: "Grid Memory", Description: "Memorize and recreate the pattern", New: NewMemoryGrid},
		Descriptor{ID: 7, Kind: "treasure", Title: "The Treasure Mystery", Description: "Interact with characters to solve the mystery", New: NewTreasure},
		Descriptor{ID: 8, Kind: "switches", Title: "The Switch Network Challenge", Description: "Activate all switches simultaneously", New: NewSwitches},
		Descriptor{ID: 9, Kind: "ordering", Title: "Puzzle Ordering", Description: "Arrange the puzzles in the order you solved them", New: NewOrdering},
	)
}
