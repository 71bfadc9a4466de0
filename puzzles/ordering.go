/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"slices"
	"time"
)

const orderingIntro = "Drag and drop the puzzles to arrange them in the order you encountered them (1st to 9th)!"

// OrderItem is one card in the ordering puzzle. Order is its position in the
// solved list.
type OrderItem struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Component   string `json:"component"`
	Description string `json:"description"`
}

var orderItems = []OrderItem{
	{Order: 0, Title: "Number Sequence", Component: "Button", Description: "Press buttons 1-9 in order"},
	{Order: 1, Title: "Date Mystery", Component: "DatePicker", Description: "Find the correct date"},
	{Order: 2, Title: "Technology Selection", Component: "MultiSelect", Description: "Select the right technologies"},
	{Order: 3, Title: "The Hidden Word", Component: "TextBox", Description: "Find the secret word in the story"},
	{Order: 4, Title: "The Cipher of Three", Component: "Slider", Description: "Solve the riddles with precision"},
	{Order: 5, Title: "Color Equation Solver", Component: "ColorPicker", Description: "Mix colors using color theory"},
	{Order: 6, Title: "Grid Memory", Component: "Button Grid", Description: "Memorize and recreate the pattern"},
	{Order: 7, Title: "The Treasure Mystery", Component: "ContextMenu", Description: "Right-click to interact with characters"},
	{Order: 8, Title: "The Switch Network Challenge", Component: "Switch", Description: "Activate all switches simultaneously"},
}

var orderingHints = []string{
	"Not quite right. Think about which puzzle you solved first, second, third, etc...",
	"Remember: Number Sequence was #1, Date Mystery was #2, Technology Selection was #3...",
	"Hint: The order goes Button → DatePicker → MultiSelect → TextBox → Slider → ColorPicker → Grid → ContextMenu → Switch",
	"Almost there! Think chronologically about your puzzle-solving journey through this app!",
}

// Ordering asks for the earlier puzzles to be put back in the order they were
// played. Any move is legal; only an explicit check is judged.
type Ordering struct {
	lifecycle
	items    []OrderItem
	attempts int
	message  string
}

type OrderingView struct {
	Items    []OrderItem `json:"items"`
	Attempts int         `json:"attempts"`
	Message  string      `json:"message"`
	Solved   bool        `json:"solved"`
}

func NewOrdering() Handler {
	return &Ordering{}
}

func (o *Ordering) Mount(env Env) {
	o.lifecycle = lifecycle{env: env}
	o.attempts = 0
	o.message = orderingIntro

	// A shuffle that happens to land on the answer is drawn again.
	for range 8 {
		o.items = shuffled(env.Rand, orderItems)
		if !o.inOrder() {
			break
		}
	}
}

func (o *Ordering) Handle(in Input) error {
	if o.frozen() || o.won {
		return nil
	}

	switch in.Action {
	case "move":
		if !o.valid(in.Index) || !o.valid(in.To) {
			return invalidInput("ordering", "cannot move %d to %d", in.Index, in.To)
		}
		item := o.items[in.Index]
		o.items = slices.Delete(o.items, in.Index, in.Index+1)
		o.items = slices.Insert(o.items, in.To, item)
	case "up", "down":
		if !o.valid(in.Index) {
			return invalidInput("ordering", "no item at %d", in.Index)
		}
		target := in.Index - 1
		if in.Action == "down" {
			target = in.Index + 1
		}
		if o.valid(target) {
			o.items[in.Index], o.items[target] = o.items[target], o.items[in.Index]
		}
	case "check":
		o.check()
	default:
		return unknownAction("ordering", in.Action)
	}

	return nil
}

func (o *Ordering) valid(i int) bool {
	return i >= 0 && i < len(o.items)
}

func (o *Ordering) inOrder() bool {
	for i, item := range o.items {
		if item.Order != i {
			return false
		}
	}

	return true
}

func (o *Ordering) check() {
	prior := o.attempts
	o.attempts++

	if o.inOrder() {
		o.message = "Perfect! You've mastered the complete puzzle journey! Congratulations!"
		o.win(2 * time.Second)
		return
	}

	o.message = orderingHints[min(prior, len(orderingHints)-1)]
}

func (o *Ordering) View() any {
	return OrderingView{
		Items:    slices.Clone(o.items),
		Attempts: o.attempts,
		Message:  o.message,
		Solved:   o.won || o.frozen(),
	}
}
