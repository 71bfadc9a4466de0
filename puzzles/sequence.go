/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import "time"

const sequenceLength = 9

// Sequence asks for the buttons 1..9 to be pressed in ascending order. The
// buttons are laid out in random positions and any wrong press starts over.
type Sequence struct {
	lifecycle
	buttons []int
	pressed []int
}

type SequenceView struct {
	Buttons  []int `json:"buttons"`
	Pressed  []int `json:"pressed"`
	Next     int   `json:"next"`
	Length   int   `json:"length"`
	Finished bool  `json:"finished"`
}

func NewSequence() Handler {
	return &Sequence{}
}

func (s *Sequence) Mount(env Env) {
	s.lifecycle = lifecycle{env: env}
	s.shuffle()
}

func (s *Sequence) shuffle() {
	numbers := make([]int, sequenceLength)
	for i := range numbers {
		numbers[i] = i + 1
	}
	s.buttons = shuffled(s.env.Rand, numbers)
	s.pressed = nil
}

// Next returns the number expected on the next press.
func (s *Sequence) Next() int {
	return len(s.pressed) + 1
}

func (s *Sequence) Handle(in Input) error {
	if s.frozen() {
		return nil
	}

	switch in.Action {
	case "press":
		if in.Number < 1 || in.Number > sequenceLength {
			return invalidInput("sequence", "no button %d", in.Number)
		}
		if s.won {
			return nil
		}

		if in.Number != s.Next() {
			s.pressed = nil
			return nil
		}

		s.pressed = append(s.pressed, in.Number)
		if len(s.pressed) == sequenceLength {
			s.win(time.Second)
		}
	case "reset":
		if s.won {
			return nil
		}
		s.shuffle()
	default:
		return unknownAction("sequence", in.Action)
	}

	return nil
}

func (s *Sequence) View() any {
	pressed := make([]int, len(s.pressed))
	copy(pressed, s.pressed)
	buttons := make([]int, len(s.buttons))
	copy(buttons, s.buttons)

	return SequenceView{
		Buttons:  buttons,
		Pressed:  pressed,
		Next:     s.Next(),
		Length:   sequenceLength,
		Finished: s.won || s.frozen(),
	}
}
