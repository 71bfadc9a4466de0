/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidInput  = errors.New("invalid input")
)

func unknownAction(puzzle, action string) error {
	return fmt.Errorf("%s: %w %q", puzzle, ErrUnknownAction, action)
}

func invalidInput(puzzle, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", puzzle, ErrInvalidInput, fmt.Sprintf(format, args...))
}
