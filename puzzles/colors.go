/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const blankColor = "#ffffff"

type equation struct {
	ID        string `json:"id"`
	Left      string `json:"left"`
	LeftName  string `json:"left_name"`
	Right     string `json:"right"`
	RightName string `json:"right_name"`
	answer    string
}

var (
	equations = []equation{
		{ID: "eq1", Left: "#FF0000", LeftName: "Red", Right: "#0000FF", RightName: "Blue", answer: "#800080"},
		{ID: "eq2", Left: "#FFFF00", LeftName: "Yellow", Right: "#FF0000", RightName: "Red", answer: "#FFA500"},
		{ID: "eq3", Left: "#0000FF", LeftName: "Blue", Right: "#FFFF00", RightName: "Yellow", answer: "#008000"},
		{ID: "eq4", Left: "#FF0000", LeftName: "Red", Right: "#FFFFFF", RightName: "White", answer: "#FFB6C1"},
	}

	colorPalette = []string{
		"#FF0000", "#0000FF", "#FFFF00", "#008000", "#800080",
		"#FFA500", "#FFB6C1", "#FFFFFF", "#000000",
	}
)

// normalizeColor parses a hex colour and returns it as lower-case #rrggbb.
func normalizeColor(s string) (string, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}

	return c.Hex(), true
}

// Colors has four colour-mixing equations, each answered from a fixed
// palette. All four must be right at once.
type Colors struct {
	lifecycle
	picked  map[string]string
	palette []string
}

type ColorsView struct {
	Equations []equation        `json:"equations"`
	Palette   []string          `json:"palette"`
	Picked    map[string]string `json:"picked"`
	Solved    bool              `json:"solved"`
}

func NewColors() Handler {
	return &Colors{}
}

func (c *Colors) Mount(env Env) {
	c.lifecycle = lifecycle{env: env}
	c.picked = make(map[string]string, len(equations))
	for _, eq := range equations {
		c.picked[eq.ID] = blankColor
	}

	c.palette = make([]string, 0, len(colorPalette))
	for _, hex := range colorPalette {
		norm, _ := normalizeColor(hex)
		c.palette = append(c.palette, norm)
	}
}

func (c *Colors) Handle(in Input) error {
	if c.frozen() || c.won {
		return nil
	}
	if in.Action != "pick" {
		return unknownAction("colors", in.Action)
	}
	if _, ok := c.picked[in.Target]; !ok {
		return invalidInput("colors", "no equation %q", in.Target)
	}

	color, ok := normalizeColor(in.Value)
	if !ok || !slices.Contains(c.palette, color) {
		return invalidInput("colors", "%q is not in the palette", in.Value)
	}
	c.picked[in.Target] = color

	if c.allCorrect() {
		c.win(time.Second)
	}

	return nil
}

func (c *Colors) allCorrect() bool {
	for _, eq := range equations {
		want, _ := normalizeColor(eq.answer)
		if c.picked[eq.ID] != want {
			return false
		}
	}

	return true
}

func (c *Colors) View() any {
	picked := make(map[string]string, len(c.picked))
	for k, v := range c.picked {
		picked[k] = v
	}

	return ColorsView{
		Equations: equations,
		Palette:   slices.Clone(c.palette),
		Picked:    picked,
		Solved:    c.won || c.frozen(),
	}
}
