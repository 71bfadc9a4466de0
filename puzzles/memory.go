/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"fmt"
	"slices"
	"time"
)

const (
	gridSide       = 4
	gridCells      = gridSide * gridSide
	memoryLevels   = 5
	memoryLives    = 3
	patternBase    = 3
	patternMax     = 8
	showTimeStart  = 3000 * time.Millisecond
	showTimeStep   = 200 * time.Millisecond
	showTimeFloor  = 1500 * time.Millisecond
	memoryInterval = 2 * time.Second
)

// Phase is the memory grid's current stage.
type Phase string

const (
	PhaseShowing Phase = "showing"
	PhaseInput   Phase = "input"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// MemoryGrid flashes a random set of cells, then asks for it back. Five
// levels, each with a bigger pattern and a shorter display.
type MemoryGrid struct {
	lifecycle
	level    int
	showTime time.Duration
	misses   int
	phase    Phase
	target   []int
	picked   []int
}

type MemoryView struct {
	Side     int    `json:"side"`
	Level    int    `json:"level"`
	Levels   int    `json:"levels"`
	Lives    int    `json:"lives"`
	ShowMS   int64  `json:"show_ms"`
	Phase    Phase  `json:"phase"`
	Pattern  []int  `json:"pattern,omitempty"`
	Picked   []int  `json:"picked"`
	Message  string `json:"message"`
	Finished bool   `json:"finished"`
}

func NewMemoryGrid() Handler {
	return &MemoryGrid{}
}

func (m *MemoryGrid) Mount(env Env) {
	m.lifecycle = lifecycle{env: env}
	m.level = 1
	m.showTime = showTimeStart
	m.misses = 0
	m.startLevel()
}

// patternSize is the number of lit cells at a level.
func patternSize(level int) int {
	return min(patternBase+level, patternMax)
}

func (m *MemoryGrid) startLevel() {
	cells := make([]int, gridCells)
	for i := range cells {
		cells[i] = i
	}
	cells = shuffled(m.env.Rand, cells)[:patternSize(m.level)]
	slices.Sort(cells)

	m.target = cells
	m.picked = nil
	m.phase = PhaseShowing

	m.env.Tasks.After(m.showTime, func() {
		m.phase = PhaseInput
	})
}

func (m *MemoryGrid) Handle(in Input) error {
	if m.frozen() {
		return nil
	}

	switch in.Action {
	case "cell":
		if in.Index < 0 || in.Index >= gridCells {
			return invalidInput("memory", "no cell %d", in.Index)
		}
		if m.phase != PhaseInput {
			return nil
		}
		if i := slices.Index(m.picked, in.Index); i >= 0 {
			m.picked = slices.Delete(m.picked, i, i+1)
		} else {
			m.picked = append(m.picked, in.Index)
		}
	case "clear":
		if m.phase == PhaseInput {
			m.picked = nil
		}
	case "submit":
		if m.phase != PhaseInput || len(m.picked) == 0 {
			return nil
		}
		m.submit()
	default:
		return unknownAction("memory", in.Action)
	}

	return nil
}

func (m *MemoryGrid) submit() {
	if sameSet(m.target, m.picked) {
		m.phase = PhaseSuccess
		if m.level >= memoryLevels {
			m.win(memoryInterval)
			return
		}
		m.env.Tasks.After(memoryInterval, func() {
			m.level++
			m.showTime = max(showTimeFloor, m.showTime-showTimeStep)
			m.startLevel()
		})
		return
	}

	m.phase = PhaseFailed
	m.misses++
	if m.misses >= memoryLives {
		m.env.Tasks.After(memoryInterval, func() {
			m.level = 1
			m.showTime = showTimeStart
			m.misses = 0
			m.startLevel()
		})
		return
	}
	m.env.Tasks.After(memoryInterval, m.startLevel)
}

// sameSet compares two cell selections ignoring order.
func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	matched := make(map[int]struct{}, len(b))
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			return false
		}
		matched[v] = struct{}{}
	}

	return len(matched) == len(seen)
}

func (m *MemoryGrid) message() string {
	switch m.phase {
	case PhaseShowing:
		return "Memorize the pattern..."
	case PhaseInput:
		return "Click the cells to recreate the pattern"
	case PhaseSuccess:
		if m.level >= memoryLevels {
			return "Puzzle Complete!"
		}
		return fmt.Sprintf("Level %d Complete! Next level...", m.level)
	case PhaseFailed:
		if m.misses >= memoryLives {
			return "Game Over! Restarting from Level 1..."
		}
		return "Wrong pattern! Try again..."
	}

	return ""
}

func (m *MemoryGrid) View() any {
	v := MemoryView{
		Side:     gridSide,
		Level:    m.level,
		Levels:   memoryLevels,
		Lives:    memoryLives - m.misses,
		ShowMS:   m.showTime.Milliseconds(),
		Phase:    m.phase,
		Picked:   slices.Clone(m.picked),
		Message:  m.message(),
		Finished: m.won || m.frozen(),
	}
	if m.phase != PhaseInput {
		v.Pattern = slices.Clone(m.target)
	}

	return v
}
