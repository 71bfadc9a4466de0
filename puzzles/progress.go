/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"math"
	"sort"
	"time"
)

// DefaultAdvanceDelay is the pause between completing a puzzle and moving on.
const DefaultAdvanceDelay = 2 * time.Second

// Summary is the progress shown in the header.
type Summary struct {
	Current    int `json:"current"` // 1-based
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Progress tracks the active puzzle and the set of completed ones.
//
// Progress is not safe for concurrent use. Its scheduler must deliver
// callbacks on the goroutine that calls its methods.
type Progress struct {
	reg   *Registry
	sched Scheduler
	delay time.Duration

	active    int
	completed map[int]struct{}

	advance    Timer
	advanceSeq uint64
	epoch      uint64
}

func NewProgress(reg *Registry, sched Scheduler, delay time.Duration) *Progress {
	return &Progress{
		reg:       reg,
		sched:     sched,
		delay:     delay,
		completed: make(map[int]struct{}),
	}
}

func (p *Progress) Active() Descriptor {
	return p.reg.Get(p.active)
}

func (p *Progress) ActiveIndex() int {
	return p.active
}

func (p *Progress) Total() int {
	return p.reg.Total()
}

// Epoch changes every time the mounted puzzle has to be rebuilt: whenever the
// active index moves and on Reset.
func (p *Progress) Epoch() uint64 {
	return p.epoch
}

// Navigate makes index active. Out-of-range indices are ignored. Any pending
// auto-advance is cancelled.
func (p *Progress) Navigate(index int) {
	if !p.reg.Valid(index) {
		return
	}

	p.cancelAdvance()
	p.move(index)
}

// Complete marks index as solved. If it is the active puzzle and not the last
// one, navigation to the next puzzle is scheduled after the advance delay.
func (p *Progress) Complete(index int) {
	if !p.reg.Valid(index) {
		return
	}

	p.completed[index] = struct{}{}

	if index != p.active || index >= p.reg.Total()-1 {
		return
	}

	p.cancelAdvance()
	seq := p.advanceSeq
	p.advance = p.sched.AfterFunc(p.delay, func() {
		if seq != p.advanceSeq || p.active != index {
			return
		}
		p.advance = nil
		p.move(index + 1)
	})
}

func (p *Progress) IsCompleted(index int) bool {
	_, ok := p.completed[index]

	return ok
}

// CompletedIDs returns the completed puzzle ids in ascending order.
func (p *Progress) CompletedIDs() []int {
	ids := make([]int, 0, len(p.completed))
	for id := range p.completed {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// Reset returns to the first puzzle with nothing completed.
func (p *Progress) Reset() {
	p.cancelAdvance()
	p.active = 0
	p.completed = make(map[int]struct{})
	p.epoch++
}

// Stop cancels a pending auto-advance without touching anything else.
func (p *Progress) Stop() {
	p.cancelAdvance()
}

func (p *Progress) Summary() Summary {
	total := p.reg.Total()
	done := len(p.completed)

	return Summary{
		Current:    p.active + 1,
		Total:      total,
		Completed:  done,
		Percentage: int(math.Round(100 * float64(done) / float64(total))),
	}
}

func (p *Progress) move(index int) {
	if index == p.active {
		return
	}
	p.active = index
	p.epoch++
}

func (p *Progress) cancelAdvance() {
	p.advanceSeq++
	if p.advance != nil {
		p.advance.Stop()
		p.advance = nil
	}
}
