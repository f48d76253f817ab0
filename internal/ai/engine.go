package ai

import (
	"context"

	"github.com/tomgun/saktris/internal/board"
)

// Difficulty selects the search depth (spec.md §4.8: "Easy=2, Medium=3,
// Hard=4 as an indicative mapping").
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return "Easy"
	}
}

// depthFor maps Difficulty to a search depth in plies.
var depthFor = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

// Engine runs the AI off the host loop's goroutine, adapted from the
// teacher's startAIThinking/checkAIMove channel-poll pattern
// (internal/ui/game.go) into a package with no UI dependency: the host
// loop calls Think once, then polls TryReceive once per frame instead of
// reading a field directly.
type Engine struct {
	difficulty Difficulty
	result     chan Result
	cancel     context.CancelFunc
}

// NewEngine creates an Engine at the given difficulty.
func NewEngine(d Difficulty) *Engine {
	return &Engine{
		difficulty: d,
		result:     make(chan Result, 1),
	}
}

// SetDifficulty changes the search depth used by future Think calls.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the engine's current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Think starts a background search over a snapshot of b for side and
// returns immediately; the result is delivered on the channel TryReceive
// drains. Calling Think again before the previous search finished
// cancels it first — only one search runs at a time (spec.md §5: "The AI
// runs on a background task... outputs are delivered through a
// single-shot channel").
func (e *Engine) Think(b *board.Board, side board.Color) {
	if e.cancel != nil {
		e.cancel()
	}

	snapshot := b.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	depth := depthFor[e.difficulty]

	// Each search delivers on its own channel, so a superseded search's
	// result lands on a channel TryReceive no longer reads.
	ch := make(chan Result, 1)
	e.result = ch

	go func() {
		ch <- Search(ctx, snapshot, side, depth)
	}()
}

// TryReceive is a non-blocking poll for a completed search, meant to be
// called once per host-loop frame (spec.md §5 "consumed by the host
// loop"). ok is false when no result is ready yet.
func (e *Engine) TryReceive() (Result, bool) {
	select {
	case r := <-e.result:
		return r, true
	default:
		return Result{}, false
	}
}

// Cancel aborts any in-flight search; the eventual result (if any) is
// still delivered but may report HasMove == false.
func (e *Engine) Cancel() {
	if e.cancel != nil {
		e.cancel()
	}
}
