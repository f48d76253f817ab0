// Package events defines the typed event bus GameState publishes to and
// the UI subscribes to (spec.md §9 "the core publishes typed events to a
// sink provided at construction time... no cycles"). This replaces the
// teacher's in-engine callback methods on *ui.FeedbackManager
// (internal/ui/feedback.go's OnMoveMade/OnDraw/OnCheckmate family) with a
// single interface the core owns and the UI implements, so the core
// package never imports anything UI-shaped.
package events

import "github.com/tomgun/saktris/internal/board"

// Sink receives every event GameState emits (spec.md §6 "Events the core
// emits to UI"). Implementations must return promptly; the core does not
// wait for acknowledgment and never blocks on a slow subscriber.
type Sink interface {
	OnPieceMoved(PieceMoved)
	OnPieceCaptured(PieceCaptured)
	OnPiecePlaced(PiecePlaced)
	OnPromotionRequired(PromotionRequired)
	OnTurnChanged(TurnChanged)
	OnCheckDetected(CheckDetected)
	OnGameOver(GameOver)
	OnTimeExpired(TimeExpired)
	OnLowTimeWarning(LowTimeWarning)
	OnTripletCleared(TripletCleared)
}

// NopSink implements Sink with no-op handlers. Embed it to implement
// only the events a particular subscriber cares about.
type NopSink struct{}

func (NopSink) OnPieceMoved(PieceMoved)             {}
func (NopSink) OnPieceCaptured(PieceCaptured)       {}
func (NopSink) OnPiecePlaced(PiecePlaced)           {}
func (NopSink) OnPromotionRequired(PromotionRequired) {}
func (NopSink) OnTurnChanged(TurnChanged)           {}
func (NopSink) OnCheckDetected(CheckDetected)       {}
func (NopSink) OnGameOver(GameOver)                 {}
func (NopSink) OnTimeExpired(TimeExpired)           {}
func (NopSink) OnLowTimeWarning(LowTimeWarning)     {}
func (NopSink) OnTripletCleared(TripletCleared)     {}

// PieceMoved reports a completed move. It is emitted for every move,
// captures included; a capture emits PieceCaptured first.
type PieceMoved struct {
	From, To board.Square
	Piece    board.Piece
}

// PieceCaptured reports a piece removed from the board by a move.
type PieceCaptured struct {
	Square     board.Square
	Piece      board.Piece
	AttackerFrom board.Square
}

// PiecePlaced reports a successful arrival placement.
type PiecePlaced struct {
	Square board.Square
	Piece  board.Piece
}

// PromotionRequired asks the UI to choose a promotion kind for the pawn
// standing on Square.
type PromotionRequired struct {
	Square board.Square
	Piece  board.Piece
}

// TurnChanged reports whose turn it now is.
type TurnChanged struct {
	Side board.Color
}

// CheckDetected reports that Side's King is currently attacked.
type CheckDetected struct {
	Side board.Color
}

// GameOver reports the terminal outcome. Winner is NoColor for a draw.
type GameOver struct {
	Winner board.Color
	Reason string
}

// TimeExpired reports a side's clock reaching zero.
type TimeExpired struct {
	Side board.Color
}

// LowTimeWarning reports a side crossing a warning threshold. It is used
// for both the low and the critical threshold; Critical distinguishes
// them.
type LowTimeWarning struct {
	Side     board.Color
	Seconds  float64
	Critical bool
}

// TripletCleared reports a triplet-clear resolution (spec.md §4.7):
// Positions is the three same-kind squares cleared, Axis is
// "horizontal" or "vertical", BumpedSquare is the square beyond the
// triplet that also got bumped (NoSquare if none), and PhysicsBump
// passes through the cosmetic settings flag untouched (Open Question 4
// in SPEC_FULL.md) — the core never reads it back.
type TripletCleared struct {
	Positions    [3]board.Square
	Axis         string
	BumpedSquare board.Square
	PhysicsBump  bool
}
