// Package draw implements the three draw conditions Saktris recognizes:
// the 50-move rule, threefold repetition, and insufficient material
// (spec.md §4.3). It is deliberately standalone and testable, lifted out
// of the UI-bound checkGameEnd/isThreefoldRepetition logic the teacher
// repo keeps inline in its game loop (internal/ui/game.go in
// hailam/chessplay).
package draw

import "github.com/tomgun/saktris/internal/board"

// Reason names why a position is drawn, for the end-of-game message
// GameState surfaces to the UI (spec.md §4.3 "the detector exposes
// why the draw holds").
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonFiftyMove          Reason = "50-move rule"
	ReasonThreefold          Reason = "threefold repetition"
	ReasonInsufficientMaterial Reason = "insufficient material"
	ReasonStalemate          Reason = "stalemate"
)

// Detector tracks the running state needed to recognize a draw: a
// repetition table keyed by the full Zobrist hash, which already folds
// in side-to-move, castling rights, and en-passant file (spec.md §4.3
// "so superficially identical boards at different rights do not
// collide"). The half-move clock is not kept here; IsFiftyMove reads
// Board.HalfMoveClock.
type Detector struct {
	repetitions map[board.PositionHash]int
}

// NewDetector creates an empty Detector.
func NewDetector() *Detector {
	return &Detector{repetitions: make(map[board.PositionHash]int)}
}

// RecordPosition registers one occurrence of hash, to be called once per
// completed move (not per placement — a placement does not repeat a
// position in the chess sense, and GameState should not record one for
// a placement turn).
func (d *Detector) RecordPosition(hash board.PositionHash) {
	d.repetitions[hash]++
}

// RepetitionCount returns how many times hash has occurred so far.
func (d *Detector) RepetitionCount(hash board.PositionHash) int {
	return d.repetitions[hash]
}

// IsThreefold reports whether hash has occurred three or more times.
func (d *Detector) IsThreefold(hash board.PositionHash) bool {
	return d.repetitions[hash] >= 3
}

// IsFiftyMove reports whether b's half-move clock has reached the
// 50-move-rule threshold of 100 plies without a pawn move or capture.
func IsFiftyMove(b *board.Board) bool {
	return b.HalfMoveClock >= 100
}

// IsInsufficientMaterial reports whether neither side has enough
// material to force checkmate: no pawns, rooks or queens on the board
// and at most one bishop or knight per side. That covers king-vs-king,
// king-and-single-bishop vs king and king-and-single-knight vs king
// (spec.md §4.3's required minimal set), and also one minor against one
// minor; two minors on the same side, a same-color bishop pair
// included, count as sufficient.
func IsInsufficientMaterial(b *board.Board) bool {
	var minorCount [2]int
	var hasMajorOrPawn bool

	for sq := board.A1; sq <= board.H8; sq++ {
		p, ok := b.PieceAt(sq)
		if !ok {
			continue
		}
		switch p.Kind {
		case board.King:
			// always present conceptually; doesn't affect sufficiency
		case board.Bishop, board.Knight:
			minorCount[p.Side]++
		default:
			hasMajorOrPawn = true
		}
	}

	if hasMajorOrPawn {
		return false
	}
	return minorCount[board.White] <= 1 && minorCount[board.Black] <= 1
}

// Snapshot returns the repetition table for serialization (spec.md §6's
// save-file "draw_state" key). The returned map is the Detector's own
// table, not a copy: later RecordPosition calls show up in it, and
// changes made through it change the Detector.
func (d *Detector) Snapshot() map[board.PositionHash]int {
	return d.repetitions
}

// RestoreDetector rebuilds a Detector from a previously-saved repetition
// table, used when loading a save file.
func RestoreDetector(repetitions map[board.PositionHash]int) *Detector {
	if repetitions == nil {
		repetitions = make(map[board.PositionHash]int)
	}
	return &Detector{repetitions: repetitions}
}

// Why returns the first applicable draw reason for b given d's
// repetition state, or ReasonNone if no draw condition currently holds.
// Checked in the order the detector itself is cheapest to evaluate;
// GameState additionally checks stalemate and checkmate, which require
// move generation and are not this package's concern.
func (d *Detector) Why(b *board.Board) Reason {
	if IsFiftyMove(b) {
		return ReasonFiftyMove
	}
	if d.IsThreefold(b.Hash) {
		return ReasonThreefold
	}
	if IsInsufficientMaterial(b) {
		return ReasonInsufficientMaterial
	}
	return ReasonNone
}
