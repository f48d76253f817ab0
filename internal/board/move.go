package board

// Special identifies a move that needs extra handling beyond "piece goes
// from A to B".
type Special uint8

const (
	SpecialNone Special = iota
	SpecialEnPassant
	SpecialCastleKingside
	SpecialCastleQueenside
	SpecialPromotion
)

func (s Special) String() string {
	switch s {
	case SpecialEnPassant:
		return "en-passant"
	case SpecialCastleKingside:
		return "O-O"
	case SpecialCastleQueenside:
		return "O-O-O"
	case SpecialPromotion:
		return "promotion"
	default:
		return "normal"
	}
}

// Captured describes a piece removed from the board by a move, and the
// square it was removed from (which, for en passant, is not the move's
// destination square).
type Captured struct {
	Square Square
	Piece  Piece
}

// Move is both the record of an executed action and its own undo record:
// it carries everything MakeMove mutated, so UnmakeMove can restore the
// board byte-for-byte without recomputation (spec.md §3 "Move").
type Move struct {
	From, To Square
	Moved    Piece // the piece as it was *before* this move (HasMoved pre-update)

	Captured *Captured // nil if no capture
	Special  Special
	Promoted PieceType // valid iff Special == SpecialPromotion

	// Undo fields: board state immediately before the move was applied.
	PrevEnPassant      Square // NoSquare if none was set
	PrevCastlingRights CastlingRights
	PrevHalfMoveClock  int
	PrevHash           uint64

	// Rook state for castling undo (zero value unless Special is a castle).
	RookFrom, RookTo Square
	RookHadMoved     bool
}

// IsCapture reports whether this move removed an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != nil
}

// IsQuiet reports whether this move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && m.Special != SpecialPromotion
}

// String returns a UCI-ish rendering of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Special == SpecialPromotion {
		s += string(m.Promoted.Char())
	}
	return s
}

// ParseDestination parses "e4"-style algebraic notation into a Square,
// returning an error for malformed input. Used by callers translating UI
// or network input into board coordinates.
func ParseDestination(s string) (Square, error) {
	return ParseSquare(s)
}

// MoveList is a fixed-size, allocation-free list of moves, used by move
// generation and the search hot path alike (spec.md §4.8/§9).
type MoveList struct {
	moves [218]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Slice returns the occupied portion of the list as a slice. The slice
// aliases the list's backing array; callers must not retain it across a
// subsequent Clear/Add.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Contains reports whether the list already holds a move with the given
// From/To (ignoring promotion kind — callers needing an exact match
// should scan Slice() themselves).
func (ml *MoveList) Contains(from, to Square) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].From == from && ml.moves[i].To == to {
			return true
		}
	}
	return false
}
