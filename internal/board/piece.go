package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece. Saktris never assembles
// a standard set; kinds arrive one at a time via the arrival manager.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN-style character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceValue is the material value of each piece type in centipawns.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Value returns the material value of the piece type in centipawns.
func (pt PieceType) Value() int {
	return PieceValue[pt]
}

// Piece is a small value type: kind, side, and whether it has ever moved.
// HasMoved is mutated exclusively by Board when the piece is moved or
// castled, and is significant for castling rights and pawn double-push
// eligibility (spec.md §3). Equality is structural, so Piece is safe to
// use as a map key or compare with ==.
type Piece struct {
	Kind     PieceType
	Side     Color
	HasMoved bool
}

// NoPiece is the zero value representing an empty square's absent piece;
// callers should use a nil *Piece on the board grid rather than this
// value for "empty", but NoPiece is useful wherever a Piece literal (not
// a pointer) denotes "nothing of interest".
var NoPiece = Piece{Kind: NoPieceType, Side: NoColor}

// NewPiece creates a freshly-arrived piece (HasMoved starts false).
func NewPiece(kind PieceType, side Color) Piece {
	return Piece{Kind: kind, Side: side}
}

// String returns the FEN-style character for the piece: uppercase for
// White, lowercase for Black.
func (p Piece) String() string {
	c := p.Kind.Char()
	if p.Side == White {
		return string(c - 32)
	}
	return string(c)
}

// SameKindAndSide reports whether two pieces are the same kind and side,
// ignoring HasMoved. Triplet detection (spec.md §4.1) compares kind only,
// regardless of side.
func (p Piece) SameKindAndSide(o Piece) bool {
	return p.Kind == o.Kind && p.Side == o.Side
}
