// Package arrival implements the PieceArrivalManager: deciding when a
// new piece arrives for a side and what kind it is (spec.md §4.6). The
// Random mode's PRNG is the same xorshift64* generator
// internal/board/zobrist.go uses for Zobrist keys, copied rather than
// shared so networked peers can seed it independently of the (fixed)
// hash seed while keeping the same reproducible algorithm.
package arrival

import "github.com/tomgun/saktris/internal/board"

// Mode is a closed sum type for how the manager picks the next kind
// (spec.md §9 "Arrival mode is a sum type with per-variant state").
type Mode uint8

const (
	Fixed Mode = iota
	Selectable
	Random
)

func (m Mode) String() string {
	switch m {
	case Selectable:
		return "Selectable"
	case Random:
		return "Random"
	default:
		return "Fixed"
	}
}

// fixedSequence is the standard back-rank minus the King, repeating:
// two Rooks, two Knights, two Bishops, one Queen, per spec.md §4.6's
// example. It is not a fixed-size inventory — once exhausted it repeats
// from the start, since a game can run long past seven arrivals.
var fixedSequence = []board.PieceType{
	board.Rook, board.Knight, board.Bishop, board.Queen,
	board.Bishop, board.Knight, board.Rook,
}

// randomWeights assigns a relative weight to each arrivable kind for
// Random mode. Only back-rank kinds arrive (spec.md §4.6 "a fixed
// sequence of kinds, e.g. standard chess back-rank minus King") — Pawns
// and Kings are never generated by the manager.
var randomWeights = []struct {
	kind   board.PieceType
	weight int
}{
	{board.Knight, 3},
	{board.Bishop, 3},
	{board.Rook, 2},
	{board.Queen, 1},
}

// prng is the xorshift64* generator, identical in algorithm (though not
// in instance) to internal/board/zobrist.go's, so the determinism
// argument in spec.md §4.6 ("host chooses and broadcasts the seed so
// both peers generate identical sequences") holds for arrivals too.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = 1
	}
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// Config is the per-side arrival configuration, drawn from settings
// (spec.md §6: arrival_frequency, arrival_mode, seed).
type Config struct {
	Frequency int // one arrival every N turns; 1 = every turn
	Mode      Mode
	Seed      uint64 // required for deterministic Random
}

// Manager tracks one side's arrival schedule.
type Manager struct {
	cfg Config

	turnsSinceArrival int
	rng               *prng

	// fixedIdx indexes into fixedSequence for Fixed mode.
	fixedIdx int

	// pendingKind caches the Random-mode draw between NextKind and
	// Advance so a preview never disagrees with what gets committed.
	pendingKind *board.PieceType
}

// NewManager creates a Manager for one side from cfg. For Selectable
// mode, the manager still produces a single "next" kind via the same
// Fixed sequence; the caller (GameState/UI) is responsible for letting
// the player choose among the next K kinds before committing — the
// manager's contract is only "produce kinds", per spec.md §4.6.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg: cfg,
		rng: newPRNG(cfg.Seed),
	}
}

// Tick advances the manager by one turn for its side and reports whether
// an arrival fires this turn. Call exactly once per BeginTurn for that
// side (spec.md §4.7 "the manager advances its internal counters").
func (m *Manager) Tick() bool {
	m.turnsSinceArrival++
	freq := m.cfg.Frequency
	if freq < 1 {
		freq = 1
	}
	if m.turnsSinceArrival < freq {
		return false
	}
	m.turnsSinceArrival = 0
	return true
}

// NextKind returns the piece kind that will arrive, without consuming
// it. Call Advance afterward once the arrival is actually committed —
// kept separate so Selectable mode can preview candidates before the
// player chooses.
func (m *Manager) NextKind() board.PieceType {
	switch m.cfg.Mode {
	case Random:
		if m.pendingKind == nil {
			k := m.drawRandomKind()
			m.pendingKind = &k
		}
		return *m.pendingKind
	default: // Fixed, Selectable
		return fixedSequence[m.fixedIdx%len(fixedSequence)]
	}
}

// Candidates returns the next k kinds a Selectable-mode player may
// choose among, without consuming any of them.
func (m *Manager) Candidates(k int) []board.PieceType {
	out := make([]board.PieceType, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, fixedSequence[(m.fixedIdx+i)%len(fixedSequence)])
	}
	return out
}

// Advance commits to kind having arrived: Fixed/Selectable advance the
// sequence cursor, Random consumes one draw from the RNG stream.
func (m *Manager) Advance(kind board.PieceType) {
	switch m.cfg.Mode {
	case Random:
		m.pendingKind = nil
	default:
		m.fixedIdx++
	}
}

// SkipArrival is called when no legal back-rank file exists for the
// scheduled arrival (spec.md Open Question 2, resolved in SPEC_FULL.md:
// the arrival is silently skipped and the turn continues as a move
// turn). The counter is left one Tick short of firing, so the skipped
// arrival comes due again on this side's next turn.
func (m *Manager) SkipArrival() {
	m.turnsSinceArrival = m.cfg.Frequency - 1
	if m.turnsSinceArrival < 0 {
		m.turnsSinceArrival = 0
	}
}

// Snapshot captures a Manager's mutable schedule state for serialization
// (spec.md §6 "queue contents and counters are part of save files").
type Snapshot struct {
	Config            Config
	TurnsSinceArrival int
	FixedIdx          int
	RNGState          uint64
	PendingKind       *board.PieceType
}

// Snapshot returns m's current schedule state.
func (m *Manager) Snapshot() Snapshot {
	var pending *board.PieceType
	if m.pendingKind != nil {
		k := *m.pendingKind
		pending = &k
	}
	return Snapshot{
		Config:            m.cfg,
		TurnsSinceArrival: m.turnsSinceArrival,
		FixedIdx:          m.fixedIdx,
		RNGState:          m.rng.state,
		PendingKind:       pending,
	}
}

// RestoreManager rebuilds a Manager from a previously-saved Snapshot.
func RestoreManager(s Snapshot) *Manager {
	m := NewManager(s.Config)
	m.turnsSinceArrival = s.TurnsSinceArrival
	m.fixedIdx = s.FixedIdx
	if s.RNGState != 0 {
		m.rng.state = s.RNGState
	}
	if s.PendingKind != nil {
		k := *s.PendingKind
		m.pendingKind = &k
	}
	return m
}

func (m *Manager) totalWeight() int {
	total := 0
	for _, w := range randomWeights {
		total += w.weight
	}
	return total
}

func (m *Manager) drawRandomKind() board.PieceType {
	total := m.totalWeight()
	if total == 0 {
		return board.Queen
	}
	roll := int(m.rng.next() % uint64(total))
	return pickWeighted(roll)
}

func pickWeighted(roll int) board.PieceType {
	for _, w := range randomWeights {
		if roll < w.weight {
			return w.kind
		}
		roll -= w.weight
	}
	return board.Queen
}
