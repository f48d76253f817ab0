// Package game implements GameState, the aggregate state machine
// coordinating Board, the per-side arrival managers, the chess clock,
// draw detection, and game status (spec.md §4.7). It is grounded on the
// teacher's internal/ui/game.go Game struct, with the UI widget fields
// (drag state, camera, toasts) stripped out and direct ebiten/feedback
// calls replaced by events.Sink publishes (spec.md §9).
package game

import (
	"errors"
	"log"
	"time"

	"github.com/tomgun/saktris/internal/arrival"
	"github.com/tomgun/saktris/internal/board"
	"github.com/tomgun/saktris/internal/clock"
	"github.com/tomgun/saktris/internal/draw"
	"github.com/tomgun/saktris/internal/events"
)

// Error kinds returned to the UI layer (spec.md §7). These are returned,
// never panicked: the core remains valid and unmutated when one of these
// is returned.
var (
	ErrIllegalMove      = errors.New("game: illegal move")
	ErrIllegalPlacement = errors.New("game: illegal placement")
	ErrPromotionPending = errors.New("game: promotion choice outstanding")
	ErrGameOver         = errors.New("game: operation requested after terminal status")
	ErrNotYourTurn      = errors.New("game: not your turn")
)

// Status is the closed sum type of game outcomes (spec.md §3).
type Status uint8

const (
	StatusPlaying Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
	StatusDraw
	StatusTimeout
	StatusResigned
	StatusTripletWin
)

func (s Status) String() string {
	switch s {
	case StatusCheck:
		return "Check"
	case StatusCheckmate:
		return "Checkmate"
	case StatusStalemate:
		return "Stalemate"
	case StatusDraw:
		return "Draw"
	case StatusTimeout:
		return "Timeout"
	case StatusResigned:
		return "Resigned"
	case StatusTripletWin:
		return "TripletWin"
	default:
		return "Playing"
	}
}

// HistoryKind distinguishes the two kinds of turn-consuming entries.
type HistoryKind uint8

const (
	HistoryMove HistoryKind = iota
	HistoryPlacement
)

// HistoryEntry records one completed turn (spec.md §6 move_history).
type HistoryEntry struct {
	Kind      HistoryKind
	Move      board.Move   // valid iff Kind == HistoryMove
	Placement board.Square // valid iff Kind == HistoryPlacement
	Piece     board.Piece  // the piece placed, iff Kind == HistoryPlacement
}

// Settings configures a game at creation and is part of save files
// (spec.md §6).
type Settings struct {
	ArrivalFrequency   int
	ArrivalMode        arrival.Mode
	ArrivalSeed        uint64
	TripletClearEnabled bool
	PhysicsBump        bool // cosmetic passthrough only; see events.TripletCleared
	AISide             board.Color
	HasAI              bool
}

// GameState is the aggregate the host loop drives: one call per UI
// intent (RequestMove, RequestPlacement, ChoosePromotion, Resign,
// DrawOffer...), each of which either mutates state and publishes events
// or returns an error leaving state untouched (spec.md §4.7/§7).
type GameState struct {
	Board    *board.Board
	Clock    *clock.Clock
	Draws    *draw.Detector
	Arrivals [2]*arrival.Manager

	SideToMove  board.Color
	MoveCounter int
	Status      Status

	History []HistoryEntry

	settings Settings
	sink     events.Sink

	pendingPromotion board.Square
	pendingArrival   *board.PieceType // non-nil when this turn is a placement turn
}

// New creates a GameState at the start of a Saktris game: an empty board
// except for both seeded Kings (spec.md §4.6 "Kings are seeded onto the
// board at game start"), fresh arrival managers for both sides, and an
// Unconfigured clock (the caller configures and starts it).
func New(settings Settings, sink events.Sink) *GameState {
	if sink == nil {
		sink = events.NopSink{}
	}
	gs := &GameState{
		Board:            board.NewSaktrisBoard(),
		Clock:            clock.New(),
		Draws:            draw.NewDetector(),
		SideToMove:       board.White,
		settings:         settings,
		sink:             sink,
		pendingPromotion: board.NoSquare,
	}
	cfg := arrival.Config{Frequency: settings.ArrivalFrequency, Mode: settings.ArrivalMode, Seed: settings.ArrivalSeed}
	gs.Arrivals[board.White] = arrival.NewManager(cfg)
	gs.Arrivals[board.Black] = arrival.NewManager(cfg)
	gs.Draws.RecordPosition(gs.Board.Hash)
	gs.wireClockHooks()
	gs.beginTurn()
	return gs
}

// wireClockHooks connects Clock's optional callbacks to sink (spec.md
// §4.4/§6 "low_time_warning(side,seconds)"/"critical", and time
// expiring ends the game): the host loop only needs to call Clock.Tick
// once per frame, never poll State() itself for these transitions.
func (gs *GameState) wireClockHooks() {
	gs.Clock.OnExpire = func(side board.Color) {
		gs.ApplyTimeout(side)
	}
	gs.Clock.OnLowTime = func(side board.Color, remaining time.Duration) {
		gs.sink.OnLowTimeWarning(events.LowTimeWarning{Side: side, Seconds: remaining.Seconds(), Critical: false})
	}
	gs.Clock.OnCritical = func(side board.Color, remaining time.Duration) {
		gs.sink.OnLowTimeWarning(events.LowTimeWarning{Side: side, Seconds: remaining.Seconds(), Critical: true})
	}
}

// beginTurn decides, for the side now to move, whether this turn is a
// placement (an arrival is due) or a move, per spec.md §4.7 step 1.
func (gs *GameState) beginTurn() {
	if gs.Status != StatusPlaying && gs.Status != StatusCheck {
		return
	}
	mgr := gs.Arrivals[gs.SideToMove]
	if mgr.Tick() {
		kind := mgr.NextKind()
		if gs.Board.HasLegalArrivalSquare(gs.SideToMove, kind) {
			gs.pendingArrival = &kind
		} else {
			// Open Question 2 in SPEC_FULL.md: no legal destination for
			// this kind, so the arrival is silently skipped and the turn
			// continues as an ordinary move turn.
			mgr.SkipArrival()
			gs.pendingArrival = nil
		}
	} else {
		gs.pendingArrival = nil
	}
	gs.sink.OnTurnChanged(events.TurnChanged{Side: gs.SideToMove})
}

// PendingArrival reports the piece kind the side to move must place this
// turn, or (NoPieceType, false) if this turn is an ordinary move turn.
func (gs *GameState) PendingArrival() (board.PieceType, bool) {
	if gs.pendingArrival == nil {
		return board.NoPieceType, false
	}
	return *gs.pendingArrival, true
}

// PendingPromotion reports the square holding a pawn awaiting a
// promotion choice, or (NoSquare, false) if no promotion is outstanding.
func (gs *GameState) PendingPromotion() (board.Square, bool) {
	if gs.pendingPromotion == board.NoSquare {
		return board.NoSquare, false
	}
	return gs.pendingPromotion, true
}

// RequestPlacement places the side-to-move's scheduled arrival on sq
// (spec.md §4.7 step 2). Returns ErrIllegalPlacement if this turn is not
// a placement turn or if Board.PlacePiece rejects the square, whatever
// its reason.
func (gs *GameState) RequestPlacement(sq board.Square) error {
	if err := gs.guardActionable(); err != nil {
		return err
	}
	if gs.pendingArrival == nil {
		return ErrIllegalPlacement
	}
	kind := *gs.pendingArrival
	piece := board.NewPiece(kind, gs.SideToMove)
	if err := gs.Board.PlacePiece(sq, piece); err != nil {
		return ErrIllegalPlacement
	}

	gs.Arrivals[gs.SideToMove].Advance(kind)
	gs.History = append(gs.History, HistoryEntry{Kind: HistoryPlacement, Placement: sq, Piece: piece})
	gs.MoveCounter++
	gs.sink.OnPiecePlaced(events.PiecePlaced{Square: sq, Piece: piece})

	// Triplet detection does not run on placement turns (spec.md §4.7 step 2).
	gs.completeTurn()
	return nil
}

// RequestMove executes a legal move from, to (spec.md §4.7 step 3). A
// promotion move is not applied yet: the pawn stays on its origin square
// (not on the promotion rank), PromotionRequired names that origin
// square, and the turn stays outstanding until ChoosePromotion is called.
func (gs *GameState) RequestMove(from, to board.Square) error {
	if err := gs.guardActionable(); err != nil {
		return err
	}
	if gs.pendingArrival != nil {
		return ErrIllegalPlacement
	}
	mover, ok := gs.Board.PieceAt(from)
	if !ok || mover.Side != gs.SideToMove {
		return ErrNotYourTurn
	}

	legal := gs.Board.LegalMovesFrom(from)
	var chosen board.Move
	found := false
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.To == to {
			chosen = m
			found = true
			if m.Special != board.SpecialPromotion {
				break
			}
		}
	}
	if !found {
		return ErrIllegalMove
	}
	if chosen.Special == board.SpecialPromotion {
		gs.pendingPromotion = from
		gs.sink.OnPromotionRequired(events.PromotionRequired{Square: from, Piece: chosen.Moved})
		return nil
	}
	return gs.applyMove(chosen)
}

// ChoosePromotion completes an outstanding promotion move with kind
// (spec.md §4.7 step 3 "GameState awaits a PromotionChoice signal").
func (gs *GameState) ChoosePromotion(kind board.PieceType) error {
	if err := gs.guardActionable(); err != nil {
		return err
	}
	if gs.pendingPromotion == board.NoSquare {
		return ErrIllegalMove
	}
	from := gs.pendingPromotion
	legal := gs.Board.LegalMovesFrom(from)
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.Special == board.SpecialPromotion && m.Promoted == kind {
			gs.pendingPromotion = board.NoSquare
			return gs.applyMove(m)
		}
	}
	return ErrIllegalMove
}

func (gs *GameState) applyMove(m board.Move) error {
	origin := m.From
	dest := m.To
	mover := m.Moved

	applied := gs.Board.MakeMove(m)

	gs.History = append(gs.History, HistoryEntry{Kind: HistoryMove, Move: applied})
	gs.MoveCounter++

	if applied.IsCapture() {
		gs.sink.OnPieceCaptured(events.PieceCaptured{
			Square:       applied.Captured.Square,
			Piece:        applied.Captured.Piece,
			AttackerFrom: origin,
		})
	}
	gs.sink.OnPieceMoved(events.PieceMoved{From: origin, To: dest, Piece: mover})

	if gs.settings.TripletClearEnabled {
		if outcome, ok := resolveTriplet(gs.Board, origin, dest); ok {
			gs.sink.OnTripletCleared(events.TripletCleared{
				Positions:    outcome.cleared,
				Axis:         outcome.axis,
				BumpedSquare: outcome.bumpedSquare,
				PhysicsBump:  gs.settings.PhysicsBump,
			})
			if outcome.kingBumped {
				gs.Status = StatusTripletWin
				winner := outcome.kingSide.Other()
				gs.sink.OnGameOver(events.GameOver{Winner: winner, Reason: "triplet"})
				return nil
			}
		}
	}

	gs.Draws.RecordPosition(gs.Board.Hash)
	gs.completeTurn()
	return nil
}

// completeTurn runs spec.md §4.7 steps 4-5: compute the opponent's
// status, switch the clock, and either end the game or begin the
// opponent's turn.
func (gs *GameState) completeTurn() {
	gs.Clock.SwitchSide()
	gs.SideToMove = gs.SideToMove.Other()

	opponent := gs.SideToMove
	legal := gs.Board.GenerateLegalMoves(opponent)
	inCheck := gs.Board.InCheck(opponent)

	switch {
	case legal.Len() == 0 && inCheck:
		gs.Status = StatusCheckmate
		winner := opponent.Other()
		log.Printf("[game] checkmate: %v wins, move %d", winner, gs.MoveCounter)
		gs.sink.OnGameOver(events.GameOver{Winner: winner, Reason: "checkmate"})
		return
	case legal.Len() == 0:
		gs.Status = StatusStalemate
		log.Printf("[game] stalemate at move %d", gs.MoveCounter)
		gs.sink.OnGameOver(events.GameOver{Winner: board.NoColor, Reason: "stalemate"})
		return
	}

	if reason := gs.Draws.Why(gs.Board); reason != draw.ReasonNone {
		gs.Status = StatusDraw
		log.Printf("[game] draw: %s at move %d", reason, gs.MoveCounter)
		gs.sink.OnGameOver(events.GameOver{Winner: board.NoColor, Reason: string(reason)})
		return
	}

	if inCheck {
		gs.Status = StatusCheck
		gs.sink.OnCheckDetected(events.CheckDetected{Side: opponent})
	} else {
		gs.Status = StatusPlaying
	}
	gs.beginTurn()
}

// Resign ends the game with side as the loser (spec.md §6 request_resign).
func (gs *GameState) Resign(side board.Color) error {
	if err := gs.guardActionable(); err != nil {
		return err
	}
	gs.Status = StatusResigned
	gs.sink.OnGameOver(events.GameOver{Winner: side.Other(), Reason: "resigned"})
	return nil
}

// ApplyTimeout is wired to Clock.OnExpire by wireClockHooks, so it runs
// when Clock.Tick transitions to Expired (spec.md §4.7 "Compute opponent
// status... timeout via clock").
func (gs *GameState) ApplyTimeout(side board.Color) {
	if gs.Status != StatusPlaying && gs.Status != StatusCheck {
		return
	}
	gs.Status = StatusTimeout
	gs.sink.OnTimeExpired(events.TimeExpired{Side: side})
	gs.sink.OnGameOver(events.GameOver{Winner: side.Other(), Reason: "timeout"})
}

// guardActionable returns ErrGameOver once Status is terminal — spec.md
// §7 "GameOver (operation requested after terminal status)".
func (gs *GameState) guardActionable() error {
	switch gs.Status {
	case StatusPlaying, StatusCheck:
		return nil
	default:
		return ErrGameOver
	}
}

// IsTerminal reports whether Status is a terminal outcome.
func (gs *GameState) IsTerminal() bool {
	return gs.guardActionable() == ErrGameOver
}

// Snapshot bundles every field a save file carries (spec.md §6's
// save-file keys: board, side_to_move, move_counter, arrival_queues,
// arrival_config, clock, status, move_history, draw_state).
type Snapshot struct {
	Settings    Settings
	BoardBytes  [64]byte
	SideToMove  board.Color
	Castling    board.CastlingRights
	EnPassant   board.Square
	HalfMoveClock int
	MoveCounter int
	Status      Status
	History     []HistoryEntry
	Arrivals    [2]arrival.Snapshot
	Clock       clock.Snapshot
	Repetitions map[board.PositionHash]int

	PendingArrival   *board.PieceType
	PendingPromotion board.Square
}

// Snapshot captures gs's full state for serialization.
func (gs *GameState) Snapshot() Snapshot {
	return Snapshot{
		Settings:         gs.settings,
		BoardBytes:       gs.Board.Bytes(),
		SideToMove:       gs.Board.SideToMove,
		Castling:         gs.Board.Castling,
		EnPassant:        gs.Board.EnPassant,
		HalfMoveClock:    gs.Board.HalfMoveClock,
		MoveCounter:      gs.MoveCounter,
		Status:           gs.Status,
		History:          append([]HistoryEntry(nil), gs.History...),
		Arrivals:         [2]arrival.Snapshot{gs.Arrivals[board.White].Snapshot(), gs.Arrivals[board.Black].Snapshot()},
		Clock:            gs.Clock.Snapshot(),
		Repetitions:      gs.Draws.Snapshot(),
		PendingArrival:   gs.pendingArrival,
		PendingPromotion: gs.pendingPromotion,
	}
}

// Restore rebuilds a GameState from a previously-saved Snapshot. Unknown
// or missing fields are the caller's responsibility to default before
// calling Restore (spec.md §6 "missing keys receive defined defaults");
// Restore itself assumes s is already complete.
func Restore(s Snapshot, sink events.Sink) *GameState {
	if sink == nil {
		sink = events.NopSink{}
	}
	gs := &GameState{
		Board:            board.FromBytes(s.BoardBytes, s.SideToMove, s.Castling, s.EnPassant, s.HalfMoveClock),
		Clock:            clock.Restore(s.Clock),
		Draws:            draw.RestoreDetector(s.Repetitions),
		SideToMove:       s.SideToMove,
		MoveCounter:      s.MoveCounter,
		Status:           s.Status,
		History:          append([]HistoryEntry(nil), s.History...),
		settings:         s.Settings,
		sink:             sink,
		pendingPromotion: s.PendingPromotion,
		pendingArrival:   s.PendingArrival,
	}
	gs.Arrivals[board.White] = arrival.RestoreManager(s.Arrivals[board.White])
	gs.Arrivals[board.Black] = arrival.RestoreManager(s.Arrivals[board.Black])
	gs.wireClockHooks()
	return gs
}
