// saktris-core is a headless driver: it plays one AI-vs-AI Saktris game
// to completion and prints the outcome, the same "alternate, non-GUI
// entrypoint" role cmd/chessplay-uci/main.go played for the teacher
// (there a UCI adapter over the search engine, here a scripted run over
// the whole core). No UI layer exists in this module; RunGame's role is
// replaced entirely.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/tomgun/saktris/internal/ai"
	"github.com/tomgun/saktris/internal/arrival"
	"github.com/tomgun/saktris/internal/board"
	"github.com/tomgun/saktris/internal/clock"
	"github.com/tomgun/saktris/internal/events"
	"github.com/tomgun/saktris/internal/game"
	"github.com/tomgun/saktris/internal/storage"
)

var (
	difficulty       = flag.String("difficulty", "medium", "AI difficulty: easy, medium, hard")
	arrivalFrequency = flag.Int("arrival-frequency", 3, "turns between arrivals per side")
	arrivalModeFlag  = flag.String("arrival-mode", "fixed", "arrival mode: fixed, selectable, random")
	seed             = flag.Uint64("seed", 1, "PRNG seed for Random arrival mode")
	tripletClear     = flag.Bool("triplet-clear", true, "enable triplet-clear resolution")
	maxTurns         = flag.Int("max-turns", 400, "abort the game after this many turns (safety valve)")
	saveAs           = flag.String("save", "", "save the finished game under this name (empty disables saving)")
	thinkTimeout     = flag.Duration("think-timeout", 5*time.Second, "how long to poll a side's AI before giving up")
	clockBudget      = flag.Duration("clock", 10*time.Minute, "starting time budget per side")
)

func main() {
	flag.Parse()

	settings := game.Settings{
		ArrivalFrequency:    *arrivalFrequency,
		ArrivalMode:         parseArrivalMode(*arrivalModeFlag),
		ArrivalSeed:         *seed,
		TripletClearEnabled: *tripletClear,
	}

	sink := &logSink{}
	gs := game.New(settings, sink)
	gs.Clock.Configure(*clockBudget, 0)
	gs.Clock.Start()

	engines := [2]*ai.Engine{
		ai.NewEngine(parseDifficulty(*difficulty)),
		ai.NewEngine(parseDifficulty(*difficulty)),
	}

	for turn := 0; turn < *maxTurns && !gs.IsTerminal(); turn++ {
		if err := playTurn(gs, engines); err != nil {
			log.Printf("[saktris-core] turn %d: %v", turn, err)
			break
		}
	}

	log.Printf("[saktris-core] finished: status=%v moves=%d", gs.Status, gs.MoveCounter)

	if *saveAs != "" {
		if err := storage.SaveGame(*saveAs, gs); err != nil {
			log.Printf("[saktris-core] save failed: %v", err)
		} else {
			log.Printf("[saktris-core] saved game as %q", *saveAs)
		}
	}
}

// playTurn drives exactly one of GameState's turn-consuming calls,
// choosing between a placement and a move the way spec.md §4.7 step 1
// distinguishes them.
func playTurn(gs *game.GameState, engines [2]*ai.Engine) error {
	if kind, ok := gs.PendingArrival(); ok {
		return placeArrival(gs, kind)
	}
	return playMove(gs, engines[gs.SideToMove])
}

// placeArrival picks the first square HasLegalArrivalSquare would have
// approved, scanning the side's own back rank before the rest of the
// board so arrivals land somewhere purposeful rather than wherever scan
// order happens to first find free.
func placeArrival(gs *game.GameState, kind board.PieceType) error {
	side := gs.SideToMove
	homeRank := 0
	if side == board.Black {
		homeRank = 7
	}

	candidates := make([]board.Square, 0, 64)
	for file := 0; file < 8; file++ {
		candidates = append(candidates, board.NewSquare(file, homeRank))
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		candidates = append(candidates, sq)
	}

	for _, sq := range candidates {
		if err := gs.RequestPlacement(sq); err == nil {
			return nil
		}
	}
	return game.ErrIllegalPlacement
}

// playMove asks eng to think about the current position and applies
// whatever it returns, polling TryReceive the way the host loop would
// once per frame (spec.md §5) rather than blocking on the search
// goroutine directly.
func playMove(gs *game.GameState, eng *ai.Engine) error {
	started := time.Now()
	eng.Think(gs.Board, gs.SideToMove)

	deadline := started.Add(*thinkTimeout)
	for {
		if res, ok := eng.TryReceive(); ok {
			gs.Clock.Tick(time.Since(started))
			if gs.Clock.State() == clock.Expired {
				return nil // Clock's OnExpire hook already applied the timeout
			}
			if !res.HasMove {
				return gs.Resign(gs.SideToMove)
			}
			if err := gs.RequestMove(res.Move.From, res.Move.To); err != nil {
				return err
			}
			if _, pending := gs.PendingPromotion(); pending {
				return gs.ChoosePromotion(board.Queen)
			}
			return nil
		}
		if time.Now().After(deadline) {
			eng.Cancel()
			return gs.Resign(gs.SideToMove)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func parseDifficulty(s string) ai.Difficulty {
	switch s {
	case "easy":
		return ai.Easy
	case "hard":
		return ai.Hard
	default:
		return ai.Medium
	}
}

func parseArrivalMode(s string) arrival.Mode {
	switch s {
	case "selectable":
		return arrival.Selectable
	case "random":
		return arrival.Random
	default:
		return arrival.Fixed
	}
}

// logSink prints the events a UI would otherwise render, so a headless
// run still shows what happened.
type logSink struct {
	events.NopSink
}

func (logSink) OnPieceMoved(e events.PieceMoved) {
	log.Printf("[saktris-core] %v %v -> %v", e.Piece, e.From, e.To)
}

func (logSink) OnPiecePlaced(e events.PiecePlaced) {
	log.Printf("[saktris-core] %v arrives at %v", e.Piece, e.Square)
}

func (logSink) OnTripletCleared(e events.TripletCleared) {
	log.Printf("[saktris-core] triplet cleared: %v (axis=%s, bumped=%v)", e.Positions, e.Axis, e.BumpedSquare)
}

func (logSink) OnGameOver(e events.GameOver) {
	log.Printf("[saktris-core] game over: winner=%v reason=%s", e.Winner, e.Reason)
}

func (logSink) OnCheckDetected(e events.CheckDetected) {
	log.Printf("[saktris-core] %v is in check", e.Side)
}
