package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/tomgun/saktris/internal/arrival"
	"github.com/tomgun/saktris/internal/board"
	"github.com/tomgun/saktris/internal/clock"
	"github.com/tomgun/saktris/internal/events"
	"github.com/tomgun/saktris/internal/game"
)

// saveFile is the on-disk shape of a save (spec.md §6 "A UTF-8 JSON
// document containing a GameState serialization"). Field names are the
// save-file keys the spec names verbatim; json.Unmarshal tolerates
// unknown keys automatically, and every field here has a documented
// zero-value default for a missing key.
type saveFile struct {
	Settings         game.Settings              `json:"settings"`
	Board            [64]byte                   `json:"board"`
	SideToMove       board.Color                `json:"side_to_move"`
	Castling         board.CastlingRights       `json:"castling"`
	EnPassant        board.Square               `json:"en_passant"`
	HalfMoveClock    int                        `json:"half_move_clock"`
	MoveCounter      int                        `json:"move_counter"`
	Status           game.Status                `json:"status"`
	MoveHistory      []game.HistoryEntry        `json:"move_history"`
	ArrivalQueues    [2]arrival.Snapshot        `json:"arrival_queues"`
	Clock            *clock.Snapshot            `json:"clock"`
	DrawState        map[board.PositionHash]int `json:"draw_state"`
	PendingArrival    *board.PieceType          `json:"pending_arrival"`
	PendingPromotion  board.Square              `json:"pending_promotion"`
	SavedAt           time.Time                 `json:"saved_at"`
}

// SaveGame serializes gs to name.json under the platform save directory
// (spec.md §6). A pre-existing file at the same name is overwritten.
func SaveGame(name string, gs *game.GameState) error {
	dir, err := GetSaveDir()
	if err != nil {
		return err
	}

	snap := gs.Snapshot()
	clk := snap.Clock
	sf := saveFile{
		Settings:         snap.Settings,
		Board:            snap.BoardBytes,
		SideToMove:       snap.SideToMove,
		Castling:         snap.Castling,
		EnPassant:        snap.EnPassant,
		HalfMoveClock:    snap.HalfMoveClock,
		MoveCounter:      snap.MoveCounter,
		Status:           snap.Status,
		MoveHistory:      snap.History,
		ArrivalQueues:    snap.Arrivals,
		Clock:            &clk,
		DrawState:        snap.Repetitions,
		PendingArrival:   snap.PendingArrival,
		PendingPromotion: snap.PendingPromotion,
		SavedAt:          time.Now(),
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, name+".json"), data, 0644)
}

// LoadGame deserializes name.json from the platform save directory,
// filling in the defaults spec.md §6 specifies for any key a forward- or
// backward-compatible writer left out: side_to_move=White,
// move_counter=0, clock absent means no clock (an Unconfigured one is
// substituted), draw_state empty.
func LoadGame(name string, sink events.Sink) (*game.GameState, error) {
	dir, err := GetSaveDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, err
	}

	var sf saveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, err
	}

	snap := game.Snapshot{
		Settings:         sf.Settings,
		BoardBytes:       sf.Board,
		SideToMove:       sf.SideToMove,
		Castling:         sf.Castling,
		EnPassant:        sf.EnPassant,
		HalfMoveClock:    sf.HalfMoveClock,
		MoveCounter:      sf.MoveCounter,
		Status:           sf.Status,
		History:          sf.MoveHistory,
		Arrivals:         sf.ArrivalQueues,
		Repetitions:      sf.DrawState,
		PendingArrival:   sf.PendingArrival,
		PendingPromotion: sf.PendingPromotion,
	}
	if sf.Clock != nil {
		snap.Clock = *sf.Clock
	} else {
		snap.Clock = clock.New().Snapshot()
	}
	if snap.Repetitions == nil {
		snap.Repetitions = make(map[board.PositionHash]int)
	}

	return game.Restore(snap, sink), nil
}
