package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tomgun/saktris/internal/board"
	"github.com/tomgun/saktris/internal/events"
	"github.com/tomgun/saktris/internal/game"
)

func TestSaveLoadGameRoundTrips(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	gs := game.New(game.Settings{ArrivalFrequency: 2, TripletClearEnabled: true}, events.NopSink{})
	if err := gs.RequestMove(board.E1, board.E2); err != nil {
		t.Fatalf("Ke1-e2 should be legal on a board with only the two kings: %v", err)
	}

	if err := SaveGame("roundtrip", gs); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	loaded, err := LoadGame("roundtrip", events.NopSink{})
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if loaded.Board.Bytes() != gs.Board.Bytes() {
		t.Errorf("board bytes changed across save/load round trip")
	}
	if loaded.Board.Hash != gs.Board.Hash {
		t.Errorf("position hash changed across save/load round trip: got %x, want %x", loaded.Board.Hash, gs.Board.Hash)
	}
	if loaded.SideToMove != gs.SideToMove {
		t.Errorf("SideToMove changed: got %v, want %v", loaded.SideToMove, gs.SideToMove)
	}
	if loaded.MoveCounter != gs.MoveCounter {
		t.Errorf("MoveCounter changed: got %d, want %d", loaded.MoveCounter, gs.MoveCounter)
	}
	if loaded.Status != gs.Status {
		t.Errorf("Status changed: got %v, want %v", loaded.Status, gs.Status)
	}
}

func TestLoadGameMissingClockDefaultsToUnconfigured(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir, err := GetSaveDir()
	if err != nil {
		t.Fatalf("GetSaveDir: %v", err)
	}

	// A save file with no "clock" key at all, exercising spec.md §6's
	// "clock absent -> no clock" default.
	minimal := `{"board":[` + zeroBytesJSON() + `]}`
	if err := os.WriteFile(filepath.Join(dir, "minimal.json"), []byte(minimal), 0644); err != nil {
		t.Fatalf("writing minimal save: %v", err)
	}

	loaded, err := LoadGame("minimal", events.NopSink{})
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if loaded.SideToMove != board.White {
		t.Errorf("expected default side_to_move White, got %v", loaded.SideToMove)
	}
	if loaded.MoveCounter != 0 {
		t.Errorf("expected default move_counter 0, got %d", loaded.MoveCounter)
	}
	if loaded.Clock.State().String() != "Unconfigured" {
		t.Errorf("expected an Unconfigured clock when the save carries no clock key, got state %v", loaded.Clock.State())
	}
}

func zeroBytesJSON() string {
	s := "0"
	for i := 1; i < 64; i++ {
		s += ",0"
	}
	return s
}
