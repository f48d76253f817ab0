package arrival

import (
	"testing"

	"github.com/tomgun/saktris/internal/board"
)

func TestTickFiresAtFrequency(t *testing.T) {
	m := NewManager(Config{Frequency: 3, Mode: Fixed})

	var fired []bool
	for i := 0; i < 6; i++ {
		fired = append(fired, m.Tick())
	}
	want := []bool{false, false, true, false, false, true}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("Tick() call %d = %v, want %v (fired=%v)", i, fired[i], want[i], fired)
		}
	}
}

func TestTickFrequencyOneFiresEveryTurn(t *testing.T) {
	m := NewManager(Config{Frequency: 1, Mode: Fixed})
	for i := 0; i < 3; i++ {
		if !m.Tick() {
			t.Fatalf("Tick() call %d = false, want true for Frequency 1", i)
		}
	}
}

func TestFixedSequenceCyclesAndAdvances(t *testing.T) {
	m := NewManager(Config{Frequency: 1, Mode: Fixed})

	var got []board.PieceType
	for i := 0; i < len(fixedSequence)+2; i++ {
		k := m.NextKind()
		got = append(got, k)
		m.Advance(k)
	}
	for i, k := range got {
		want := fixedSequence[i%len(fixedSequence)]
		if k != want {
			t.Errorf("kind %d = %v, want %v", i, k, want)
		}
	}
}

func TestCandidatesDoesNotConsume(t *testing.T) {
	m := NewManager(Config{Frequency: 1, Mode: Selectable})

	before := m.Candidates(3)
	after := m.Candidates(3)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Candidates not idempotent at %d: %v vs %v", i, before[i], after[i])
		}
	}
	if m.NextKind() != fixedSequence[0] {
		t.Errorf("NextKind should still be the first sequence entry after only previewing Candidates")
	}
}

func TestRandomModeNextKindStableUntilAdvance(t *testing.T) {
	m := NewManager(Config{Frequency: 1, Mode: Random, Seed: 42})

	k1 := m.NextKind()
	k2 := m.NextKind()
	if k1 != k2 {
		t.Errorf("NextKind changed between calls without an intervening Advance: %v then %v", k1, k2)
	}
	m.Advance(k1)
	// After Advance, a new draw is allowed to differ; we only assert the
	// manager produces a valid back-rank kind, not Pawn or King.
	k3 := m.NextKind()
	switch k3 {
	case board.Knight, board.Bishop, board.Rook, board.Queen:
	default:
		t.Errorf("NextKind returned %v, want one of the back-rank kinds", k3)
	}
}

func TestRandomModeDeterministicForSameSeed(t *testing.T) {
	drawN := func(seed uint64, n int) []board.PieceType {
		m := NewManager(Config{Frequency: 1, Mode: Random, Seed: seed})
		out := make([]board.PieceType, 0, n)
		for i := 0; i < n; i++ {
			k := m.NextKind()
			out = append(out, k)
			m.Advance(k)
		}
		return out
	}

	a := drawN(99, 20)
	b := drawN(99, 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d diverged between two managers seeded identically: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSkipArrivalPreservesCadence(t *testing.T) {
	// Without any skip, the 4th Tick (Frequency 4) is the one that fires.
	m := NewManager(Config{Frequency: 4, Mode: Fixed})
	m.Tick()
	m.Tick()
	m.Tick()
	if !m.Tick() {
		t.Fatalf("sanity check failed: expected the 4th Tick to fire at Frequency 4")
	}

	// SkipArrival re-arms the counter to exactly where it would already be
	// one Tick short of firing, so the turn the arrival was skipped on
	// still lines up with where an unskipped schedule would next fire.
	m2 := NewManager(Config{Frequency: 4, Mode: Fixed})
	m2.Tick()
	m2.Tick()
	m2.Tick()
	m2.SkipArrival()
	if !m2.Tick() {
		t.Fatalf("expected SkipArrival to leave the schedule primed to fire on the next Tick")
	}
}

func TestModeString(t *testing.T) {
	cases := map[Mode]string{
		Fixed:      "Fixed",
		Selectable: "Selectable",
		Random:     "Random",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", mode, got, want)
		}
	}
}
