package clock

import (
	"testing"
	"time"

	"github.com/tomgun/saktris/internal/board"
)

func TestNewClockIsUnconfigured(t *testing.T) {
	c := New()
	if c.State() != Unconfigured {
		t.Fatalf("expected Unconfigured, got %v", c.State())
	}
}

func TestConfigureAndStart(t *testing.T) {
	c := New()
	c.Configure(5*time.Minute, 0)
	if c.State() != Ready {
		t.Fatalf("expected Ready after Configure, got %v", c.State())
	}

	c.Start()
	if c.State() != Running {
		t.Fatalf("expected Running after Start, got %v", c.State())
	}
	if c.Running() != board.White {
		t.Fatalf("expected White to move first, got %v", c.Running())
	}
}

func TestTickOnlyDecrementsRunningSide(t *testing.T) {
	c := New()
	c.Configure(1*time.Minute, 0)
	c.Start()

	c.Tick(10 * time.Second)
	if got, want := c.TimeRemaining(board.White), 50*time.Second; got != want {
		t.Errorf("White remaining = %v, want %v", got, want)
	}
	if got, want := c.TimeRemaining(board.Black), 1*time.Minute; got != want {
		t.Errorf("Black remaining changed while not running: got %v, want %v", got, want)
	}
}

func TestSwitchSideAppliesIncrementAndHandsOver(t *testing.T) {
	c := New()
	c.Configure(1*time.Minute, 5*time.Second)
	c.Start()

	c.Tick(10 * time.Second)
	c.SwitchSide()

	if got, want := c.TimeRemaining(board.White), 55*time.Second; got != want {
		t.Errorf("White remaining after increment = %v, want %v", got, want)
	}
	if c.Running() != board.Black {
		t.Fatalf("expected Black to move after SwitchSide, got %v", c.Running())
	}
}

func TestPauseStopsTheCountdown(t *testing.T) {
	c := New()
	c.Configure(1*time.Minute, 0)
	c.Start()
	c.Pause()

	c.Tick(30 * time.Second)
	if got, want := c.TimeRemaining(board.White), 1*time.Minute; got != want {
		t.Errorf("time should not move while paused: got %v, want %v", got, want)
	}

	c.Resume()
	c.Tick(30 * time.Second)
	if got, want := c.TimeRemaining(board.White), 30*time.Second; got != want {
		t.Errorf("time should resume decrementing after Resume: got %v, want %v", got, want)
	}
}

func TestTickExpiresAtZeroAndFiresOnExpireOnce(t *testing.T) {
	c := New()
	c.Configure(5*time.Second, 0)
	c.Start()

	var expired []board.Color
	c.OnExpire = func(side board.Color) { expired = append(expired, side) }

	c.Tick(10 * time.Second)
	if c.State() != Expired {
		t.Fatalf("expected Expired, got %v", c.State())
	}
	if got, want := c.TimeRemaining(board.White), time.Duration(0); got != want {
		t.Errorf("remaining should clamp to 0, got %v", got)
	}
	if len(expired) != 1 || expired[0] != board.White {
		t.Fatalf("expected exactly one OnExpire(White), got %v", expired)
	}

	// Further ticks on an expired clock must be no-ops.
	c.Tick(1 * time.Second)
	if len(expired) != 1 {
		t.Errorf("OnExpire fired again after the clock already expired: %v", expired)
	}
}

func TestLowAndCriticalWarningsFireOncePerSide(t *testing.T) {
	c := New()
	c.SetThresholds(20*time.Second, 5*time.Second)
	c.Configure(30*time.Second, 0)
	c.Start()

	var lowCount, criticalCount int
	c.OnLowTime = func(side board.Color, remaining time.Duration) { lowCount++ }
	c.OnCritical = func(side board.Color, remaining time.Duration) { criticalCount++ }

	c.Tick(5 * time.Second) // 25s left, above low threshold
	if lowCount != 0 {
		t.Fatalf("expected no low-time warning yet, got %d", lowCount)
	}

	c.Tick(10 * time.Second) // 15s left, below low threshold
	if lowCount != 1 {
		t.Fatalf("expected exactly one low-time warning, got %d", lowCount)
	}

	c.Tick(1 * time.Second) // 14s left, still low but already warned
	if lowCount != 1 {
		t.Fatalf("low-time warning should only fire once, got %d", lowCount)
	}

	c.Tick(10 * time.Second) // 4s left, below critical threshold
	if criticalCount != 1 {
		t.Fatalf("expected exactly one critical-time warning, got %d", criticalCount)
	}
}

func TestSetTimeOverridesForLoadedSaveFile(t *testing.T) {
	c := New()
	c.Configure(5*time.Minute, 0)
	c.SetTime(board.Black, 42*time.Second)

	if got, want := c.TimeRemaining(board.Black), 42*time.Second; got != want {
		t.Errorf("SetTime did not override remaining time: got %v, want %v", got, want)
	}
}
