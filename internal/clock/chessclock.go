// Package clock implements the Saktris chess clock: a pair of per-side
// countdown timers with an optional Fischer-style increment, pausable,
// ticked once per host-loop frame (spec.md §4.4/§5). The state fields
// and time-budget idiom are adapted from the teacher's
// internal/engine/timeman.go TimeManager, generalized from a single
// search-budget timer into a two-sided game clock.
package clock

import (
	"time"

	"github.com/tomgun/saktris/internal/board"
)

// State is the clock's lifecycle state.
type State uint8

const (
	Unconfigured State = iota
	Ready
	Running
	Paused
	Expired
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Expired:
		return "Expired"
	default:
		return "Unconfigured"
	}
}

// Default low/critical warning thresholds (spec.md §4.4 leaves the exact
// values to the implementer; SPEC_FULL.md fixes these as overridable
// defaults).
const (
	DefaultLowThreshold      = 60 * time.Second
	DefaultCriticalThreshold = 10 * time.Second
)

// Clock is a two-sided countdown clock. All fields are serialized to
// save files verbatim (spec.md §4.4 "Persistence: serialize all
// fields"); on load, the caller must resume ticking explicitly — Clock
// never spawns its own timer goroutine (spec.md §5).
type Clock struct {
	state State

	remaining [2]time.Duration
	increment time.Duration

	running board.Color

	lowThreshold      time.Duration
	criticalThreshold time.Duration
	warnedLow         [2]bool
	warnedCritical    [2]bool

	// OnExpire, OnLowTime, OnCritical are optional hooks the host loop
	// wires to events.Sink; Clock itself has no notion of an event bus.
	OnExpire   func(side board.Color)
	OnLowTime  func(side board.Color, remaining time.Duration)
	OnCritical func(side board.Color, remaining time.Duration)
}

// New creates an Unconfigured clock with the default warning thresholds.
func New() *Clock {
	return &Clock{
		lowThreshold:      DefaultLowThreshold,
		criticalThreshold: DefaultCriticalThreshold,
	}
}

// Configure sets the initial time budget and increment for both sides
// and moves the clock to Ready. Safe to call again before Start to
// reconfigure, or after loading a save file with SetTime for each side.
func (c *Clock) Configure(initial, increment time.Duration) {
	c.remaining = [2]time.Duration{initial, initial}
	c.increment = increment
	c.warnedLow = [2]bool{}
	c.warnedCritical = [2]bool{}
	c.state = Ready
}

// SetThresholds overrides the low/critical warning thresholds. Must be
// called before time starts running for the thresholds to apply
// predictably mid-game.
func (c *Clock) SetThresholds(low, critical time.Duration) {
	c.lowThreshold = low
	c.criticalThreshold = critical
}

// Start begins the clock with White to move (spec.md §4.4).
func (c *Clock) Start() {
	if c.state != Ready && c.state != Paused {
		return
	}
	c.running = board.White
	c.state = Running
}

// SwitchSide adds the increment to the side that just moved, then hands
// the running side to the opponent (spec.md §4.4 "switch_side").
func (c *Clock) SwitchSide() {
	if c.state != Running {
		return
	}
	c.remaining[c.running] += c.increment
	c.running = c.running.Other()
}

// Pause stops the countdown without resetting anything.
func (c *Clock) Pause() {
	if c.state == Running {
		c.state = Paused
	}
}

// Resume continues a paused clock.
func (c *Clock) Resume() {
	if c.state == Paused {
		c.state = Running
	}
}

// Tick advances the clock by delta, decrementing only the Running side
// (spec.md §4.4/§5: "tick only decrements the side indicated by
// Running"; "not safe from other tasks", called once per host-loop
// frame). It fires OnLowTime/OnCritical at most once per side per game,
// and OnExpire exactly once when a side's time first crosses zero.
func (c *Clock) Tick(delta time.Duration) {
	if c.state != Running {
		return
	}
	side := c.running
	c.remaining[side] -= delta
	if c.remaining[side] <= 0 {
		c.remaining[side] = 0
		c.state = Expired
		if c.OnExpire != nil {
			c.OnExpire(side)
		}
		return
	}

	if c.remaining[side] <= c.criticalThreshold && !c.warnedCritical[side] {
		c.warnedCritical[side] = true
		if c.OnCritical != nil {
			c.OnCritical(side, c.remaining[side])
		}
	} else if c.remaining[side] <= c.lowThreshold && !c.warnedLow[side] {
		c.warnedLow[side] = true
		if c.OnLowTime != nil {
			c.OnLowTime(side, c.remaining[side])
		}
	}
}

// TimeRemaining returns the time left for side.
func (c *Clock) TimeRemaining(side board.Color) time.Duration {
	return c.remaining[side]
}

// SetTime overrides side's remaining time directly, used when loading a
// save file (spec.md §4.4 "set_time(side, value) for loading").
func (c *Clock) SetTime(side board.Color, value time.Duration) {
	c.remaining[side] = value
}

// State returns the clock's current lifecycle state.
func (c *Clock) State() State {
	return c.state
}

// Running returns which side is currently being decremented; only
// meaningful when State() == Running.
func (c *Clock) Running() board.Color {
	return c.running
}

// ExpiredSide returns the side whose time ran out, valid only when
// State() == Expired.
func (c *Clock) ExpiredSide() board.Color {
	return c.running
}

// Snapshot captures every field a save file must carry (spec.md §4.4
// "Persistence: serialize all fields").
type Snapshot struct {
	State             State
	Remaining         [2]time.Duration
	Increment         time.Duration
	Running           board.Color
	LowThreshold      time.Duration
	CriticalThreshold time.Duration
	WarnedLow         [2]bool
	WarnedCritical    [2]bool
}

// Snapshot returns c's current state for serialization.
func (c *Clock) Snapshot() Snapshot {
	return Snapshot{
		State:             c.state,
		Remaining:         c.remaining,
		Increment:         c.increment,
		Running:           c.running,
		LowThreshold:      c.lowThreshold,
		CriticalThreshold: c.criticalThreshold,
		WarnedLow:         c.warnedLow,
		WarnedCritical:    c.warnedCritical,
	}
}

// Restore rebuilds c's state from a previously-saved Snapshot. A clock
// saved Running is restored Running, but it only counts down once the
// host loop calls Tick again (spec.md §5: Clock never spawns its own
// timer goroutine, so a save made mid-tick does not keep ticking on its
// own).
func Restore(s Snapshot) *Clock {
	return &Clock{
		state:             s.State,
		remaining:         s.Remaining,
		increment:         s.Increment,
		running:           s.Running,
		lowThreshold:      s.LowThreshold,
		criticalThreshold: s.CriticalThreshold,
		warnedLow:         s.WarnedLow,
		warnedCritical:    s.WarnedCritical,
	}
}
