// Package debounce turns a noisy per-frame gesture stream into discrete
// actions.
//
// A gesture must be held on a target for Policy.HoldMs before it acts, and
// after an action a further Policy.CooldownMs must pass before the next one.
// A gesture held indefinitely therefore repeats at the cooldown rate; it does
// not need to be released between actions.
package debounce

import (
	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/mode"
	"github.com/dyluth/pinch/pkg/voxel"
)

// State is the debouncer's tracking state.
type State int

const (
	// Idle means no gesture is being tracked.
	Idle State = iota
	// Holding means a gesture is stable and accumulating hold time.
	Holding
	// Cooling means a gesture has been held long enough to act but is
	// suppressed because the last action was less than CooldownMs ago.
	// The frame that fires reports Holding.
	Cooling
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Holding:
		return "holding"
	case Cooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// Policy holds the debounce timings in milliseconds.
type Policy struct {
	HoldMs     int64 `yaml:"hold_ms" json:"hold_ms"`
	CooldownMs int64 `yaml:"cooldown_ms" json:"cooldown_ms"`
}

// DefaultPolicy returns a 200ms hold and a 300ms cooldown.
func DefaultPolicy() Policy {
	return Policy{
		HoldMs:     200,
		CooldownMs: 300,
	}
}

// Input is one frame's worth of debouncer input.
type Input struct {
	Gesture   gesture.Gesture
	Cell      voxel.Cell
	HasTarget bool
	Mode      mode.Mode
	NowMs     int64
}

// Event is an action request for a stable gesture.
type Event struct {
	Gesture gesture.Gesture
	Cell    voxel.Cell
	Mode    mode.Mode
	AtMs    int64
}

// Dispatcher performs the action for an event. It returns true if an action
// was actually taken; only taken actions start a cooldown.
type Dispatcher interface {
	Dispatch(ev Event) bool
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ev Event) bool

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ev Event) bool {
	return f(ev)
}

// Debouncer is the hold/cooldown state machine for one gesture stream.
// It is not safe for concurrent use; feed it from a single goroutine.
type Debouncer struct {
	policy     Policy
	dispatcher Dispatcher

	state        State
	last         gesture.Gesture
	holdStartMs  int64
	lastActionMs int64
	hasFired     bool
}

// New creates a Debouncer that sends stable gestures to d.
func New(policy Policy, d Dispatcher) *Debouncer {
	return &Debouncer{
		policy:     policy,
		dispatcher: d,
		state:      Idle,
	}
}

// State returns the state after the most recent Observe.
func (d *Debouncer) State() State {
	return d.state
}

// Policy returns the timings in use.
func (d *Debouncer) Policy() Policy {
	return d.policy
}

// Observe feeds one frame. It returns true if an action fired.
//
// A missing target, an absent hand, or the none label resets to Idle. A new
// gesture label restarts the hold timer. A mode change alone resets nothing.
func (d *Debouncer) Observe(in Input) bool {
	if !in.HasTarget || !in.Gesture.Detected() {
		d.Reset()
		return false
	}

	if in.Gesture != d.last {
		d.last = in.Gesture
		d.holdStartMs = in.NowMs
		d.state = Holding
		return false
	}

	if in.NowMs-d.holdStartMs < d.policy.HoldMs {
		d.state = Holding
		return false
	}

	if d.hasFired && in.NowMs-d.lastActionMs < d.policy.CooldownMs {
		d.state = Cooling
		return false
	}

	d.state = Holding
	taken := d.dispatcher.Dispatch(Event{
		Gesture: in.Gesture,
		Cell:    in.Cell,
		Mode:    in.Mode,
		AtMs:    in.NowMs,
	})
	if !taken {
		return false
	}

	d.hasFired = true
	d.lastActionMs = in.NowMs
	return true
}

// Reset returns to Idle and forgets the held gesture. The cooldown from the
// last action still applies.
func (d *Debouncer) Reset() {
	d.state = Idle
	d.last = gesture.Absent
	d.holdStartMs = 0
}
