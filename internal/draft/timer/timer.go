// Package timer implements the per-pick countdown as a single actor driven
// by a monotonic clock tick, decoupled from any rendering concern. The
// countdown runs, falls into a short grace window at zero, and only then
// elapses; the elapse callback fires at most once per pick slot.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Phase is the countdown state for the current pick slot.
type Phase string

const (
	PhaseRunning Phase = "RUNNING"
	PhaseGrace   Phase = "GRACE"
	PhaseElapsed Phase = "ELAPSED"
)

// State is a snapshot of the timer for read-only consumers.
type State struct {
	RemainingSeconds int   `json:"remaining_seconds"`
	Phase            Phase `json:"phase"`
}

// Timer counts down once per second. Reset returns it to running for the
// next slot; Pause freezes it in place and Resume continues unchanged.
type Timer struct {
	clock     clockwork.Clock
	onElapsed func()

	mu        sync.Mutex
	remaining int
	grace     int
	graceLeft int
	phase     Phase
	paused    bool
	triggered bool // elapse already fired for this slot
}

// New creates a timer in the elapsed state with its trigger spent; nothing
// fires until the first Reset arms a slot.
func New(clock clockwork.Clock, graceSeconds int, onElapsed func()) *Timer {
	return &Timer{
		clock:     clock,
		grace:     graceSeconds,
		onElapsed: onElapsed,
		phase:     PhaseElapsed,
		triggered: true,
	}
}

// Run drives the timer on a fixed one-second tick until ctx is done.
func (t *Timer) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.Tick()
		}
	}
}

// Tick advances the countdown by one second. The elapse callback is invoked
// outside the timer's lock so it may Reset the timer.
func (t *Timer) Tick() {
	t.mu.Lock()

	if t.paused {
		t.mu.Unlock()
		return
	}

	fire := false
	switch t.phase {
	case PhaseRunning:
		t.remaining--
		if t.remaining <= 0 {
			t.remaining = 0
			if t.grace > 0 {
				t.phase = PhaseGrace
				t.graceLeft = t.grace
			} else {
				fire = t.elapseLocked()
			}
		}
	case PhaseGrace:
		t.graceLeft--
		if t.graceLeft <= 0 {
			fire = t.elapseLocked()
		}
	case PhaseElapsed:
		// nothing to count; waiting for Reset
	}

	t.mu.Unlock()

	if fire && t.onElapsed != nil {
		t.onElapsed()
	}
}

func (t *Timer) elapseLocked() bool {
	t.phase = PhaseElapsed
	if t.triggered {
		return false
	}
	t.triggered = true
	return true
}

// Reset arms the timer for the next pick slot. The coordinator calls it
// after every successful commit, auto-picked ones included.
func (t *Timer) Reset(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.remaining = seconds
	t.graceLeft = 0
	t.phase = PhaseRunning
	t.triggered = false
}

// Pause freezes the countdown in place.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

// Resume continues the countdown from where Pause left it.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
}

// State returns a snapshot of the countdown.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{RemainingSeconds: t.remaining, Phase: t.phase}
}
