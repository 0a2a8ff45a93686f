package timer

import (
	"testing"

	"github.com/jonboulle/clockwork"
)

func tick(t *Timer, n int) {
	for i := 0; i < n; i++ {
		t.Tick()
	}
}

func TestCountdownIntoGrace(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := 0
	tm := New(clock, 1, func() { fired++ })
	tm.Reset(3)

	tick(tm, 2)
	if st := tm.State(); st.Phase != PhaseRunning || st.RemainingSeconds != 1 {
		t.Fatalf("after 2 ticks: %+v", st)
	}

	tm.Tick()
	if st := tm.State(); st.Phase != PhaseGrace {
		t.Fatalf("expected grace at zero, got %+v", st)
	}
	if fired != 0 {
		t.Fatal("elapsed fired during grace")
	}

	tm.Tick()
	if st := tm.State(); st.Phase != PhaseElapsed {
		t.Fatalf("expected elapsed after grace, got %+v", st)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}

func TestElapseFiresAtMostOncePerSlot(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := 0
	tm := New(clock, 0, func() { fired++ })
	tm.Reset(1)

	tick(tm, 5)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	// Arming the next slot allows exactly one more fire.
	tm.Reset(1)
	tick(tm, 5)
	if fired != 2 {
		t.Fatalf("fired = %d after reset, want 2", fired)
	}
}

func TestNewTimerIsInert(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := 0
	tm := New(clock, 1, func() { fired++ })

	tick(tm, 10)
	if fired != 0 {
		t.Fatalf("fired = %d before first reset, want 0", fired)
	}
}

func TestPauseFreezesCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock, 1, nil)
	tm.Reset(10)

	tick(tm, 3)
	tm.Pause()
	tick(tm, 5)

	if st := tm.State(); st.RemainingSeconds != 7 {
		t.Fatalf("remaining = %d while paused, want 7", st.RemainingSeconds)
	}

	tm.Resume()
	tm.Tick()
	if st := tm.State(); st.RemainingSeconds != 6 {
		t.Fatalf("remaining = %d after resume, want 6", st.RemainingSeconds)
	}
}

func TestResetDuringGraceAbortsElapse(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := 0
	tm := New(clock, 2, func() { fired++ })
	tm.Reset(1)

	tm.Tick() // into grace
	if st := tm.State(); st.Phase != PhaseGrace {
		t.Fatalf("expected grace, got %+v", st)
	}

	// A manual pick landed during the grace window.
	tm.Reset(30)
	tick(tm, 3)

	if fired != 0 {
		t.Fatalf("fired = %d, want 0 after in-grace reset", fired)
	}
	if st := tm.State(); st.Phase != PhaseRunning || st.RemainingSeconds != 27 {
		t.Fatalf("state after reset = %+v", st)
	}
}

func TestCallbackMayResetTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var tm *Timer
	tm = New(clock, 0, func() {
		// The coordinator re-arms the timer for the next slot from inside
		// the elapse callback.
		tm.Reset(30)
	})
	tm.Reset(1)

	tm.Tick()
	if st := tm.State(); st.Phase != PhaseRunning || st.RemainingSeconds != 30 {
		t.Fatalf("state after callback reset = %+v", st)
	}
}
