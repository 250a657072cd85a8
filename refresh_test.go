package emulation

import (
	"testing"
	"time"
)

func TestBurstCoalescesIntoOneFlush(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)
	base := r.display.pushes

	for i := 0; i < 5; i++ {
		r.em.WriteString("x")
		r.clock.Advance(2 * time.Millisecond)
	}
	if r.display.pushes != base {
		t.Fatalf("expected no flush during the burst, got %d", r.display.pushes-base)
	}

	r.clock.Advance(DefaultFastRefresh)

	if got := r.display.pushes - base; got != 1 {
		t.Errorf("expected exactly 1 flush, got %d", got)
	}
	if r.em.RefreshState() != RefreshIdle {
		t.Errorf("expected idle after flush, got %s", r.em.RefreshState())
	}
	if r.clock.pending() != 0 {
		t.Errorf("expected both timers stopped, got %d pending", r.clock.pending())
	}
}

func TestContinuousOutputFlushesAtSlowInterval(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)
	base := r.display.pushes

	step := DefaultFastRefresh / 2
	var flushedAt []time.Duration
	for r.clock.now < 200*time.Millisecond {
		before := r.display.pushes
		r.em.WriteString("y")
		r.clock.Advance(step)
		if r.display.pushes != before {
			flushedAt = append(flushedAt, r.clock.now)
		}
	}

	if got := r.display.pushes - base; got != 5 {
		t.Errorf("expected 5 flushes in 200ms, got %d", got)
	}
	last := time.Duration(0)
	for _, at := range flushedAt {
		if at-last > DefaultSlowRefresh+step {
			t.Errorf("expected a flush every %s, gap was %s", DefaultSlowRefresh, at-last)
		}
		last = at
	}
}

func TestSlowTimerNotRestarted(t *testing.T) {
	r := newScriptedRig()

	r.em.WriteString("a")
	slow := r.clock.timers[1]
	r.em.WriteString("b")

	if slow.stopped {
		t.Error("expected pending slow timer to be left alone")
	}
	if len(r.clock.timers) != 3 {
		t.Errorf("expected fast restart only, got %d timers", len(r.clock.timers))
	}
	if !r.clock.timers[0].stopped {
		t.Error("expected first fast timer to be replaced")
	}
}

func TestRefreshStates(t *testing.T) {
	r := newScriptedRig()

	if s := r.em.RefreshState(); s != RefreshIdle {
		t.Fatalf("expected idle, got %s", s)
	}

	r.em.WriteString("a")
	if s := r.em.RefreshState(); s != RefreshPendingFast {
		t.Fatalf("expected pending-fast, got %s", s)
	}

	r.em.Flush()
	if s := r.em.RefreshState(); s != RefreshIdle {
		t.Fatalf("expected idle after flush, got %s", s)
	}
}

func TestFlushWhileDisconnectedPushesNothing(t *testing.T) {
	r := newScriptedRig()

	r.em.WriteString("a")
	r.clock.Advance(DefaultSlowRefresh)

	if r.display.pushes != 0 {
		t.Errorf("expected no push while disconnected, got %d", r.display.pushes)
	}
	if r.em.RefreshState() != RefreshIdle {
		t.Errorf("expected timers to fire and stop, got %s", r.em.RefreshState())
	}
}

func TestDisconnectKeepsTimersRunning(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)

	r.em.WriteString("a")
	r.em.SetConnected(false)

	if r.em.RefreshState() != RefreshPendingFast {
		t.Errorf("expected timers still pending, got %s", r.em.RefreshState())
	}
	r.clock.Advance(DefaultFastRefresh)
	if r.display.pushes != 1 {
		t.Errorf("expected only the connect push, got %d", r.display.pushes)
	}
}

func TestCustomRefreshIntervals(t *testing.T) {
	r := newScriptedRig(WithRefreshIntervals(time.Millisecond, 5*time.Millisecond))
	r.em.SetConnected(true)

	r.em.WriteString("a")
	r.clock.Advance(time.Millisecond)

	if r.display.pushes != 2 {
		t.Errorf("expected flush after 1ms, got %d pushes", r.display.pushes)
	}
}

func TestRefreshStateString(t *testing.T) {
	tests := map[RefreshState]string{
		RefreshIdle:            "idle",
		RefreshPendingFast:     "pending-fast",
		RefreshPendingFastOnly: "pending-fast-only",
		RefreshState(9):        "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
