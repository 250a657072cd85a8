package emulation

import "time"

const (
	// DefaultFastRefresh is the quiet period after the last output before the display is refreshed.
	DefaultFastRefresh = 10 * time.Millisecond
	// DefaultSlowRefresh bounds the refresh latency under continuous output.
	DefaultSlowRefresh = 40 * time.Millisecond
)

// Clock schedules delayed calls. The default uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call created by a Clock.
type Timer interface {
	// Stop prevents the call from running. It returns false if the call
	// already ran or was stopped.
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RefreshState describes which refresh timers are pending.
type RefreshState int

const (
	// RefreshIdle means no refresh is pending.
	RefreshIdle RefreshState = iota
	// RefreshPendingFast means both the fast and the slow timer are pending.
	RefreshPendingFast
	// RefreshPendingFastOnly means only the fast timer is pending.
	RefreshPendingFastOnly
)

func (s RefreshState) String() string {
	switch s {
	case RefreshIdle:
		return "idle"
	case RefreshPendingFast:
		return "pending-fast"
	case RefreshPendingFastOnly:
		return "pending-fast-only"
	default:
		return "unknown"
	}
}

// refreshTimer is a one-shot timer whose callback runs under the
// Emulation's lock. Every start bumps gen, so a callback that was already
// on its way when the timer was stopped or restarted sees a stale
// generation and does nothing.
type refreshTimer struct {
	d      time.Duration
	timer  Timer
	gen    uint64
	active bool
}

func (e *Emulation) startTimer(rt *refreshTimer) {
	if rt.timer != nil {
		rt.timer.Stop()
	}
	rt.gen++
	rt.active = true
	gen := rt.gen
	rt.timer = e.clock.AfterFunc(rt.d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || !rt.active || rt.gen != gen {
			return
		}
		rt.active = false
		e.flushLocked()
	})
}

func (e *Emulation) stopTimer(rt *refreshTimer) {
	if rt.timer != nil {
		rt.timer.Stop()
		rt.timer = nil
	}
	rt.active = false
}

// armLocked schedules a refresh: the fast timer always restarts, the slow
// timer only starts when it is not already pending.
func (e *Emulation) armLocked() {
	e.startTimer(&e.fast)
	if !e.slow.active {
		e.startTimer(&e.slow)
	}
}

// flushLocked stops both timers and, if connected, pushes the active
// screen to the display.
func (e *Emulation) flushLocked() {
	e.stopTimer(&e.fast)
	e.stopTimer(&e.slow)

	if !e.connected {
		return
	}

	snap := e.scr.Snapshot()
	e.display.PushSnapshot(snap.Cells, snap.Lines, snap.Columns)
	e.display.SetCursorPosition(snap.CursorX, snap.CursorY)
	e.display.SetLineWrapFlags(snap.LineWrapped)
	e.display.SetScrollIndicator(e.scr.HistoryCursor(), e.scr.HistoryLines())
}

// RefreshState reports which refresh timers are pending.
func (e *Emulation) RefreshState() RefreshState {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.fast.active && e.slow.active:
		return RefreshPendingFast
	case e.fast.active:
		return RefreshPendingFastOnly
	default:
		return RefreshIdle
	}
}

// Flush pushes the active screen to the display now, cancelling pending refreshes.
func (e *Emulation) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.flushLocked()
}
