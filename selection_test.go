package emulation

import (
	"errors"
	"testing"
)

func TestSelectionForwarding(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)

	r.em.OnSelectionBegin(2, 3, true)
	if r.screens[0].selBegin != [3]int{2, 3, 1} {
		t.Errorf("expected begin (2, 3, column), got %v", r.screens[0].selBegin)
	}
	if r.em.RefreshState() != RefreshPendingFast {
		t.Errorf("expected begin to arm a refresh, got %s", r.em.RefreshState())
	}

	r.em.Flush()
	r.em.OnSelectionExtend(7, 4)
	if r.screens[0].selEnd != [2]int{7, 4} {
		t.Errorf("expected extend (7, 4), got %v", r.screens[0].selEnd)
	}
	if r.em.RefreshState() != RefreshPendingFast {
		t.Errorf("expected extend to arm a refresh, got %s", r.em.RefreshState())
	}

	r.em.SetBusySelecting(true)
	if !r.screens[0].busy {
		t.Error("expected busy selecting")
	}
}

func TestSetSelectionHandsTextToDisplay(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)

	r.em.SetSelection(true)
	if len(r.display.selected) != 0 {
		t.Errorf("expected empty selection to be dropped, got %v", r.display.selected)
	}

	r.screens[0].selected = "picked"
	r.em.SetSelection(false)
	if len(r.display.selected) != 1 || r.display.selected[0] != "picked" {
		t.Errorf("expected 'picked', got %v", r.display.selected)
	}
}

func TestCopySelection(t *testing.T) {
	cb := &recordingClipboard{}
	r := newScriptedRig(WithClipboard(cb))
	r.em.SetConnected(true)

	r.screens[0].selected = "line one\nline two"
	r.em.CopySelection()

	if len(cb.texts) != 1 || cb.texts[0] != "line one\nline two" {
		t.Errorf("expected clipboard text, got %v", cb.texts)
	}
	if len(r.display.selected) != 0 {
		t.Errorf("expected display to be bypassed, got %v", r.display.selected)
	}

	cb.err = errors.New("no clipboard")
	r.em.CopySelection()
	if len(cb.texts) != 1 {
		t.Errorf("expected failed copy to be dropped, got %v", cb.texts)
	}
}

func TestClearSelection(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)
	r.screens[0].selected = "text"

	if !r.em.TestIsSelected(0, 0) {
		t.Fatal("expected selection")
	}
	r.em.ClearSelection()

	if r.em.TestIsSelected(0, 0) {
		t.Error("expected selection cleared")
	}
	if r.em.RefreshState() != RefreshPendingFast {
		t.Errorf("expected clear to arm a refresh, got %s", r.em.RefreshState())
	}
}

func TestSelectionOutboundGatedWhileDisconnected(t *testing.T) {
	cb := &recordingClipboard{}
	r := newScriptedRig(WithClipboard(cb))
	r.screens[0].selected = "hidden"

	r.em.SetSelection(true)
	r.em.CopySelection()

	if len(r.display.selected) != 0 || len(cb.texts) != 0 {
		t.Errorf("expected no hand-over while disconnected, got %v and %v", r.display.selected, cb.texts)
	}
}

func TestSelectionVisibleAfterReconnect(t *testing.T) {
	r := newScreenRig(3, 10)
	r.em.SetConnected(true)
	r.em.WriteString("hello")
	r.clock.Advance(DefaultFastRefresh)

	r.em.SetConnected(false)
	r.em.OnSelectionBegin(1, 0, false)
	r.em.OnSelectionExtend(3, 0)
	r.clock.Advance(DefaultSlowRefresh)

	if cell := r.display.cells[1]; cell.IsSelected() {
		t.Fatal("expected no visible selection while disconnected")
	}
	pushes := r.display.pushes

	r.em.SetConnected(true)

	if r.display.pushes != pushes+1 {
		t.Fatalf("expected forced push on reconnect, got %d", r.display.pushes-pushes)
	}
	for x, want := range []bool{false, true, true, true, false} {
		if got := r.display.cells[x].IsSelected(); got != want {
			t.Errorf("cell %d: expected selected=%v, got %v", x, want, got)
		}
	}
}

func TestSelectionFollowsActiveScreen(t *testing.T) {
	r := newScriptedRig()
	r.em.SetConnected(true)

	r.em.SetScreen(1)
	r.em.OnSelectionBegin(4, 4, false)

	if r.screens[1].selBegin != [3]int{4, 4, 0} {
		t.Errorf("expected alternate to receive the selection, got %v", r.screens[1].selBegin)
	}
	if r.screens[0].selBegin != [3]int{} {
		t.Errorf("expected primary untouched, got %v", r.screens[0].selBegin)
	}
}
