package screen

import "testing"

func TestSelectionStream(t *testing.T) {
	s := New(3, 10)
	feed(s, "hello\r\nworld\r\nagain")

	s.SetSelectionBegin(2, 0, false)
	s.ExtendSelection(1, 1)

	if !s.IsSelected(9, 0) {
		t.Error("expected end of first row to be selected")
	}
	if s.IsSelected(1, 0) {
		t.Error("expected cell before the start to be unselected")
	}
	if s.IsSelected(2, 1) {
		t.Error("expected cell after the end to be unselected")
	}
	if got := s.SelectedText(true); got != "llo\nwo" {
		t.Errorf("expected 'llo\\nwo', got %q", got)
	}
	if got := s.SelectedText(false); got != "llo wo" {
		t.Errorf("expected 'llo wo', got %q", got)
	}
}

func TestSelectionExtendBackwards(t *testing.T) {
	s := New(2, 10)
	feed(s, "abcdef")

	s.SetSelectionBegin(4, 0, false)
	s.ExtendSelection(1, 0)

	if got := s.SelectedText(true); got != "bcde" {
		t.Errorf("expected 'bcde', got %q", got)
	}
}

func TestSelectionColumnMode(t *testing.T) {
	s := New(3, 10)
	feed(s, "abcdef\r\nghijkl\r\nmnopqr")

	s.SetSelectionBegin(3, 0, true)
	s.ExtendSelection(1, 2)

	if !s.IsSelected(2, 1) {
		t.Error("expected cell inside the rectangle to be selected")
	}
	if s.IsSelected(5, 1) {
		t.Error("expected cell outside the rectangle to be unselected")
	}
	if got := s.SelectedText(true); got != "bcd\nhij\nnop" {
		t.Errorf("expected 'bcd\\nhij\\nnop', got %q", got)
	}
}

func TestSelectionJoinsWrappedLines(t *testing.T) {
	s := New(3, 4)
	feed(s, "abcdefg")

	s.SetSelectionBegin(0, 0, false)
	s.ExtendSelection(3, 1)

	if got := s.SelectedText(true); got != "abcdefg" {
		t.Errorf("expected wrapped line joined, got %q", got)
	}
}

func TestSelectionFollowsHistory(t *testing.T) {
	s := New(2, 10, WithHistory(UnlimitedHistory()))
	feed(s, "first\r\nsecond")

	s.SetSelectionBegin(0, 0, false)
	s.ExtendSelection(4, 0)
	feed(s, "\r\nthird")

	if got := s.SelectedText(true); got != "first" {
		t.Errorf("expected selection to stay on 'first', got %q", got)
	}
	if s.IsSelected(0, 0) {
		t.Error("expected the new top row not to be selected")
	}

	s.SetHistoryCursor(0)
	if !s.IsSelected(0, 0) {
		t.Error("expected 'first' to show as selected when scrolled back")
	}
	snap := s.Snapshot()
	if !snap.Row(0)[0].IsSelected() || snap.Row(1)[0].IsSelected() {
		t.Error("expected snapshot to flag only the selected cells")
	}
}

func TestSelectionClear(t *testing.T) {
	s := New(2, 10)
	feed(s, "abc")

	s.SetSelectionBegin(0, 0, false)
	s.ExtendSelection(2, 0)
	s.ClearSelection()

	if s.HasSelection() {
		t.Error("expected no selection after clear")
	}
	if s.SelectedText(true) != "" {
		t.Error("expected empty text without a selection")
	}
}

func TestExtendWithoutBeginIsIgnored(t *testing.T) {
	s := New(2, 10)

	s.ExtendSelection(3, 1)

	if s.HasSelection() {
		t.Error("expected extend without begin to do nothing")
	}
}

func TestBusySelecting(t *testing.T) {
	s := New(2, 10)

	s.SetBusySelecting(true)
	if !s.BusySelecting() {
		t.Error("expected busy selecting")
	}
	s.SetBusySelecting(false)
	if s.BusySelecting() {
		t.Error("expected not busy selecting")
	}
}

func TestSelectionFollowsEvictedHistory(t *testing.T) {
	s := New(2, 10, WithHistory(FixedHistory(2)))
	feed(s, "a\r\nb\r\nc")

	s.SetSelectionBegin(0, 1, false)
	if got := s.SelectedText(true); got != "c" {
		t.Fatalf("expected 'c', got %q", got)
	}

	feed(s, "\r\nd\r\ne")
	if got := s.SelectedText(true); got != "c" {
		t.Errorf("expected selection to stay on 'c' after eviction, got %q", got)
	}

	feed(s, "\r\nf\r\ng")
	if s.HasSelection() {
		t.Errorf("expected selection cleared once its line was evicted, got %q", s.SelectedText(true))
	}
}

func TestSelectionFollowsDiscardedLines(t *testing.T) {
	s := New(2, 10)
	feed(s, "a\r\nb")

	s.SetSelectionBegin(0, 1, false)
	feed(s, "\r\nc")

	if !s.IsSelected(0, 0) || s.IsSelected(0, 1) {
		t.Error("expected highlight to move up with 'b'")
	}
	if got := s.SelectedText(true); got != "b" {
		t.Errorf("expected 'b', got %q", got)
	}
}
