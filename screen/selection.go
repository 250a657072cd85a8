package screen

import "strings"

// selection is kept in logical coordinates so it stays on the same text
// while the view scrolls through history.
type selection struct {
	anchor     Position
	start      Position
	end        Position
	columnMode bool
	active     bool
}

func (sel *selection) clear() {
	*sel = selection{}
}

// shift moves the selection up n logical rows after lines were dropped from
// the top. A selection whose start was dropped is cleared.
func (sel *selection) shift(n int) {
	if !sel.active || n <= 0 {
		return
	}
	if sel.start.Row < n {
		sel.clear()
		return
	}
	sel.anchor.Row -= n
	sel.start.Row -= n
	sel.end.Row -= n
}

// contains reports whether pos is selected. Column mode selects the
// rectangle spanned by start and end; stream mode selects in reading order.
func (sel *selection) contains(pos Position) bool {
	if !sel.active {
		return false
	}
	if sel.columnMode {
		left, right := sel.start.Col, sel.end.Col
		if right < left {
			left, right = right, left
		}
		return pos.Row >= sel.start.Row && pos.Row <= sel.end.Row &&
			pos.Col >= left && pos.Col <= right
	}
	return !pos.Before(sel.start) && !sel.end.Before(pos)
}

// SetSelectionBegin starts a selection at viewport cell (x, y).
func (s *Screen) SetSelectionBegin(x, y int, columnMode bool) {
	pos := s.viewportPosition(x, y)
	s.sel = selection{
		anchor:     pos,
		start:      pos,
		end:        pos,
		columnMode: columnMode,
		active:     true,
	}
}

// ExtendSelection moves the free end of the selection to viewport cell (x, y).
// Does nothing without a selection.
func (s *Screen) ExtendSelection(x, y int) {
	if !s.sel.active {
		return
	}
	pos := s.viewportPosition(x, y)
	start, end := s.sel.anchor, pos
	if end.Before(start) {
		start, end = end, start
	}
	s.sel.start = start
	s.sel.end = end
}

// ClearSelection removes the selection.
func (s *Screen) ClearSelection() {
	s.sel.clear()
}

// HasSelection returns true if a selection is active.
func (s *Screen) HasSelection() bool {
	return s.sel.active
}

// IsSelected reports whether viewport cell (x, y) is inside the selection.
func (s *Screen) IsSelected(x, y int) bool {
	return s.sel.contains(Position{Row: s.histCursor + y, Col: x})
}

// SetBusySelecting marks that a selection drag is in progress.
func (s *Screen) SetBusySelecting(busy bool) {
	s.busySelecting = busy
}

// BusySelecting reports whether a selection drag is in progress.
func (s *Screen) BusySelecting() bool {
	return s.busySelecting
}

// SelectedText returns the selected characters. Rows are separated by a
// newline when preserveLineBreaks is set, by a space otherwise. Rows that
// wrapped onto the next one are joined without a separator in stream mode.
func (s *Screen) SelectedText(preserveLineBreaks bool) string {
	if !s.sel.active {
		return ""
	}

	sep := " "
	if preserveLineBreaks {
		sep = "\n"
	}

	start, end := s.sel.start, s.sel.end
	left, right := start.Col, end.Col
	if right < left {
		left, right = right, left
	}

	var b strings.Builder
	for row := start.Row; row <= end.Row; row++ {
		line := s.logicalLine(row)
		if line == nil {
			continue
		}

		from, to := 0, len(line)-1
		switch {
		case s.sel.columnMode:
			from, to = left, right
		default:
			if row == start.Row {
				from = start.Col
			}
			if row == end.Row {
				to = end.Col
			}
		}
		from = clamp(from, 0, len(line))
		to = clamp(to, -1, len(line)-1)

		var segment []Cell
		if from <= to {
			segment = line[from : to+1]
		}
		b.WriteString(lineText(segment))

		if row == end.Row {
			break
		}
		if !s.sel.columnMode && s.logicalWrapped(row) {
			continue
		}
		b.WriteString(sep)
	}
	return b.String()
}

func (s *Screen) viewportPosition(x, y int) Position {
	x = clamp(x, 0, s.columns-1)
	y = clamp(y, 0, s.lines-1)
	return Position{Row: s.histCursor + y, Col: x}
}
