package screen

// row is one line of the grid together with its soft-wrap flag.
type row struct {
	cells   []Cell
	wrapped bool
}

func newRow(cols int) row {
	r := row{cells: make([]Cell, cols)}
	r.reset(0, cols)
	return r
}

func (r *row) reset(from, to int) {
	for i := from; i < to; i++ {
		r.cells[i].Reset()
	}
}

// tabStops marks the columns HT stops at.
type tabStops []bool

const tabWidth = 8

func defaultTabStops(cols int) tabStops {
	t := make(tabStops, cols)
	for i := 0; i < cols; i += tabWidth {
		t[i] = true
	}
	return t
}

// grow returns t widened to cols, with default stops in the new columns.
func (t tabStops) grow(cols int) tabStops {
	out := defaultTabStops(cols)
	copy(out, t)
	return out
}

// Buffer is the visible character grid of a screen. Lines that scroll off
// the top of a region anchored at row 0 are passed to scrolledOff.
type Buffer struct {
	lines []row
	cols  int
	tabs  tabStops

	scrolledOff func(line []Cell, wrapped bool)
}

// NewBuffer returns a blank rows x cols grid with a tab stop every 8 columns.
func NewBuffer(rows, cols int) *Buffer {
	b := &Buffer{lines: make([]row, rows), cols: cols, tabs: defaultTabStops(cols)}
	for i := range b.lines {
		b.lines[i] = newRow(cols)
	}
	return b
}

func (b *Buffer) Rows() int { return len(b.lines) }

func (b *Buffer) Cols() int { return b.cols }

func (b *Buffer) hasRow(y int) bool { return y >= 0 && y < len(b.lines) }

func (b *Buffer) has(y, x int) bool { return b.hasRow(y) && x >= 0 && x < b.cols }

// Cell returns the cell at (row, col), or nil outside the grid.
func (b *Buffer) Cell(y, x int) *Cell {
	if !b.has(y, x) {
		return nil
	}
	return &b.lines[y].cells[x]
}

func (b *Buffer) SetCell(y, x int, c Cell) {
	if b.has(y, x) {
		b.lines[y].cells[x] = c
	}
}

// Line returns the cells of a row. The slice is owned by the buffer.
func (b *Buffer) Line(y int) []Cell {
	if !b.hasRow(y) {
		return nil
	}
	return b.lines[y].cells
}

// ClearRowRange resets the columns [from, to) of a row.
func (b *Buffer) ClearRowRange(y, from, to int) {
	if !b.hasRow(y) {
		return
	}
	b.lines[y].reset(max(from, 0), min(to, b.cols))
}

// ClearRow blanks a row and drops its wrap flag.
func (b *Buffer) ClearRow(y int) {
	if b.hasRow(y) {
		b.lines[y].reset(0, b.cols)
		b.lines[y].wrapped = false
	}
}

func (b *Buffer) ClearAll() {
	for y := range b.lines {
		b.ClearRow(y)
	}
}

// region clamps a scroll region and count to the grid.
func (b *Buffer) region(top, bottom, n int) (int, int, int, bool) {
	top = max(top, 0)
	bottom = min(bottom, len(b.lines))
	if n <= 0 || top >= bottom {
		return 0, 0, 0, false
	}
	return top, bottom, min(n, bottom-top), true
}

// ScrollUp moves the lines of [top, bottom) up by n, filling the bottom with
// blanks.
func (b *Buffer) ScrollUp(top, bottom, n int) {
	top, bottom, n, ok := b.region(top, bottom, n)
	if !ok {
		return
	}
	if top == 0 && b.scrolledOff != nil {
		for _, l := range b.lines[:n] {
			b.scrolledOff(l.cells, l.wrapped)
		}
	}
	copy(b.lines[top:bottom], b.lines[top+n:bottom])
	for y := bottom - n; y < bottom; y++ {
		b.lines[y] = newRow(b.cols)
	}
}

// ScrollDown moves the lines of [top, bottom) down by n, filling the top with
// blanks.
func (b *Buffer) ScrollDown(top, bottom, n int) {
	top, bottom, n, ok := b.region(top, bottom, n)
	if !ok {
		return
	}
	copy(b.lines[top+n:bottom], b.lines[top:bottom-n])
	for y := top; y < top+n; y++ {
		b.lines[y] = newRow(b.cols)
	}
}

// InsertBlanks opens n blank cells at (row, col). Cells pushed past the right
// margin are lost.
func (b *Buffer) InsertBlanks(y, x, n int) {
	if !b.has(y, x) || n <= 0 {
		return
	}
	n = min(n, b.cols-x)
	l := &b.lines[y]
	copy(l.cells[x+n:], l.cells[x:b.cols-n])
	l.reset(x, x+n)
}

// DeleteChars removes n cells at (row, col) and blanks the vacated right end.
func (b *Buffer) DeleteChars(y, x, n int) {
	if !b.has(y, x) || n <= 0 {
		return
	}
	n = min(n, b.cols-x)
	l := &b.lines[y]
	copy(l.cells[x:], l.cells[x+n:])
	l.reset(b.cols-n, b.cols)
}

// Resize changes the grid size keeping content anchored at the top-left.
func (b *Buffer) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	lines := make([]row, rows)
	for y := range lines {
		lines[y] = newRow(cols)
		if y < len(b.lines) {
			copy(lines[y].cells, b.lines[y].cells)
			lines[y].wrapped = b.lines[y].wrapped
		}
	}
	b.lines = lines
	b.tabs = b.tabs.grow(cols)
	b.cols = cols
}

func (b *Buffer) SetTabStop(x int) {
	if x >= 0 && x < b.cols {
		b.tabs[x] = true
	}
}

func (b *Buffer) ClearTabStop(x int) {
	if x >= 0 && x < b.cols {
		b.tabs[x] = false
	}
}

func (b *Buffer) ClearAllTabStops() {
	clear(b.tabs)
}

// NextTabStop returns the first stop right of col, or the last column.
func (b *Buffer) NextTabStop(x int) int {
	for x++; x < b.cols; x++ {
		if b.tabs[x] {
			return x
		}
	}
	return b.cols - 1
}

// PrevTabStop returns the first stop left of col, or column 0.
func (b *Buffer) PrevTabStop(x int) int {
	for x--; x > 0; x-- {
		if b.tabs[x] {
			return x
		}
	}
	return 0
}

// Align fills the grid with 'E' for DECALN.
func (b *Buffer) Align() {
	for y := range b.lines {
		l := &b.lines[y]
		l.reset(0, b.cols)
		for x := range l.cells {
			l.cells[x].Char = 'E'
		}
	}
}

// LineContent returns a row as text without trailing blanks.
func (b *Buffer) LineContent(y int) string {
	if !b.hasRow(y) {
		return ""
	}
	return lineText(b.lines[y].cells)
}

// IsWrapped reports whether the row continues on the next one.
func (b *Buffer) IsWrapped(y int) bool {
	return b.hasRow(y) && b.lines[y].wrapped
}

func (b *Buffer) SetWrapped(y int, wrapped bool) {
	if b.hasRow(y) {
		b.lines[y].wrapped = wrapped
	}
}

// Position is a cell address in logical coordinates, where Row counts the
// history lines before the visible rows.
type Position struct {
	Row int
	Col int
}

// Before orders positions top-to-bottom, then left-to-right.
func (p Position) Before(o Position) bool {
	return p.Row < o.Row || (p.Row == o.Row && p.Col < o.Col)
}

func (p Position) Equal(o Position) bool { return p == o }
