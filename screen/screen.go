package screen

import (
	"io"
	"unicode/utf8"

	"github.com/danielgatis/go-ansicode"
)

// Mode is a bitmask of screen behavior flags.
type Mode uint32

const (
	// ModeCursorKeys enables cursor key mode (DECCKM).
	ModeCursorKeys Mode = 1 << iota
	// ModeInsert shifts characters right instead of overwriting.
	ModeInsert
	// ModeOrigin makes cursor positioning relative to the scroll region.
	ModeOrigin
	// ModeLineWrap enables automatic wrapping at the right margin.
	ModeLineWrap
	// ModeLineFeedNewLine makes line feed also return to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
	// ModeBracketedPaste enables bracketed paste mode.
	ModeBracketedPaste
	// ModeKeypadApplication enables application keypad mode.
	ModeKeypadApplication
)

const (
	// DefaultLines is used when a non-positive height is requested.
	DefaultLines = 24
	// DefaultColumns is used when a non-positive width is requested.
	DefaultColumns = 80
)

// Screen is one screen model: a cell grid, a cursor, scrollback history,
// a history cursor marking the first line shown, and a selection.
//
// Screen is not safe for concurrent use. The owner serializes access.
type Screen struct {
	lines   int
	columns int

	buf *Buffer

	cursor   Cursor
	saved    *savedCursor
	template Cell

	charsets      [4]ansicode.Charset
	activeCharset int

	scrollTop    int
	scrollBottom int

	modes Mode

	title      string
	titleStack []string

	policy     HistoryPolicy
	history    HistoryStore
	histCursor int

	sel           selection
	busySelecting bool

	parser  *ansicode.Decoder
	scratch [utf8.UTFMax]byte

	response io.Writer
	onTitle  func(string)
	onSwitch func(n int)
}

// Option configures a Screen during construction.
type Option func(*Screen)

// WithHistory sets the scrollback policy. The default keeps no history.
func WithHistory(p HistoryPolicy) Option {
	return func(s *Screen) {
		s.policy = p
	}
}

// WithTitleHandler registers a callback for window title changes (OSC 0/2).
func WithTitleHandler(fn func(title string)) Option {
	return func(s *Screen) {
		s.onTitle = fn
	}
}

// WithResponse sets the writer for replies to device queries (DSR, DA).
// If nil, replies are discarded.
func WithResponse(w io.Writer) Option {
	return func(s *Screen) {
		s.response = w
	}
}

// New creates a screen of the given size with line wrap and a visible cursor.
// Values <= 0 are replaced with defaults (24x80).
func New(lines, columns int, opts ...Option) *Screen {
	if lines <= 0 {
		lines = DefaultLines
	}
	if columns <= 0 {
		columns = DefaultColumns
	}

	s := &Screen{
		lines:        lines,
		columns:      columns,
		cursor:       newCursor(),
		template:     NewCell(),
		scrollBottom: lines,
		modes:        ModeLineWrap | ModeShowCursor,
		policy:       NoHistory(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.history = s.policy.NewStore()
	s.buf = NewBuffer(lines, columns)
	s.buf.scrolledOff = s.pushHistory
	s.parser = ansicode.NewDecoder(&parser{s: s})
	return s
}

// SetSwitchHandler registers the callback invoked when the application asks
// for the alternate (n=1) or primary (n=0) screen.
func (s *Screen) SetSwitchHandler(fn func(n int)) {
	s.onSwitch = fn
}

// Lines returns the screen height.
func (s *Screen) Lines() int {
	return s.lines
}

// Columns returns the screen width.
func (s *Screen) Columns() int {
	return s.columns
}

// Buffer exposes the visible grid.
func (s *Screen) Buffer() *Buffer {
	return s.buf
}

// CursorPos returns the cursor position on the visible grid.
func (s *Screen) CursorPos() (row, col int) {
	return s.cursor.Row, s.cursor.Col
}

// Cursor returns a copy of the cursor state.
func (s *Screen) Cursor() Cursor {
	return s.cursor
}

// Title returns the last title set by the application.
func (s *Screen) Title() string {
	return s.title
}

// HasMode returns true if every bit of mode is set.
func (s *Screen) HasMode(mode Mode) bool {
	return s.modes&mode == mode
}

// BackSpace moves the cursor one column left, stopping at column 0.
func (s *Screen) BackSpace() {
	if s.cursor.Col >= s.columns {
		s.cursor.Col = s.columns - 1
	}
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

// Tabulate moves the cursor to the next tab stop.
func (s *Screen) Tabulate() {
	s.cursor.Col = s.buf.NextTabStop(s.cursor.Col)
}

// NewLine moves the cursor down one row, scrolling at the bottom margin.
// In line feed/new line mode it also returns to column 0.
func (s *Screen) NewLine() {
	s.buf.SetWrapped(s.cursor.Row, false)
	if s.modes&ModeLineFeedNewLine != 0 {
		s.cursor.Col = 0
	}
	s.index()
}

// Return moves the cursor to column 0.
func (s *Screen) Return() {
	s.cursor.Col = 0
}

// ShowCharacter feeds one character to the screen. Printable characters are
// drawn at the cursor; escape sequences are assembled across calls.
func (s *Screen) ShowCharacter(r rune) {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	n := utf8.EncodeRune(s.scratch[:], r)
	_, _ = s.parser.Write(s.scratch[:n])
}

// Bell passes BEL to the escape parser. It ends a pending OSC string and
// otherwise changes nothing.
func (s *Screen) Bell() {
	_, _ = s.parser.Write([]byte{0x07})
}

// Write feeds already decoded UTF-8 text through ShowCharacter semantics.
// Control characters go to the escape parser as well.
func (s *Screen) Write(p []byte) (int, error) {
	return s.parser.Write(p)
}

// Resize changes the screen dimensions. When the height shrinks below the
// cursor, the lines above it move into history.
func (s *Screen) Resize(lines, columns int) {
	if lines <= 0 || columns <= 0 {
		return
	}

	if lines < s.lines && s.cursor.Row >= lines {
		n := s.cursor.Row - lines + 1
		s.buf.ScrollUp(0, s.lines, n)
		s.cursor.Row -= n
	}

	s.lines = lines
	s.columns = columns
	s.buf.Resize(lines, columns)

	s.cursor.Row = clamp(s.cursor.Row, 0, lines-1)
	s.cursor.Col = clamp(s.cursor.Col, 0, columns-1)
	s.scrollTop = 0
	s.scrollBottom = lines
	s.sel.clear()
	s.histCursor = clamp(s.histCursor, 0, s.history.Len())
}

// Snapshot is a self-contained copy of what the screen shows at its history
// cursor.
type Snapshot struct {
	// Cells is row-major, Lines*Columns long.
	Cells         []Cell
	Lines         int
	Columns       int
	LineWrapped   []bool
	CursorX       int
	CursorY       int
	CursorVisible bool
}

// Row returns the cells of row y.
func (sn Snapshot) Row(y int) []Cell {
	if y < 0 || y >= sn.Lines {
		return nil
	}
	return sn.Cells[y*sn.Columns : (y+1)*sn.Columns]
}

// Snapshot copies the viewport starting at the history cursor. Selected cells
// carry CellFlagSelected.
func (s *Screen) Snapshot() Snapshot {
	sn := Snapshot{
		Cells:       make([]Cell, s.lines*s.columns),
		Lines:       s.lines,
		Columns:     s.columns,
		LineWrapped: make([]bool, s.lines),
	}

	for y := 0; y < s.lines; y++ {
		row := s.histCursor + y
		dst := sn.Cells[y*s.columns : (y+1)*s.columns]
		src := s.logicalLine(row)
		n := copy(dst, src)
		for x := n; x < s.columns; x++ {
			dst[x] = NewCell()
		}
		for x := range dst {
			if s.sel.contains(Position{Row: row, Col: x}) {
				dst[x].SetFlag(CellFlagSelected)
			}
		}
		sn.LineWrapped[y] = s.logicalWrapped(row)
	}

	sn.CursorX = clamp(s.cursor.Col, 0, s.columns-1)
	sn.CursorY = s.cursor.Row + s.history.Len() - s.histCursor
	sn.CursorVisible = s.cursor.Visible && sn.CursorY < s.lines
	return sn
}

// HistoryLines returns the number of lines kept in history.
func (s *Screen) HistoryLines() int {
	return s.history.Len()
}

// HistoryCursor returns the logical index of the first line shown.
// It equals HistoryLines when the live screen is shown.
func (s *Screen) HistoryCursor() int {
	return s.histCursor
}

// SetHistoryCursor scrolls the view; the value is clamped to [0, HistoryLines].
func (s *Screen) SetHistoryCursor(cursor int) {
	s.histCursor = clamp(cursor, 0, s.history.Len())
}

// HistoryLine returns the text of logical line i: history lines come first,
// then the visible rows. Out-of-range indices yield "".
func (s *Screen) HistoryLine(i int) string {
	return lineText(s.logicalLine(i))
}

// SetScrollPolicy replaces the history store, carrying over as many of the
// existing lines as the new policy keeps.
func (s *Screen) SetScrollPolicy(p HistoryPolicy) {
	atBottom := s.histCursor == s.history.Len()

	store := p.NewStore()
	for i := 0; i < s.history.Len(); i++ {
		store.Push(s.history.Line(i), s.history.Wrapped(i))
	}
	s.policy = p
	s.history = store
	s.sel.clear()

	if atBottom {
		s.histCursor = s.history.Len()
	} else {
		s.histCursor = clamp(s.histCursor, 0, s.history.Len())
	}
}

// ScrollPolicy returns the current history policy.
func (s *Screen) ScrollPolicy() HistoryPolicy {
	return s.policy
}

// ClearHistory drops every history line.
func (s *Screen) ClearHistory() {
	s.history.Clear()
	s.histCursor = 0
	s.sel.clear()
}

// StreamHistory writes every logical line as text. Wrapped lines are joined
// with the line that follows them.
func (s *Screen) StreamHistory(w io.Writer) error {
	total := s.history.Len() + s.lines

	last := total - 1
	for last >= 0 && s.HistoryLine(last) == "" {
		last--
	}

	for i := 0; i <= last; i++ {
		text := s.HistoryLine(i)
		if !s.logicalWrapped(i) {
			text += "\n"
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return nil
}

// String returns the visible rows as newline-separated text, without trailing empty lines.
func (s *Screen) String() string {
	var out []byte
	lastNonEmpty := -1
	texts := make([]string, s.lines)
	for row := range texts {
		texts[row] = s.buf.LineContent(row)
		if texts[row] != "" {
			lastNonEmpty = row
		}
	}
	for i := 0; i <= lastNonEmpty; i++ {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, texts[i]...)
	}
	return string(out)
}

// SaveCursor stores the cursor, attributes and charset state (DECSC).
func (s *Screen) SaveCursor() {
	s.saved = &savedCursor{
		row:        s.cursor.Row,
		col:        s.cursor.Col,
		template:   s.template,
		originMode: s.modes&ModeOrigin != 0,
		charset:    s.activeCharset,
		charsets:   s.charsets,
	}
}

// RestoreCursor restores what SaveCursor stored (DECRC). Without a saved
// cursor it moves home.
func (s *Screen) RestoreCursor() {
	if s.saved == nil {
		s.cursor.Row, s.cursor.Col = 0, 0
		return
	}
	s.cursor.Row = clamp(s.saved.row, 0, s.lines-1)
	s.cursor.Col = clamp(s.saved.col, 0, s.columns-1)
	s.template = s.saved.template
	if s.saved.originMode {
		s.modes |= ModeOrigin
	} else {
		s.modes &^= ModeOrigin
	}
	s.activeCharset = s.saved.charset
	s.charsets = s.saved.charsets
}

// ClearEntireScreen blanks every visible row.
func (s *Screen) ClearEntireScreen() {
	s.buf.ClearAll()
}

// Reset restores power-on state for the visible grid. History is kept.
func (s *Screen) Reset() {
	s.buf.ClearAll()
	s.cursor = newCursor()
	s.saved = nil
	s.template = NewCell()
	s.scrollTop = 0
	s.scrollBottom = s.lines
	s.modes = ModeLineWrap | ModeShowCursor
	s.charsets = [4]ansicode.Charset{}
	s.activeCharset = 0
}

func (s *Screen) pushHistory(line []Cell, wrapped bool) {
	if !s.policy.Enabled() {
		s.sel.shift(1)
		return
	}
	before := s.history.Len()
	atBottom := s.histCursor == before
	s.history.Push(line, wrapped)
	// Lines evicted from a full store renumber everything after them.
	s.sel.shift(before + 1 - s.history.Len())
	if atBottom {
		s.histCursor = s.history.Len()
	} else {
		s.histCursor = clamp(s.histCursor, 0, s.history.Len())
	}
}

func (s *Screen) logicalLine(row int) []Cell {
	hist := s.history.Len()
	if row < 0 {
		return nil
	}
	if row < hist {
		return s.history.Line(row)
	}
	return s.buf.Line(row - hist)
}

func (s *Screen) logicalWrapped(row int) bool {
	hist := s.history.Len()
	if row < hist {
		return s.history.Wrapped(row)
	}
	return s.buf.IsWrapped(row - hist)
}

// index moves the cursor down one row, scrolling the region when it leaves the bottom margin.
func (s *Screen) index() {
	if s.cursor.Row == s.scrollBottom-1 {
		s.buf.ScrollUp(s.scrollTop, s.scrollBottom, 1)
		return
	}
	if s.cursor.Row < s.lines-1 {
		s.cursor.Row++
	}
}

// effectiveRow returns the row considering origin mode.
func (s *Screen) effectiveRow(row int) int {
	if s.modes&ModeOrigin != 0 {
		return row + s.scrollTop
	}
	return row
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
