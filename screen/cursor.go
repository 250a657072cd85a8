package screen

import "github.com/danielgatis/go-ansicode"

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

func newCursor() Cursor {
	return Cursor{Style: CursorStyleBlinkingBlock, Visible: true}
}

// savedCursor is the state kept by DECSC and restored by DECRC.
type savedCursor struct {
	row, col   int
	template   Cell
	originMode bool
	charset    int
	charsets   [4]ansicode.Charset
}
