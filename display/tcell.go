package display

import (
	"context"
	"image/color"
	"sync"

	"github.com/danielgatis/go-emulation"
	"github.com/danielgatis/go-emulation/screen"
	"github.com/gdamore/tcell/v2"
)

// wheelStep is the number of lines scrolled per mouse wheel notch.
const wheelStep = 3

// TCell shows an Emulation on a tcell screen and feeds the screen's input
// events back to it.
type TCell struct {
	mu sync.Mutex

	s       tcell.Screen
	palette *screen.Palette

	scrollCursor int
	scrollLines  int
	selected     string
	dragging     bool
}

// NewTCell wraps an initialized tcell screen.
func NewTCell(s tcell.Screen) *TCell {
	return &TCell{s: s}
}

// SetPalette makes the surface resolve colors through p instead of leaving
// default colors to the host terminal.
func (t *TCell) SetPalette(p *screen.Palette) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.palette = p
}

func (t *TCell) Lines() int {
	_, h := t.s.Size()
	return h
}

func (t *TCell) Columns() int {
	w, _ := t.s.Size()
	return w
}

func (t *TCell) PushSnapshot(cells []screen.Cell, lines, columns int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.Clear()
	for y := 0; y < lines; y++ {
		for x := 0; x < columns; x++ {
			cell := &cells[y*columns+x]
			if cell.IsWideSpacer() {
				continue
			}
			ch := cell.Char
			if ch == 0 || cell.HasFlag(screen.CellFlagHidden) {
				ch = ' '
			}
			t.s.SetContent(x, y, ch, nil, t.style(cell))
		}
	}
	t.s.Show()
}

func (t *TCell) SetCursorPosition(x, y int) {
	w, h := t.s.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		t.s.HideCursor()
	} else {
		t.s.ShowCursor(x, y)
	}
	t.s.Show()
}

// SetLineWrapFlags is a no-op: a tcell screen has no notion of soft wraps.
func (t *TCell) SetLineWrapFlags(wrapped []bool) {}

func (t *TCell) SetScrollIndicator(cursor, lines int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scrollCursor, t.scrollLines = cursor, lines
}

func (t *TCell) SetSelectedText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = text
}

// SelectedText returns the text of the last completed selection.
func (t *TCell) SelectedText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

// ScrollIndicator returns the last history cursor and history length shown.
func (t *TCell) ScrollIndicator() (cursor, lines int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollCursor, t.scrollLines
}

func (t *TCell) style(cell *screen.Cell) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(t.color(cell.Fg, true)).
		Background(t.color(cell.Bg, false))

	if cell.HasFlag(screen.CellFlagBold) {
		st = st.Bold(true)
	}
	if cell.HasFlag(screen.CellFlagDim) {
		st = st.Dim(true)
	}
	if cell.HasFlag(screen.CellFlagItalic) {
		st = st.Italic(true)
	}
	if cell.HasFlag(screen.CellFlagAnyUnderline) {
		st = st.Underline(true)
	}
	if cell.HasFlag(screen.CellFlagBlinkSlow | screen.CellFlagBlinkFast) {
		st = st.Blink(true)
	}
	if cell.HasFlag(screen.CellFlagStrike) {
		st = st.StrikeThrough(true)
	}
	// Selected cells are shown inverted, so a reversed cell flips back.
	if cell.HasFlag(screen.CellFlagReverse) != cell.IsSelected() {
		st = st.Reverse(true)
	}
	return st
}

func (t *TCell) color(c color.Color, fg bool) tcell.Color {
	if c == nil && t.palette == nil {
		return tcell.ColorDefault
	}
	p := t.palette
	if p == nil {
		p = screen.NewPalette()
	}
	rgba := p.Resolve(c, fg)
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}

// HandleEvent routes one tcell event to em: keys to OnKeyPress, resizes to
// OnImageSizeChange, button 1 drags to the selection and the wheel to the
// history cursor. It must not be called from a Display callback.
func (t *TCell) HandleEvent(em *emulation.Emulation, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		em.OnKeyPress(ev)

	case *tcell.EventResize:
		w, h := ev.Size()
		t.s.Sync()
		em.OnImageSizeChange(h, w)

	case *tcell.EventMouse:
		t.handleMouse(em, ev)
	}
}

func (t *TCell) handleMouse(em *emulation.Emulation, ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	t.mu.Lock()
	dragging := t.dragging
	cursor, lines := t.scrollCursor, t.scrollLines
	t.mu.Unlock()

	switch {
	case buttons&tcell.Button1 != 0:
		if dragging {
			em.OnSelectionExtend(x, y)
			return
		}
		t.setDragging(true)
		em.SetBusySelecting(true)
		em.OnSelectionBegin(x, y, ev.Modifiers()&tcell.ModAlt != 0)

	case buttons&tcell.WheelUp != 0:
		em.OnHistoryCursorChange(max(cursor-wheelStep, 0))

	case buttons&tcell.WheelDown != 0:
		em.OnHistoryCursorChange(min(cursor+wheelStep, lines))

	case buttons == tcell.ButtonNone && dragging:
		t.setDragging(false)
		em.SetSelection(true)
		em.SetBusySelecting(false)
	}
}

func (t *TCell) setDragging(d bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dragging = d
}

// Run handles the screen's events until ctx is done or the screen is
// finalized.
func (t *TCell) Run(ctx context.Context, em *emulation.Emulation) error {
	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := t.s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			t.HandleEvent(em, ev)
		}
	}
}

var _ emulation.Display = (*TCell)(nil)
var _ emulation.Display = (*Canvas)(nil)
