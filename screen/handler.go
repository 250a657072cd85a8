package screen

import (
	"fmt"
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// charsetLineDrawing is the DEC special graphics charset.
const charsetLineDrawing ansicode.Charset = 1

// parser receives escape-sequence callbacks for a Screen. Sequences the
// screen has no model for are accepted and dropped.
type parser struct {
	ansicode.Handler
	s *Screen
}

var _ ansicode.Handler = (*parser)(nil)

func (p *parser) ApplicationCommandReceived(data []byte) {}
func (p *parser) PrivacyMessageReceived(data []byte)     {}
func (p *parser) StartOfStringReceived(data []byte)      {}

func (p *parser) Backspace() {
	p.s.BackSpace()
}

func (p *parser) Bell() {}

func (p *parser) CarriageReturn() {
	p.s.Return()
}

// ClearLine clears right of the cursor, left of it, or the whole line.
func (p *parser) ClearLine(mode ansicode.LineClearMode) {
	s := p.s
	switch mode {
	case ansicode.LineClearModeRight:
		s.buf.ClearRowRange(s.cursor.Row, s.cursor.Col, s.columns)
	case ansicode.LineClearModeLeft:
		s.buf.ClearRowRange(s.cursor.Row, 0, s.cursor.Col+1)
	case ansicode.LineClearModeAll:
		s.buf.ClearRow(s.cursor.Row)
	}
}

// ClearScreen clears below the cursor, above it, the whole screen, or the history.
func (p *parser) ClearScreen(mode ansicode.ClearMode) {
	s := p.s
	switch mode {
	case ansicode.ClearModeBelow:
		s.buf.ClearRowRange(s.cursor.Row, s.cursor.Col, s.columns)
		for row := s.cursor.Row + 1; row < s.lines; row++ {
			s.buf.ClearRow(row)
		}
	case ansicode.ClearModeAbove:
		for row := 0; row < s.cursor.Row; row++ {
			s.buf.ClearRow(row)
		}
		s.buf.ClearRowRange(s.cursor.Row, 0, s.cursor.Col+1)
	case ansicode.ClearModeAll:
		s.buf.ClearAll()
	case ansicode.ClearModeSaved:
		s.ClearHistory()
	}
}

func (p *parser) ClearTabs(mode ansicode.TabulationClearMode) {
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		p.s.buf.ClearTabStop(p.s.cursor.Col)
	case ansicode.TabulationClearModeAll:
		p.s.buf.ClearAllTabStops()
	}
}

func (p *parser) ClipboardLoad(clipboard byte, terminator string) {}
func (p *parser) ClipboardStore(clipboard byte, data []byte)      {}

func (p *parser) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	if i := int(index); i >= 0 && i < len(p.s.charsets) {
		p.s.charsets[i] = charset
	}
}

func (p *parser) Decaln() {
	p.s.buf.Align()
}

func (p *parser) DeleteChars(n int) {
	p.s.buf.DeleteChars(p.s.cursor.Row, p.s.cursor.Col, n)
}

func (p *parser) DeleteLines(n int) {
	s := p.s
	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		// Lines deleted inside the screen never reach history.
		saved := s.buf.scrolledOff
		s.buf.scrolledOff = nil
		s.buf.ScrollUp(s.cursor.Row, s.scrollBottom, n)
		s.buf.scrolledOff = saved
	}
}

// DeviceStatus answers DSR: ready (n=5) or cursor position (n=6).
func (p *parser) DeviceStatus(n int) {
	switch n {
	case 5:
		p.reply("\x1b[0n")
	case 6:
		p.reply(fmt.Sprintf("\x1b[%d;%dR", p.s.cursor.Row+1, p.s.cursor.Col+1))
	}
}

func (p *parser) EraseChars(n int) {
	s := p.s
	s.buf.ClearRowRange(s.cursor.Row, s.cursor.Col, s.cursor.Col+n)
}

func (p *parser) Goto(row, col int) {
	s := p.s
	s.cursor.Row = clamp(s.effectiveRow(row), 0, s.lines-1)
	s.cursor.Col = clamp(col, 0, s.columns-1)
}

func (p *parser) GotoCol(col int) {
	p.s.cursor.Col = clamp(col, 0, p.s.columns-1)
}

func (p *parser) GotoLine(row int) {
	p.s.cursor.Row = clamp(p.s.effectiveRow(row), 0, p.s.lines-1)
}

func (p *parser) HorizontalTabSet() {
	p.s.buf.SetTabStop(p.s.cursor.Col)
}

// IdentifyTerminal answers DA as a VT220.
func (p *parser) IdentifyTerminal(b byte) {
	p.reply("\x1b[?62;c")
}

// Input draws r at the cursor, wrapping first if it does not fit.
func (p *parser) Input(r rune) {
	s := p.s

	if s.activeCharset >= 0 && s.activeCharset < 4 && s.charsets[s.activeCharset] == charsetLineDrawing {
		r = translateLineDrawing(r)
	}

	width := runeWidth(r)
	if width == 0 {
		return
	}

	if s.cursor.Col+width > s.columns {
		if s.modes&ModeLineWrap != 0 {
			s.buf.SetWrapped(s.cursor.Row, true)
			s.cursor.Col = 0
			s.index()
		} else {
			if width == 2 && s.columns < 2 {
				return
			}
			s.cursor.Col = s.columns - width
		}
	}

	if s.modes&ModeInsert != 0 {
		s.buf.InsertBlanks(s.cursor.Row, s.cursor.Col, width)
	}

	cell := s.buf.Cell(s.cursor.Row, s.cursor.Col)
	if cell == nil {
		return
	}
	*cell = s.template
	cell.Char = r
	cell.ClearFlag(CellFlagWideChar | CellFlagWideCharSpacer)
	if width == 2 {
		cell.SetFlag(CellFlagWideChar)
	}
	s.cursor.Col++

	if width == 2 {
		if spacer := s.buf.Cell(s.cursor.Row, s.cursor.Col); spacer != nil {
			spacer.Reset()
			spacer.Bg = s.template.Bg
			spacer.SetFlag(CellFlagWideCharSpacer)
		}
		s.cursor.Col++
	}

	if s.cursor.Col > s.columns {
		s.cursor.Col = s.columns
	}
}

// decGraphics is the DEC special graphics set designated by ESC ( 0.
var decGraphics = map[rune]rune{
	'`': '◆', 'a': '▒', 'b': '␉', 'c': '␌', 'd': '␍', 'e': '␊', 'f': '°',
	'g': '±', 'h': '␤', 'i': '␋', 'j': '┘', 'k': '┐', 'l': '┌', 'm': '└',
	'n': '┼', 'o': '⎺', 'p': '⎻', 'q': '─', 'r': '⎼', 's': '⎽', 't': '├',
	'u': '┤', 'v': '┴', 'w': '┬', 'x': '│', 'y': '≤', 'z': '≥', '{': 'π',
	'|': '≠', '}': '£', '~': '·',
}

func translateLineDrawing(r rune) rune {
	if g, ok := decGraphics[r]; ok {
		return g
	}
	return r
}

func (p *parser) InsertBlank(n int) {
	p.s.buf.InsertBlanks(p.s.cursor.Row, p.s.cursor.Col, n)
}

func (p *parser) InsertBlankLines(n int) {
	s := p.s
	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.buf.ScrollDown(s.cursor.Row, s.scrollBottom, n)
	}
}

func (p *parser) LineFeed() {
	p.s.NewLine()
}

func (p *parser) MoveBackward(n int) {
	p.s.cursor.Col = clamp(p.s.cursor.Col-n, 0, p.s.columns-1)
}

func (p *parser) MoveBackwardTabs(n int) {
	for i := 0; i < n; i++ {
		p.s.cursor.Col = p.s.buf.PrevTabStop(p.s.cursor.Col)
	}
}

func (p *parser) MoveDown(n int) {
	p.s.cursor.Row = clamp(p.s.cursor.Row+n, 0, p.s.lines-1)
}

func (p *parser) MoveDownCr(n int) {
	p.MoveDown(n)
	p.s.cursor.Col = 0
}

func (p *parser) MoveForward(n int) {
	p.s.cursor.Col = clamp(p.s.cursor.Col+n, 0, p.s.columns-1)
}

func (p *parser) MoveForwardTabs(n int) {
	for i := 0; i < n; i++ {
		p.s.cursor.Col = p.s.buf.NextTabStop(p.s.cursor.Col)
	}
}

func (p *parser) MoveUp(n int) {
	p.s.cursor.Row = clamp(p.s.cursor.Row-n, 0, p.s.lines-1)
}

func (p *parser) MoveUpCr(n int) {
	p.MoveUp(n)
	p.s.cursor.Col = 0
}

func (p *parser) PopKeyboardMode(n int)                      {}
func (p *parser) PushKeyboardMode(mode ansicode.KeyboardMode) {}
func (p *parser) ReportKeyboardMode()                        {}
func (p *parser) ReportModifyOtherKeys()                     {}
func (p *parser) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
}
func (p *parser) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {}

func (p *parser) PopTitle() {
	s := p.s
	if n := len(s.titleStack); n > 0 {
		p.SetTitle(s.titleStack[n-1])
		s.titleStack = s.titleStack[:n-1]
	}
}

func (p *parser) PushTitle() {
	p.s.titleStack = append(p.s.titleStack, p.s.title)
}

func (p *parser) ResetColor(i int)                                          {}
func (p *parser) SetColor(index int, c color.Color)                         {}
func (p *parser) SetDynamicColor(prefix string, index int, terminator string) {}

func (p *parser) ResetState() {
	p.s.Reset()
}

func (p *parser) RestoreCursorPosition() {
	p.s.RestoreCursor()
}

func (p *parser) SaveCursorPosition() {
	p.s.SaveCursor()
}

// ReverseIndex moves the cursor up, scrolling down at the top margin.
func (p *parser) ReverseIndex() {
	s := p.s
	if s.cursor.Row == s.scrollTop {
		s.buf.ScrollDown(s.scrollTop, s.scrollBottom, 1)
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
}

func (p *parser) ScrollDown(n int) {
	p.s.buf.ScrollDown(p.s.scrollTop, p.s.scrollBottom, n)
}

func (p *parser) ScrollUp(n int) {
	p.s.buf.ScrollUp(p.s.scrollTop, p.s.scrollBottom, n)
}

func (p *parser) SetActiveCharset(n int) {
	if n >= 0 && n < 4 {
		p.s.activeCharset = n
	}
}

func (p *parser) SetCursorStyle(style ansicode.CursorStyle) {
	p.s.cursor.Style = CursorStyle(style)
}

func (p *parser) SetHyperlink(hyperlink *ansicode.Hyperlink) {}

func (p *parser) SetKeypadApplicationMode() {
	p.s.modes |= ModeKeypadApplication
}

func (p *parser) UnsetKeypadApplicationMode() {
	p.s.modes &^= ModeKeypadApplication
}

func (p *parser) SetMode(mode ansicode.TerminalMode) {
	p.setMode(mode, true)
}

func (p *parser) UnsetMode(mode ansicode.TerminalMode) {
	p.setMode(mode, false)
}

func (p *parser) setMode(mode ansicode.TerminalMode, set bool) {
	s := p.s
	var m Mode

	switch mode {
	case ansicode.TerminalModeCursorKeys:
		m = ModeCursorKeys
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		if set {
			s.cursor.Row = s.scrollTop
			s.cursor.Col = 0
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedNewLine
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
		s.cursor.Visible = set
	case ansicode.TerminalModeBracketedPaste:
		m = ModeBracketedPaste
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		// The owner tracks which screen is shown; no mode bit is kept.
		if set {
			s.SaveCursor()
		}
		if s.onSwitch != nil {
			if set {
				s.onSwitch(1)
			} else {
				s.onSwitch(0)
			}
		}
		return
	default:
		return
	}

	if set {
		s.modes |= m
	} else {
		s.modes &^= m
	}
}

// SetScrollingRegion sets the 1-based scroll margins and homes the cursor.
func (p *parser) SetScrollingRegion(top, bottom int) {
	s := p.s
	top--
	bottom--

	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > s.lines {
		bottom = s.lines
	}
	if top >= bottom {
		return
	}

	s.scrollTop = top
	s.scrollBottom = bottom

	if s.modes&ModeOrigin != 0 {
		s.cursor.Row = s.scrollTop
	} else {
		s.cursor.Row = 0
	}
	s.cursor.Col = 0
}

// SetTerminalCharAttribute applies SGR attributes to the template used for new characters.
func (p *parser) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	t := &p.s.template

	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*t = NewCell()
	case ansicode.CharAttributeBold:
		t.SetFlag(CellFlagBold)
	case ansicode.CharAttributeDim:
		t.SetFlag(CellFlagDim)
	case ansicode.CharAttributeItalic:
		t.SetFlag(CellFlagItalic)
	case ansicode.CharAttributeUnderline:
		setUnderline(t, CellFlagUnderline)
	case ansicode.CharAttributeDoubleUnderline:
		setUnderline(t, CellFlagDoubleUnderline)
	case ansicode.CharAttributeCurlyUnderline:
		setUnderline(t, CellFlagCurlyUnderline)
	case ansicode.CharAttributeDottedUnderline:
		setUnderline(t, CellFlagDottedUnderline)
	case ansicode.CharAttributeDashedUnderline:
		setUnderline(t, CellFlagDashedUnderline)
	case ansicode.CharAttributeBlinkSlow:
		t.SetFlag(CellFlagBlinkSlow)
	case ansicode.CharAttributeBlinkFast:
		t.SetFlag(CellFlagBlinkFast)
	case ansicode.CharAttributeReverse:
		t.SetFlag(CellFlagReverse)
	case ansicode.CharAttributeHidden:
		t.SetFlag(CellFlagHidden)
	case ansicode.CharAttributeStrike:
		t.SetFlag(CellFlagStrike)
	case ansicode.CharAttributeCancelBold:
		t.ClearFlag(CellFlagBold)
	case ansicode.CharAttributeCancelBoldDim:
		t.ClearFlag(CellFlagBold | CellFlagDim)
	case ansicode.CharAttributeCancelItalic:
		t.ClearFlag(CellFlagItalic)
	case ansicode.CharAttributeCancelUnderline:
		t.ClearFlag(CellFlagAnyUnderline)
	case ansicode.CharAttributeCancelBlink:
		t.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)
	case ansicode.CharAttributeCancelReverse:
		t.ClearFlag(CellFlagReverse)
	case ansicode.CharAttributeCancelHidden:
		t.ClearFlag(CellFlagHidden)
	case ansicode.CharAttributeCancelStrike:
		t.ClearFlag(CellFlagStrike)
	case ansicode.CharAttributeForeground:
		t.Fg = attributeColor(attr)
	case ansicode.CharAttributeBackground:
		t.Bg = attributeColor(attr)
	case ansicode.CharAttributeUnderlineColor:
		t.UnderlineColor = attributeColor(attr)
	}
}

func setUnderline(t *Cell, flag CellFlags) {
	t.ClearFlag(CellFlagAnyUnderline)
	t.SetFlag(flag)
}

// attributeColor converts an SGR color. nil selects the default color.
func attributeColor(attr ansicode.TerminalCharAttribute) color.Color {
	switch {
	case attr.RGBColor != nil:
		return color.RGBA{R: attr.RGBColor.R, G: attr.RGBColor.G, B: attr.RGBColor.B, A: 255}
	case attr.IndexedColor != nil:
		return &IndexedColor{Index: int(attr.IndexedColor.Index)}
	case attr.NamedColor != nil:
		name := int(*attr.NamedColor)
		if name == NamedColorForeground || name == NamedColorBackground {
			return nil
		}
		return &NamedColor{Name: name}
	default:
		return nil
	}
}

func (p *parser) SetTitle(title string) {
	p.s.title = title
	if p.s.onTitle != nil {
		p.s.onTitle(title)
	}
}

// Substitute replaces the character at the cursor with '?'.
func (p *parser) Substitute() {
	if cell := p.s.buf.Cell(p.s.cursor.Row, p.s.cursor.Col); cell != nil {
		cell.Char = '?'
	}
}

func (p *parser) Tab(n int) {
	for i := 0; i < n; i++ {
		p.s.Tabulate()
	}
}

func (p *parser) TextAreaSizeChars() {
	p.reply(fmt.Sprintf("\x1b[8;%d;%dt", p.s.lines, p.s.columns))
}

func (p *parser) TextAreaSizePixels() {}
func (p *parser) CellSizePixels()     {}

func (p *parser) SetWorkingDirectory(uri string)                         {}
func (p *parser) SixelReceived(params [][]uint16, data []byte)          {}
func (p *parser) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {}
func (p *parser) DesktopNotification(payload *ansicode.NotificationPayload) {}
func (p *parser) SetUserVar(name, value string)                         {}

func (p *parser) reply(s string) {
	if p.s.response != nil {
		_, _ = p.s.response.Write([]byte(s))
	}
}
