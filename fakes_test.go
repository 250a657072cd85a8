package emulation

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/danielgatis/go-emulation/screen"
	"golang.org/x/text/encoding/unicode"
)

// manualClock runs timers only when the test advances it.
type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing due timers in order.
func (c *manualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var next *manualTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.f()
	}
	c.now = target
}

// pending returns the number of timers that have neither fired nor been stopped.
func (c *manualClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recordingDisplay struct {
	lines, columns int

	pushes    int
	cells     []screen.Cell
	size      [2]int
	cursor    [2]int
	wrapped   []bool
	indicator [2]int
	selected  []string
}

func newRecordingDisplay(lines, columns int) *recordingDisplay {
	return &recordingDisplay{lines: lines, columns: columns}
}

func (d *recordingDisplay) Lines() int   { return d.lines }
func (d *recordingDisplay) Columns() int { return d.columns }

func (d *recordingDisplay) PushSnapshot(cells []screen.Cell, lines, columns int) {
	d.pushes++
	d.cells = cells
	d.size = [2]int{lines, columns}
}

func (d *recordingDisplay) SetCursorPosition(x, y int)       { d.cursor = [2]int{x, y} }
func (d *recordingDisplay) SetLineWrapFlags(wrapped []bool)  { d.wrapped = wrapped }
func (d *recordingDisplay) SetScrollIndicator(cursor, n int) { d.indicator = [2]int{cursor, n} }
func (d *recordingDisplay) SetSelectedText(text string)      { d.selected = append(d.selected, text) }

// row returns the text of row y of the last pushed snapshot.
func (d *recordingDisplay) row(y int) string {
	columns := d.size[1]
	var b strings.Builder
	for _, c := range d.cells[y*columns : (y+1)*columns] {
		if c.IsWideSpacer() {
			continue
		}
		b.WriteRune(c.Char)
	}
	return strings.TrimRight(b.String(), " ")
}

type recordingNotifier struct {
	states  []SessionState
	zmodem  int
	sizes   [][2]int
	columns []int
	utf8    []bool
}

func (n *recordingNotifier) SessionState(state SessionState) { n.states = append(n.states, state) }
func (n *recordingNotifier) ZModemDetected()                  { n.zmodem++ }
func (n *recordingNotifier) ImageSizeChanged(columns, lines int) {
	n.sizes = append(n.sizes, [2]int{columns, lines})
}
func (n *recordingNotifier) ChangeColumns(columns int) { n.columns = append(n.columns, columns) }
func (n *recordingNotifier) UseUTF8(utf8 bool)         { n.utf8 = append(n.utf8, utf8) }

func (n *recordingNotifier) count(state SessionState) int {
	c := 0
	for _, s := range n.states {
		if s == state {
			c++
		}
	}
	return c
}

type recordingClipboard struct {
	texts []string
	err   error
}

func (c *recordingClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

// scriptedScreen records the operations it receives and serves fixed lines.
type scriptedScreen struct {
	lines, columns int

	calls   []string
	history []string
	visible []string
	cursor  int
	policy  screen.HistoryPolicy

	selBegin [3]int
	selEnd   [2]int
	selected string
	busy     bool
	resets   int
}

func newScriptedScreen(lines, columns int) *scriptedScreen {
	return &scriptedScreen{lines: lines, columns: columns}
}

func (s *scriptedScreen) BackSpace()           { s.calls = append(s.calls, "backspace") }
func (s *scriptedScreen) Tabulate()            { s.calls = append(s.calls, "tab") }
func (s *scriptedScreen) NewLine()             { s.calls = append(s.calls, "newline") }
func (s *scriptedScreen) Return()              { s.calls = append(s.calls, "return") }
func (s *scriptedScreen) ShowCharacter(r rune) { s.calls = append(s.calls, fmt.Sprintf("show:%U", r)) }

func (s *scriptedScreen) Resize(lines, columns int) { s.lines, s.columns = lines, columns }
func (s *scriptedScreen) Lines() int                { return s.lines }
func (s *scriptedScreen) Columns() int              { return s.columns }

func (s *scriptedScreen) Snapshot() screen.Snapshot {
	cells := make([]screen.Cell, s.lines*s.columns)
	for i := range cells {
		cells[i] = screen.NewCell()
	}
	return screen.Snapshot{
		Cells:       cells,
		Lines:       s.lines,
		Columns:     s.columns,
		LineWrapped: make([]bool, s.lines),
	}
}

func (s *scriptedScreen) HistoryCursor() int { return s.cursor }
func (s *scriptedScreen) HistoryLines() int  { return len(s.history) }

func (s *scriptedScreen) HistoryLine(i int) string {
	switch {
	case i < 0:
		return ""
	case i < len(s.history):
		return s.history[i]
	case i-len(s.history) < len(s.visible):
		return s.visible[i-len(s.history)]
	default:
		return ""
	}
}

func (s *scriptedScreen) SetHistoryCursor(cursor int) { s.cursor = cursor }

func (s *scriptedScreen) SetSelectionBegin(x, y int, columnMode bool) {
	mode := 0
	if columnMode {
		mode = 1
	}
	s.selBegin = [3]int{x, y, mode}
}

func (s *scriptedScreen) ExtendSelection(x, y int)                    { s.selEnd = [2]int{x, y} }
func (s *scriptedScreen) SelectedText(preserveLineBreaks bool) string { return s.selected }
func (s *scriptedScreen) ClearSelection()                             { s.selected = "" }
func (s *scriptedScreen) IsSelected(x, y int) bool                    { return s.selected != "" }

func (s *scriptedScreen) SetBusySelecting(busy bool) {
	if !busy {
		s.resets++
	}
	s.busy = busy
}

func (s *scriptedScreen) SetScrollPolicy(p screen.HistoryPolicy) { s.policy = p }
func (s *scriptedScreen) ScrollPolicy() screen.HistoryPolicy     { return s.policy }

func (s *scriptedScreen) StreamHistory(w io.Writer) error {
	for i := 0; i < len(s.history)+len(s.visible); i++ {
		if _, err := fmt.Fprintln(w, s.HistoryLine(i)); err != nil {
			return err
		}
	}
	return nil
}

// testRig bundles an Emulation with its fakes.
type testRig struct {
	em       *Emulation
	display  *recordingDisplay
	notifier *recordingNotifier
	clock    *manualClock
	screens  [2]*scriptedScreen
}

// newScriptedRig builds an Emulation over two scripted screens.
func newScriptedRig(opts ...Option) *testRig {
	r := &testRig{
		display:  newRecordingDisplay(24, 80),
		notifier: &recordingNotifier{},
		clock:    &manualClock{},
	}
	n := 0
	factory := func(lines, columns int) Screen {
		s := newScriptedScreen(lines, columns)
		r.screens[n] = s
		n++
		return s
	}
	r.em = mustNew(r.display, append([]Option{
		WithScreenFactory(factory),
		WithNotifier(r.notifier),
		WithClock(r.clock),
		WithEncoding(unicode.UTF8),
		WithLogger(discardLogger()),
	}, opts...)...)
	return r
}

// newScreenRig builds an Emulation over the default screens.
func newScreenRig(lines, columns int, opts ...Option) *testRig {
	r := &testRig{
		display:  newRecordingDisplay(lines, columns),
		notifier: &recordingNotifier{},
		clock:    &manualClock{},
	}
	r.em = mustNew(r.display, append([]Option{
		WithNotifier(r.notifier),
		WithClock(r.clock),
		WithEncoding(unicode.UTF8),
		WithLogger(discardLogger()),
	}, opts...)...)
	return r
}

func mustNew(d Display, opts ...Option) *Emulation {
	em, err := New(d, opts...)
	if err != nil {
		panic(err)
	}
	return em
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
