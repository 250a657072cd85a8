package emulation

import (
	"io"

	"github.com/atotto/clipboard"
	"github.com/danielgatis/go-emulation/screen"
)

// Screen is one member of the screen pair driven by an Emulation.
// *screen.Screen implements it; tests and alternative models may supply their own
// through WithScreenFactory.
type Screen interface {
	// BackSpace moves the cursor one column left.
	BackSpace()
	// Tabulate moves the cursor to the next tab stop.
	Tabulate()
	// NewLine moves the cursor down one line, scrolling if needed.
	NewLine()
	// Return moves the cursor to column 0.
	Return()
	// ShowCharacter draws or interprets any other character.
	ShowCharacter(r rune)

	Resize(lines, columns int)
	Lines() int
	Columns() int

	// Snapshot copies what the screen shows at its history cursor.
	Snapshot() screen.Snapshot

	HistoryCursor() int
	HistoryLines() int
	// HistoryLine returns the text of a logical line: history first, then visible rows.
	HistoryLine(i int) string
	SetHistoryCursor(cursor int)

	SetSelectionBegin(x, y int, columnMode bool)
	ExtendSelection(x, y int)
	SelectedText(preserveLineBreaks bool) string
	ClearSelection()
	IsSelected(x, y int) bool
	SetBusySelecting(busy bool)

	SetScrollPolicy(p screen.HistoryPolicy)
	ScrollPolicy() screen.HistoryPolicy

	// StreamHistory writes every logical line as text.
	StreamHistory(w io.Writer) error
}

// ScreenSwitchNotifier is implemented by screens that recognize the
// application's requests for the alternate (1) or primary (0) screen.
type ScreenSwitchNotifier interface {
	SetSwitchHandler(fn func(n int))
}

// alternateScreenPreparer clears a screen before it is shown as the alternate screen.
type alternateScreenPreparer interface {
	ClearEntireScreen()
}

// bellTerminator lets a screen see the BEL the dispatcher consumed, so a
// control string ended by BEL (OSC titles) is closed.
type bellTerminator interface {
	Bell()
}

// cursorRestorer restores the cursor saved when the alternate screen was requested.
type cursorRestorer interface {
	RestoreCursor()
}

// ScreenFactory creates a screen of the given size.
type ScreenFactory func(lines, columns int) Screen

// Display is the surface that shows the active screen. Every call happens
// with the Emulation's lock held; implementations must not call back into
// the Emulation synchronously.
type Display interface {
	// Lines and Columns report the current geometry.
	Lines() int
	Columns() int
	// PushSnapshot replaces the shown cells. cells is row-major, lines*columns long.
	PushSnapshot(cells []screen.Cell, lines, columns int)
	SetCursorPosition(x, y int)
	// SetLineWrapFlags reports, per shown row, whether it continues on the next.
	SetLineWrapFlags(wrapped []bool)
	// SetScrollIndicator reports the history cursor and the number of history lines.
	SetScrollIndicator(cursor, lines int)
	// SetSelectedText receives the text of a completed selection.
	SetSelectedText(text string)
}

// SessionState is the kind of event reported through Notifier.SessionState.
type SessionState int

const (
	// NotifyNormal reports user input.
	NotifyNormal SessionState = iota
	// NotifyBell reports a bell character in the output.
	NotifyBell
	// NotifyActivity reports new output.
	NotifyActivity
)

func (s SessionState) String() string {
	switch s {
	case NotifyNormal:
		return "normal"
	case NotifyBell:
		return "bell"
	case NotifyActivity:
		return "activity"
	default:
		return "unknown"
	}
}

// Notifier receives session-level events.
type Notifier interface {
	SessionState(state SessionState)
	// ZModemDetected reports a ZMODEM transfer handshake in the output.
	ZModemDetected()
	ImageSizeChanged(columns, lines int)
	// ChangeColumns asks the owner to resize the view to columns.
	ChangeColumns(columns int)
	UseUTF8(utf8 bool)
}

// Clipboard places text on a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// --- Default Implementations ---

// NoopNotifier ignores all events.
type NoopNotifier struct{}

func (NoopNotifier) SessionState(state SessionState)     {}
func (NoopNotifier) ZModemDetected()                     {}
func (NoopNotifier) ImageSizeChanged(columns, lines int) {}
func (NoopNotifier) ChangeColumns(columns int)           {}
func (NoopNotifier) UseUTF8(utf8 bool)                   {}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// NoopClipboard discards text.
type NoopClipboard struct{}

func (NoopClipboard) WriteAll(text string) error { return nil }

// Ensure implementations satisfy interfaces
var _ Notifier = (*NoopNotifier)(nil)
var _ Clipboard = (*SystemClipboard)(nil)
var _ Clipboard = (*NoopClipboard)(nil)
var _ Screen = (*screen.Screen)(nil)
var _ ScreenSwitchNotifier = (*screen.Screen)(nil)
var _ alternateScreenPreparer = (*screen.Screen)(nil)
var _ cursorRestorer = (*screen.Screen)(nil)
var _ bellTerminator = (*screen.Screen)(nil)
