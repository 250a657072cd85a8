package emulation

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/danielgatis/go-emulation/screen"
	"golang.org/x/text/encoding"
)

// Emulation decodes the output of a program, feeds it to the active one of
// two screens, and refreshes a display with coalesced snapshots of that
// screen. It also routes keyboard input, selection and history search.
//
// All methods are safe for concurrent use.
type Emulation struct {
	mu sync.Mutex

	screens [2]Screen
	scr     Screen

	display   Display
	notifier  Notifier
	clipboard Clipboard
	output    io.Writer
	logger    *slog.Logger

	decoder *Decoder
	enc     encoding.Encoding

	clock Clock
	fast  refreshTimer
	slow  refreshTimer

	history       screen.HistoryPolicy
	screenFactory ScreenFactory

	connected bool
	listen    bool
	findPos   int
	closed    bool
}

// Option configures an Emulation during construction.
type Option func(*Emulation)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Emulation) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithNotifier sets the receiver of session events.
// Defaults to a no-op if not set.
func WithNotifier(n Notifier) Option {
	return func(e *Emulation) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithOutput sets the writer receiving keyboard input (usually the program's pty).
// Input is discarded if not set.
func WithOutput(w io.Writer) Option {
	return func(e *Emulation) {
		if w != nil {
			e.output = w
		}
	}
}

// WithClipboard sets the clipboard used by CopySelection.
// Defaults to the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(e *Emulation) {
		if c != nil {
			e.clipboard = c
		}
	}
}

// WithClock sets the scheduler for refresh timers.
func WithClock(c Clock) Option {
	return func(e *Emulation) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRefreshIntervals overrides the fast and slow refresh timer durations.
// Non-positive values keep the defaults (10ms and 40ms).
func WithRefreshIntervals(fast, slow time.Duration) Option {
	return func(e *Emulation) {
		if fast > 0 {
			e.fast.d = fast
		}
		if slow > 0 {
			e.slow.d = slow
		}
	}
}

// WithScreenFactory replaces the constructor of the two screens.
// Defaults to screen.New.
func WithScreenFactory(f ScreenFactory) Option {
	return func(e *Emulation) {
		if f != nil {
			e.screenFactory = f
		}
	}
}

// WithEncoding sets the encoding of the program's output.
// Defaults to the locale encoding.
func WithEncoding(enc encoding.Encoding) Option {
	return func(e *Emulation) {
		if enc != nil {
			e.enc = enc
		}
	}
}

// WithHistory sets the scrollback policy of the primary screen.
// Defaults to screen.NoHistory().
func WithHistory(p screen.HistoryPolicy) Option {
	return func(e *Emulation) {
		e.history = p
	}
}

// New creates an Emulation showing on display. Both screens are sized to the
// display's current geometry. The Emulation starts disconnected and not
// listening to key presses.
func New(display Display, opts ...Option) (*Emulation, error) {
	if display == nil {
		return nil, ErrNilDisplay
	}

	e := &Emulation{
		display:   display,
		notifier:  NoopNotifier{},
		clipboard: SystemClipboard{},
		output:    io.Discard,
		logger:    slog.Default(),
		clock:     realClock{},
		fast:      refreshTimer{d: DefaultFastRefresh},
		slow:      refreshTimer{d: DefaultSlowRefresh},
		history:   screen.NoHistory(),
		findPos:   -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	lines, columns := display.Lines(), display.Columns()
	if lines < 1 || columns < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, columns, lines)
	}

	if e.screenFactory == nil {
		e.screenFactory = e.defaultScreen
	}
	for i := range e.screens {
		e.screens[i] = e.screenFactory(lines, columns)
		if e.screens[i] == nil {
			return nil, ErrNilScreen
		}
		if n, ok := e.screens[i].(ScreenSwitchNotifier); ok {
			n.SetSwitchHandler(e.switchRequested)
		}
	}
	e.scr = e.screens[0]
	e.screens[0].SetScrollPolicy(e.history)

	if e.enc == nil {
		e.enc = LocaleEncoding()
	}
	e.decoder = NewDecoder(e.enc)

	e.logger.Debug("emulation created",
		"lines", lines,
		"columns", columns,
		"encoding", EncodingName(e.enc),
		"history", e.history.String(),
	)
	return e, nil
}

func (e *Emulation) defaultScreen(lines, columns int) Screen {
	return screen.New(lines, columns, screen.WithResponse(e.output))
}

// Close stops pending refreshes. Further timer callbacks do nothing.
func (e *Emulation) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimer(&e.fast)
	e.stopTimer(&e.slow)
	e.closed = true
	return nil
}

// SetConnected attaches (true) or detaches the display. While detached,
// screens keep changing but nothing is pushed. Attaching refreshes at once.
func (e *Emulation) SetConnected(connected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.connected = connected
	if connected {
		e.flushLocked()
	}
}

// Connected reports whether the display is attached.
func (e *Emulation) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// SetListenToKeyPress enables or disables forwarding of key presses.
func (e *Emulation) SetListenToKeyPress(listen bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listen = listen
}

// SetDisplay replaces the display surface. The next refresh goes to d.
func (e *Emulation) SetDisplay(d Display) error {
	if d == nil {
		return ErrNilDisplay
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.display = d
	return nil
}

// OnImageSizeChange resizes both screens. If connected, the display is
// refreshed and ImageSizeChanged is reported.
func (e *Emulation) OnImageSizeChange(lines, columns int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if lines < 1 || columns < 1 {
		e.logger.Debug("ignoring invalid size", "lines", lines, "columns", columns)
		return
	}

	e.screens[0].Resize(lines, columns)
	e.screens[1].Resize(lines, columns)
	e.logger.Debug("screens resized", "lines", lines, "columns", columns)

	if !e.connected {
		return
	}
	e.flushLocked()
	e.notifier.ImageSizeChanged(columns, lines)
}

// OnHistoryCursorChange scrolls the active screen to cursor.
func (e *Emulation) OnHistoryCursorChange(cursor int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scr.SetHistoryCursor(cursor)
	e.armLocked()
}

// SetColumns asks the owner to resize the view to columns.
func (e *Emulation) SetColumns(columns int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.notifier.ChangeColumns(columns)
}

// SetHistory sets the scrollback policy of the primary screen.
func (e *Emulation) SetHistory(p screen.HistoryPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = p
	e.screens[0].SetScrollPolicy(p)
	e.logger.Debug("history policy changed", "history", p.String())
	if e.connected {
		e.flushLocked()
	}
}

// History returns the scrollback policy of the primary screen.
func (e *Emulation) History() screen.HistoryPolicy {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.screens[0].ScrollPolicy()
}

// ImageSize returns the size of the active screen.
func (e *Emulation) ImageSize() (columns, lines int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.scr.Columns(), e.scr.Lines()
}

// StreamHistory writes the history and visible lines of the active screen as text.
func (e *Emulation) StreamHistory(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.scr.StreamHistory(w)
}
