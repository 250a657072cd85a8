// Package emulation sits between a program's output stream and a terminal
// display. It decodes bytes into characters, drives a pair of screens
// (primary and alternate), and refreshes a display with coalesced snapshots.
//
// This package is useful for:
//   - Terminal front ends that draw into their own surface
//   - Recorders and viewers that need throttled screen updates
//   - Searching and selecting text in a terminal's history
//
// # Quick Start
//
// Create an Emulation on a display and write program output to it:
//
//	canvas := display.NewCanvas(24, 80)
//	em, err := emulation.New(canvas,
//	    emulation.WithEncoding(unicode.UTF8),
//	    emulation.WithHistory(screen.FixedHistory(1000)),
//	)
//	if err != nil {
//	    return err
//	}
//	defer em.Close()
//
//	em.SetConnected(true)
//	em.WriteString("\x1b[31mHello\x1b[0m World\r\n")
//	em.Flush()
//	fmt.Println(canvas.Text()) // "Hello World"
//
// # Architecture
//
//   - [Emulation]: the mediator; implements [io.Writer] for program output
//   - [Decoder]: converts byte blocks to characters in one text encoding
//   - [Screen]: one member of the screen pair; [screen.Screen] is the default
//   - [Display]: receives snapshots, cursor, wrap flags and scroll indicator
//   - [Notifier]: receives activity, bell, resize and ZMODEM events
//
// # Output Path
//
// Every block passed to Write is decoded as a whole. A multibyte sequence
// cut at the end of a block completes with the next one. Each character is
// then dispatched: backspace, tab, line feed and carriage return call the
// matching screen method, bell is reported as [NotifyBell], and everything
// else (including escape sequences) goes to Screen.ShowCharacter. Only the
// low byte of a character is compared against these control codes.
//
// # Refresh
//
// Writes do not touch the display. Each block arms two timers: a fast one
// (10ms) restarted by every block, and a slow one (40ms) started only when it
// is not already pending. Whichever fires first pushes one snapshot of the
// active screen and cancels the other, so bursts of output produce a single
// refresh and continuous output still refreshes at least every 40ms:
//
//	em, _ := emulation.New(d, emulation.WithRefreshIntervals(5*time.Millisecond, 20*time.Millisecond))
//
// Nothing is pushed while disconnected; SetConnected(true) refreshes at once.
//
// # History Search
//
// FindTextNext scans logical lines (history first, then the visible rows)
// from the last match onward and scrolls the view to the next matching
// line. Literal patterns are matched with or without case folding; regular
// expressions use .NET syntax via regexp2:
//
//	em.FindTextBegin()
//	for em.FindTextNext(`error \d+`, true, false, true) {
//	    fmt.Println("match on line", em.FindPosition())
//	}
//
// # Keyboard
//
// OnKeyPress takes tcell key events and writes their text to the output set
// with [WithOutput], once SetListenToKeyPress(true) was called.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Display and Notifier callbacks run
// with the Emulation's lock held and must not call back into it.
package emulation
