// Package screen implements a VT-style screen model: a grid of cells, a
// cursor, scrollback history, and a selection.
//
// A Screen is fed one character at a time through ShowCharacter. Printable
// characters are drawn at the cursor; escape sequences (cursor motion, erase,
// SGR attributes, scrolling regions, modes) are assembled across calls by an
// internal go-ansicode parser. The four most common control characters have
// dedicated methods (BackSpace, Tabulate, NewLine, Return) so a caller that
// already recognizes them can skip the parser.
//
// # Logical lines
//
// History lines and visible rows form one sequence of logical lines: indices
// [0, HistoryLines()) are history, oldest first, followed by the Lines()
// visible rows. The history cursor is the logical index of the first line
// shown by Snapshot; it equals HistoryLines() when the live screen is shown
// and follows new output while it stays there.
//
// # History
//
// Lines scrolled off the top of the screen are kept according to a
// HistoryPolicy:
//
//	s := screen.New(24, 80, screen.WithHistory(screen.FixedHistory(1000)))
//	s.SetScrollPolicy(screen.UnlimitedHistory())
//
// # Selection
//
// Selection coordinates passed to SetSelectionBegin, ExtendSelection and
// IsSelected are viewport cells (x = column, y = row relative to the history
// cursor). The selection itself is kept on logical lines so it stays on the
// same text while the view scrolls.
//
// # Alternate screen
//
// A Screen does not own a second grid. When the application enables mode
// 1049 the screen saves its cursor and calls the handler registered with
// SetSwitchHandler with 1; disabling the mode calls it with 0. The owner of
// the screen pair decides what to show.
//
// Screen is not safe for concurrent use.
package screen
