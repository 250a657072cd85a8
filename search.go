package emulation

import (
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
)

// FindTextBegin starts a new search: the next FindTextNext scans from the
// first line (forward) or the last line (backward).
func (e *Emulation) FindTextBegin() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.findPos = -1
}

// FindPosition returns the logical line of the last match, or -1.
func (e *Emulation) FindPosition() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.findPos
}

// FindTextNext searches the history and visible lines of the active screen
// for pattern, starting just after (forward) or before the last match. On a
// match the view scrolls to the matching line and true is returned. The
// search does not wrap around.
//
// With regExp set, pattern is a regular expression; an invalid expression
// matches nothing.
func (e *Emulation) FindTextNext(pattern string, forward, caseSensitive, regExp bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	match, ok := e.lineMatcher(pattern, caseSensitive, regExp)
	if !ok {
		return false
	}

	hist := e.scr.HistoryLines()
	total := hist + e.scr.Lines()

	if forward {
		start := 0
		if e.findPos != -1 {
			start = e.findPos + 1
		}
		for i := start; i < total; i++ {
			if match(e.scr.HistoryLine(i)) {
				e.foundLocked(i, hist)
				return true
			}
		}
		return false
	}

	start := total
	if e.findPos != -1 {
		start = e.findPos - 1
	}
	for i := start; i >= 0; i-- {
		if i >= total {
			continue
		}
		if match(e.scr.HistoryLine(i)) {
			e.foundLocked(i, hist)
			return true
		}
	}
	return false
}

func (e *Emulation) foundLocked(i, hist int) {
	e.findPos = i
	e.scr.SetHistoryCursor(min(i, hist))
	e.armLocked()
}

// lineMatcher compiles pattern into a predicate over line text.
func (e *Emulation) lineMatcher(pattern string, caseSensitive, regExp bool) (func(string) bool, bool) {
	if regExp {
		opts := regexp2.None
		if !caseSensitive {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(pattern, opts)
		if err != nil {
			e.logger.Debug("invalid search pattern", "pattern", pattern, "error", err)
			return nil, false
		}
		return func(line string) bool {
			ok, err := re.MatchString(line)
			return err == nil && ok
		}, true
	}

	if caseSensitive {
		return func(line string) bool {
			return strings.Contains(line, pattern)
		}, true
	}

	fold := cases.Fold()
	needle := fold.String(pattern)
	return func(line string) bool {
		return strings.Contains(fold.String(line), needle)
	}, true
}
