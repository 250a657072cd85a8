package emulation

// SetScreen makes screen n&1 active (0 primary, 1 alternate). Switching to
// the screen that is already active does nothing; otherwise the previous
// screen stops tracking a selection drag.
func (e *Emulation) SetScreen(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setScreenLocked(n)
}

func (e *Emulation) setScreenLocked(n int) {
	old := e.scr
	e.scr = e.screens[n&1]
	if e.scr != old {
		old.SetBusySelecting(false)
		e.logger.Debug("screen switched", "screen", n&1)
	}
}

// switchRequested handles a screen's request for the alternate (1) or
// primary (0) screen. It runs while a block is being dispatched.
func (e *Emulation) switchRequested(n int) {
	if n&1 == 1 {
		if p, ok := e.screens[1].(alternateScreenPreparer); ok {
			p.ClearEntireScreen()
		}
	}
	e.setScreenLocked(n)
	if n&1 == 0 {
		if r, ok := e.screens[0].(cursorRestorer); ok {
			r.RestoreCursor()
		}
	}
}

// IsAlternateScreen reports whether the alternate screen is active.
func (e *Emulation) IsAlternateScreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.scr == e.screens[1]
}

// ActiveScreen returns the screen receiving output.
func (e *Emulation) ActiveScreen() Screen {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.scr
}

// ScreenAt returns screen n&1 (0 primary, 1 alternate).
func (e *Emulation) ScreenAt(n int) Screen {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.screens[n&1]
}

// Selection changes apply to the active screen even while disconnected and
// show up with the next refresh. Only the hand-over of selected text to the
// display or the clipboard requires a connection.

// OnSelectionBegin starts a selection at cell (x, y) of the view.
func (e *Emulation) OnSelectionBegin(x, y int, columnMode bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scr.SetSelectionBegin(x, y, columnMode)
	e.armLocked()
}

// OnSelectionExtend moves the free end of the selection to cell (x, y).
func (e *Emulation) OnSelectionExtend(x, y int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scr.ExtendSelection(x, y)
	e.armLocked()
}

// SetSelection ends a selection and hands its text, if any, to the display.
func (e *Emulation) SetSelection(preserveLineBreaks bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected {
		return
	}
	if text := e.scr.SelectedText(preserveLineBreaks); text != "" {
		e.display.SetSelectedText(text)
	}
}

// CopySelection puts the selected text, with line breaks, on the clipboard.
func (e *Emulation) CopySelection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected {
		return
	}
	text := e.scr.SelectedText(true)
	if text == "" {
		return
	}
	if err := e.clipboard.WriteAll(text); err != nil {
		e.logger.Warn("copy selection failed", "error", err)
	}
}

// ClearSelection removes the selection of the active screen.
func (e *Emulation) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scr.ClearSelection()
	e.armLocked()
}

// SetBusySelecting marks that a selection drag is in progress on the active screen.
func (e *Emulation) SetBusySelecting(busy bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scr.SetBusySelecting(busy)
}

// TestIsSelected reports whether cell (x, y) of the view is selected.
func (e *Emulation) TestIsSelected(x, y int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.scr.IsSelected(x, y)
}
