package emulation

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// OnKeyPress sends the text of a key press to the output. It is ignored
// unless listening. Typing while scrolled back returns the view to the
// live screen first.
func (e *Emulation) OnKeyPress(ev *tcell.EventKey) {
	if ev == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.listen {
		return
	}

	e.notifier.SessionState(NotifyNormal)

	text := keyText(ev)
	if len(text) == 0 {
		return
	}

	if hist := e.scr.HistoryLines(); e.scr.HistoryCursor() != hist {
		e.scr.SetHistoryCursor(hist)
		e.armLocked()
	}

	if _, err := e.output.Write(text); err != nil {
		e.logger.Warn("write key press failed", "error", err)
	}
}

// keyText returns the UTF-8 bytes a key produces: the character of a rune
// key, or the control byte of a control key. Other keys produce nothing.
func keyText(ev *tcell.EventKey) []byte {
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 0:
			return nil
		case ev.Modifiers()&tcell.ModCtrl != 0 && (r >= '@' && r <= '_' || r >= 'a' && r <= 'z'):
			return []byte{byte(r) & 0x1f}
		}
		return utf8.AppendRune(nil, r)
	case k >= tcell.KeyCtrlSpace && k <= tcell.KeyCtrlUnderscore:
		// Ctrl-@ through Ctrl-_ are numbered from '@'.
		return []byte{byte(k - tcell.KeyCtrlSpace)}
	case k >= tcell.KeyNUL && k < ' ', k == tcell.KeyDEL:
		return []byte{byte(k)}
	}
	return nil
}

// Erase returns the character the terminal sends for the erase key.
func (e *Emulation) Erase() byte {
	return '\b'
}
