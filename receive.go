package emulation

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// zmodemMarker follows CAN (0x18) at the start of a ZMODEM header.
var zmodemMarker = []byte("B00")

// Write feeds a block of program output. The block is decoded as one unit,
// each character is dispatched to the active screen, and a refresh is
// scheduled. Write never fails and always consumes all of p.
func (e *Emulation) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.notifier.SessionState(NotifyActivity)
	e.armLocked()

	for _, r := range e.decoder.Decode(p) {
		e.dispatch(r)
	}

	for i := bytes.IndexByte(p, 0x18); i >= 0; {
		if len(p)-i-1 > len(zmodemMarker) && bytes.HasPrefix(p[i+1:], zmodemMarker) {
			e.logger.Debug("zmodem transfer detected")
			e.notifier.ZModemDetected()
		}
		next := bytes.IndexByte(p[i+1:], 0x18)
		if next < 0 {
			break
		}
		i += next + 1
	}

	return len(p), nil
}

// WriteString is a convenience method that converts the string to bytes and calls Write.
func (e *Emulation) WriteString(s string) (int, error) {
	return e.Write([]byte(s))
}

// dispatch routes one character. Only its low byte is compared against the
// control codes; anything else reaches the screen unchanged.
func (e *Emulation) dispatch(r rune) {
	switch r & 0xff {
	case '\b':
		e.scr.BackSpace()
	case '\t':
		e.scr.Tabulate()
	case '\n':
		e.scr.NewLine()
	case '\r':
		e.scr.Return()
	case 0x07:
		e.notifier.SessionState(NotifyBell)
		if b, ok := e.scr.(bellTerminator); ok {
			b.Bell()
		}
	default:
		e.scr.ShowCharacter(r)
	}
}

// SetCodec replaces the decoder. A partially received multibyte sequence is dropped.
func (e *Emulation) SetCodec(enc encoding.Encoding) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setCodecLocked(enc)
}

// SetCodecByName replaces the decoder with one for the named encoding.
func (e *Emulation) SetCodecByName(name string) error {
	enc, err := LookupEncoding(name)
	if err != nil {
		return err
	}
	e.SetCodec(enc)
	return nil
}

// SetUTF8 selects UTF-8 (true) or the locale encoding (false).
func (e *Emulation) SetUTF8(utf8 bool) {
	if utf8 {
		e.SetCodec(unicode.UTF8)
		return
	}
	e.SetCodec(LocaleEncoding())
}

// Codec returns the encoding of the program's output.
func (e *Emulation) Codec() encoding.Encoding {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.enc
}

// IsUTF8 reports whether the program's output is read as UTF-8.
func (e *Emulation) IsUTF8() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.decoder.IsUTF8()
}

func (e *Emulation) setCodecLocked(enc encoding.Encoding) {
	if enc == nil {
		enc = unicode.UTF8
	}
	e.enc = enc
	e.decoder = NewDecoder(enc)
	e.logger.Debug("encoding changed", "encoding", EncodingName(enc))
	e.notifier.UseUTF8(e.decoder.IsUTF8())
}
