package emulation

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder converts byte blocks in one text encoding to characters. A
// multibyte sequence cut at the end of a block is kept and completed by the
// next call.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	enc     encoding.Encoding
	t       transform.Transformer
	pending []byte
	dst     []byte
}

// NewDecoder creates a decoder for enc. A nil enc selects UTF-8.
func NewDecoder(enc encoding.Encoding) *Decoder {
	if enc == nil {
		enc = unicode.UTF8
	}
	t := enc.NewDecoder()
	t.Reset()
	return &Decoder{
		enc: enc,
		t:   t,
		dst: make([]byte, 4096),
	}
}

// Encoding returns the encoding the decoder is bound to.
func (d *Decoder) Encoding() encoding.Encoding {
	return d.enc
}

// IsUTF8 reports whether the decoder reads UTF-8.
func (d *Decoder) IsUTF8() bool {
	return isUTF8(d.enc)
}

// Decode converts a whole block and returns its characters.
func (d *Decoder) Decode(p []byte) []rune {
	src := p
	if len(d.pending) > 0 {
		src = append(d.pending, p...)
		d.pending = nil
	}

	runes := make([]rune, 0, len(src))
	for len(src) > 0 {
		nDst, nSrc, err := d.t.Transform(d.dst, src, false)
		runes = appendRunes(runes, d.dst[:nDst])
		src = src[nSrc:]

		switch {
		case err == nil:
			return runes
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append([]byte(nil), src...)
			return runes
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				d.dst = make([]byte, 2*len(d.dst))
			}
		default:
			// Malformed input the transformer refuses to replace.
			runes = append(runes, utf8.RuneError)
			src = src[1:]
			d.t.Reset()
		}
	}
	return runes
}

func appendRunes(runes []rune, b []byte) []rune {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return runes
}

// LookupEncoding resolves an encoding by its WHATWG/IANA name or label,
// such as "utf-8", "iso-8859-1", "shift_jis" or "koi8-r".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// EncodingName returns the canonical name of enc, or "" if it has none.
func EncodingName(enc encoding.Encoding) string {
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

// LocaleEncoding returns the character encoding of the current locale, taken
// from the first of LC_ALL, LC_CTYPE and LANG that is set. It falls back to
// UTF-8 when the locale names no charset or an unknown one.
func LocaleEncoding() encoding.Encoding {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		if enc, err := LookupEncoding(localeCharset(value)); err == nil {
			return enc
		}
		break
	}
	return unicode.UTF8
}

// localeCharset extracts the charset of a locale name: "de_DE.ISO-8859-1@euro" -> "ISO-8859-1".
func localeCharset(locale string) string {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	i := strings.IndexByte(locale, '.')
	if i < 0 {
		return ""
	}
	return locale[i+1:]
}

func isUTF8(enc encoding.Encoding) bool {
	if enc == unicode.UTF8 {
		return true
	}
	return EncodingName(enc) == "utf-8"
}
