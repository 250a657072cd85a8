package screen

import "image/color"

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15), 216 color cube (16-231), 24 grayscale (232-255).
var DefaultPalette = buildPalette([16]color.RGBA{
	// Standard colors (0-7)
	{0, 0, 0, 255},       // Black
	{178, 24, 24, 255},   // Red
	{24, 178, 24, 255},   // Green
	{178, 104, 24, 255},  // Yellow
	{24, 24, 178, 255},   // Blue
	{178, 24, 178, 255},  // Magenta
	{24, 178, 178, 255},  // Cyan
	{178, 178, 178, 255}, // White

	// Bright colors (8-15)
	{104, 104, 104, 255}, // Bright Black
	{255, 84, 84, 255},   // Bright Red
	{84, 255, 84, 255},   // Bright Green
	{255, 255, 84, 255},  // Bright Yellow
	{84, 84, 255, 255},   // Bright Blue
	{255, 84, 255, 255},  // Bright Magenta
	{84, 255, 255, 255},  // Bright Cyan
	{255, 255, 255, 255}, // Bright White
})

// buildPalette extends the 16 named colors with the 6x6x6 cube and the
// gray ramp.
func buildPalette(named [16]color.RGBA) [256]color.RGBA {
	var p [256]color.RGBA
	copy(p[:], named[:])

	for i := 0; i < 216; i++ {
		r, g, b := i/36, i/6%6, i%6
		p[16+i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p[232+j] = color.RGBA{gray, gray, gray, 255}
	}
	return p
}

// DefaultForeground is the default text color.
var DefaultForeground = color.RGBA{178, 178, 178, 255}

// DefaultBackground is the default background color.
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// Named color indices for semantic colors (used with NamedColor).
const (
	NamedColorForeground       = 256
	NamedColorBackground       = 257
	NamedColorCursor           = 258
	NamedColorDimBlack         = 259
	NamedColorDimWhite         = 266
	NamedColorBrightForeground = 267
	NamedColorDimForeground    = 268
)

// IndexedColor references a color by palette index (0-255).
// Resolution to RGBA happens at render time using a palette.
type IndexedColor struct {
	Index int
}

// RGBA implements color.Color with a placeholder; use ResolveColor for the real value.
func (c *IndexedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// NamedColor references a color by semantic name (foreground, background, cursor, ...).
type NamedColor struct {
	Name int
}

// RGBA implements color.Color with a placeholder; use ResolveColor for the real value.
func (c *NamedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// Palette resolves cell colors to concrete RGBA values.
type Palette struct {
	Colors     [256]color.RGBA
	Foreground color.RGBA
	Background color.RGBA
}

// NewPalette returns a palette initialized from the package defaults.
func NewPalette() *Palette {
	return &Palette{
		Colors:     DefaultPalette,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// ResolveColor converts c to RGBA with the default palette.
// fg selects which default applies when c is nil or unknown.
func ResolveColor(c color.Color, fg bool) color.RGBA {
	return defaultPalette.Resolve(c, fg)
}

var defaultPalette = NewPalette()

// Resolve converts c to RGBA using this palette.
func (p *Palette) Resolve(c color.Color, fg bool) color.RGBA {
	if c == nil {
		return p.fallback(fg)
	}

	switch v := c.(type) {
	case color.RGBA:
		return v
	case *IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return p.Colors[v.Index]
		}
		return p.fallback(fg)
	case *NamedColor:
		return p.resolveNamed(v.Name, fg)
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
}

func (p *Palette) resolveNamed(name int, fg bool) color.RGBA {
	switch {
	case name >= 0 && name < 16:
		return p.Colors[name]
	case name == NamedColorForeground, name == NamedColorCursor:
		return p.Foreground
	case name == NamedColorBackground:
		return p.Background
	case name >= NamedColorDimBlack && name <= NamedColorDimWhite:
		return dim(p.Colors[name-NamedColorDimBlack])
	case name == NamedColorBrightForeground:
		return p.Colors[15]
	case name == NamedColorDimForeground:
		return dim(p.Foreground)
	default:
		return p.fallback(fg)
	}
}

func (p *Palette) fallback(fg bool) color.RGBA {
	if fg {
		return p.Foreground
	}
	return p.Background
}

// dim scales a color to two thirds of its intensity.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.66),
		G: uint8(float64(c.G) * 0.66),
		B: uint8(float64(c.B) * 0.66),
		A: c.A,
	}
}

// Dim returns c at two thirds of its intensity, as used for the SGR dim attribute.
func Dim(c color.RGBA) color.RGBA {
	return dim(c)
}
