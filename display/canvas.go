// Package display provides surfaces an Emulation can show its active screen
// on: an off-screen Canvas that renders frames to images, and a TCell
// surface that draws on a real terminal and feeds its input back.
package display

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"github.com/danielgatis/go-emulation/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Canvas is an off-screen display. It keeps the last frame pushed by an
// Emulation and renders it to an image on demand.
type Canvas struct {
	mu sync.Mutex

	lines   int
	columns int

	frame         []screen.Cell
	frameLines    int
	frameColumns  int
	wrapped       []bool
	cursorX       int
	cursorY       int
	scrollCursor  int
	scrollLines   int
	selectedTexts []string
	frames        int
}

// NewCanvas creates a canvas reporting the given geometry.
func NewCanvas(lines, columns int) *Canvas {
	return &Canvas{lines: lines, columns: columns}
}

// Lines returns the height reported to the Emulation.
func (c *Canvas) Lines() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines
}

// Columns returns the width reported to the Emulation.
func (c *Canvas) Columns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns
}

// Resize changes the geometry reported to the Emulation. The caller is
// expected to pass the same size to Emulation.OnImageSizeChange.
func (c *Canvas) Resize(lines, columns int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = lines
	c.columns = columns
}

// PushSnapshot stores a copy of cells as the current frame.
func (c *Canvas) PushSnapshot(cells []screen.Cell, lines, columns int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frame = append(c.frame[:0], cells...)
	c.frameLines = lines
	c.frameColumns = columns
	c.frames++
}

func (c *Canvas) SetCursorPosition(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursorX, c.cursorY = x, y
}

func (c *Canvas) SetLineWrapFlags(wrapped []bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wrapped = append(c.wrapped[:0], wrapped...)
}

func (c *Canvas) SetScrollIndicator(cursor, lines int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollCursor, c.scrollLines = cursor, lines
}

func (c *Canvas) SetSelectedText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedTexts = append(c.selectedTexts, text)
}

// Frames returns how many snapshots were pushed.
func (c *Canvas) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// CursorPosition returns the cursor of the current frame.
func (c *Canvas) CursorPosition() (x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursorX, c.cursorY
}

// ScrollIndicator returns the history cursor and history length of the current frame.
func (c *Canvas) ScrollIndicator() (cursor, lines int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollCursor, c.scrollLines
}

// LineWrapped reports whether row y of the current frame continues on the next row.
func (c *Canvas) LineWrapped(y int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if y < 0 || y >= len(c.wrapped) {
		return false
	}
	return c.wrapped[y]
}

// SelectedText returns the last text handed over by Emulation.SetSelection.
func (c *Canvas) SelectedText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selectedTexts) == 0 {
		return ""
	}
	return c.selectedTexts[len(c.selectedTexts)-1]
}

// Cell returns a copy of the frame cell at (x, y), or false if out of range.
func (c *Canvas) Cell(x, y int) (screen.Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if x < 0 || y < 0 || x >= c.frameColumns || y >= c.frameLines {
		return screen.Cell{}, false
	}
	return c.frame[y*c.frameColumns+x], true
}

// Text returns the current frame as text: one line per row with trailing
// blanks trimmed, and trailing empty rows dropped.
func (c *Canvas) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]string, c.frameLines)
	last := -1
	for y := range rows {
		var b strings.Builder
		for _, cell := range c.frame[y*c.frameColumns : (y+1)*c.frameColumns] {
			if cell.IsWideSpacer() {
				continue
			}
			if cell.Char == 0 {
				b.WriteRune(' ')
			} else {
				b.WriteRune(cell.Char)
			}
		}
		rows[y] = strings.TrimRight(b.String(), " ")
		if rows[y] != "" {
			last = y
		}
	}
	return strings.Join(rows[:last+1], "\n")
}

// FontFinder maps a font name to a file path.
type FontFinder interface {
	Find(name string) (string, error)
}

// RenderConfig controls how a frame is rendered to an image.
type RenderConfig struct {
	// Font face to use. If nil and FontName is empty, uses basicfont.Face7x13.
	Font font.Face

	// FontFinder resolves FontName to a file. Optional.
	FontFinder FontFinder
	FontName   string
	// FontSize is used with FontFinder. Default 14.
	FontSize float64

	// Cell size in pixels. Zero means measured from the face.
	CellWidth  int
	CellHeight int

	// Palette resolves cell colors. If nil, uses the default palette.
	Palette *screen.Palette

	// SelectionColor is the background of selected cells. If nil, colors are inverted.
	SelectionColor *color.RGBA

	// HideCursor disables drawing the cursor.
	HideCursor bool
}

// LoadFont reads a TrueType or OpenType file and returns a face of the
// given point size.
func LoadFont(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFontFromBytes(data, size)
}

// LoadFontFromBytes is LoadFont for fonts already in memory.
func LoadFontFromBytes(data []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	opts := opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}
	return opentype.NewFace(parsed, &opts)
}

// Image renders the current frame using default settings (basicfont, default palette).
func (c *Canvas) Image() *image.RGBA {
	return c.ImageWithConfig(&RenderConfig{})
}

// ImageWithConfig renders the current frame with a custom font, palette and cursor settings.
func (c *Canvas) ImageWithConfig(cfg *RenderConfig) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	face := cfg.Font
	if face == nil && cfg.FontFinder != nil && cfg.FontName != "" {
		size := cfg.FontSize
		if size == 0 {
			size = 14
		}
		if path, err := cfg.FontFinder.Find(cfg.FontName); err == nil {
			if loaded, err := LoadFont(path, size); err == nil {
				face = loaded
			}
		}
	}
	if face == nil {
		face = basicfont.Face7x13
	}

	cellWidth, cellHeight := cfg.CellWidth, cfg.CellHeight
	metrics := face.Metrics()
	if cellWidth == 0 {
		adv, _ := face.GlyphAdvance('M')
		cellWidth = adv.Ceil()
		if cellWidth == 0 {
			cellWidth = 7
		}
	}
	if cellHeight == 0 {
		cellHeight = metrics.Height.Ceil()
	}

	palette := cfg.Palette
	if palette == nil {
		palette = screen.NewPalette()
	}

	img := image.NewRGBA(image.Rect(0, 0, c.frameColumns*cellWidth, c.frameLines*cellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(palette.Background), image.Point{}, draw.Src)

	for y := 0; y < c.frameLines; y++ {
		for x := 0; x < c.frameColumns; x++ {
			cell := c.frame[y*c.frameColumns+x]
			if cell.IsWideSpacer() {
				continue
			}

			fg := palette.Resolve(cell.Fg, true)
			bg := palette.Resolve(cell.Bg, false)
			if cell.HasFlag(screen.CellFlagReverse) {
				fg, bg = bg, fg
			}
			if cell.HasFlag(screen.CellFlagDim) {
				fg = screen.Dim(fg)
			}
			if cell.IsSelected() {
				if cfg.SelectionColor != nil {
					bg = *cfg.SelectionColor
				} else {
					fg, bg = bg, fg
				}
			}
			if !cfg.HideCursor && x == c.cursorX && y == c.cursorY {
				fg, bg = bg, fg
			}

			width := cellWidth
			if cell.IsWide() {
				width *= 2
			}
			px, py := x*cellWidth, y*cellHeight
			rect := image.Rect(px, py, px+width, py+cellHeight)
			draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

			if cell.Char == 0 || cell.Char == ' ' || cell.HasFlag(screen.CellFlagHidden) {
				continue
			}

			baseline := py + metrics.Ascent.Ceil()
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(px, baseline),
			}
			d.DrawString(string(cell.Char))

			if cell.HasFlag(screen.CellFlagAnyUnderline) {
				ul := fg
				if cell.UnderlineColor != nil {
					ul = palette.Resolve(cell.UnderlineColor, true)
				}
				line := image.Rect(px, baseline+2, px+width, baseline+3).Intersect(img.Bounds())
				draw.Draw(img, line, image.NewUniform(ul), image.Point{}, draw.Src)
			}
			if cell.HasFlag(screen.CellFlagStrike) {
				mid := py + cellHeight/2
				draw.Draw(img, image.Rect(px, mid, px+width, mid+1), image.NewUniform(fg), image.Point{}, draw.Src)
			}
		}
	}

	return img
}
