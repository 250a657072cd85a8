package screen

import (
	"image/color"
	"strings"
)

// CellFlags holds the SGR rendition of a cell plus a few layout bits.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	// CellFlagWideChar marks the first column of a two-column character and
	// CellFlagWideCharSpacer the column it covers.
	CellFlagWideChar
	CellFlagWideCharSpacer
	// CellFlagSelected only appears in snapshots.
	CellFlagSelected
)

const CellFlagAnyUnderline = CellFlagUnderline | CellFlagDoubleUnderline |
	CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline

// Cell is one grid position. Nil colors stand for the display defaults.
type Cell struct {
	Char           rune
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Flags          CellFlags
}

// NewCell returns a space with default rendition.
func NewCell() Cell { return Cell{Char: ' '} }

func (c *Cell) Reset() { *c = Cell{Char: ' '} }

func (c *Cell) HasFlag(f CellFlags) bool { return c.Flags&f != 0 }

func (c *Cell) SetFlag(f CellFlags) { c.Flags |= f }

func (c *Cell) ClearFlag(f CellFlags) { c.Flags &^= f }

func (c *Cell) IsWide() bool { return c.HasFlag(CellFlagWideChar) }

func (c *Cell) IsWideSpacer() bool { return c.HasFlag(CellFlagWideCharSpacer) }

func (c *Cell) IsSelected() bool { return c.HasFlag(CellFlagSelected) }

// lineText renders cells as a string. Spacers are dropped, NULs read as
// spaces and trailing blanks are cut.
func lineText(cells []Cell) string {
	var sb strings.Builder
	for i := range cells {
		c := &cells[i]
		switch {
		case c.IsWideSpacer():
		case c.Char == 0:
			sb.WriteByte(' ')
		default:
			sb.WriteRune(c.Char)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}
