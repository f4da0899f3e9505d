// Package cell defines the terminal cell type consumed by the rendering
// core and the bit layout of its attrs field.
package cell

// Attribute bit positions within Cell.Attrs, per the host's cell format.
// BoldShift and ItalicShift sit above the low 2 bits WidthMask occupies
// so a double-wide cell (width field == 2, i.e. bit 1 set) never aliases
// the bold bit.
const (
	WidthMask   = 0x3
	BoldShift   = 2
	ItalicShift = 3
)

// CCMask isolates one 16-bit combining-mark slot out of a 32-bit cc field.
const CCMask = 0xffff

// MissingGlyph is the reserved sprite-atlas x coordinate used for the
// missing-glyph sentinel position (MissingGlyph, 0, 0).
const MissingGlyph = 0xffff

// Cell is one character position in the terminal grid. The core only
// reads Ch, CC and Attrs; it writes SpriteX/SpriteY/SpriteZ back.
type Cell struct {
	Ch    rune
	CC    uint32
	Attrs uint16

	SpriteX uint16
	SpriteY uint16
	SpriteZ uint16
}

// Bold reports whether the bold attribute bit is set.
func (c Cell) Bold() bool { return c.Attrs&(1<<BoldShift) != 0 }

// Italic reports whether the italic attribute bit is set.
func (c Cell) Italic() bool { return c.Attrs&(1<<ItalicShift) != 0 }

// Width returns the low WIDTH_MASK bits of attrs: 2 means this cell starts
// a double-wide glyph whose continuation is the next cell.
func (c Cell) Width() int { return int(c.Attrs & WidthMask) }

// DoubleWide reports whether this cell is the first half of a wide glyph.
func (c Cell) DoubleWide() bool { return c.Width() == 2 }

// CombiningMarks unpacks cc into its two 16-bit slots. The second is zero
// when absent.
func (c Cell) CombiningMarks() (first, second uint16) {
	first = uint16(c.CC & CCMask)
	second = uint16((c.CC >> 16) & CCMask)
	return
}

// Text renders the cell's codepoint plus any combining marks as a string,
// the form passed to the fallback-font resolver and the shaper.
func (c Cell) Text() string {
	first, second := c.CombiningMarks()
	runes := make([]rune, 1, 3)
	runes[0] = c.Ch
	if first != 0 {
		runes = append(runes, rune(first))
	}
	if second != 0 {
		runes = append(runes, rune(second))
	}
	return string(runes)
}

// SetSprite writes back the assigned atlas position.
func (c *Cell) SetSprite(x, y, z uint16) {
	c.SpriteX, c.SpriteY, c.SpriteZ = x, y, z
}

// SetBlankSprite writes the blank-cell sentinel position (0,0,0).
func (c *Cell) SetBlankSprite() { c.SetSprite(0, 0, 0) }

// SetMissingSprite writes the missing-glyph sentinel position.
func (c *Cell) SetMissingSprite() { c.SetSprite(MissingGlyph, 0, 0) }
