package face

import (
	"image"

	"golang.org/x/image/vector"
)

// Bitmap is an 8-bit grayscale rasterized glyph: pointer, width, rows and
// stride, mirroring what an outline engine like FreeType exposes natively.
// This rasterizer (golang.org/x/image/vector) always produces a positive
// stride, so callers never need to handle a negative-stride bottom-up
// bitmap the way a FreeType-backed implementation would.
type Bitmap struct {
	Pix    []byte
	Width  int
	Rows   int
	Stride int

	// BearingX, BearingY are horiBearingX/horiBearingY in pixels: the
	// offset from the glyph origin to the bitmap's left/top edge.
	BearingX int
	BearingY int
}

// loadAndRenderGlyph rasterizes gid at ppem pixels-per-em into an 8-bit
// grayscale Bitmap. Hinting currently only distinguishes hinted vs
// unhinted metrics (see HintPolicy.ximageHinting).
func loadAndRenderGlyph(parsed ParsedFont, gid uint16, ppem float64) (*Bitmap, error) {
	outline, err := parsed.Outline(gid, ppem)
	if err != nil {
		return nil, err
	}
	if outline.IsEmpty() {
		return &Bitmap{}, nil
	}

	b := outline.Bounds
	left := ifloor(b.MinX)
	top := iceil(b.MaxY)
	w := iceil(b.MaxX) - left
	h := top - ifloor(b.MinY)
	if w <= 0 || h <= 0 {
		return &Bitmap{BearingX: left, BearingY: top}, nil
	}

	z := vector.NewRasterizer(w, h)
	toRaster := func(p OutlinePoint) (float32, float32) {
		return p.X - float32(left), float32(top) - p.Y
	}
	for _, seg := range outline.Segments {
		switch seg.Op {
		case OutlineOpMoveTo:
			x, y := toRaster(seg.Points[0])
			z.MoveTo(x, y)
		case OutlineOpLineTo:
			x, y := toRaster(seg.Points[0])
			z.LineTo(x, y)
		case OutlineOpQuadTo:
			cx, cy := toRaster(seg.Points[0])
			x, y := toRaster(seg.Points[1])
			z.QuadTo(cx, cy, x, y)
		case OutlineOpCubicTo:
			c1x, c1y := toRaster(seg.Points[0])
			c2x, c2y := toRaster(seg.Points[1])
			x, y := toRaster(seg.Points[2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.White, image.Point{})

	return &Bitmap{
		Pix:      mask.Pix,
		Width:    w,
		Rows:     h,
		Stride:   mask.Stride,
		BearingX: left,
		BearingY: top,
	}, nil
}

func ifloor(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}

func iceil(v float64) int {
	i := int(v)
	if float64(i) < v {
		i++
	}
	return i
}

// italicTrimThreshold is the grayscale value at or below which a column is
// considered empty for the italic-overflow trim heuristic.
const italicTrimThreshold = 200

// trimItalicOverflow discards up to `overflow` columns from the right edge
// of bmp, stopping at the first non-empty column. The bitmap's Width/Pix
// view shrinks in place; placement then naturally skips the discarded
// columns since it only ever reads bmp.Width columns.
func trimItalicOverflow(bmp *Bitmap, overflow int) {
	trimmed := 0
	for trimmed < overflow && bmp.Width > 0 {
		col := bmp.Width - 1
		empty := true
		for row := 0; row < bmp.Rows; row++ {
			if bmp.Pix[row*bmp.Stride+col] > italicTrimThreshold {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		bmp.Width--
		trimmed++
	}
}

// RenderGlyph runs the full rasterization pipeline: load, trim or rescale
// an oversized bitmap to fit num_cells*cell_width, then blit it into dst
// (a (cell_width*num_cells) x cell_height row-major byte canvas) with
// wraparound additive blending. xOffset/yOffset are the shaper's per-glyph
// fractional pixel offsets for this glyph.
func (f *Face) RenderGlyph(dst []byte, cellW, cellH, numCells int, baseline int, gid uint16, xOffset, yOffset float64) error {
	maxWidth := cellW * numCells

	bmp, err := loadAndRenderGlyph(f.source.parsed, gid, f.ppem)
	if err != nil {
		return err
	}
	if bmp.Width == 0 || bmp.Rows == 0 {
		return nil
	}

	if bmp.Width > maxWidth {
		overflow := bmp.Width - maxWidth
		switch {
		case f.italic && overflow < cellW/2:
			trimItalicOverflow(bmp, overflow)
		case overflow > max(2, cellW/3):
			ar := float64(maxWidth) / float64(bmp.Width)
			prevPpem := f.ppem
			f.ppem = f.ppem * ar
			rescaled, rerr := loadAndRenderGlyph(f.source.parsed, gid, f.ppem)
			f.ppem = prevPpem
			if rerr == nil && rescaled.Width > 0 {
				bmp = rescaled
			}
			// else: fall through and accept the original overflow.
		default:
			// Overflow accepted; clipped during placement below.
		}
	}

	dx := int(xOffset) + bmp.BearingX
	srcColStart := 0
	if dx < 0 {
		srcColStart = -dx
		dx = 0
	}
	if dx+(bmp.Width-srcColStart) > maxWidth {
		shift := dx + (bmp.Width - srcColStart) - maxWidth
		dx -= shift
		if dx < 0 {
			dx = 0
		}
	}

	effectiveY := int(yOffset) + bmp.BearingY
	dyTop := baseline - effectiveY
	if effectiveY > baseline {
		dyTop = 0
	}

	for sr := 0; sr < bmp.Rows; sr++ {
		dr := dyTop + sr
		if dr < 0 || dr >= cellH {
			continue
		}
		for sc := srcColStart; sc < bmp.Width; sc++ {
			dc := dx + (sc - srcColStart)
			if dc < 0 || dc >= maxWidth {
				continue
			}
			srcVal := bmp.Pix[sr*bmp.Stride+sc]
			di := dr*maxWidth + dc
			dst[di] = byte(int(dst[di]) + int(srcVal))
		}
	}

	return nil
}

// SplitCells decomposes a (numCells*cellW) x cellH canvas into numCells
// individual cellW x cellH buffers by column-slicing. Used to place a
// wide glyph into one GPU sprite per cell.
func SplitCells(canvas []byte, cellW, cellH, numCells int) [][]byte {
	totalW := cellW * numCells
	out := make([][]byte, numCells)
	for i := 0; i < numCells; i++ {
		cell := make([]byte, cellW*cellH)
		for row := 0; row < cellH; row++ {
			srcOff := row*totalW + i*cellW
			dstOff := row * cellW
			copy(cell[dstOff:dstOff+cellW], canvas[srcOff:srcOff+cellW])
		}
		out[i] = cell
	}
	return out
}
