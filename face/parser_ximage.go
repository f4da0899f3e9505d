package face

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageParser implements Parser using golang.org/x/image/font/opentype.
type ximageParser struct{}

func (p *ximageParser) Parse(data []byte) (ParsedFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("face: failed to parse font: %w", err)
	}
	return &ximageParsedFont{font: f}, nil
}

// ximageParsedFont implements ParsedFont using sfnt.Font, identified by
// glyph index throughout (the core never shapes by rune past the initial
// coverage lookup).
type ximageParsedFont struct {
	font *opentype.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

func (f *ximageParsedFont) Name() string {
	if s, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil && s != "" {
		return s
	}
	return ""
}

func (f *ximageParsedFont) FullName() string {
	if s, err := f.font.Name(nil, sfnt.NameIDFull); err == nil && s != "" {
		return s
	}
	return ""
}

func (f *ximageParsedFont) NumGlyphs() int { return f.font.NumGlyphs() }

func (f *ximageParsedFont) UnitsPerEm() int { return int(f.font.UnitsPerEm()) }

func (f *ximageParsedFont) GlyphIndex(r rune) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return uint16(idx)
}

func (f *ximageParsedFont) GlyphAdvance(glyphIndex uint16, ppem float64, hint HintPolicy) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, err := f.font.GlyphAdvance(&f.buf, sfnt.GlyphIndex(glyphIndex), ptToFixed(ppem), hint.ximageHinting())
	if err != nil {
		return 0
	}
	return fixedToFloat64(adv)
}

func (f *ximageParsedFont) Metrics(ppem float64, hint HintPolicy) FontMetrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.font.Metrics(&f.buf, ptToFixed(ppem), hint.ximageHinting())
	if err != nil {
		return FontMetrics{}
	}
	ascent := fixedToFloat64(m.Ascent)
	descent := fixedToFloat64(m.Descent)
	return FontMetrics{
		Ascent:    ascent,
		Descent:   descent,
		LineGap:   fixedToFloat64(m.Height) - ascent - descent,
		XHeight:   fixedToFloat64(m.XHeight),
		CapHeight: fixedToFloat64(m.CapHeight),
	}
}

func (f *ximageParsedFont) Outline(glyphIndex uint16, ppem float64) (*GlyphOutline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	segs, err := f.font.LoadGlyph(&f.buf, sfnt.GlyphIndex(glyphIndex), ptToFixed(ppem), nil)
	if err != nil {
		return nil, fmt.Errorf("face: load glyph %d: %w", glyphIndex, err)
	}

	advance, _ := f.font.GlyphAdvance(&f.buf, sfnt.GlyphIndex(glyphIndex), ptToFixed(ppem), HintDefault.ximageHinting())

	out := &GlyphOutline{GID: glyphIndex, Advance: float32(fixedToFloat64(advance))}
	if len(segs) == 0 {
		return out, nil
	}

	out.Segments = make([]OutlineSegment, 0, len(segs))
	minX, minY := float64(1e9), float64(1e9)
	maxX, maxY := float64(-1e9), float64(-1e9)

	track := func(p OutlinePoint) {
		x, y := float64(p.X), float64(p.Y)
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, seg := range segs {
		var o OutlineSegment
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			o.Op = OutlineOpMoveTo
			o.Points[0] = fixedPoint(seg.Args[0])
			track(o.Points[0])
		case sfnt.SegmentOpLineTo:
			o.Op = OutlineOpLineTo
			o.Points[0] = fixedPoint(seg.Args[0])
			track(o.Points[0])
		case sfnt.SegmentOpQuadTo:
			o.Op = OutlineOpQuadTo
			o.Points[0] = fixedPoint(seg.Args[0])
			o.Points[1] = fixedPoint(seg.Args[1])
			track(o.Points[0])
			track(o.Points[1])
		case sfnt.SegmentOpCubeTo:
			o.Op = OutlineOpCubicTo
			o.Points[0] = fixedPoint(seg.Args[0])
			o.Points[1] = fixedPoint(seg.Args[1])
			o.Points[2] = fixedPoint(seg.Args[2])
			track(o.Points[0])
			track(o.Points[1])
			track(o.Points[2])
		}
		out.Segments = append(out.Segments, o)
	}

	out.Bounds = Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	return out, nil
}

func fixedPoint(p fixed.Point26_6) OutlinePoint {
	return OutlinePoint{X: float32(p.X) / 64, Y: float32(p.Y) / 64}
}

func fixedToFloat64(x fixed.Int26_6) float64 { return float64(x) / 64 }

func ptToFixed(ppem float64) fixed.Int26_6 { return fixed.Int26_6(ppem * 64) }
