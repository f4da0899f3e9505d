// Package face: Face type. See doc.go for the package overview.
package face

import (
	"bytes"
	"sync"

	gotextfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gputerm/fontcore/atlas"
	"github.com/gputerm/fontcore/spritecache"
)

// Face binds a Source to a concrete size and (bold, italic) style and
// carries the shaping-engine handle and sprite position cache a resolved
// font needs. One Face exists per (source, style) combination a Renderer
// has installed — medium/bold/italic/bi plus any lazily discovered
// fallback faces — all sharing one atlas.Tracker so their sprite
// positions interleave correctly.
type Face struct {
	source       *Source
	bold, italic bool

	ppem       float64 // pixels per em, y axis
	xdpi, ydpi int
	hint       HintPolicy

	// coverage caches HasCodepoint results per rune so repeated style-
	// selection coverage probes (§4.E steps 5-6) don't re-query the parsed
	// font's cmap. No locking: per §5 the core is single-threaded and
	// cooperative, so a Face is never probed concurrently with itself.
	coverage map[rune]bool

	shaperOnce sync.Once
	shaperFont *gotextfont.Font
	shaperErr  error
	shaperPool sync.Pool

	// Sprites is this face's sprite position cache, assigning positions
	// from the shared tracker.
	Sprites *spritecache.Cache
}

// New returns a Face bound to source, with positions assigned from the
// shared tracker. Call SetSize before shaping or rendering.
func New(source *Source, bold, italic bool, tracker *atlas.Tracker) *Face {
	return &Face{
		source:   source,
		bold:     bold,
		italic:   italic,
		hint:     HintDefault,
		coverage: make(map[rune]bool),
		Sprites:  spritecache.New(tracker),
	}
}

// SetHintPolicy installs the hinting target used by subsequent metrics and
// advance queries.
func (f *Face) SetHintPolicy(p HintPolicy) { f.hint = p }

// Bold reports whether this face was installed for the bold style slot.
func (f *Face) Bold() bool { return f.bold }

// Italic reports whether this face was installed for the italic style slot.
func (f *Face) Italic() bool { return f.italic }

// Source returns the underlying font Source.
func (f *Face) Source() *Source { return f.source }

// SetSize sets scaled metrics from 26.6 fixed-point point sizes and a
// device DPI pair. The shaping engine receives the new scale implicitly: its
// Input.Size is supplied fresh on every Shape call, so there is no
// separate notification step to perform here.
func (f *Face) SetSize(width, height fixed.Int26_6, xdpi, ydpi int) error {
	ppemX := float64(width) / 64 * float64(xdpi) / 72
	ppemY := float64(height) / 64 * float64(ydpi) / 72
	if ppemX <= 0 || ppemY <= 0 {
		return &MetricsError{}
	}
	f.ppem = ppemY
	f.xdpi, f.ydpi = xdpi, ydpi
	return nil
}

// Ppem returns the current pixels-per-em (y axis) in effect.
func (f *Face) Ppem() float64 { return f.ppem }

// GlyphForCodepoint returns the glyph id for cp, or 0 if not covered.
func (f *Face) GlyphForCodepoint(cp rune) uint16 {
	return f.source.parsed.GlyphIndex(cp)
}

// HasCodepoint reports whether this face covers cp, caching the result
// per rune.
func (f *Face) HasCodepoint(cp rune) bool {
	if has, checked := f.coverage[cp]; checked {
		return has
	}
	has := f.source.parsed.GlyphIndex(cp) != 0
	f.coverage[cp] = has
	return has
}

// HasText reports whether every rune in s (the cell's primary codepoint
// plus any combining marks) is covered.
func (f *Face) HasText(s string) bool {
	for _, r := range s {
		if !f.HasCodepoint(r) {
			return false
		}
	}
	return true
}

// CellMetricsHint computes the raw per-face cell metrics: the cell-width
// hint from the ceiling of the widest ASCII 32..127 advance, cell height
// from ascent+descent, baseline from ascent,
// and an underline position/thickness. golang.org/x/image's sfnt backend
// does not expose the font's "post" table underline metrics, so those two
// are derived heuristically from cell geometry, as several terminal
// emulators do when the real values are unavailable.
func (f *Face) CellMetricsHint() CellMetrics {
	var maxAdvance float64
	for cp := rune(32); cp < 128; cp++ {
		gid := f.GlyphForCodepoint(cp)
		if gid == 0 {
			continue
		}
		if a := f.source.parsed.GlyphAdvance(gid, f.ppem, f.hint); a > maxAdvance {
			maxAdvance = a
		}
	}

	m := f.source.parsed.Metrics(f.ppem, f.hint)
	cellW := iceil(maxAdvance)
	cellH := iceil(m.Ascent + m.Descent)
	baseline := iceil(m.Ascent)
	underlineThk := max(1, cellH/14)
	underlinePos := baseline + iceil(m.Descent/3)

	return CellMetrics{
		Width:              cellW,
		Height:             cellH,
		Baseline:           baseline,
		UnderlinePosition:  underlinePos,
		UnderlineThickness: underlineThk,
	}
}

// Shape guesses the script and direction of text, then runs complex
// shaping over it, returning positioned glyph ids with fractional-pixel
// offsets. The language is not guessed: every run is shaped with the
// language tag "en". The
// shaping-engine handle (a parsed go-text font.Font) is created lazily
// and reused for every call against this Face.
func (f *Face) Shape(text string) ([]ShapedGlyph, error) {
	if text == "" {
		return nil, nil
	}

	f.shaperOnce.Do(func() {
		reader := bytes.NewReader(f.source.data)
		gf, err := gotextfont.ParseTTF(reader)
		if err != nil {
			f.shaperErr = &ShaperInitError{Reason: err}
			return
		}
		f.shaperFont = gf.Font
	})
	if f.shaperErr != nil {
		return nil, f.shaperErr
	}

	runes := []rune(text)
	script := detectScript(runes)
	dir := detectDirection(runes)

	goTextFace := gotextfont.NewFace(f.shaperFont)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      goTextFace,
		Size:      fixed.Int26_6(f.ppem * 64),
		Script:    script,
		Language:  language.NewLanguage("en"),
	}

	shaper, _ := f.shaperPool.Get().(*shaping.HarfbuzzShaper)
	if shaper == nil {
		shaper = &shaping.HarfbuzzShaper{}
	}
	output := shaper.Shape(input)
	f.shaperPool.Put(shaper)

	return convertGlyphs(output.Glyphs), nil
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// detectDirection classifies text direction from the bidi class of its
// first strongly-directional rune (R or AL means right-to-left), rather
// than from a fixed script allowlist, so scripts the shaper supports
// beyond Arabic/Hebrew (e.g. Thaana, N'Ko) still shape right-to-left.
func detectDirection(runes []rune) di.Direction {
	for _, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		case bidi.L:
			return di.DirectionLTR
		}
	}
	return di.DirectionLTR
}

func convertGlyphs(glyphs []shaping.Glyph) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}
	out := make([]ShapedGlyph, len(glyphs))
	var x, y float64
	for i, g := range glyphs {
		xOff := float64(g.XOffset) / 64
		yOff := float64(g.YOffset) / 64
		adv := float64(g.Advance) / 64
		out[i] = ShapedGlyph{
			GID:      uint16(g.GlyphID), //nolint:gosec // terminal fonts never exceed 16-bit glyph ids
			Cluster:  g.TextIndex(),
			X:        x + xOff,
			Y:        y + yOff,
			XAdvance: adv,
		}
		x += adv
	}
	return out
}
