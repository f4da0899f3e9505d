// Package fontsel resolves a terminal cell to the face that should render
// it: box-drawing and blank sentinels, symbol-map overrides, bold/italic
// style selection with fallback to medium, coverage testing, and lazy
// discovery through a bounded fallback table. The selector never
// rasterizes; it only decides which face (or sentinel) applies.
package fontsel

import (
	"github.com/gputerm/fontcore/cell"
	"github.com/gputerm/fontcore/face"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Kind tags the outcome of a Resolve call: either a real installed face or
// one of the three behavioral sentinels the run renderer handles specially.
type Kind uint8

const (
	// KindReal means Face holds a usable, owned face.Face.
	KindReal Kind = iota
	// KindBlank means the cell's codepoint is 0: render sprite (0,0,0).
	KindBlank
	// KindBox means the codepoint falls in a box-drawing range and should
	// be synthesized via the box-drawing callback rather than shaped.
	KindBox
	// KindMissing means no face (primary, symbol-mapped, or fallback)
	// covers the cell, and the fallback resolver declined or was exhausted.
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "Real"
	case KindBlank:
		return "Blank"
	case KindBox:
		return "Box"
	case KindMissing:
		return "Missing"
	default:
		return unknownStr
	}
}

// Resolution is the outcome of resolving one cell.
type Resolution struct {
	Kind Kind
	Face *face.Face // nil unless Kind == KindReal
}

// FallbackResolver discovers a face covering text under the given style,
// invoked only on a coverage miss through the installed faces and the
// existing fallback table. Returning ok=false means "no such face".
type FallbackResolver func(text string, bold, italic bool) (f *face.Face, ok bool)

// SymbolMapEntry is one (left, right inclusive, face) range. Ranges are
// tested linearly in table order; the first match wins.
type SymbolMapEntry struct {
	Left, Right rune
	Face        *face.Face
}

// maxFallbackEntries bounds the lazily populated fallback table.
const maxFallbackEntries = 256

type fallbackEntry struct {
	face         *face.Face
	bold, italic bool
}

// Selector resolves cells against one installed font configuration: the
// four style slots, a symbol map, and a growing fallback table. A Selector
// is rebuilt wholesale on every font reconfiguration.
type Selector struct {
	medium, bold, italic, boldItalic *face.Face

	symbolMap []SymbolMapEntry

	fallback         []fallbackEntry
	fallbackResolver FallbackResolver

	onFallbackExhausted func(text string, bold, italic bool)
}

// New builds a Selector from the installed style faces. medium must be
// non-nil; bold, italic, and boldItalic may be nil, in which case style
// selection falls through to medium.
func New(medium, bold, italic, boldItalic *face.Face, symbolMap []SymbolMapEntry, resolver FallbackResolver) *Selector {
	return &Selector{
		medium:           medium,
		bold:             bold,
		italic:           italic,
		boldItalic:       boldItalic,
		symbolMap:        symbolMap,
		fallbackResolver: resolver,
	}
}

// SetFallbackExhaustedHook installs a callback invoked whenever the
// fallback table is full and a further coverage miss must resolve to
// KindMissing. Intended for logging; may be nil.
func (s *Selector) SetFallbackExhaustedHook(hook func(text string, bold, italic bool)) {
	s.onFallbackExhausted = hook
}

// Resolve implements font_for_cell: the ordered decision chain from
// blank/box sentinels through style selection, coverage testing, the
// fallback table, and finally the fallback resolver callback.
func (s *Selector) Resolve(c cell.Cell) Resolution {
	if c.Ch == 0 {
		return Resolution{Kind: KindBlank}
	}
	if IsBoxDrawing(c.Ch) {
		return Resolution{Kind: KindBox}
	}

	if f := s.lookupSymbolMap(c.Ch); f != nil {
		return Resolution{Kind: KindReal, Face: f}
	}

	bold, italic := c.Bold(), c.Italic()
	styled := s.styleFace(bold, italic)
	text := c.Text()

	if styled != nil && styled.HasText(text) {
		return Resolution{Kind: KindReal, Face: styled}
	}

	if f := s.lookupFallbackTable(text, bold, italic); f != nil {
		return Resolution{Kind: KindReal, Face: f}
	}

	if s.fallbackResolver != nil {
		if f, ok := s.fallbackResolver(text, bold, italic); ok && f != nil {
			if len(s.fallback) < maxFallbackEntries {
				s.fallback = append(s.fallback, fallbackEntry{face: f, bold: bold, italic: italic})
				return Resolution{Kind: KindReal, Face: f}
			}
			if s.onFallbackExhausted != nil {
				s.onFallbackExhausted(text, bold, italic)
			}
		}
	}

	return Resolution{Kind: KindMissing}
}

// styleFace picks the face for (bold, italic), falling through to medium
// when the requested styled slot was never installed.
func (s *Selector) styleFace(bold, italic bool) *face.Face {
	switch {
	case bold && italic:
		if s.boldItalic != nil {
			return s.boldItalic
		}
	case bold:
		if s.bold != nil {
			return s.bold
		}
	case italic:
		if s.italic != nil {
			return s.italic
		}
	}
	return s.medium
}

func (s *Selector) lookupSymbolMap(ch rune) *face.Face {
	for _, entry := range s.symbolMap {
		if ch >= entry.Left && ch <= entry.Right {
			return entry.Face
		}
	}
	return nil
}

func (s *Selector) lookupFallbackTable(text string, bold, italic bool) *face.Face {
	for _, entry := range s.fallback {
		if entry.bold != bold || entry.italic != italic {
			continue
		}
		if entry.face.HasText(text) {
			return entry.face
		}
	}
	return nil
}

// FallbackCount reports how many entries have been discovered so far,
// for diagnostics and tests.
func (s *Selector) FallbackCount() int { return len(s.fallback) }
