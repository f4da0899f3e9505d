package face

import "os"

// Source is a heavyweight, parsed font file. One Source can back multiple
// Face values at different sizes/styles; the host is expected to load
// each on-disk font file once and share the Source.
type Source struct {
	data   []byte
	parsed ParsedFont
	name   string
}

// Open loads a Source from a font file path and face index within the
// file; face index selection within TrueType collections is left to the
// parser backend.
func Open(path string, faceIndex int, opts ...SourceOption) (*Source, error) {
	// #nosec G304 -- font file path is supplied by the host's font-discovery layer
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Index: faceIndex, Reason: err}
	}
	s, err := NewSource(data, opts...)
	if err != nil {
		return nil, &OpenError{Path: path, Index: faceIndex, Reason: err}
	}
	return s, nil
}

// NewSource parses font data already in memory (TTF or OTF). The slice is
// copied internally and may be reused by the caller afterward.
func NewSource(data []byte, opts ...SourceOption) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	parsed, err := getParser(cfg.parserName).Parse(data)
	if err != nil {
		return nil, err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	s := &Source{data: dataCopy, parsed: parsed}
	s.name = extractFontName(parsed)
	return s, nil
}

// Name returns the font family name.
func (s *Source) Name() string { return s.name }

// Parsed returns the underlying ParsedFont for advanced use.
func (s *Source) Parsed() ParsedFont { return s.parsed }

// hasCodepoint reports whether the raw font file covers r, ignoring style
// fallback and without any caching.
func (s *Source) hasCodepoint(r rune) bool { return s.parsed.GlyphIndex(r) != 0 }

func extractFontName(parsed ParsedFont) string {
	if n := parsed.Name(); n != "" {
		return n
	}
	if n := parsed.FullName(); n != "" {
		return n
	}
	return "Unknown Font"
}
