package face

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Rect is an axis-aligned rectangle used for glyph and outline bounds.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}
