package fontcore

import (
	"github.com/gputerm/fontcore/face"
	"github.com/gputerm/fontcore/runrender"
)

// FallbackResolver is the host collaborator invoked on a coverage miss
// through the installed faces and the existing fallback table (§6
// "get_fallback_font(text_string, bold, italic) -> face | none"). It
// returns an unopened-at-size font Source; the Renderer sizes it the first
// time it is used, at the point size/DPI of the most recent SetFont call
// (a later SetFontSize does not change that size).
type FallbackResolver func(text string, bold, italic bool) (*face.Source, bool)

// SymbolMapRange is one entry of the ordered (left, right inclusive,
// font_index) symbol map (§3 "Symbol map"). FaceIndex indexes into the
// FontSetRequest's SymbolMapFaces slice.
type SymbolMapRange struct {
	Left, Right rune
	FaceIndex   int
}

// FontSetRequest is the full payload of the set_font public operation
// (§6): the host's fallback/box-drawing collaborators, the symbol map,
// and the style faces to install. This is a plain option struct rather
// than a parsed config file or flag set — configuration parsing and the
// process-level command surface are explicitly out of scope (spec.md §1)
// — matching the teacher's functional-option/config-struct idiom
// (text/options.go's sourceConfig/faceConfig).
type FontSetRequest struct {
	// Medium is required; Bold, Italic, BoldItalic may be nil, in which
	// case style selection falls through to Medium (§4.E step 4).
	Medium, Bold, Italic, BoldItalic *face.Source

	// PointSize26_6, XDPI, YDPI are the scaled-metrics inputs forwarded to
	// Face.SetSize for every face this request installs.
	PointSize26_6 int32
	XDPI, YDPI    int

	// LineHeightPx and LineHeightFrac are the host's additive/multiplicative
	// cell-height adjustments applied post-measurement (§3 "Cell metrics").
	// LineHeightFrac of 0 means "unset".
	LineHeightPx   int
	LineHeightFrac float64

	SymbolMapRanges []SymbolMapRange
	SymbolMapFaces  []*face.Source

	GetFallback FallbackResolver
	BoxDrawing  runrender.BoxDrawingFunc
}

// FontSizeRequest is the payload of the set_font_size public operation
// (§6): a point-size/DPI change against the faces already installed by
// the most recent SetFont call.
type FontSizeRequest struct {
	PointSize26_6 int32
	XDPI, YDPI    int
}
