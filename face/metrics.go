package face

import "math"

// CellMetrics is the global cell geometry derived from the medium face.
// Width/Height/Baseline are in pixels.
type CellMetrics struct {
	Width              int
	Height             int
	Baseline           int
	UnderlinePosition  int
	UnderlineThickness int
}

// ComputeCellMetrics applies the host's additive (lineHeightPx) and
// multiplicative (lineHeightFrac, 0 meaning "unset") adjustments to a raw
// per-face hint and enforces the accepted bound: 4 <= cell_height <= 1000,
// underline_position clamped to cell_height-1.
func ComputeCellMetrics(hint CellMetrics, lineHeightPx int, lineHeightFrac float64) (CellMetrics, error) {
	h := hint.Height
	if lineHeightFrac > 0 {
		h = int(math.Round(float64(h) * lineHeightFrac))
	}
	h += lineHeightPx

	if h < 4 || h > 1000 || hint.Width <= 0 {
		return CellMetrics{}, &MetricsError{CellWidth: hint.Width, CellHeight: h}
	}

	underline := hint.UnderlinePosition
	if underline >= h {
		underline = h - 1
	}

	return CellMetrics{
		Width:              hint.Width,
		Height:             h,
		Baseline:           hint.Baseline,
		UnderlinePosition:  underline,
		UnderlineThickness: hint.UnderlineThickness,
	}, nil
}
