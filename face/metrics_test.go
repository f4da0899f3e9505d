package face

import "testing"

func TestComputeCellMetricsAdjustments(t *testing.T) {
	hint := CellMetrics{Width: 8, Height: 16, Baseline: 12, UnderlinePosition: 14, UnderlineThickness: 1}

	m, err := ComputeCellMetrics(hint, 2, 0)
	if err != nil {
		t.Fatalf("ComputeCellMetrics: %v", err)
	}
	if m.Height != 18 {
		t.Errorf("Height = %d, want 18 (16 + additive 2)", m.Height)
	}

	m2, err := ComputeCellMetrics(hint, 0, 2.0)
	if err != nil {
		t.Fatalf("ComputeCellMetrics: %v", err)
	}
	if m2.Height != 32 {
		t.Errorf("Height = %d, want 32 (16 * 2.0)", m2.Height)
	}
}

func TestComputeCellMetricsOutOfBounds(t *testing.T) {
	tooSmall := CellMetrics{Width: 8, Height: 1}
	if _, err := ComputeCellMetrics(tooSmall, 0, 0); err == nil {
		t.Error("expected error for cell_height < 4")
	}

	tooBig := CellMetrics{Width: 8, Height: 2000}
	if _, err := ComputeCellMetrics(tooBig, 0, 0); err == nil {
		t.Error("expected error for cell_height > 1000")
	}

	zeroWidth := CellMetrics{Width: 0, Height: 16}
	if _, err := ComputeCellMetrics(zeroWidth, 0, 0); err == nil {
		t.Error("expected error for zero cell width")
	}
}

func TestComputeCellMetricsClampsUnderline(t *testing.T) {
	hint := CellMetrics{Width: 8, Height: 16, Baseline: 12, UnderlinePosition: 20}
	m, err := ComputeCellMetrics(hint, 0, 0)
	if err != nil {
		t.Fatalf("ComputeCellMetrics: %v", err)
	}
	if m.UnderlinePosition != m.Height-1 {
		t.Errorf("UnderlinePosition = %d, want clamped to %d", m.UnderlinePosition, m.Height-1)
	}
}
