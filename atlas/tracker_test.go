package atlas

import "testing"

func TestIncrementMonotonic(t *testing.T) {
	tr := NewTracker()
	tr.SetLimits(1000, 4)
	if err := tr.SetLayout(10, 20); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}

	var prev Position
	for i := 0; i < 50; i++ {
		pos, err := tr.Increment()
		if err != nil {
			t.Fatalf("Increment #%d: %v", i, err)
		}
		if i > 0 && !prev.Less(pos) {
			t.Fatalf("positions not strictly increasing: %v then %v", prev, pos)
		}
		prev = pos
	}
}

func TestSetLayoutResetsCursor(t *testing.T) {
	tr := NewTracker()
	tr.SetLimits(100, 4)
	if err := tr.SetLayout(10, 10); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	if _, err := tr.Increment(); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if err := tr.SetLayout(10, 10); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	pos, err := tr.Increment()
	if err != nil {
		t.Fatalf("Increment after reset: %v", err)
	}
	if pos != (Position{0, 0, 0}) {
		t.Fatalf("expected (0,0,0) after layout reset, got %v", pos)
	}
}

func TestExhaustionScenario(t *testing.T) {
	// max_texture_size = cell_w, max_array_len = 1: xnum=1, max_y=1, one layer.
	tr := NewTracker()
	tr.SetLimits(8, 1)
	if err := tr.SetLayout(8, 8); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}

	first, err := tr.Increment()
	if err != nil {
		t.Fatalf("first Increment should succeed: %v", err)
	}
	if first != (Position{0, 0, 0}) {
		t.Fatalf("expected first position (0,0,0), got %v", first)
	}

	if _, err := tr.Increment(); err == nil {
		t.Fatalf("second Increment should report atlas exhaustion")
	} else if _, ok := err.(*ExhaustedError); !ok {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}

	if _, err := tr.Increment(); err == nil {
		t.Fatalf("tracker should remain exhausted")
	}
}

func TestBadLayout(t *testing.T) {
	tr := NewTracker()
	tr.SetLimits(100, 4)
	if err := tr.SetLayout(0, 10); err == nil {
		t.Fatalf("expected error for zero cell width")
	}
}
