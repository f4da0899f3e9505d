// Package atlas tracks allocation of positions in a 3-D GPU sprite atlas:
// z stacked 2-D textures, each xnum by ynum cells. Positions are handed out
// by monotonic append; nothing is ever freed or reused while a layout is
// current.
package atlas

import "fmt"

// Position is a coordinate within the sprite atlas.
type Position struct {
	X, Y, Z uint16
}

// Less reports whether p sorts strictly before q in (z, y, x) lexicographic
// order, the ordering the tracker's monotonic allocation guarantees.
func (p Position) Less(q Position) bool {
	if p.Z != q.Z {
		return p.Z < q.Z
	}
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// ExhaustedError reports that the tracker's current layer cursor has
// reached the installed layer limit; no further positions can be issued
// until a larger max_array_len is installed via SetLimits+SetLayout.
type ExhaustedError struct {
	Z           uint16
	MaxArrayLen int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("atlas exhausted: layer %d reached max_array_len %d", e.Z, e.MaxArrayLen)
}

// Layout is a read-only snapshot of the tight bounding volume occupied so
// far, for GPU-side texture sizing and diagnostics.
type Layout struct {
	Xnum, Ynum int
	Z          int
}

// Tracker is the sprite tracker: a process-wide singleton per renderer
// that hands out monotonically increasing (x,y,z) atlas positions.
type Tracker struct {
	maxTextureSize int
	maxArrayLen    int

	cellW, cellH int
	xnum, maxY   int
	ynum         int

	x, y, z int
}

// NewTracker returns a tracker with no limits or layout installed; callers
// must call SetLimits and SetLayout before Increment.
func NewTracker() *Tracker {
	return &Tracker{maxTextureSize: 1, maxArrayLen: 1}
}

// SetLimits installs installation-time capacity: the maximum texture
// dimension in pixels and the maximum number of atlas layers.
func (t *Tracker) SetLimits(maxTextureSize, maxArrayLen int) {
	t.maxTextureSize = maxTextureSize
	t.maxArrayLen = maxArrayLen
}

// SetLayout recomputes xnum and max_y from the installed limits and the
// given cell size, and resets the cursor to (0,0,0).
func (t *Tracker) SetLayout(cellW, cellH int) error {
	if cellW <= 0 || cellH <= 0 {
		return fmt.Errorf("atlas: bad cell layout %dx%d", cellW, cellH)
	}
	t.cellW, t.cellH = cellW, cellH
	t.xnum = clamp(t.maxTextureSize/cellW, 1, 65535)
	t.maxY = clamp(t.maxTextureSize/cellH, 1, 65535)
	t.ynum = 1
	t.x, t.y, t.z = 0, 0, 0
	return nil
}

// CurrentLayout reports the tight bounding volume occupied so far.
func (t *Tracker) CurrentLayout() Layout {
	return Layout{Xnum: t.xnum, Ynum: t.ynum, Z: t.z}
}

func (t *Tracker) zLimit() int {
	return min(65535, t.maxArrayLen)
}

// Increment assigns the current cursor position and advances the cursor
// for the next call. It fails with *ExhaustedError, without consuming a
// position, once the layer cursor has reached the installed layer limit.
func (t *Tracker) Increment() (Position, error) {
	if t.z >= t.zLimit() {
		return Position{}, &ExhaustedError{Z: uint16(t.z), MaxArrayLen: t.maxArrayLen}
	}

	pos := Position{X: uint16(t.x), Y: uint16(t.y), Z: uint16(t.z)}

	t.x++
	if t.x >= t.xnum {
		t.x = 0
		t.y++
		if t.y >= t.maxY {
			t.y = 0
			t.z++
		} else if t.y >= t.ynum {
			t.ynum = t.y + 1
		}
	}

	return pos, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
