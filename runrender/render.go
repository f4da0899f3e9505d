// Package runrender implements the Run Renderer (§4.F): it walks a line
// of cells, partitions it into maximal runs sharing one font-selection
// outcome, and for each run either shapes+rasterizes, emits blanks,
// emits missing-glyph markers, or delegates to box-glyph synthesis.
package runrender

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gputerm/fontcore/atlas"
	"github.com/gputerm/fontcore/cell"
	"github.com/gputerm/fontcore/corelog"
	ffont "github.com/gputerm/fontcore/face"
	"github.com/gputerm/fontcore/fontsel"
	"github.com/gputerm/fontcore/sink"
	"github.com/gputerm/fontcore/spritecache"
)

// BoxDrawingFunc synthesizes a pre-rendered cell_width*cell_height bitmap
// for a box-drawing/powerline codepoint. It is the host collaborator
// named in §6 ("box_drawing(codepoint) -> bitmap_buffer").
type BoxDrawingFunc func(ch rune) ([]byte, error)

// maxExtraGlyphs bounds how many combining-mark glyphs are packed into a
// sprite cache key's 64-bit Extra field (16 bits per glyph id). The cell
// model only ever carries two combining marks (§3 "cc" field), so this
// comfortably covers every cluster the shaper can produce from one cell's
// text, with headroom for an extra ligature component.
const maxExtraGlyphs = 4

// Runner is the Run Renderer: a process-wide singleton (per the
// concurrency model, §5) that owns the box-glyph sprite cache and the
// scratch canvas, and assigns positions from a shared atlas.Tracker so
// real-face sprites, box sprites, and prerendered sprites all interleave
// correctly in (z,y,x) order.
type Runner struct {
	tracker    *atlas.Tracker
	boxCache   *spritecache.Cache
	boxDrawing BoxDrawingFunc

	metrics ffont.CellMetrics
	scratch canvas
}

// New returns a Runner assigning positions from tracker. Call SetMetrics
// before RenderLine.
func New(tracker *atlas.Tracker) *Runner {
	return &Runner{
		tracker:  tracker,
		boxCache: spritecache.New(tracker),
	}
}

// SetBoxDrawing installs the host's box-drawing synthesis callback.
func (r *Runner) SetBoxDrawing(fn BoxDrawingFunc) { r.boxDrawing = fn }

// SetMetrics installs the current cell geometry, resizing the scratch
// canvas if needed, and clears the box-glyph cache since any previously
// assigned box positions are only valid under the layout they were
// issued against.
func (r *Runner) SetMetrics(m ffont.CellMetrics) {
	r.metrics = m
	r.scratch.resize(m.Width, m.Height)
	r.boxCache.Clear()
}

// Metrics returns the currently installed cell geometry.
func (r *Runner) Metrics() ffont.CellMetrics { return r.metrics }

// RenderLine is render_line (§6): the main per-frame entry point. It
// partitions cells into runs via sel, and for each run shapes/rasterizes,
// blanks, marks missing, or synthesizes box glyphs. An *atlas.ExhaustedError
// returned here means the run at the offending cell was not fully
// written; per §8 scenario 6, the offending cell and everything after it
// on the line are set to the missing-glyph sentinel before the error is
// returned, so the line's sprites stay within the documented invariant
// even though the atlas cannot accept more positions this configuration.
func (r *Runner) RenderLine(cells []cell.Cell, sel *fontsel.Selector) error {
	n := len(cells)
	i := 0
	for i < n {
		res := sel.Resolve(cells[i])
		run := []int{i}
		j := advance(cells, i)
		for j < n {
			next := sel.Resolve(cells[j])
			if !sameRun(res, next) {
				break
			}
			run = append(run, j)
			j = advance(cells, j)
		}
		// Pre-mark the run missing: closeRun overwrites every cell it
		// finishes, so on exhaustion only the offending cell and the run
		// cells it never reached keep the sentinel.
		r.setRunMissing(cells, run)
		if err := r.closeRun(cells, run, res); err != nil {
			var exhausted *atlas.ExhaustedError
			if errors.As(err, &exhausted) {
				for k := j; k < n; k++ {
					cells[k].SetMissingSprite()
				}
			}
			return err
		}
		i = j
	}
	return nil
}

// advance returns the index of the next logical cell after idx, skipping
// idx's continuation half if it is double-wide.
func advance(cells []cell.Cell, idx int) int {
	if cells[idx].DoubleWide() {
		return idx + 2
	}
	return idx + 1
}

// sameRun reports whether two resolutions belong to the same run: equal
// sentinel kind, or equal kind and identical installed face for KindReal.
func sameRun(a, b fontsel.Resolution) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == fontsel.KindReal {
		return a.Face == b.Face
	}
	return true
}

// span returns the grid cell indices a logical cell at idx occupies: one,
// or two for a double-wide glyph's continuation.
func span(cells []cell.Cell, idx int) []int {
	if cells[idx].DoubleWide() {
		return []int{idx, idx + 1}
	}
	return []int{idx}
}

func (r *Runner) closeRun(cells []cell.Cell, run []int, res fontsel.Resolution) error {
	switch res.Kind {
	case fontsel.KindBlank:
		r.setRunBlank(cells, run)
		return nil
	case fontsel.KindMissing:
		r.setRunMissing(cells, run)
		return nil
	case fontsel.KindBox:
		return r.closeRunBox(cells, run)
	default:
		return r.closeRunReal(cells, run, res.Face)
	}
}

func (r *Runner) setRunBlank(cells []cell.Cell, run []int) {
	for _, idx := range run {
		r.setSpanBlank(cells, idx)
	}
}

func (r *Runner) setRunMissing(cells []cell.Cell, run []int) {
	for _, idx := range run {
		for _, i := range span(cells, idx) {
			cells[i].SetMissingSprite()
		}
	}
}

func (r *Runner) setSpanBlank(cells []cell.Cell, idx int) {
	for _, i := range span(cells, idx) {
		cells[i].SetBlankSprite()
	}
}

func (r *Runner) setSpanSprite(cells []cell.Cell, idx int, pos atlas.Position) {
	for _, i := range span(cells, idx) {
		cells[i].SetSprite(pos.X, pos.Y, pos.Z)
	}
}

// closeRunBox synthesizes each box-drawing/powerline cell in run via the
// box-drawing callback, caching by the small synthetic glyph id BoxGlyphID
// assigns (§4.F "closing a box run").
func (r *Runner) closeRunBox(cells []cell.Cell, run []int) error {
	for _, idx := range run {
		ch := cells[idx].Ch
		key := spritecache.Key{Glyph: fontsel.BoxGlyphID(ch)}
		entry, _, err := r.boxCache.Lookup(key)
		if err != nil {
			return err
		}
		if !entry.Rendered() {
			if r.boxDrawing == nil {
				corelog.Logger().Warn("runrender: no box-drawing callback installed", "ch", ch)
				r.setSpanBlank(cells, idx)
				continue
			}
			buf, berr := r.boxDrawing(ch)
			if berr != nil {
				corelog.Logger().Warn("runrender: box-drawing callback failed", "ch", ch, "err", berr)
				r.setSpanBlank(cells, idx)
				continue
			}
			pos := entry.Position()
			sink.Upload(pos.X, pos.Y, pos.Z, buf)
			entry.MarkRendered()
		}
		r.setSpanSprite(cells, idx, entry.Position())
	}
	return nil
}

// cellRange is a [start,end) rune-index range within the run's
// concatenated shaping text, mapping back to the originating logical
// cell index.
type cellRange struct {
	start, end int
	idx        int
}

// closeRunReal shapes the run's concatenated text against face and
// rasterizes each resulting cluster (§4.F "closing a run with a real
// face").
func (r *Runner) closeRunReal(cells []cell.Cell, run []int, face *ffont.Face) error {
	var sb strings.Builder
	ranges := make([]cellRange, 0, len(run))
	offset := 0
	for _, idx := range run {
		text := cells[idx].Text()
		n := utf8.RuneCountInString(text)
		ranges = append(ranges, cellRange{start: offset, end: offset + n, idx: idx})
		sb.WriteString(text)
		offset += n
	}

	shaped, err := face.Shape(sb.String())
	if err != nil {
		corelog.Logger().Warn("runrender: shaping failed, blanking run", "err", err)
		r.setRunBlank(cells, run)
		return nil
	}

	written := make(map[int]bool, len(run))
	i := 0
	for i < len(shaped) {
		owner := ownerOf(ranges, shaped[i].Cluster)
		j := i + 1
		for j < len(shaped) && ownerOf(ranges, shaped[j].Cluster) == owner {
			j++
		}
		if err := r.renderCluster(cells, owner, shaped[i:j], face); err != nil {
			return err
		}
		written[owner] = true
		i = j
	}

	for _, idx := range run {
		if !written[idx] {
			r.setSpanBlank(cells, idx)
		}
	}
	return nil
}

func ownerOf(ranges []cellRange, cluster int) int {
	for _, rg := range ranges {
		if cluster >= rg.start && cluster < rg.end {
			return rg.idx
		}
	}
	if len(ranges) == 0 {
		return 0
	}
	return ranges[len(ranges)-1].idx
}

// renderCluster rasterizes one cell's worth of shaped glyphs (the primary
// glyph plus any combining marks sharing its cluster) into the scratch
// canvas, looks up its sprite cache entry (or entries, for a double-wide
// cell's left/right halves), uploads on a miss, and writes the resolved
// position(s) back into cells.
func (r *Runner) renderCluster(cells []cell.Cell, originIdx int, glyphs []ffont.ShapedGlyph, face *ffont.Face) error {
	nz := make([]ffont.ShapedGlyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.GID != 0 {
			nz = append(nz, g)
		}
	}
	if len(nz) == 0 {
		r.setSpanBlank(cells, originIdx)
		return nil
	}

	numCells := 1
	if cells[originIdx].DoubleWide() {
		numCells = 2
	}

	primary := nz[0]
	extra := packExtra(nz[1:])

	leftEntry, _, err := face.Sprites.Lookup(spritecache.Key{Glyph: uint32(primary.GID), Extra: extra})
	if err != nil {
		return err
	}
	var rightEntry *spritecache.Entry
	if numCells == 2 {
		rightEntry, _, err = face.Sprites.Lookup(spritecache.Key{Glyph: uint32(primary.GID), Extra: extra, Second: true})
		if err != nil {
			return err
		}
	}

	needRender := !leftEntry.Rendered() || (numCells == 2 && !rightEntry.Rendered())
	if needRender {
		buf := r.scratch.get(numCells)
		baseX := primary.X
		for _, g := range nz {
			localX := g.X - baseX
			if rerr := face.RenderGlyph(buf, r.metrics.Width, r.metrics.Height, numCells, r.metrics.Baseline, g.GID, localX, g.Y); rerr != nil {
				return rerr
			}
		}
		if numCells == 2 {
			halves := ffont.SplitCells(buf, r.metrics.Width, r.metrics.Height, 2)
			if !leftEntry.Rendered() {
				pos := leftEntry.Position()
				sink.Upload(pos.X, pos.Y, pos.Z, halves[0])
				leftEntry.MarkRendered()
			}
			if !rightEntry.Rendered() {
				pos := rightEntry.Position()
				sink.Upload(pos.X, pos.Y, pos.Z, halves[1])
				rightEntry.MarkRendered()
			}
		} else if !leftEntry.Rendered() {
			pos := leftEntry.Position()
			sink.Upload(pos.X, pos.Y, pos.Z, buf)
			leftEntry.MarkRendered()
		}
	}

	if numCells == 2 {
		cells[originIdx].SetSprite(leftEntry.Position().X, leftEntry.Position().Y, leftEntry.Position().Z)
		cells[originIdx+1].SetSprite(rightEntry.Position().X, rightEntry.Position().Y, rightEntry.Position().Z)
	} else {
		cells[originIdx].SetSprite(leftEntry.Position().X, leftEntry.Position().Y, leftEntry.Position().Z)
	}
	return nil
}

// packExtra packs up to maxExtraGlyphs combining-mark glyph ids (16 bits
// each) into the sprite cache key's opaque 64-bit "extra glyphs" token,
// distinguishing differently-shaped multi-glyph clusters landing on the
// same base cell (§4.B).
func packExtra(extras []ffont.ShapedGlyph) uint64 {
	var v uint64
	for i, g := range extras {
		if i >= maxExtraGlyphs {
			break
		}
		v |= uint64(g.GID) << (16 * i)
	}
	return v
}
