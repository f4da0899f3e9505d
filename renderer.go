// Package fontcore is the public entry point to the terminal text
// rendering core: it wires together the Sprite Tracker (atlas), the
// Sprite Position Cache (spritecache), the Font Face (face), Font
// Selection (fontsel), the Run Renderer (runrender) and the Upload Sink
// (sink) behind one process-wide Renderer value, matching spec.md §5's
// "a single configuration... only one renderer exists per window".
package fontcore

import (
	"fmt"

	"golang.org/x/image/math/fixed"

	"github.com/gputerm/fontcore/atlas"
	"github.com/gputerm/fontcore/cell"
	"github.com/gputerm/fontcore/face"
	"github.com/gputerm/fontcore/fontsel"
	"github.com/gputerm/fontcore/runrender"
	"github.com/gputerm/fontcore/sink"
)

// Renderer owns the process-wide rendering configuration: the sprite
// tracker, the installed faces and font selector, and the run renderer.
// A Renderer is not safe for concurrent mutation — §5's concurrency
// model requires callers to serialize configuration mutators against
// RenderLine externally.
type Renderer struct {
	tracker *atlas.Tracker
	runner  *runrender.Runner

	selector *fontsel.Selector

	medium, bold, italic, boldItalic *face.Face
	symbolFaces                      []*face.Face

	mediumSource   *face.Source
	getFallback    FallbackResolver
	xdpi, ydpi     int
	lineHeightPx   int
	lineHeightFrac float64

	metrics face.CellMetrics
}

// NewRenderer returns a Renderer with no limits, layout, or font
// installed. Callers must call SetSpriteMapLimits and SetFont before
// RenderLine.
func NewRenderer() *Renderer {
	tracker := atlas.NewTracker()
	return &Renderer{
		tracker: tracker,
		runner:  runrender.New(tracker),
	}
}

// SetSpriteMapLimits installs installation-time atlas capacity (§4.A
// set_limits): the maximum texture dimension in pixels and the maximum
// number of atlas layers.
func (r *Renderer) SetSpriteMapLimits(maxTextureSize, maxArrayLen int) {
	r.tracker.SetLimits(maxTextureSize, maxArrayLen)
}

// SetSpriteMapLayout recomputes the tracker's per-layer bounds for a cell
// size and resets the cursor (§4.A set_layout). Most callers should use
// SetFont/SetFontSize instead, which derive the layout from the measured
// faces; this is exposed directly for hosts that size the atlas
// independently of font metrics (e.g. a fixed cell grid).
func (r *Renderer) SetSpriteMapLayout(cellW, cellH int) error {
	return r.tracker.SetLayout(cellW, cellH)
}

// CurrentLayout reports the tight bounding volume the atlas has occupied
// so far, for GPU-side texture sizing.
func (r *Renderer) CurrentLayout() atlas.Layout {
	return r.tracker.CurrentLayout()
}

// CellMetrics returns the metrics published by the most recent SetFont or
// SetFontSize call.
func (r *Renderer) CellMetrics() face.CellMetrics { return r.metrics }

// SetUploadSink installs fn as the active upload sink (§6
// set_upload_sink). Passing nil reverts to the native default sink.
func (r *Renderer) SetUploadSink(fn sink.Func) { sink.Set(fn) }

func (r *Renderer) buildFace(source *face.Source, bold, italic bool, ptSize int32, xdpi, ydpi int) (*face.Face, error) {
	f := face.New(source, bold, italic, r.tracker)
	if err := f.SetSize(fixed.Int26_6(ptSize), fixed.Int26_6(ptSize), xdpi, ydpi); err != nil {
		return nil, err
	}
	return f, nil
}

// wrapFallback adapts a host FallbackResolver (which returns an unsized
// Source) into the fontsel.FallbackResolver shape (which returns a sized
// Face), sizing the discovered source the moment it is first used
// (§4.E step 7) at the point size/DPI of the SetFont call that installed
// this resolver; a later SetFontSize does not change that size.
func (r *Renderer) wrapFallback(hostResolver FallbackResolver, ptSize int32, xdpi, ydpi int) fontsel.FallbackResolver {
	if hostResolver == nil {
		return nil
	}
	return func(text string, bold, italic bool) (*face.Face, bool) {
		src, ok := hostResolver(text, bold, italic)
		if !ok || src == nil {
			return nil, false
		}
		f, err := r.buildFace(src, bold, italic, ptSize, xdpi, ydpi)
		if err != nil {
			Logger().Warn("fontcore: fallback face failed to size", "err", err)
			return nil, false
		}
		return f, true
	}
}

// SetFont is the full reconfiguration operation (§6 set_font): it opens
// and sizes every installed face, builds the symbol map and fallback
// wiring, recomputes cell metrics, and installs a fresh atlas layout.
// Per §7's recovery policy this is transactional at the API boundary: on
// any error the previously installed configuration (if any) is left
// untouched and the zero CellMetrics plus the error are returned.
func (r *Renderer) SetFont(req FontSetRequest) (face.CellMetrics, error) {
	if req.Medium == nil {
		return face.CellMetrics{}, fmt.Errorf("fontcore: SetFont requires a medium face source")
	}

	medium, err := r.buildFace(req.Medium, false, false, req.PointSize26_6, req.XDPI, req.YDPI)
	if err != nil {
		return face.CellMetrics{}, err
	}

	var bold, italic, boldItalic *face.Face
	if req.Bold != nil {
		if bold, err = r.buildFace(req.Bold, true, false, req.PointSize26_6, req.XDPI, req.YDPI); err != nil {
			return face.CellMetrics{}, err
		}
	}
	if req.Italic != nil {
		if italic, err = r.buildFace(req.Italic, false, true, req.PointSize26_6, req.XDPI, req.YDPI); err != nil {
			return face.CellMetrics{}, err
		}
	}
	if req.BoldItalic != nil {
		if boldItalic, err = r.buildFace(req.BoldItalic, true, true, req.PointSize26_6, req.XDPI, req.YDPI); err != nil {
			return face.CellMetrics{}, err
		}
	}

	symbolFaces := make([]*face.Face, len(req.SymbolMapFaces))
	for i, src := range req.SymbolMapFaces {
		if symbolFaces[i], err = r.buildFace(src, false, false, req.PointSize26_6, req.XDPI, req.YDPI); err != nil {
			return face.CellMetrics{}, err
		}
	}

	symbolEntries := make([]fontsel.SymbolMapEntry, 0, len(req.SymbolMapRanges))
	for _, rg := range req.SymbolMapRanges {
		if rg.FaceIndex < 0 || rg.FaceIndex >= len(symbolFaces) {
			return face.CellMetrics{}, fmt.Errorf("fontcore: symbol map range references face index %d out of range", rg.FaceIndex)
		}
		symbolEntries = append(symbolEntries, fontsel.SymbolMapEntry{
			Left: rg.Left, Right: rg.Right, Face: symbolFaces[rg.FaceIndex],
		})
	}

	hint := medium.CellMetricsHint()
	metrics, err := face.ComputeCellMetrics(hint, req.LineHeightPx, req.LineHeightFrac)
	if err != nil {
		return face.CellMetrics{}, err
	}

	if err := r.tracker.SetLayout(metrics.Width, metrics.Height); err != nil {
		return face.CellMetrics{}, err
	}

	resolver := r.wrapFallback(req.GetFallback, req.PointSize26_6, req.XDPI, req.YDPI)
	sel := fontsel.New(medium, bold, italic, boldItalic, symbolEntries, resolver)
	sel.SetFallbackExhaustedHook(func(text string, bold, italic bool) {
		Logger().Warn("fontcore: fallback table exhausted", "text", text, "bold", bold, "italic", italic)
	})

	r.runner.SetBoxDrawing(req.BoxDrawing)
	r.runner.SetMetrics(metrics)

	r.selector = sel
	r.medium, r.bold, r.italic, r.boldItalic = medium, bold, italic, boldItalic
	r.symbolFaces = symbolFaces
	r.mediumSource = req.Medium
	r.getFallback = req.GetFallback
	r.xdpi, r.ydpi = req.XDPI, req.YDPI
	r.lineHeightPx, r.lineHeightFrac = req.LineHeightPx, req.LineHeightFrac
	r.metrics = metrics

	Logger().Info("fontcore: set_font completed", "cell_w", metrics.Width, "cell_h", metrics.Height, "baseline", metrics.Baseline)
	return metrics, nil
}

// allFaces returns every installed real face (medium, style slots, and
// symbol-map faces), skipping nil style slots. The lazily discovered
// fallback table is intentionally excluded: fontsel.Selector does not
// expose it for resizing, so a SetFontSize call resizes the faces an
// implementer can reach and leaves already-discovered fallback faces at
// their original size — a documented simplification (see DESIGN.md).
func (r *Renderer) allFaces() []*face.Face {
	faces := make([]*face.Face, 0, 4+len(r.symbolFaces))
	faces = append(faces, r.medium)
	for _, f := range []*face.Face{r.bold, r.italic, r.boldItalic} {
		if f != nil {
			faces = append(faces, f)
		}
	}
	faces = append(faces, r.symbolFaces...)
	return faces
}

// SetFontSize is the set_font_size public operation (§6): it resizes the
// faces installed by the most recent SetFont call and republishes cell
// metrics, without rebuilding the symbol map or fallback wiring.
// Idempotent in its published metrics: calling it twice with the same
// arguments yields the same CellMetrics (§8 round-trip property).
func (r *Renderer) SetFontSize(req FontSizeRequest) (face.CellMetrics, error) {
	if r.medium == nil {
		return face.CellMetrics{}, fmt.Errorf("fontcore: SetFontSize called before SetFont")
	}

	probe := face.New(r.mediumSource, false, false, r.tracker)
	if err := probe.SetSize(fixed.Int26_6(req.PointSize26_6), fixed.Int26_6(req.PointSize26_6), req.XDPI, req.YDPI); err != nil {
		return face.CellMetrics{}, err
	}
	hint := probe.CellMetricsHint()
	metrics, err := face.ComputeCellMetrics(hint, r.lineHeightPx, r.lineHeightFrac)
	if err != nil {
		return face.CellMetrics{}, err
	}
	if err := r.tracker.SetLayout(metrics.Width, metrics.Height); err != nil {
		return face.CellMetrics{}, err
	}

	for _, f := range r.allFaces() {
		_ = f.SetSize(fixed.Int26_6(req.PointSize26_6), fixed.Int26_6(req.PointSize26_6), req.XDPI, req.YDPI)
		f.Sprites.Clear()
	}
	r.runner.SetMetrics(metrics)
	r.xdpi, r.ydpi = req.XDPI, req.YDPI
	r.metrics = metrics

	Logger().Info("fontcore: set_font_size completed", "cell_w", metrics.Width, "cell_h", metrics.Height)
	return metrics, nil
}

// SendPrerenderedSprites is the send_prerendered_sprites public operation
// (§6): it appends pre-rendered sprites (e.g. cursor shapes) starting
// from the tracker's current cursor. The first sprite issued is always a
// blank cell, per spec.
func (r *Renderer) SendPrerenderedSprites(buffers [][]byte) (atlas.Position, error) {
	first, err := r.tracker.Increment()
	if err != nil {
		return atlas.Position{}, err
	}
	sink.Upload(first.X, first.Y, first.Z, make([]byte, r.metrics.Width*r.metrics.Height))

	for _, buf := range buffers {
		pos, err := r.tracker.Increment()
		if err != nil {
			return first, err
		}
		sink.Upload(pos.X, pos.Y, pos.Z, buf)
	}
	return first, nil
}

// RenderLine is the render_line public operation (§6): the main
// per-frame entry point, partitioning cells into runs and rasterizing,
// blanking, or marking them missing via the installed selector.
func (r *Renderer) RenderLine(cells []cell.Cell) error {
	if r.selector == nil {
		return fmt.Errorf("fontcore: RenderLine called before SetFont")
	}
	return r.runner.RenderLine(cells, r.selector)
}
