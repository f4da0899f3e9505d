// Package fontcore implements a GPU terminal's font/text rendering core:
// a sprite atlas tracker, a sprite position cache, font face loading and
// shaping, font selection (symbol maps, style fallback, a bounded lazy
// fallback table), and a run renderer that turns a line of grid cells
// into sprite positions, uploading freshly rasterized glyph bitmaps
// through a pluggable sink.
//
// # Quick Start
//
//	r := fontcore.NewRenderer()
//	r.SetSpriteMapLimits(8192, 64)
//	r.SetUploadSink(myGPUUploader)
//
//	medium, _ := face.Open("Regular.ttf", 0)
//	metrics, err := r.SetFont(fontcore.FontSetRequest{
//		Medium:        medium,
//		PointSize26_6: 12 * 64,
//		XDPI:          96,
//		YDPI:          96,
//	})
//
//	cells := []cell.Cell{{Ch: 'h'}, {Ch: 'i'}}
//	err = r.RenderLine(cells)
//	// cells[i].SpriteX/Y/Z now index the atlas texture.
//
// # Architecture
//
// A Renderer owns one atlas.Tracker (monotonic sprite position
// allocation), one runrender.Runner (run partitioning and rasterization),
// and the face.Face/fontsel.Selector pair installed by the most recent
// SetFont call. Glyph bitmaps are uploaded through the process-wide sink
// package, matching how the host's GPU texture upload path is wired
// independently of font configuration.
//
// # Concurrency
//
// A Renderer is single-threaded: RenderLine shares one scratch canvas,
// the sprite caches and the atlas tracker across calls, so it is not safe
// to call concurrently with itself, and configuration mutators (SetFont,
// SetFontSize, SetSpriteMapLimits, SetSpriteMapLayout) are not safe to
// call concurrently with RenderLine or each other. Callers must serialize
// every call on a Renderer themselves.
package fontcore
