package fontcore

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gputerm/fontcore/cell"
	"github.com/gputerm/fontcore/face"
	"github.com/gputerm/fontcore/sink"
)

func newTestSource(t *testing.T) *face.Source {
	t.Helper()
	src, err := face.NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return src
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer()
	r.SetSpriteMapLimits(8192, 64)
	return r
}

func TestSetFontThenRenderLine(t *testing.T) {
	r := newTestRenderer(t)
	var uploads int
	sink.Set(func(x, y, z uint16, pixels []byte) { uploads++ })
	t.Cleanup(func() { sink.Set(nil) })

	metrics, err := r.SetFont(FontSetRequest{
		Medium:        newTestSource(t),
		PointSize26_6: 16 * 64,
		XDPI:          72,
		YDPI:          72,
	})
	if err != nil {
		t.Fatalf("SetFont: %v", err)
	}
	if metrics.Width <= 0 || metrics.Height <= 0 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}

	cells := []cell.Cell{{Ch: 'h'}, {Ch: 'i'}, {Ch: 0}}
	if err := r.RenderLine(cells); err != nil {
		t.Fatalf("RenderLine: %v", err)
	}
	if cells[0].SpriteX == cells[1].SpriteX && cells[0].SpriteY == cells[1].SpriteY && cells[0].SpriteZ == cells[1].SpriteZ {
		t.Error("'h' and 'i' should not share a sprite position")
	}
	if uploads == 0 {
		t.Error("expected at least one upload for two new glyphs")
	}
}

func TestRenderLineBeforeSetFont(t *testing.T) {
	r := newTestRenderer(t)
	cells := []cell.Cell{{Ch: 'x'}}
	if err := r.RenderLine(cells); err == nil {
		t.Fatal("RenderLine before SetFont should return an error")
	}
}

func TestSetFontRequiresMedium(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.SetFont(FontSetRequest{PointSize26_6: 16 * 64, XDPI: 72, YDPI: 72}); err == nil {
		t.Fatal("SetFont with no Medium source should return an error")
	}
}

func TestSetFontSizeRoundTrip(t *testing.T) {
	r := newTestRenderer(t)
	req := FontSetRequest{
		Medium:        newTestSource(t),
		PointSize26_6: 16 * 64,
		XDPI:          72,
		YDPI:          72,
	}
	first, err := r.SetFont(req)
	if err != nil {
		t.Fatalf("SetFont: %v", err)
	}

	second, err := r.SetFontSize(FontSizeRequest{PointSize26_6: 16 * 64, XDPI: 72, YDPI: 72})
	if err != nil {
		t.Fatalf("SetFontSize: %v", err)
	}
	if first != second {
		t.Errorf("SetFontSize with identical arguments changed metrics: %+v -> %+v", first, second)
	}
}

func TestSetFontSizeBeforeSetFont(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.SetFontSize(FontSizeRequest{PointSize26_6: 16 * 64, XDPI: 72, YDPI: 72}); err == nil {
		t.Fatal("SetFontSize before SetFont should return an error")
	}
}

func TestSendPrerenderedSprites(t *testing.T) {
	r := newTestRenderer(t)
	var uploads []uint16 // z values, in upload order
	sink.Set(func(x, y, z uint16, pixels []byte) { uploads = append(uploads, z) })
	t.Cleanup(func() { sink.Set(nil) })

	if _, err := r.SetFont(FontSetRequest{
		Medium:        newTestSource(t),
		PointSize26_6: 16 * 64,
		XDPI:          72,
		YDPI:          72,
	}); err != nil {
		t.Fatalf("SetFont: %v", err)
	}

	cursor := make([]byte, r.metrics.Width*r.metrics.Height)
	first, err := r.SendPrerenderedSprites([][]byte{cursor, cursor})
	if err != nil {
		t.Fatalf("SendPrerenderedSprites: %v", err)
	}
	if len(uploads) != 3 {
		t.Fatalf("expected 3 uploads (blank + 2 sprites), got %d", len(uploads))
	}
	if first.X != 0 || first.Y != 0 || first.Z != 0 {
		t.Errorf("first reported position = %+v, want the first allocated position", first)
	}
}
