// Command fontcoredemo exercises the fontcore.Renderer against the
// bundled Go font, printing the sprite positions it assigns for a line
// of text and the atlas layout the positions would require.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gputerm/fontcore"
	"github.com/gputerm/fontcore/cell"
	"github.com/gputerm/fontcore/face"
)

func main() {
	var (
		text     = flag.String("text", "Hello, fontcore!", "line of text to render")
		ptSize   = flag.Int("pt", 16, "point size")
		dpi      = flag.Int("dpi", 96, "x/y DPI")
		maxTex   = flag.Int("max-texture", 8192, "maximum atlas texture dimension")
		maxLayer = flag.Int("max-layers", 64, "maximum atlas array layers")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		fontcore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	source, err := face.NewSource(goregular.TTF)
	if err != nil {
		log.Fatalf("loading bundled font: %v", err)
	}

	r := fontcore.NewRenderer()
	r.SetSpriteMapLimits(*maxTex, *maxLayer)

	var uploadCount int
	r.SetUploadSink(func(x, y, z uint16, pixels []byte) {
		uploadCount++
	})

	metrics, err := r.SetFont(fontcore.FontSetRequest{
		Medium:        source,
		PointSize26_6: int32(*ptSize * 64),
		XDPI:          *dpi,
		YDPI:          *dpi,
	})
	if err != nil {
		log.Fatalf("SetFont: %v", err)
	}
	fmt.Printf("cell metrics: %dx%d, baseline %d\n", metrics.Width, metrics.Height, metrics.Baseline)

	cells := make([]cell.Cell, 0, len(*text))
	for _, ch := range *text {
		if ch == ' ' {
			cells = append(cells, cell.Cell{Ch: 0})
			continue
		}
		cells = append(cells, cell.Cell{Ch: ch})
	}

	if err := r.RenderLine(cells); err != nil {
		log.Fatalf("RenderLine: %v", err)
	}

	for i, c := range cells {
		fmt.Printf("cell %2d %q -> sprite (%d,%d,%d)\n", i, c.Ch, c.SpriteX, c.SpriteY, c.SpriteZ)
	}
	layout := r.CurrentLayout()
	fmt.Printf("atlas layout: xnum=%d ynum=%d z=%d, %d uploads\n", layout.Xnum, layout.Ynum, layout.Z, uploadCount)
}
