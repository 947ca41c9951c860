package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

// MaxScale bounds the preview magnification.
const MaxScale = 8

var ink = color.NRGBA{A: 0xff}

// strokeColor returns the color a batch is drawn in; binary batches use black.
func strokeColor(b vector.ColorBatch) color.NRGBA {
	if b.Color == nil {
		return ink
	}
	return color.NRGBA{R: b.Color.R, G: b.Color.G, B: b.Color.B, A: 0xff}
}

// Render paints batches onto a white width x height canvas, one pixel per
// stroke pixel. Paths are interpolated point to point, so arbitrary
// polylines render as well as the horizontal runs the vectorizer produces.
func Render(batches []vector.ColorBatch, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: preview %dx%d", imaging.ErrInvalidRegion, width, height)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for _, b := range batches {
		c := strokeColor(b)
		for _, p := range b.Paths {
			plot(canvas, p, c)
		}
	}
	return canvas, nil
}

func plot(dst *image.NRGBA, p vector.Path, c color.NRGBA) {
	if len(p) == 1 {
		dst.SetNRGBA(int(p[0].X), int(p[0].Y), c)
		return
	}
	for i := 1; i < len(p); i++ {
		a, b := p[i-1], p[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		n := int(max(abs(dx), abs(dy)))
		if n == 0 {
			dst.SetNRGBA(int(a.X), int(a.Y), c)
			continue
		}
		for j := 0; j <= n; j++ {
			t := float64(j) / float64(n)
			dst.SetNRGBA(int(a.X+dx*t), int(a.Y+dy*t), c)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// PreviewResult contains a rendered preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Scale       int    `json:"scale"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders batches at width x height and enlarges the result scale
// times with nearest-neighbour sampling so single-pixel strokes stay crisp.
// scale is clamped to [1, MaxScale].
func Preview(batches []vector.ColorBatch, width, height, scale int) (*PreviewResult, error) {
	img, err := Render(batches, width, height)
	if err != nil {
		return nil, err
	}
	scale = min(max(scale, 1), MaxScale)

	out := image.Image(img)
	if scale > 1 {
		big := image.NewNRGBA(image.Rect(0, 0, width*scale, height*scale))
		draw.NearestNeighbor.Scale(big, big.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = big
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Scale:       scale,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// WritePNG renders batches and writes them to w as PNG.
func WritePNG(w io.Writer, batches []vector.ColorBatch, width, height int) error {
	img, err := Render(batches, width, height)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
