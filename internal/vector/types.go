package vector

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
)

// Point is a 2D coordinate in fitted-image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Path is a polyline drawn as one continuous pointer-down drag.
type Path []Point

// Span returns the horizontal extent |last.X - first.X| of the path.
// Paths with fewer than two points have no span.
func (p Path) Span() float64 {
	if len(p) < 2 {
		return 0
	}
	return math.Abs(p[len(p)-1].X - p[0].X)
}

// Device converts the path to integer device coordinates offset by origin.
// Coordinates are rounded to the nearest pixel.
func (p Path) Device(origin image.Point) []image.Point {
	out := make([]image.Point, len(p))
	for i, pt := range p {
		out[i] = image.Pt(origin.X+int(math.Round(pt.X)), origin.Y+int(math.Round(pt.Y)))
	}
	return out
}

// ColorBatch groups every path that shares one quantized color.
// Color is nil for binary output, which needs no color selection.
type ColorBatch struct {
	Color *imaging.RGBColor `json:"color,omitempty"`
	Paths []Path            `json:"paths"`
}

// HasColor reports whether the batch needs a color to be selected before drawing.
func (b ColorBatch) HasColor() bool {
	return b.Color != nil
}

// Label returns the batch color in hex form, or "none" for binary batches.
func (b ColorBatch) Label() string {
	if b.Color == nil {
		return "none"
	}
	return b.Color.Hex()
}

// Mode selects the vectorization algorithm.
type Mode int

const (
	// Binary thresholds a grayscale copy and traces black runs.
	Binary Mode = iota
	// RasterColoredEdges traces colored runs along detected edges.
	RasterColoredEdges
	// QuantizedBlocks traces every non-white pixel in a reduced palette.
	QuantizedBlocks
)

var modeNames = map[Mode]string{
	Binary:             "binary",
	RasterColoredEdges: "edges",
	QuantizedBlocks:    "blocks",
}

// String returns the configuration name of the mode.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the configuration names "binary", "edges" and "blocks".
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode: %s", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// CountPaths returns the total number of paths across batches.
func CountPaths(batches []ColorBatch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Paths)
	}
	return n
}
