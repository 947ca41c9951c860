package vector

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
)

// RowStride is the distance between scanned rows. Skipping every other row
// halves drawing time at the cost of vertical resolution.
const RowStride = 2

// BinaryThreshold is the gray level at or above which a pixel is white.
const BinaryThreshold = 128

// Trace fits img into a targetW x targetH canvas and vectorizes the result.
func Trace(img image.Image, targetW, targetH int, mode Mode, filter imaging.Filter) ([]ColorBatch, error) {
	fitted, err := imaging.Fit(img, targetW, targetH, filter)
	if err != nil {
		return nil, err
	}
	return Vectorize(fitted, mode)
}

// Vectorize scans img with the given mode and returns its stroke batches.
//
// Paths are expressed relative to img's top-left corner. Binary mode yields
// at most one batch with a nil Color; the colored modes yield one batch per
// quantized color, ordered by first appearance in the row-major scan. A
// picture with nothing to draw yields no batches at all, so every returned
// batch has at least one path.
func Vectorize(img image.Image, mode Mode) ([]ColorBatch, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", imaging.ErrInvalidRegion)
	}

	switch mode {
	case Binary:
		return binaryBatches(img), nil
	case RasterColoredEdges:
		return edgeBatches(img), nil
	case QuantizedBlocks:
		return blockBatches(img), nil
	}
	return nil, fmt.Errorf("unknown mode: %v", mode)
}

func binaryBatches(img image.Image) []ColorBatch {
	bounds := img.Bounds()
	gray := segment.Threshold(img, BinaryThreshold)

	var paths []Path
	ink := func(x, y int) (imaging.RGBColor, bool) {
		return imaging.RGBColor{}, gray.Pix[y*gray.Stride+x] < BinaryThreshold
	}
	scanRows(bounds.Dx(), bounds.Dy(), ink, func(_ imaging.RGBColor, y, x0, x1 int) {
		paths = append(paths, segment2(y, x0, x1))
	})

	if len(paths) == 0 {
		return nil
	}
	return []ColorBatch{{Paths: paths}}
}

func edgeBatches(img image.Image) []ColorBatch {
	bounds := img.Bounds()
	edges := imaging.EdgeMap(img, imaging.EdgeThresholdLow, imaging.EdgeThresholdHigh)

	var set batchSet
	classify := func(x, y int) (imaging.RGBColor, bool) {
		if edges.Pix[y*edges.Stride+x] <= imaging.EdgeOn {
			return imaging.RGBColor{}, false
		}
		c := imaging.At(img, bounds.Min.X+x, bounds.Min.Y+y)
		if imaging.IsNearWhite(c) {
			return imaging.RGBColor{}, false
		}
		return imaging.Quantize(imaging.Darken(c, imaging.EdgeDarken), imaging.EdgeBucket), true
	}
	scanRows(bounds.Dx(), bounds.Dy(), classify, set.add)
	return set.batches
}

func blockBatches(img image.Image) []ColorBatch {
	bounds := img.Bounds()

	var set batchSet
	classify := func(x, y int) (imaging.RGBColor, bool) {
		c := imaging.At(img, bounds.Min.X+x, bounds.Min.Y+y)
		if imaging.IsNearWhite(c) {
			return imaging.RGBColor{}, false
		}
		return imaging.Quantize(c, imaging.BlockBucket), true
	}
	scanRows(bounds.Dx(), bounds.Dy(), classify, set.add)
	return set.batches
}

// classifier decides whether the pixel at (x, y) belongs to a run and, if so,
// which color key it carries.
type classifier func(x, y int) (imaging.RGBColor, bool)

// scanRows walks every RowStride-th row left to right and reports each closed
// run as (color, row, first column, last column). The run state lives only
// for the duration of one row.
func scanRows(width, height int, classify classifier, emit func(c imaging.RGBColor, y, x0, x1 int)) {
	for y := 0; y < height; y += RowStride {
		var (
			open  bool
			cur   imaging.RGBColor
			start int
		)
		for x := 0; x < width; x++ {
			c, ok := classify(x, y)
			switch {
			case !ok:
				if open {
					emit(cur, y, start, x-1)
					open = false
				}
			case !open:
				cur, start, open = c, x, true
			case c != cur:
				emit(cur, y, start, x-1)
				cur, start = c, x
			}
		}
		if open {
			emit(cur, y, start, width-1)
		}
	}
}

// segment2 builds the two-point horizontal path for a run. A single-pixel
// run keeps both points on the same column.
func segment2(y, x0, x1 int) Path {
	return Path{Pt(float64(x0), float64(y)), Pt(float64(x1), float64(y))}
}

// batchSet is an insertion-ordered color -> paths map.
type batchSet struct {
	index   map[imaging.RGBColor]int
	batches []ColorBatch
}

func (s *batchSet) add(c imaging.RGBColor, y, x0, x1 int) {
	if s.index == nil {
		s.index = make(map[imaging.RGBColor]int)
	}
	i, ok := s.index[c]
	if !ok {
		key := c
		i = len(s.batches)
		s.index[c] = i
		s.batches = append(s.batches, ColorBatch{Color: &key})
	}
	s.batches[i].Paths = append(s.batches[i].Paths, segment2(y, x0, x1))
}
