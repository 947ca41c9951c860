package match

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
)

// Stride is the sampling interval in both axes.
const Stride = 4

// ErrEmptyRegion is returned when the patch has no area.
var ErrEmptyRegion = errors.New("empty region")

// Metric selects how color distance is measured.
type Metric string

const (
	// MetricRGB is squared Euclidean distance over 8-bit RGB channels.
	MetricRGB Metric = "rgb"
	// MetricLab is CIE L*a*b* distance.
	MetricLab Metric = "lab"
)

// ParseMetric validates a metric name. An empty name selects MetricRGB.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricRGB:
		return MetricRGB, nil
	case MetricLab:
		return MetricLab, nil
	}
	return "", fmt.Errorf("unknown match metric: %s", s)
}

func (m Metric) distance(a, b imaging.RGBColor) float64 {
	if m == MetricLab {
		return a.DistanceLab(b)
	}
	return float64(a.DistanceSquared(b))
}

// Result is the outcome of a search.
type Result struct {
	// Point is the match location relative to the patch's top-left corner.
	Point image.Point `json:"point"`

	// Color is the sampled color at Point.
	Color imaging.RGBColor `json:"color"`

	// Distance is the metric value between Color and the target.
	Distance float64 `json:"distance"`
}

// FindBestMatch returns the patch-relative location whose color is closest to
// target by squared RGB distance. Ties resolve to the first minimum in
// row-major order.
func FindBestMatch(target imaging.RGBColor, patch image.Image) (image.Point, error) {
	res, err := FindBestMatchFunc(target, patch, MetricRGB)
	if err != nil {
		return image.Point{}, err
	}
	return res.Point, nil
}

// FindBestMatchFunc is FindBestMatch with a selectable metric and the full
// Result.
func FindBestMatchFunc(target imaging.RGBColor, patch image.Image, metric Metric) (Result, error) {
	bounds := patch.Bounds()
	if bounds.Empty() {
		return Result{}, fmt.Errorf("%w: patch %v", ErrEmptyRegion, bounds)
	}

	best := Result{Distance: math.Inf(1)}
	for y := bounds.Min.Y; y < bounds.Max.Y; y += Stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += Stride {
			c := imaging.At(patch, x, y)
			d := metric.distance(c, target)
			if d < best.Distance {
				best = Result{
					Point:    image.Pt(x-bounds.Min.X, y-bounds.Min.Y),
					Color:    c,
					Distance: d,
				}
			}
		}
	}
	return best, nil
}
