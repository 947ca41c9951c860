package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ErrInvalidRegion is returned when a target rectangle or source image has no area.
var ErrInvalidRegion = errors.New("invalid region")

// Filter names the resampling filter used when fitting an image to a canvas.
type Filter string

// Supported resampling filters. The zero value behaves like FilterLinear.
const (
	FilterLinear  Filter = "linear"
	FilterNearest Filter = "nearest"
	FilterLanczos Filter = "lanczos"
	FilterBox     Filter = "box"
)

// ParseFilter converts a configuration string into a Filter.
// An empty string selects FilterLinear.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterLinear:
		return FilterLinear, nil
	case FilterNearest, FilterLanczos, FilterBox:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown resampling filter: %s", s)
}

func (f Filter) resample() imaging.ResampleFilter {
	switch f {
	case FilterNearest:
		return imaging.NearestNeighbor
	case FilterLanczos:
		return imaging.Lanczos
	case FilterBox:
		return imaging.Box
	default:
		return imaging.Linear
	}
}

// FitSize computes the aspect-preserving size of a srcW x srcH image that fits
// inside a targetW x targetH rectangle.
//
// The scale factor is min(targetW/srcW, targetH/srcH); it may be larger than 1,
// in which case the image is enlarged to touch the target on one axis. Each
// resulting dimension is truncated and clamped to at least one pixel.
func FitSize(srcW, srcH, targetW, targetH int) (int, int, error) {
	if targetW <= 0 || targetH <= 0 {
		return 0, 0, fmt.Errorf("%w: target %dx%d", ErrInvalidRegion, targetW, targetH)
	}
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("%w: source image %dx%d", ErrInvalidRegion, srcW, srcH)
	}

	scale := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	// Guard against float rounding pushing a dimension past the target.
	if w > targetW {
		w = targetW
	}
	if h > targetH {
		h = targetH
	}
	return w, h, nil
}

// Fit resizes img so that it fits inside targetW x targetH without distorting
// its aspect ratio.
//
// The result is an *image.NRGBA anchored at (0,0). Any transparency in the
// source is composited onto white, so fully transparent pixels read as
// background rather than ink.
//
// # Errors
//
//   - ErrInvalidRegion if targetW or targetH is not positive
//   - ErrInvalidRegion if img has zero width or height
func Fit(img image.Image, targetW, targetH int, filter Filter) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h, err := FitSize(bounds.Dx(), bounds.Dy(), targetW, targetH)
	if err != nil {
		return nil, err
	}

	resized := imaging.Resize(img, w, h, filter.resample())
	if isOpaque(resized) {
		return resized, nil
	}

	background := imaging.New(w, h, color.White)
	return imaging.Overlay(background, resized, image.Pt(0, 0), 1.0), nil
}

func isOpaque(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
