package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropPatch extracts r from img as a new image anchored at (0,0).
//
// The rectangle is given in the coordinate space of img (for a screenshot,
// absolute screen coordinates). It must lie entirely inside img's bounds and
// have a positive area.
func CropPatch(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if r.Empty() {
		return nil, fmt.Errorf("%w: patch %v has no area", ErrInvalidRegion, r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("patch %v outside image bounds %v", r, bounds)
	}

	return imaging.Crop(img, r), nil
}

// Center returns the middle pixel of r, rounding toward the top-left.
func Center(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}
