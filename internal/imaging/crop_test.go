package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestCropPatch(t *testing.T) {
	img := createPatternImage(100, 100)

	patch, err := CropPatch(img, image.Rect(50, 0, 100, 50))
	if err != nil {
		t.Fatalf("CropPatch failed: %v", err)
	}

	if patch.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v, want (0,0)-(50,50)", patch.Bounds())
	}

	// Top-right quadrant of the pattern is green
	if got := At(patch, 0, 0); got != (RGBColor{0, 255, 0}) {
		t.Errorf("patch origin color: got %v, want green", got)
	}
}

func TestCropPatch_ScreenOffset(t *testing.T) {
	// A screenshot of a secondary display can start at a non-zero origin.
	img := image.NewRGBA(image.Rect(1920, 0, 2020, 100))
	img.Set(1930, 5, color.RGBA{1, 2, 3, 255})

	patch, err := CropPatch(img, image.Rect(1930, 5, 1940, 15))
	if err != nil {
		t.Fatalf("CropPatch failed: %v", err)
	}
	if got := At(patch, 0, 0); got != (RGBColor{1, 2, 3}) {
		t.Errorf("patch origin color: got %v, want (1,2,3)", got)
	}
}

func TestCropPatch_Invalid(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    image.Rectangle
	}{
		{"x1 negative", image.Rect(-1, 0, 50, 50)},
		{"x2 too large", image.Rect(0, 0, 101, 50)},
		{"y2 too large", image.Rect(0, 0, 50, 101)},
		{"empty", image.Rect(10, 10, 10, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropPatch(img, tt.r); err == nil {
				t.Error("CropPatch should fail")
			}
		})
	}

	if _, err := CropPatch(img, image.Rectangle{}); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("empty patch: got %v, want ErrInvalidRegion", err)
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		r    image.Rectangle
		want image.Point
	}{
		{image.Rect(0, 0, 10, 10), image.Pt(5, 5)},
		{image.Rect(100, 40, 141, 61), image.Pt(120, 50)},
		{image.Rect(3, 3, 4, 4), image.Pt(3, 3)},
	}

	for _, tt := range tests {
		if got := Center(tt.r); got != tt.want {
			t.Errorf("Center(%v): got %v, want %v", tt.r, got, tt.want)
		}
	}
}
