package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeMap_Dimensions(t *testing.T) {
	img := createEdgeTestImage(100, 80)

	edges := EdgeMap(img, EdgeThresholdLow, EdgeThresholdHigh)

	if edges.Bounds() != image.Rect(0, 0, 100, 80) {
		t.Errorf("bounds: got %v, want (0,0)-(100,80)", edges.Bounds())
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	img := createInMemoryImage(50, 50, color.RGBA{100, 50, 200, 255})

	edges := EdgeMap(img, EdgeThresholdLow, EdgeThresholdHigh)

	for i, v := range edges.Pix {
		if v != 0 {
			t.Fatalf("uniform image produced edge pixel at offset %d", i)
		}
	}
}

func TestEdgeMap_StrongEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	edges := EdgeMap(img, EdgeThresholdLow, EdgeThresholdHigh)

	edgeFound := false
	for x := 47; x <= 52; x++ {
		if edges.GrayAt(x, 50).Y > EdgeOn {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}

	// Far from the transition the map stays dark
	if edges.GrayAt(10, 50).Y != 0 || edges.GrayAt(90, 50).Y != 0 {
		t.Error("flat areas should not be marked as edges")
	}
}

func TestEdgeMap_SingleColumnOnRamp(t *testing.T) {
	// Black up to x=8, gray at x=9, white from x=10: the gradient peaks
	// only at x=9.
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			switch {
			case x < 9:
				img.Set(x, y, color.Black)
			case x == 9:
				img.Set(x, y, color.RGBA{200, 200, 200, 255})
			default:
				img.Set(x, y, color.White)
			}
		}
	}

	edges := EdgeMap(img, EdgeThresholdLow, EdgeThresholdHigh)

	for y := 1; y < 9; y++ {
		for x := 0; x < 20; x++ {
			want := uint8(0)
			if x == 9 {
				want = 255
			}
			if got := edges.GrayAt(x, y).Y; got != want {
				t.Errorf("edge at (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestEdgeMap_BordersNeverMarked(t *testing.T) {
	img := createEdgeTestImage(40, 40)

	edges := EdgeMap(img, 10, 50)

	for i := 0; i < 40; i++ {
		if edges.GrayAt(i, 0).Y != 0 || edges.GrayAt(i, 39).Y != 0 ||
			edges.GrayAt(0, i).Y != 0 || edges.GrayAt(39, i).Y != 0 {
			t.Fatalf("border pixel marked as edge at index %d", i)
		}
	}
}

func TestEdgeMap_TinyImages(t *testing.T) {
	for _, size := range []int{1, 2, 5} {
		img := createInMemoryImage(size, size, color.RGBA{128, 128, 128, 255})
		edges := EdgeMap(img, EdgeThresholdLow, EdgeThresholdHigh)
		if edges.Bounds().Dx() != size || edges.Bounds().Dy() != size {
			t.Errorf("size %d: got %v", size, edges.Bounds())
		}
	}

	empty := EdgeMap(image.NewRGBA(image.Rectangle{}), EdgeThresholdLow, EdgeThresholdHigh)
	if !empty.Bounds().Empty() {
		t.Errorf("empty input should give empty map, got %v", empty.Bounds())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}

// createEdgeTestImage creates an image with a black rectangle on white background
// to create clear edges for testing
func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}
