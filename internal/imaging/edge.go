package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Default hysteresis thresholds for colored edge strokes.
const (
	EdgeThresholdLow  = 80
	EdgeThresholdHigh = 180

	// EdgeOn is the minimum edge-map intensity treated as an edge pixel.
	EdgeOn = 200
)

// blurRadius gives a symmetric 3-tap pre-blur.
const blurRadius = 1.0

// EdgeMap performs Canny-style edge detection and returns a grayscale mask of
// the same size as img, anchored at (0,0).
//
// Edge pixels are 255, everything else is 0. Border pixels are never marked,
// so a uniform image yields an all-black map.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Gradients below this (0-255) are discarded.
//   - thresholdHigh: Gradients at or above this (0-255) are always kept;
//     values in between survive only next to a strong edge.
//
// # Algorithm
//
//  1. Gaussian blur to reduce noise
//  2. Grayscale conversion
//  3. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis thresholding against the 8-neighbourhood
func EdgeMap(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return result
	}

	// Grayscale keeps the RGBA layout with the gray level in every channel.
	gray := effect.Grayscale(blur.Gaussian(img, blurRadius))

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		row := gray.Pix[y*gray.Stride : y*gray.Stride+4*width]
		for x := 0; x < width; x++ {
			lum[y][x] = float64(row[4*x]) / 255.0
		}
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			switch {
			case val >= highThresh:
				result.Pix[y*result.Stride+x] = 255
			case val >= lowThresh && hasStrongNeighbor(suppressed, x, y, width, height, highThresh):
				result.Pix[y*result.Stride+x] = 255
			}
		}
	}

	return result
}

func hasStrongNeighbor(suppressed [][]float64, x, y, width, height int, highThresh float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if suppressed[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] >= highThresh {
				return true
			}
		}
	}
	return false
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
