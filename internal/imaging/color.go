package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Bucket sizes used by the vectorizer modes.
const (
	// EdgeBucket is the quantization step for colored edge strokes.
	EdgeBucket = 20

	// BlockBucket is the quantization step for color blocks (about 256/6,
	// which leaves six levels per channel).
	BlockBucket = 42

	// EdgeDarken is the factor applied to edge colors before quantization so
	// outlines read darker than the fill they border.
	EdgeDarken = 0.6

	// WhiteCutoff is the per-channel level above which a pixel is treated as
	// background. All three channels must exceed it.
	WhiteCutoff = 230
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// FromColor converts any color.Color to an RGBColor, dropping alpha.
// 16-bit channels are scaled down by right-shifting 8 bits.
func FromColor(c color.Color) RGBColor {
	if n, ok := c.(color.NRGBA); ok {
		return RGBColor{R: n.R, G: n.G, B: n.B}
	}
	r, g, b, _ := c.RGBA()
	return RGBColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// At returns the color of img at (x, y). *image.NRGBA is read directly from
// its pixel buffer; other image types go through the color model.
func At(img image.Image, x, y int) RGBColor {
	if n, ok := img.(*image.NRGBA); ok {
		i := n.PixOffset(x, y)
		return RGBColor{R: n.Pix[i], G: n.Pix[i+1], B: n.Pix[i+2]}
	}
	return FromColor(img.At(x, y))
}

// RGBA implements color.Color so an RGBColor can be drawn directly.
func (c RGBColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the color in "#RRGGBB" form.
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c RGBColor) String() string {
	return c.Hex()
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// DistanceSquared returns the squared Euclidean distance between two colors in RGB space.
func (c RGBColor) DistanceSquared(o RGBColor) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// DistanceLab returns the CIE L*a*b* distance between two colors. It tracks
// perceived difference more closely than RGB distance on rendered palettes.
func (c RGBColor) DistanceLab(o RGBColor) float64 {
	return c.colorful().DistanceLab(o.colorful())
}

// ParseHex parses "#RRGGBB" or "#RGB" into an RGBColor.
func ParseHex(s string) (RGBColor, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// QuantizeChannel buckets a single channel value: (v / bucket) * bucket.
// Buckets smaller than 2 leave the value unchanged.
func QuantizeChannel(v uint8, bucket int) uint8 {
	if bucket < 2 {
		return v
	}
	return uint8(int(v) / bucket * bucket)
}

// Quantize applies QuantizeChannel to every channel of c.
//
// Quantization floors toward zero, so the representative color is never
// brighter than the sampled one. It is idempotent:
//
//	Quantize(Quantize(c, b), b) == Quantize(c, b)
func Quantize(c RGBColor, bucket int) RGBColor {
	return RGBColor{
		R: QuantizeChannel(c.R, bucket),
		G: QuantizeChannel(c.G, bucket),
		B: QuantizeChannel(c.B, bucket),
	}
}

// Darken multiplies every channel by factor, truncating the result.
func Darken(c RGBColor, factor float64) RGBColor {
	return RGBColor{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// IsNearWhite reports whether every channel of c is above WhiteCutoff.
func IsNearWhite(c RGBColor) bool {
	return c.R > WhiteCutoff && c.G > WhiteCutoff && c.B > WhiteCutoff
}
