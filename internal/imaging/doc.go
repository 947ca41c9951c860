// Package imaging provides the pixel-level building blocks of the stroke pipeline.
//
// It fits source images into a drawing canvas, computes edge maps, quantizes
// colors and crops sample patches out of screenshots. Every operation works on
// standard Go image.Image values and uses a coordinate system where (0,0) is
// the top-left corner, X increases rightward and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles follow image.Rectangle: Min is inclusive, Max is exclusive
//
// Images returned by Fit and CropPatch are always anchored at (0,0), so a
// caller can index them with patch-relative coordinates directly.
//
// # Color Representation
//
// Colors are handled as 8-bit RGB triples (RGBColor). Alpha is flattened onto
// a white background when an image is fitted, because a drawing surface has
// no notion of transparency.
//
// Quantization is a strict floor bucketing:
//
//	quantized = (channel / bucket) * bucket
//
// which biases colors slightly darker than the sampled pixel and is
// idempotent for a fixed bucket size.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Non-positive target dimensions or empty source images (ErrInvalidRegion)
//   - Patch rectangles outside the source image
//   - File I/O errors during image loading
package imaging
