// Package export renders vectorized strokes for review before they are
// replayed: as a raster PNG preview or as a vector PDF.
package export
