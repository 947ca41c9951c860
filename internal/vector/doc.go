// Package vector turns a fitted raster image into colored stroke batches.
//
// Three modes share one scan discipline: every second row is scanned left to
// right, a small run accumulator tracks the current color and start column,
// and each closed run becomes a two-point horizontal Path. Runs are grouped
// into ColorBatches in the order their color was first met, so the output is
// deterministic for a given input.
//
//   - Binary: grayscale threshold at 128; black runs, no color.
//   - RasterColoredEdges: Canny edge pixels, darkened and quantized to 20.
//   - QuantizedBlocks: every non-white pixel, quantized to 42.
//
// EstimateDuration predicts how long replaying the batches takes. It is a
// linear model calibrated against the default pen speed and is only ever an
// approximation.
package vector
