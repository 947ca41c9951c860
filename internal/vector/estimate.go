package vector

import "fmt"

// EstimateModel holds the coefficients of the duration model. They were
// calibrated against a pen speed of step 5.0 with a yield every 50 sub-steps
// and carry no meaning beyond that calibration.
type EstimateModel struct {
	// SecondsPerColor is the cost of one color-selection sequence.
	SecondsPerColor float64 `json:"seconds_per_color" yaml:"seconds_per_color"`

	// PixelsPerSecond is the horizontal drawing throughput.
	PixelsPerSecond float64 `json:"pixels_per_second" yaml:"pixels_per_second"`
}

// DefaultEstimateModel returns the calibrated coefficients (2.5 s per color,
// 400 px per second).
func DefaultEstimateModel() EstimateModel {
	return EstimateModel{SecondsPerColor: 2.5, PixelsPerSecond: 400}
}

// Estimate is a predicted replay duration.
type Estimate struct {
	// ColorChanges counts batches that require a color selection.
	ColorChanges int `json:"color_changes"`

	// TotalSpan is the summed horizontal extent of every path, in pixels.
	TotalSpan float64 `json:"total_span"`

	// Seconds is the predicted wall-clock duration.
	Seconds float64 `json:"seconds"`
}

// EstimateDuration predicts how long drawing batches will take:
//
//	seconds = colorChanges*SecondsPerColor + totalSpan/PixelsPerSecond
//
// Vertical movement is not modelled. A non-positive PixelsPerSecond drops the
// span term.
func EstimateDuration(batches []ColorBatch, model EstimateModel) Estimate {
	var est Estimate
	for _, b := range batches {
		if b.HasColor() {
			est.ColorChanges++
		}
		for _, p := range b.Paths {
			est.TotalSpan += p.Span()
		}
	}

	est.Seconds = float64(est.ColorChanges) * model.SecondsPerColor
	if model.PixelsPerSecond > 0 {
		est.Seconds += est.TotalSpan / model.PixelsPerSecond
	}
	return est
}

// Minutes returns Seconds expressed in minutes.
func (e Estimate) Minutes() float64 {
	return e.Seconds / 60.0
}

// String renders the estimate for display, e.g. "~ 1.5 Min (12 Colors)" or
// "~ 0.3 Min (B&W)" when no color changes are needed.
func (e Estimate) String() string {
	if e.ColorChanges == 0 {
		return fmt.Sprintf("~ %.1f Min (B&W)", e.Minutes())
	}
	return fmt.Sprintf("~ %.1f Min (%d Colors)", e.Minutes(), e.ColorChanges)
}
