package runner

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/match"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

// Job describes one drawing run. All regions are absolute device
// coordinates; an empty rectangle means "unset".
type Job struct {
	Image image.Image

	// Canvas is the drawing target. The image is fitted inside it and every
	// path is offset by Canvas.Min.
	Canvas image.Rectangle

	// ColorButton opens the host's color panel. Picker is the panel area
	// sampled for the color match, PickerClose an optional control that
	// dismisses the panel afterwards.
	ColorButton image.Rectangle
	Picker      image.Rectangle
	PickerClose image.Rectangle

	// Park is where the pointer waits while the picker is sampled.
	Park image.Point

	Mode   vector.Mode
	Filter imaging.Filter
	Speed  pen.Speed
	Model  vector.EstimateModel
	Metric match.Metric
}

// SelectsColors reports whether colored batches run the selection sequence.
func (j *Job) SelectsColors() bool {
	return !j.ColorButton.Empty() && !j.Picker.Empty()
}

// Plan is a prepared job.
type Plan struct {
	Batches  []vector.ColorBatch
	Estimate vector.Estimate
	Fitted   image.Point // fitted image size
	Paths    int
}

// Prepare validates job, fits and vectorizes its image and estimates the
// replay duration. It touches no device.
func Prepare(job *Job) (*Plan, error) {
	if job.Image == nil {
		return nil, errors.New("job has no image")
	}
	if job.Canvas.Empty() {
		return nil, fmt.Errorf("%w: canvas %v", imaging.ErrInvalidRegion, job.Canvas)
	}
	if err := job.Speed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid speed: %w", err)
	}
	if _, err := match.ParseMetric(string(job.Metric)); err != nil {
		return nil, err
	}

	b := job.Image.Bounds()
	w, h, err := imaging.FitSize(b.Dx(), b.Dy(), job.Canvas.Dx(), job.Canvas.Dy())
	if err != nil {
		return nil, err
	}

	batches, err := vector.Trace(job.Image, job.Canvas.Dx(), job.Canvas.Dy(), job.Mode, job.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize: %w", err)
	}

	return &Plan{
		Batches:  batches,
		Estimate: vector.EstimateDuration(batches, job.Model),
		Fitted:   image.Pt(w, h),
		Paths:    vector.CountPaths(batches),
	}, nil
}
