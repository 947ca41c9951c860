package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/match"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
)

// selectColor opens the host's color panel, finds c in the picker and
// clicks it, then closes the panel if a close control is configured.
func (r *Runner) selectColor(ctx context.Context, job *Job, c imaging.RGBColor) error {
	if r.sampler == nil {
		return errors.New("no screen sampler configured for color selection")
	}

	btn := imaging.Center(job.ColorButton)
	if err := r.pen.Click(ctx, btn.X, btn.Y); err != nil {
		return fmt.Errorf("failed to open color panel: %w", err)
	}
	r.pen.Sleep(r.timing.OpenPicker)
	if ctx.Err() != nil {
		return pen.ErrCancelled
	}

	// The pointer must not cover the picker while it is sampled.
	if err := r.pen.MoveTo(job.Park.X, job.Park.Y); err != nil {
		return err
	}
	r.pen.Sleep(r.timing.Park)
	if ctx.Err() != nil {
		return pen.ErrCancelled
	}

	patch, err := r.sampler.Sample(ctx, job.Picker)
	if err != nil {
		if ctx.Err() != nil {
			return pen.ErrCancelled
		}
		return fmt.Errorf("failed to sample picker: %w", err)
	}
	found, err := match.FindBestMatchFunc(c, patch, job.Metric)
	if err != nil {
		return err
	}
	r.log.Debug("color matched",
		"target", c.Hex(),
		"found", found.Color.Hex(),
		"distance", found.Distance,
		"point", found.Point)

	target := job.Picker.Min.Add(found.Point)
	if err := r.pen.Click(ctx, target.X, target.Y); err != nil {
		return fmt.Errorf("failed to pick color: %w", err)
	}
	r.pen.Sleep(r.timing.AfterPick)

	if job.PickerClose.Empty() {
		return nil
	}
	if ctx.Err() != nil {
		return pen.ErrCancelled
	}
	closeAt := imaging.Center(job.PickerClose)
	if err := r.pen.Click(ctx, closeAt.X, closeAt.Y); err != nil {
		return fmt.Errorf("failed to close color panel: %w", err)
	}
	r.pen.Sleep(r.timing.ClosePicker)
	return nil
}
