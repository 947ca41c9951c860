package pen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"
)

// Motion constants.
const (
	// TravelStep is the sub-step length of the pointer-up travel move.
	TravelStep = 15.0

	// TravelYieldEvery is the number of travel sub-steps between yields.
	TravelYieldEvery = 5

	// Nudge is the jitter applied right after the press: an absolute move to
	// start+(Nudge,Nudge) followed by an absolute move back to start.
	Nudge = 2
)

// Timing holds every wait the pen performs.
type Timing struct {
	Yield          time.Duration // between groups of sub-steps
	Settle         time.Duration // after snapping to the first point, before press
	ReleasePrecise time.Duration // before release when Speed.Precise()
	Release        time.Duration // before release otherwise
	Click          time.Duration // between the phases of a click
}

// DefaultTiming returns the production waits.
func DefaultTiming() Timing {
	return Timing{
		Yield:          time.Millisecond,
		Settle:         15 * time.Millisecond,
		ReleasePrecise: 10 * time.Millisecond,
		Release:        2 * time.Millisecond,
		Click:          30 * time.Millisecond,
	}
}

// Pen replays strokes on a Device.
type Pen struct {
	dev    Device
	sleep  Sleeper
	timing Timing
}

// Option configures a Pen.
type Option func(*Pen)

// WithSleeper replaces the wall-clock sleeper.
func WithSleeper(s Sleeper) Option {
	return func(p *Pen) { p.sleep = s }
}

// WithTiming overrides the default waits.
func WithTiming(t Timing) Option {
	return func(p *Pen) { p.timing = t }
}

// New creates a Pen driving dev.
func New(dev Device, opts ...Option) *Pen {
	p := &Pen{dev: dev, sleep: RealSleeper, timing: DefaultTiming()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Device returns the device the pen drives.
func (p *Pen) Device() Device {
	return p.dev
}

// Sleep waits d on the pen's sleeper.
func (p *Pen) Sleep(d time.Duration) {
	if d > 0 {
		p.sleep.Sleep(d)
	}
}

// DrawStroke draws pts as one pressed drag.
//
// The pointer travels to pts[0] with the button up, presses, then moves
// through every point pair in sub-steps of speed.StepSize. Cancellation is
// checked during travel, right after the press and before every point pair.
// Once the button is down it is always released before DrawStroke returns.
//
// Paths with fewer than two points draw nothing.
func (p *Pen) DrawStroke(ctx context.Context, pts []image.Point, speed Speed) error {
	if len(pts) < 2 {
		return nil
	}
	if err := speed.Validate(); err != nil {
		return err
	}

	if err := p.travel(ctx, pts[0]); err != nil {
		return err
	}

	start := pts[0]
	if err := p.dev.Move(start.X, start.Y); err != nil {
		return deviceErr("move", err)
	}
	p.Sleep(p.timing.Settle)
	if err := p.dev.Press(); err != nil {
		return p.abort(deviceErr("press", err))
	}

	if ctx.Err() != nil {
		return p.abort(ErrCancelled)
	}

	if err := p.dev.Move(start.X+Nudge, start.Y+Nudge); err != nil {
		return p.abort(deviceErr("move", err))
	}
	if err := p.dev.Move(start.X, start.Y); err != nil {
		return p.abort(deviceErr("move", err))
	}

	sinceYield := 0
	for i := 0; i < len(pts)-1; i++ {
		if ctx.Err() != nil {
			return p.abort(ErrCancelled)
		}

		a, b := pts[i], pts[i+1]
		steps := subSteps(a, b, speed.StepSize)
		for j := 1; j <= steps; j++ {
			q := lerp(a, b, j, steps)
			if err := p.dev.Move(q.X, q.Y); err != nil {
				return p.abort(deviceErr("move", err))
			}
			sinceYield++
			if sinceYield >= speed.SleepInterval {
				p.Sleep(p.timing.Yield)
				sinceYield = 0
			}
		}
	}

	if speed.Precise() {
		p.Sleep(p.timing.ReleasePrecise)
	} else {
		p.Sleep(p.timing.Release)
	}
	if err := p.dev.Release(); err != nil {
		return deviceErr("release", err)
	}
	return nil
}

// Click moves to (x, y) and clicks once.
func (p *Pen) Click(ctx context.Context, x, y int) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	if err := p.dev.Move(x, y); err != nil {
		return deviceErr("move", err)
	}
	p.Sleep(p.timing.Click)
	if err := p.dev.Press(); err != nil {
		return p.abort(deviceErr("press", err))
	}
	p.Sleep(p.timing.Click)
	if err := p.dev.Release(); err != nil {
		return deviceErr("release", err)
	}
	return nil
}

// MoveTo places the pointer at (x, y) without pressing.
func (p *Pen) MoveTo(x, y int) error {
	if err := p.dev.Move(x, y); err != nil {
		return deviceErr("move", err)
	}
	return nil
}

// travel moves the pointer from its current position towards to with the
// button up. It stops early, without error, when ctx is cancelled.
func (p *Pen) travel(ctx context.Context, to image.Point) error {
	from, err := p.dev.Position()
	if err != nil {
		return deviceErr("position", err)
	}

	steps := subSteps(from, to, TravelStep)
	for i := 1; i <= steps; i++ {
		if ctx.Err() != nil {
			return nil
		}
		q := lerp(from, to, i, steps)
		if err := p.dev.Move(q.X, q.Y); err != nil {
			return deviceErr("move", err)
		}
		if i%TravelYieldEvery == 0 {
			p.Sleep(p.timing.Yield)
		}
	}
	return nil
}

// abort releases the button after cause, joining any release failure.
func (p *Pen) abort(cause error) error {
	if err := p.dev.Release(); err != nil {
		return errors.Join(cause, deviceErr("release", err))
	}
	return cause
}

func deviceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDeviceFailure, op, err)
}

// subSteps returns max(1, floor(|b-a| / step)).
func subSteps(a, b image.Point, step float64) int {
	dist := math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
	n := int(dist / step)
	if n < 1 {
		return 1
	}
	return n
}

// lerp returns the j-th of n points from a to b, truncated toward zero.
func lerp(a, b image.Point, j, n int) image.Point {
	t := float64(j) / float64(n)
	return image.Pt(
		int(float64(a.X)+float64(b.X-a.X)*t),
		int(float64(a.Y)+float64(b.Y-a.Y)*t),
	)
}
