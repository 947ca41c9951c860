package runner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/image-pen-mcp/internal/pen"
)

// ErrBusy is returned when a job is started while another is active.
var ErrBusy = errors.New("a drawing run is already active")

// Sampler captures a screen region, returned anchored at (0,0).
type Sampler interface {
	Sample(ctx context.Context, r image.Rectangle) (image.Image, error)
}

// Timing holds the waits of the color-selection sequence.
type Timing struct {
	OpenPicker  time.Duration // after clicking the color button
	Park        time.Duration // after parking the pointer, before sampling
	AfterPick   time.Duration // after clicking the matched color
	ClosePicker time.Duration // after clicking the close control
}

// DefaultTiming returns the production waits.
func DefaultTiming() Timing {
	return Timing{
		OpenPicker:  800 * time.Millisecond,
		Park:        50 * time.Millisecond,
		AfterPick:   150 * time.Millisecond,
		ClosePicker: 500 * time.Millisecond,
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID     string    `json:"run_id"`
	Estimate  string    `json:"estimate"`
	Batches   int       `json:"batches"`
	Paths     int       `json:"paths"`
	Colors    int       `json:"colors_selected"`
	Drawn     int       `json:"paths_drawn"`
	Cancelled bool      `json:"cancelled"`
	Error     string    `json:"error,omitempty"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`

	Err error `json:"-"`
}

// Elapsed returns the wall-clock duration of the run.
func (r *Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Status is a snapshot of the runner.
type Status struct {
	Active   bool      `json:"active"`
	RunID    string    `json:"run_id,omitempty"`
	Started  time.Time `json:"started,omitempty"`
	Estimate string    `json:"estimate,omitempty"`
	Drawn    int       `json:"paths_drawn"`
	Paths    int       `json:"paths"`
	Last     *Result   `json:"last,omitempty"`
}

// Runner executes jobs on a device, one at a time.
type Runner struct {
	dev     pen.Device
	pen     *pen.Pen
	sampler Sampler
	log     *slog.Logger
	timing  Timing

	trigger      Trigger
	pollInterval time.Duration

	mu      sync.Mutex
	active  bool
	cancel  context.CancelFunc
	current Status
	last    *Result
	drawn   atomic.Int64
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithTiming overrides the color-selection waits.
func WithTiming(t Timing) Option {
	return func(r *Runner) { r.timing = t }
}

// WithPen configures the underlying pen.
func WithPen(opts ...pen.Option) Option {
	return func(r *Runner) { r.pen = pen.New(r.dev, opts...) }
}

// WithTrigger installs a cancel trigger polled every interval while a run
// is active.
func WithTrigger(t Trigger, interval time.Duration) Option {
	return func(r *Runner) {
		r.trigger = t
		r.pollInterval = interval
	}
}

// New creates a Runner driving dev. sampler may be nil when no job will
// select colors.
func New(dev pen.Device, sampler Sampler, opts ...Option) *Runner {
	r := &Runner{
		dev:     dev,
		pen:     pen.New(dev),
		sampler: sampler,
		log:     slog.Default(),
		timing:  DefaultTiming(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prepares and executes job, blocking until it finishes. A cancelled
// run returns its Result together with pen.ErrCancelled.
func (r *Runner) Run(ctx context.Context, job *Job) (*Result, error) {
	plan, err := Prepare(job)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id, err := r.begin(plan, cancel)
	if err != nil {
		return nil, err
	}
	res := r.execute(ctx, cancel, id, job, plan)
	r.end(res)
	return res, res.Err
}

// Start prepares job synchronously and executes it on a new goroutine. The
// run stops when ctx is done or Cancel is called. done, if not nil, receives
// the Result when the run ends. Start returns the run ID.
func (r *Runner) Start(ctx context.Context, job *Job, done func(*Result)) (string, error) {
	plan, err := Prepare(job)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(ctx)
	id, err := r.begin(plan, cancel)
	if err != nil {
		cancel()
		return "", err
	}

	go func() {
		defer cancel()
		res := r.execute(ctx, cancel, id, job, plan)
		r.end(res)
		if done != nil {
			done(res)
		}
	}()
	return id, nil
}

// Cancel requests the active run to stop. It reports whether a run was
// active.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return false
	}
	r.cancel()
	return true
}

// Active reports whether a run is in flight.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Status returns a snapshot of the current or last run.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.current
	st.Active = r.active
	st.Drawn = int(r.drawn.Load())
	st.Last = r.last
	return st
}

func (r *Runner) begin(plan *Plan, cancel context.CancelFunc) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return "", ErrBusy
	}

	id := uuid.NewString()
	r.active = true
	r.cancel = cancel
	r.drawn.Store(0)
	r.current = Status{
		RunID:    id,
		Started:  time.Now(),
		Estimate: plan.Estimate.String(),
		Paths:    plan.Paths,
	}
	return id, nil
}

func (r *Runner) end(res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	r.cancel = nil
	r.last = res
}

func (r *Runner) execute(ctx context.Context, stop context.CancelFunc, id string, job *Job, plan *Plan) *Result {
	log := r.log.With("run_id", id)
	res := &Result{
		RunID:    id,
		Estimate: plan.Estimate.String(),
		Batches:  len(plan.Batches),
		Paths:    plan.Paths,
		Started:  time.Now(),
	}

	if r.trigger != nil {
		go Monitor(ctx, r.trigger, r.pollInterval, stop)
	}

	log.Info("run started",
		"mode", job.Mode.String(),
		"batches", res.Batches,
		"paths", res.Paths,
		"estimate", res.Estimate)

	err := r.draw(ctx, log, job, plan, res)
	res.Finished = time.Now()
	res.Drawn = int(r.drawn.Load())

	switch {
	case err == nil:
		log.Info("run finished", "paths_drawn", res.Drawn, "elapsed", res.Elapsed())
	case errors.Is(err, pen.ErrCancelled), errors.Is(err, context.Canceled):
		res.Cancelled = true
		log.Info("run cancelled", "paths_drawn", res.Drawn, "elapsed", res.Elapsed())
	default:
		log.Error("run failed", "paths_drawn", res.Drawn, "error", err)
	}
	if err != nil {
		res.Err = err
		res.Error = err.Error()
	}
	return res
}

func (r *Runner) draw(ctx context.Context, log *slog.Logger, job *Job, plan *Plan, res *Result) error {
	origin := job.Canvas.Min
	for i, b := range plan.Batches {
		if b.HasColor() && job.SelectsColors() {
			log.Debug("selecting color", "batch", i, "color", b.Label(), "paths", len(b.Paths))
			if err := r.selectColor(ctx, job, *b.Color); err != nil {
				return fmt.Errorf("batch %d (%s): %w", i, b.Label(), err)
			}
			res.Colors++
		}

		for _, path := range b.Paths {
			if ctx.Err() != nil {
				return pen.ErrCancelled
			}
			if err := r.pen.DrawStroke(ctx, path.Device(origin), job.Speed); err != nil {
				return err
			}
			r.drawn.Add(1)
		}
	}
	return nil
}
