package lightcurve

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intothevoid/lightcurve/pkg/vision"
)

// FrameSource delivers one raw frame per call
type FrameSource interface {
	Frame() (image.Image, error)
}

// Renderer displays the current state of a run
type Renderer interface {
	Render(Curve) error
}

// Timer schedules the tick callback
type Timer interface {
	Start(period time.Duration, fn func())
	Stop()
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger used for run events
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithPreview receives every masked frame sampled during a run
func WithPreview(fn func(*vision.Frame)) Option {
	return func(r *Runner) { r.preview = fn }
}

// WithProgress receives the tick index and run length after each stored sample
func WithProgress(fn func(tick, n int)) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithOnComplete is called once when the buffer is full
func WithOnComplete(fn func(Curve)) Option {
	return func(r *Runner) { r.onComplete = fn }
}

// WithOnError receives errors from timer-driven ticks
func WithOnError(fn func(error)) Option {
	return func(r *Runner) { r.onError = fn }
}

// Runner drives a run: on every tick it captures a frame, masks it, feeds
// the accumulator and renders the curve. Hooks are called without the
// runner lock held.
type Runner struct {
	mu     sync.Mutex
	src    FrameSource
	render Renderer
	timer  Timer
	acc    *Accumulator
	params Params
	state  State
	runID  string

	logger     *slog.Logger
	preview    func(*vision.Frame)
	progress   func(tick, n int)
	onComplete func(Curve)
	onError    func(error)
}

// NewRunner creates an idle runner
func NewRunner(src FrameSource, render Renderer, timer Timer, opts ...Option) *Runner {
	r := &Runner{
		src:    src,
		render: render,
		timer:  timer,
		acc:    NewAccumulator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start resets the buffers for p and starts the tick timer
func (r *Runner) Start(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.state == Running {
		r.mu.Unlock()
		return ErrRunActive
	}
	r.params = p
	r.acc.Reset(p)
	r.state = Running
	r.runID = uuid.NewString()
	r.logger.Info("run started",
		"run_id", r.runID,
		"duration", p.Duration,
		"rate", p.Rate,
		"samples", p.Length(),
		"radius", p.Radius,
		"color", p.Color,
	)
	// draw the empty plot before the first tick can
	if err := r.render.Render(r.acc.Curve()); err != nil {
		r.logger.Warn("initial render failed", "run_id", r.runID, "err", err)
	}
	r.timer.Start(p.Period(), r.tick)
	r.mu.Unlock()
	return nil
}

func (r *Runner) tick() {
	if err := r.OnTick(); err != nil && r.onError != nil {
		r.onError(err)
	}
}

// OnTick performs one sampling step. It does nothing unless a run is in
// progress. A capture failure skips the tick without advancing the buffer.
func (r *Runner) OnTick() error {
	var notify []func()
	defer func() {
		for _, fn := range notify {
			fn()
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running {
		return nil
	}
	log := r.logger.With("run_id", r.runID)

	img, err := r.src.Frame()
	if err != nil {
		log.Warn("capture failed", "tick", r.acc.Tick(), "err", err)
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}

	frame := vision.Mask(img, r.params.Radius, r.params.Color)
	if frame.Empty() {
		log.Warn("empty frame", "tick", r.acc.Tick())
		return fmt.Errorf("%w: empty frame", ErrCapture)
	}
	if r.preview != nil {
		preview := r.preview
		notify = append(notify, func() { preview(frame) })
	}

	done, err := r.acc.Sample(frame)
	if err != nil {
		if errors.Is(err, ErrBufferOverrun) {
			log.Error("sample buffer overrun, stopping run", "err", err)
			r.timer.Stop()
			r.state = Stopped
			return err
		}
		log.Warn("sample rejected", "tick", r.acc.Tick(), "err", err)
		return err
	}

	tick, n := r.acc.Tick(), r.acc.Len()
	if r.progress != nil {
		progress := r.progress
		notify = append(notify, func() { progress(tick, n) })
	}

	curve := r.acc.Curve()
	var renderErr error
	if err := r.render.Render(curve); err != nil {
		log.Warn("render failed", "tick", tick, "err", err)
		renderErr = &RenderError{Tick: tick, Err: err}
	}

	if done {
		r.timer.Stop()
		r.state = Complete
		log.Info("run complete", "samples", n, "baseline", r.acc.Baseline())
		if r.onComplete != nil {
			onComplete := r.onComplete
			notify = append(notify, func() { onComplete(curve) })
		}
	}
	return renderErr
}

// Stop halts the timer and keeps the collected samples
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running {
		return
	}
	r.timer.Stop()
	r.state = Stopped
	r.logger.Info("run stopped", "run_id", r.runID, "samples", r.acc.Tick())
}

// Clear halts the timer and discards the run
func (r *Runner) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timer.Stop()
	r.acc.Clear()
	r.state = Idle
	r.runID = ""
}

// State returns the runner state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Curve returns a snapshot of the current run
func (r *Runner) Curve() Curve {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acc.Curve()
}

// RunID identifies the current run in log lines; empty when idle
func (r *Runner) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// Remaining is the time left until the buffer is full
func (r *Runner) Remaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running {
		return 0
	}
	left := r.acc.Len() - r.acc.Tick()
	return time.Duration(float64(left) / r.params.Rate * float64(time.Second))
}
