package lightcurve

import (
	"errors"
	"fmt"
)

// Sentinel errors for run and sampling conditions.
var (
	// ErrInvalidParams is returned when run parameters fail validation.
	ErrInvalidParams = errors.New("lightcurve: invalid parameters")

	// ErrNotRunning is returned when sampling is attempted before Reset.
	ErrNotRunning = errors.New("lightcurve: no run in progress")

	// ErrRunActive is returned when a run is started while another is active.
	ErrRunActive = errors.New("lightcurve: run already active")

	// ErrChannelMismatch is returned when a frame's channel count differs
	// from the run's color mode.
	ErrChannelMismatch = errors.New("lightcurve: frame channel count does not match run")

	// ErrZeroBaseline is returned when the first frame of a run has a zero
	// intensity sum in any channel.
	ErrZeroBaseline = errors.New("lightcurve: zero baseline")

	// ErrBufferOverrun means a sample was about to be written past the end
	// of the buffer. It indicates a broken state machine and ends the run.
	ErrBufferOverrun = errors.New("lightcurve: buffer overrun")

	// ErrCapture is returned when the frame source fails to deliver a frame.
	ErrCapture = errors.New("lightcurve: capture failed")
)

// RenderError wraps a failure of the rendering collaborator. Sampling
// continues after a RenderError.
type RenderError struct {
	Tick int
	Err  error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("lightcurve: render at tick %d: %v", e.Tick, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}
