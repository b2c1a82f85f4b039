package lightcurve

import (
	"fmt"

	"github.com/intothevoid/lightcurve/pkg/vision"
)

// State of an accumulator or runner. An Accumulator is only ever Idle,
// Running or Complete; Stopped is entered by a Runner that halts a run early.
type State int

const (
	Idle State = iota
	Running
	Stopped
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Curve is a snapshot of a run handed to the renderer
type Curve struct {
	Time     []float64   // sample times in seconds, len N
	Values   [][]float64 // one slice of len N per channel, percent of baseline
	Filled   int         // number of samples written so far
	Duration float64     // run length in seconds
	Color    bool
}

// Accumulator collects normalized samples of one run into fixed-size
// per-channel buffers. It is not safe for concurrent use.
type Accumulator struct {
	params   Params
	n        int
	tick     int
	baseline []float64
	values   [][]float64
	time     []float64
	state    State
}

// NewAccumulator returns an idle accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Reset prepares the buffers for a new run and drops any baseline
func (a *Accumulator) Reset(p Params) {
	a.params = p
	a.n = p.Length()
	a.tick = 0
	a.baseline = nil
	a.time = p.TimeAxis()
	a.values = make([][]float64, p.Channels())
	for c := range a.values {
		a.values[c] = make([]float64, a.n)
	}
	a.state = Running
}

// Clear discards the run and returns to Idle
func (a *Accumulator) Clear() {
	*a = Accumulator{}
}

// Sample adds one masked frame to the run. The first frame of a run sets
// the baseline. It returns true once the buffer is full; further calls are
// no-ops that keep returning true.
func (a *Accumulator) Sample(f *vision.Frame) (bool, error) {
	switch a.state {
	case Complete:
		return true, nil
	case Idle:
		return false, ErrNotRunning
	}

	if a.n == 0 {
		a.state = Complete
		return true, nil
	}

	channels := len(a.values)
	if f == nil || f.Channels != channels {
		got := 0
		if f != nil {
			got = f.Channels
		}
		return false, fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, got, channels)
	}

	sums := f.Sums()
	if a.baseline == nil {
		for c, s := range sums {
			if s == 0 {
				return false, fmt.Errorf("%w: channel %d", ErrZeroBaseline, c)
			}
		}
		a.baseline = sums
	}

	if a.tick >= a.n {
		return true, fmt.Errorf("%w: tick %d, length %d", ErrBufferOverrun, a.tick, a.n)
	}

	for c, s := range sums {
		a.values[c][a.tick] = s / a.baseline[c] * 100
	}
	a.tick++

	if a.tick == a.n {
		a.state = Complete
		return true, nil
	}
	return false, nil
}

// State returns the accumulator state
func (a *Accumulator) State() State {
	return a.state
}

// Len is the buffer length N of the current run
func (a *Accumulator) Len() int {
	return a.n
}

// Tick is the index the next sample will be written to
func (a *Accumulator) Tick() int {
	return a.tick
}

// Baseline returns a copy of the per-channel baseline, or nil before the
// first sample of a run.
func (a *Accumulator) Baseline() []float64 {
	if a.baseline == nil {
		return nil
	}
	return append([]float64(nil), a.baseline...)
}

// Curve returns a copy of the current buffers
func (a *Accumulator) Curve() Curve {
	c := Curve{
		Time:     append([]float64(nil), a.time...),
		Values:   make([][]float64, len(a.values)),
		Filled:   a.tick,
		Duration: a.params.Duration.Seconds(),
		Color:    a.params.Color,
	}
	for i, v := range a.values {
		c.Values[i] = append([]float64(nil), v...)
	}
	return c
}
