package lightcurve

import (
	"fmt"
	"math"
	"time"
)

// Upper bounds on a run. MaxRate matches the shortest timer period.
const (
	MaxRate    = 1000.0
	MaxSamples = 1 << 20
)

// Params are the settings of one run. They are read once when the run
// starts and never change while it is in progress.
type Params struct {
	Duration time.Duration // total length of the run
	Rate     float64       // samples per second
	Radius   int           // mask radius in pixels
	Color    bool          // sample R, G, B instead of luminance
}

// Validate checks the parameters for values no run can use
func (p Params) Validate() error {
	switch {
	case p.Duration < 0:
		return fmt.Errorf("%w: negative duration %s", ErrInvalidParams, p.Duration)
	case math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) || p.Rate <= 0:
		return fmt.Errorf("%w: rate must be positive, got %v", ErrInvalidParams, p.Rate)
	case p.Rate > MaxRate:
		return fmt.Errorf("%w: rate %v above %v", ErrInvalidParams, p.Rate, MaxRate)
	case p.Duration.Seconds()*p.Rate > MaxSamples:
		return fmt.Errorf("%w: run of %s at %v/s exceeds %d samples", ErrInvalidParams, p.Duration, p.Rate, MaxSamples)
	case p.Radius < 0:
		return fmt.Errorf("%w: negative radius %d", ErrInvalidParams, p.Radius)
	}
	return nil
}

// Length is the number of samples in the run: duration x rate, rounded.
// It never exceeds MaxSamples.
func (p Params) Length() int {
	if p.Duration <= 0 || p.Rate <= 0 || math.IsNaN(p.Rate) {
		return 0
	}
	return int(math.Min(math.Round(p.Duration.Seconds()*p.Rate), MaxSamples))
}

// Period is the time between two ticks
func (p Params) Period() time.Duration {
	if p.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / p.Rate)
}

// Channels is the number of sampled channels
func (p Params) Channels() int {
	if p.Color {
		return 3
	}
	return 1
}

// TimeAxis returns the sample times in seconds from the start of the run
func (p Params) TimeAxis() []float64 {
	n := p.Length()
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = float64(i) / p.Rate
	}
	return axis
}
