package lightcurve

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/intothevoid/lightcurve/pkg/vision"
)

// flat returns a w x h frame with every channel set to v
func flat(w, h, channels int, v uint8) *vision.Frame {
	pix := make([]uint8, w*h*channels)
	for i := range pix {
		pix[i] = v
	}
	return &vision.Frame{Width: w, Height: h, Channels: channels, Pix: pix}
}

func TestSampleCompletesOnNthCall(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50} {
		a := NewAccumulator()
		a.Reset(Params{Duration: time.Duration(n) * time.Second, Rate: 1})

		for i := 1; i <= n; i++ {
			done, err := a.Sample(flat(4, 4, 1, 10))
			if err != nil {
				t.Fatalf("N=%d: Sample #%d: %v", n, i, err)
			}
			if done != (i == n) {
				t.Errorf("N=%d: Sample #%d = %v, want %v", n, i, done, i == n)
			}
		}
		if a.State() != Complete {
			t.Errorf("N=%d: State() = %s, want complete", n, a.State())
		}
	}
}

func TestSampleFiveSecondsAtTenHertz(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Params{Duration: 5 * time.Second, Rate: 10})
	if a.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", a.Len())
	}

	for i := 0; i < 50; i++ {
		if _, err := a.Sample(flat(4, 4, 1, uint8(100+i))); err != nil {
			t.Fatalf("Sample #%d: %v", i+1, err)
		}
	}
	if a.Tick() != 50 || a.State() != Complete {
		t.Fatalf("after 50 samples: tick %d state %s, want 50 complete", a.Tick(), a.State())
	}

	before := a.Curve()
	done, err := a.Sample(flat(4, 4, 1, 1))
	if !done || err != nil {
		t.Errorf("51st Sample = (%v, %v), want (true, nil)", done, err)
	}
	after := a.Curve()
	if a.Tick() != 50 {
		t.Errorf("51st Sample moved tick to %d", a.Tick())
	}
	for i := range before.Values[0] {
		if before.Values[0][i] != after.Values[0][i] {
			t.Fatalf("51st Sample changed value %d: %v -> %v", i, before.Values[0][i], after.Values[0][i])
		}
	}
}

func TestSampleZeroDuration(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Params{Duration: 0, Rate: 10})

	done, err := a.Sample(flat(2, 2, 1, 50))
	if !done || err != nil {
		t.Fatalf("Sample = (%v, %v), want (true, nil)", done, err)
	}
	if a.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", a.Tick())
	}
	if a.Baseline() != nil {
		t.Errorf("Baseline() = %v, want nil", a.Baseline())
	}
	if c := a.Curve(); c.Filled != 0 || len(c.Values[0]) != 0 {
		t.Errorf("Curve() = %+v, want nothing stored", c)
	}
}

func TestSampleBaselineNormalization(t *testing.T) {
	for _, color := range []bool{false, true} {
		channels := 1
		if color {
			channels = 3
		}
		a := NewAccumulator()
		a.Reset(Params{Duration: 4 * time.Second, Rate: 1, Color: color})

		base := flat(3, 3, channels, 80)
		if _, err := a.Sample(base); err != nil {
			t.Fatalf("color=%v: baseline sample: %v", color, err)
		}
		if _, err := a.Sample(base); err != nil {
			t.Fatalf("color=%v: second sample: %v", color, err)
		}
		if _, err := a.Sample(flat(3, 3, channels, 40)); err != nil {
			t.Fatalf("color=%v: third sample: %v", color, err)
		}

		c := a.Curve()
		for ch := 0; ch < channels; ch++ {
			for i, want := range []float64{100, 100, 50} {
				if got := c.Values[ch][i]; math.Abs(got-want) > 1e-9 {
					t.Errorf("color=%v: Values[%d][%d] = %v, want %v", color, ch, i, got, want)
				}
			}
		}
		if got := a.Baseline()[0]; got != 80*9 {
			t.Errorf("color=%v: Baseline()[0] = %v, want %v", color, got, 80*9)
		}
	}
}

func TestSampleChannelWidth(t *testing.T) {
	tests := []struct {
		color bool
		want  int
	}{
		{false, 1},
		{true, 3},
	}
	for _, tt := range tests {
		a := NewAccumulator()
		a.Reset(Params{Duration: 2 * time.Second, Rate: 1, Color: tt.color})
		if got := len(a.Curve().Values); got != tt.want {
			t.Errorf("color=%v: len(Values) = %d, want %d", tt.color, got, tt.want)
		}
	}
}

func TestSampleZeroBaseline(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Params{Duration: 3 * time.Second, Rate: 1, Color: true})

	dark := flat(2, 2, 3, 0)
	done, err := a.Sample(dark)
	if !errors.Is(err, ErrZeroBaseline) {
		t.Fatalf("Sample(dark) error = %v, want ErrZeroBaseline", err)
	}
	if done || a.Tick() != 0 || a.Baseline() != nil {
		t.Errorf("after zero baseline: done %v tick %d baseline %v", done, a.Tick(), a.Baseline())
	}

	// a lit frame afterwards becomes the baseline
	if _, err := a.Sample(flat(2, 2, 3, 10)); err != nil {
		t.Fatalf("Sample(lit): %v", err)
	}
	if a.Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", a.Tick())
	}
}

func TestSampleChannelMismatch(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Params{Duration: 3 * time.Second, Rate: 1, Color: true})

	if _, err := a.Sample(flat(2, 2, 1, 10)); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("Sample(gray) error = %v, want ErrChannelMismatch", err)
	}
	if _, err := a.Sample(nil); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("Sample(nil) error = %v, want ErrChannelMismatch", err)
	}
	if a.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", a.Tick())
	}
}

func TestSampleIdleAndClear(t *testing.T) {
	a := NewAccumulator()
	if _, err := a.Sample(flat(2, 2, 1, 10)); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Sample before Reset error = %v, want ErrNotRunning", err)
	}

	a.Reset(Params{Duration: time.Second, Rate: 1})
	if a.State() != Running {
		t.Fatalf("State() after Reset = %s, want running", a.State())
	}
	if done, _ := a.Sample(flat(2, 2, 1, 10)); !done {
		t.Fatal("Sample did not complete a one-sample run")
	}

	a.Clear()
	if a.State() != Idle || a.Len() != 0 || a.Tick() != 0 {
		t.Errorf("after Clear: state %s len %d tick %d", a.State(), a.Len(), a.Tick())
	}
}

func TestResetDropsBaseline(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Params{Duration: 2 * time.Second, Rate: 1})
	a.Sample(flat(2, 2, 1, 10))

	a.Reset(Params{Duration: 2 * time.Second, Rate: 1})
	if a.Baseline() != nil || a.Tick() != 0 {
		t.Fatalf("Reset kept baseline %v tick %d", a.Baseline(), a.Tick())
	}
	a.Sample(flat(2, 2, 1, 40))
	if got := a.Curve().Values[0][0]; got != 100 {
		t.Errorf("first value after Reset = %v, want 100", got)
	}
}
