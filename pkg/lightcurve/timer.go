package lightcurve

import (
	"sync"
	"time"
)

const minPeriod = time.Millisecond

// TickerTimer calls a function at a fixed period from a single goroutine,
// so calls never overlap.
type TickerTimer struct {
	mu   sync.Mutex
	stop chan struct{}
}

// NewTickerTimer returns a stopped timer
func NewTickerTimer() *TickerTimer {
	return &TickerTimer{}
}

// Start begins calling fn every period, stopping any previous schedule first
func (t *TickerTimer) Start(period time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop
	if period < minPeriod {
		period = minPeriod
	}

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// stop wins when both are ready
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop prevents further calls. It does not wait for a call in progress and
// may be called from inside fn.
func (t *TickerTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Active reports whether the timer is scheduled
func (t *TickerTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
