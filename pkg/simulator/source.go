package simulator

import (
	"image"
	"image/color"
	"sync"
)

// Source produces frames of a bright disc on a dark background whose
// brightness drops by Depth for Transit frames out of every Period frames.
// It stands in for a webcam when none is attached.
type Source struct {
	Width, Height int
	Radius        int
	Star          color.RGBA
	Depth         float64 // fractional dip, 0..1
	Period        int     // frames per cycle
	Transit       int     // frames of each cycle spent dimmed

	mu    sync.Mutex
	count int
}

// NewSource returns a 320x240 source with a 5% dip lasting a quarter of
// every 40-frame cycle
func NewSource() *Source {
	return &Source{
		Width:   320,
		Height:  240,
		Radius:  60,
		Star:    color.RGBA{R: 240, G: 220, B: 180, A: 0xff},
		Depth:   0.05,
		Period:  40,
		Transit: 10,
	}
}

// Dimmed reports whether frame n falls inside a transit
func (s *Source) Dimmed(n int) bool {
	if s.Period <= 0 || s.Transit <= 0 {
		return false
	}
	phase := n % s.Period
	start := (s.Period - s.Transit) / 2
	return phase >= start && phase < start+s.Transit
}

// Frame renders the next frame
func (s *Source) Frame() (image.Image, error) {
	s.mu.Lock()
	n := s.count
	s.count++
	s.mu.Unlock()

	scale := 1.0
	if s.Dimmed(n) {
		scale = 1 - s.Depth
	}
	star := color.RGBA{
		R: uint8(float64(s.Star.R) * scale),
		G: uint8(float64(s.Star.G) * scale),
		B: uint8(float64(s.Star.B) * scale),
		A: 0xff,
	}
	sky := color.RGBA{R: 8, G: 8, B: 12, A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	cx, cy := s.Width/2, s.Height/2
	r2 := s.Radius * s.Radius
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, star)
			} else {
				img.SetRGBA(x, y, sky)
			}
		}
	}
	return img, nil
}

// Close is a no-op so Source can replace a VideoStream
func (s *Source) Close() {}
