package vision

import (
	"image"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"
)

var matTypes = map[int]gocv.MatType{
	1: gocv.MatTypeCV8UC1,
	3: gocv.MatTypeCV8UC3,
	4: gocv.MatTypeCV8UC4,
}

// Frame is a masked frame with interleaved 8-bit channels in row-major order.
// Channels is 3 (R, G, B) in color mode and 1 (luminance) otherwise.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8

	sums []float64
}

// Empty reports whether the frame has no pixels
func (f *Frame) Empty() bool {
	return f == nil || f.Width == 0 || f.Height == 0
}

// At returns channel c of the pixel at (x, y)
func (f *Frame) At(x, y, c int) uint8 {
	return f.Pix[(y*f.Width+x)*f.Channels+c]
}

// Sums returns the total intensity of each channel
func (f *Frame) Sums() []float64 {
	if f.sums != nil {
		return append([]float64(nil), f.sums...)
	}
	sums := make([]float64, f.Channels)
	mt, ok := matTypes[f.Channels]
	if !ok || f.Empty() || len(f.Pix) < f.Width*f.Height*f.Channels {
		return sums
	}

	m, err := gocv.NewMatFromBytes(f.Height, f.Width, mt, f.Pix[:f.Width*f.Height*f.Channels])
	if err != nil {
		return sums
	}
	defer m.Close()

	s := m.Sum()
	copy(sums, []float64{s.Val1, s.Val2, s.Val3, s.Val4})
	return sums
}

// Image converts the frame back to a standard Go image for display
func (f *Frame) Image() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, f.Pix)
		return g
	}

	img := image.NewRGBA(rect)
	for i, j := 0, 0; i+2 < len(f.Pix) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// Mask converts src to a BGR Mat and runs it through MaskMat
func Mask(src image.Image, radius int, color bool) *Frame {
	channels := 1
	if color {
		channels = 3
	}
	if src == nil || src.Bounds().Empty() {
		return &Frame{Channels: channels}
	}

	mat, err := gocv.ImageToMatRGB(compact(src))
	if err != nil {
		return &Frame{Channels: channels}
	}
	defer mat.Close()

	masked := MaskMat(mat, radius, color)
	defer masked.Close()
	if masked.Empty() {
		return &Frame{Channels: channels}
	}
	return NewFrame(masked)
}

// compact returns src as an RGBA image anchored at the origin with no
// row padding
func compact(src image.Image) *image.RGBA {
	b := src.Bounds()
	if img, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) && img.Stride == 4*b.Dx() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	gift.New().Draw(dst, src)
	return dst
}
