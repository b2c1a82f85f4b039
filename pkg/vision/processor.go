package vision

import (
	"image/color"

	"gocv.io/x/gocv"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 0}

// MaskMat applies a filled circular mask centred on the frame. Pixels
// outside the circle are zeroed. When color is false the frame is reduced to
// a single luminance channel first. The caller must close the returned Mat.
func MaskMat(input gocv.Mat, radius int, color bool) gocv.Mat {
	if input.Empty() {
		return gocv.NewMat()
	}

	// bring the input to BGR or grey
	src := gocv.NewMat()
	defer src.Close()
	switch ch := input.Channels(); {
	case color && ch == 1:
		gocv.CvtColor(input, &src, gocv.ColorGrayToBGR)
	case color && ch == 4:
		gocv.CvtColor(input, &src, gocv.ColorBGRAToBGR)
	case !color && ch == 3:
		gocv.CvtColor(input, &src, gocv.ColorBGRToGray)
	case !color && ch == 4:
		gocv.CvtColor(input, &src, gocv.ColorBGRAToGray)
	default:
		input.CopyTo(&src)
	}
	if src.Empty() {
		return gocv.NewMat()
	}

	w, h := src.Cols(), src.Rows()
	zero := gocv.NewScalar(0, 0, 0, 0)

	// filled disc, 255 inside
	mask := gocv.NewMatWithSizeFromScalar(zero, h, w, gocv.MatTypeCV8U)
	defer mask.Close()
	gocv.Circle(&mask, Center(w, h), ClampRadius(radius, w, h), white, -1)

	dst := gocv.NewMatWithSizeFromScalar(zero, h, w, src.Type())
	src.CopyToWithMask(&dst, mask)
	return dst
}

// ChannelSums returns the total intensity per channel of a BGR or grey Mat,
// in R, G, B order for colour frames.
func ChannelSums(m gocv.Mat) []float64 {
	s := m.Sum()
	if m.Channels() == 1 {
		return []float64{s.Val1}
	}
	return []float64{s.Val3, s.Val2, s.Val1}
}

// NewFrame copies a masked BGR or grey Mat into a Frame
func NewFrame(m gocv.Mat) *Frame {
	if m.Empty() {
		return &Frame{Channels: m.Channels()}
	}

	f := &Frame{
		Width:    m.Cols(),
		Height:   m.Rows(),
		Channels: m.Channels(),
		sums:     ChannelSums(m),
	}
	if f.Channels == 1 {
		f.Pix = m.ToBytes()
		return f
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(m, &rgb, gocv.ColorBGRToRGB)
	f.Pix = rgb.ToBytes()
	return f
}
