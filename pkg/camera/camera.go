package camera

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

var (
	ErrReadFrame  = errors.New("camera: cannot read frame")
	ErrEmptyFrame = errors.New("camera: frame is empty")
	ErrClosed     = errors.New("camera: stream closed")
)

// VideoStream manages the webcam connection. It is the only owner of the
// device; reads are serialized so the preview and a run never read at the
// same time.
type VideoStream struct {
	deviceID int
	webcam   *gocv.VideoCapture
	frame    *gocv.Mat // Keep a reusable matrix to save memory

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	width     int
	height    int
}

// NewVideoStream opens the camera and reads one frame to make sure the
// device delivers images at the requested size
func NewVideoStream(id, width, height int) (*VideoStream, error) {
	cam, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %d: %w", id, err)
	}

	if width > 0 && height > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(width))
		cam.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	mat := gocv.NewMat()
	vs := &VideoStream{
		deviceID: id,
		webcam:   cam,
		frame:    &mat,
	}

	if err := vs.grab(); err != nil {
		vs.Close()
		return nil, fmt.Errorf("device %d: %w", id, err)
	}
	vs.width = vs.frame.Cols()
	vs.height = vs.frame.Rows()
	return vs, nil
}

func (vs *VideoStream) grab() error {
	if !vs.webcam.Read(vs.frame) {
		return ErrReadFrame
	}
	if vs.frame.Empty() {
		return ErrEmptyFrame
	}
	return nil
}

// Read returns the current frame as a standard Go image in RGB order
func (vs *VideoStream) Read() (image.Image, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.closed {
		return nil, ErrClosed
	}
	if err := vs.grab(); err != nil {
		return nil, err
	}

	// GoCV Mat -> Go Image conversion
	img, err := vs.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("camera: convert frame: %w", err)
	}
	return img, nil
}

// Frame implements the light-curve frame source
func (vs *VideoStream) Frame() (image.Image, error) {
	return vs.Read()
}

// Size is the frame size reported by the device when it was opened
func (vs *VideoStream) Size() (width, height int) {
	return vs.width, vs.height
}

// Close releases the device. Only the first call has an effect.
func (vs *VideoStream) Close() {
	vs.closeOnce.Do(func() {
		vs.mu.Lock()
		defer vs.mu.Unlock()
		vs.closed = true
		vs.webcam.Close()
		vs.frame.Close()
	})
}
