package camera

import (
	"fmt"
	"strconv"

	"gocv.io/x/gocv"
)

// Source is the capture capability the loop depends on.
// Read reports false when no usable frame is available this instant; the
// caller decides what to do about it.
type Source interface {
	// Read fills dst with the next frame in device-native BGR order.
	// Returns false if the source produced no usable frame.
	Read(dst *gocv.Mat) bool

	// Size returns the configured capture resolution.
	Size() (width, height int)

	// Close releases the device handle.
	Close() error
}

// Webcam is a Source backed by a local V4L2 device or a stream URL.
type Webcam struct {
	cap *gocv.VideoCapture
	cfg Config
}

// Open acquires the capture device described by cfg and applies the
// requested resolution. This is the one fatal failure point of the
// pipeline: if the device cannot be opened there is nothing to loop over.
func Open(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if idx, convErr := strconv.Atoi(cfg.Device); convErr == nil {
		// Numeric index: go through V4L2 so libcamerify-wrapped sensors work.
		vc, err = gocv.OpenVideoCaptureWithAPI(idx, gocv.VideoCaptureV4L2)
	} else {
		vc, err = gocv.OpenVideoCapture(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("open capture device %q: %w", cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("capture device %q is not available", cfg.Device)
	}

	// Force a fixed resolution so downstream colorspace conversion and
	// inference always see the same frame shape.
	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	return &Webcam{cap: vc, cfg: cfg}, nil
}

// Read fills dst with the next BGR frame. A false return means a transient
// capture glitch; the device stays open and the next Read may succeed.
func (w *Webcam) Read(dst *gocv.Mat) bool {
	if !w.cap.Read(dst) {
		return false
	}
	return !dst.Empty()
}

// Size returns the configured capture resolution.
func (w *Webcam) Size() (int, int) {
	return w.cfg.Width, w.cfg.Height
}

// Close releases the device handle.
func (w *Webcam) Close() error {
	return w.cap.Close()
}
