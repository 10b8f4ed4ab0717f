package pose

import "gocv.io/x/gocv"

// Detector is the interface for pose detection backends.
type Detector interface {
	// Detect runs inference on an RGB frame and returns the detected
	// landmark set, or nil if no body was found.
	Detect(rgb gocv.Mat) (*LandmarkSet, error)

	// Close releases resources.
	Close() error
}
