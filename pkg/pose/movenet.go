package pose

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// MoveNetDetector runs a MoveNet single-pose ONNX model through the
// OpenCV DNN module.
type MoveNetDetector struct {
	net     gocv.Net
	cfg     Config
	tracker *smoother
	mu      sync.Mutex // Protects inference and tracking state
}

// NewMoveNet loads the ONNX model named by cfg and prepares it for
// inference on the CPU.
func NewMoveNet(cfg Config) (*MoveNetDetector, error) {
	// Check if model file exists first
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model: %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &MoveNetDetector{
		net:     net,
		cfg:     cfg,
		tracker: newSmoother(cfg.MinTrackingConfidence),
	}, nil
}

// Detect runs inference on an RGB frame. Returns nil when the overall
// score falls below the detection confidence threshold.
func (d *MoveNetDetector) Detect(rgb gocv.Mat) (*LandmarkSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rgb.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	side := d.cfg.InputSize()
	blob := gocv.BlobFromImage(rgb, 1.0, image.Pt(side, side),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	// Output is [1,1,17,3]: (y, x, score) per keypoint, normalized to
	// the input image.
	kps := out.Reshape(1, NumKeypoints)
	defer kps.Close()

	set := &LandmarkSet{}
	total := 0.0
	for k := 0; k < NumKeypoints; k++ {
		y := float64(kps.GetFloatAt(k, 0))
		x := float64(kps.GetFloatAt(k, 1))
		score := float64(kps.GetFloatAt(k, 2))
		set.Points[k] = Landmark{X: x, Y: y, Score: score}
		total += score
	}
	set.Score = total / NumKeypoints

	if set.Score < d.cfg.MinDetectionConfidence {
		d.tracker.reset()
		return nil, nil
	}

	return d.tracker.apply(set), nil
}

// Close releases the network.
func (d *MoveNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
