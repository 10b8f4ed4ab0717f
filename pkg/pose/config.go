package pose

// Config holds detector configuration, fixed at construction.
type Config struct {
	ModelPath string // Path to ONNX model

	// Complexity selects the model variant: 0 runs the lightweight
	// 192px input, 1 and 2 the heavier 256px input.
	Complexity int

	// MinDetectionConfidence is the overall score below which a frame is
	// reported as "no body detected" (default 0.5).
	MinDetectionConfidence float64

	// MinTrackingConfidence gates frame-to-frame smoothing: when the score
	// drops below it, tracking state resets and the next detection starts
	// fresh (default 0.5).
	MinTrackingConfidence float64
}

// DefaultConfig returns production defaults for the lightweight model.
func DefaultConfig() Config {
	return Config{
		ModelPath:              "models/movenet_singlepose_lightning.onnx",
		Complexity:             0,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}

// InputSize returns the square model input edge for the configured
// complexity.
func (c Config) InputSize() int {
	if c.Complexity >= 1 {
		return 256
	}
	return 192
}
