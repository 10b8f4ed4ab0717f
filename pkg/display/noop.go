package display

import (
	"time"

	"gocv.io/x/gocv"
)

// Noop is a Sink for headless runs: frames are dropped and PollKey just
// sleeps so the loop keeps its natural pacing without a window.
type Noop struct{}

// Show discards the frame.
func (Noop) Show(gocv.Mat) {}

// PollKey sleeps for the timeout and reports no key.
func (Noop) PollKey(timeout time.Duration) int {
	time.Sleep(timeout)
	return -1
}

// Close is a no-op.
func (Noop) Close() error { return nil }
