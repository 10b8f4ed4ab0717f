// Package display presents frames to the user and reports key presses.
package display

import (
	"time"

	"gocv.io/x/gocv"
)

// Sink is the presentation capability the loop depends on.
type Sink interface {
	// Show presents the frame.
	Show(frame gocv.Mat)

	// PollKey waits up to timeout for a key press and returns its code,
	// or -1 if none arrived. The wait also services the display's own
	// event pump, so it must be called every iteration.
	PollKey(timeout time.Duration) int

	// Close destroys any windows.
	Close() error
}

// Window is a Sink backed by an OpenCV HighGUI window.
type Window struct {
	win *gocv.Window
}

// NewWindow creates an on-screen window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show presents the frame in the window.
func (w *Window) Show(frame gocv.Mat) {
	w.win.IMShow(frame)
}

// PollKey pumps window events for up to timeout and returns the pressed
// key code, or -1.
func (w *Window) PollKey(timeout time.Duration) int {
	ms := int(timeout / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return w.win.WaitKey(ms)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
