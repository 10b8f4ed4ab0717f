// Package runner drives the capture → detect → draw → display loop.
//
// The loop is single-threaded and fully synchronous: every stage blocks
// the iteration, and the only exits are the escape key, context
// cancellation, or process termination. Failed frame reads are skipped
// silently and retried immediately, with no cap and no backoff.
package runner

import (
	"context"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/dcalleja/go-posecam/internal/log"
	"github.com/dcalleja/go-posecam/pkg/camera"
	"github.com/dcalleja/go-posecam/pkg/display"
	"github.com/dcalleja/go-posecam/pkg/pose"
)

// EscapeKey is the key code that terminates the loop.
const EscapeKey = 27

// DefaultPollTimeout is how long each iteration waits for a key press.
// Long enough to service the display's event pump, short enough not to
// cap throughput below the source's frame rate.
const DefaultPollTimeout = 1 * time.Millisecond

// Renderer draws a landmark set onto a frame in place.
// Satisfied by *overlay.Renderer.
type Renderer interface {
	Draw(frame *gocv.Mat, set *pose.LandmarkSet)
}

// FrameFunc observes each displayed frame after the overlay is drawn.
// The Mat is only valid for the duration of the call.
type FrameFunc func(frame gocv.Mat, set *pose.LandmarkSet)

// Runner owns one capture source and one display sink for its lifetime
// and runs the acquisition loop over them. Both are released when Run
// returns, on every exit path.
type Runner struct {
	src  camera.Source
	det  pose.Detector
	ren  Renderer
	sink display.Sink

	pollTimeout time.Duration
	exitKey     int
	onFrame     FrameFunc

	frames       atomic.Uint64
	detections   atomic.Uint64
	skippedReads atomic.Uint64
	started      atomic.Int64 // unix nanos, 0 until Run is called
}

// Option tweaks a Runner at construction.
type Option func(*Runner)

// WithPollTimeout overrides the key poll timeout.
func WithPollTimeout(d time.Duration) Option {
	return func(r *Runner) { r.pollTimeout = d }
}

// WithExitKey overrides the key code that stops the loop.
func WithExitKey(code int) Option {
	return func(r *Runner) { r.exitKey = code }
}

// WithFrameFunc registers an observer for every displayed frame.
func WithFrameFunc(fn FrameFunc) Option {
	return func(r *Runner) { r.onFrame = fn }
}

// New wires a Runner from its four collaborators.
func New(src camera.Source, det pose.Detector, ren Renderer, sink display.Sink, opts ...Option) *Runner {
	r := &Runner{
		src:         src,
		det:         det,
		ren:         ren,
		sink:        sink,
		pollTimeout: DefaultPollTimeout,
		exitKey:     EscapeKey,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the loop until the exit key is pressed or ctx is cancelled.
// Both count as normal termination. The source and sink are closed
// unconditionally on return.
func (r *Runner) Run(ctx context.Context) error {
	defer r.shutdown()

	r.started.Store(time.Now().UnixNano())

	w, h := r.src.Size()
	log.Info("capture loop started", "width", w, "height", h)

	frame := gocv.NewMat()
	defer frame.Close()
	rgb := gocv.NewMat()
	defer rgb.Close()

	for {
		select {
		case <-ctx.Done():
			log.Info("capture loop cancelled")
			return nil
		default:
		}

		// A failed read is a transient glitch: skip everything and try
		// again immediately. Never counted against the loop.
		if !r.src.Read(&frame) || frame.Empty() {
			r.skippedReads.Add(1)
			log.Debug("skipped unusable frame", "total_skipped", r.skippedReads.Load())
			continue
		}

		// The detector wants RGB; the device delivers BGR. Resolution is
		// fixed at the source, so this is a pure channel swap.
		gocv.CvtColor(frame, &rgb, gocv.ColorBGRToRGB)

		set, err := r.det.Detect(rgb)
		if err != nil {
			log.Debug("detector error", "err", err)
			set = nil
		}
		if set != nil {
			r.detections.Add(1)
			// Overlay goes on the original BGR frame, not the converted copy.
			r.ren.Draw(&frame, set)
		}

		r.sink.Show(frame)
		if r.onFrame != nil {
			r.onFrame(frame, set)
		}
		r.frames.Add(1)

		if key := r.sink.PollKey(r.pollTimeout); key == r.exitKey {
			log.Info("exit key pressed", "key", key)
			return nil
		}
	}
}

func (r *Runner) shutdown() {
	if err := r.src.Close(); err != nil {
		log.Warn("closing capture source", "err", err)
	}
	if err := r.sink.Close(); err != nil {
		log.Warn("closing display sink", "err", err)
	}
	log.Info("capture loop stopped",
		"frames", r.frames.Load(),
		"detections", r.detections.Load(),
		"skipped_reads", r.skippedReads.Load(),
	)
}

// Stats is a snapshot of loop counters.
type Stats struct {
	Frames       uint64  `json:"frames"`
	Detections   uint64  `json:"detections"`
	SkippedReads uint64  `json:"skipped_reads"`
	FPS          float64 `json:"fps"`
}

// Stats returns a snapshot of the loop counters. Safe to call from other
// goroutines while the loop runs.
func (r *Runner) Stats() Stats {
	s := Stats{
		Frames:       r.frames.Load(),
		Detections:   r.detections.Load(),
		SkippedReads: r.skippedReads.Load(),
	}
	if start := r.started.Load(); start > 0 {
		elapsed := time.Since(time.Unix(0, start)).Seconds()
		if elapsed > 0 {
			s.FPS = float64(s.Frames) / elapsed
		}
	}
	return s
}
