package runner

import (
	"bytes"
	"context"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/dcalleja/go-posecam/pkg/pose"
)

const (
	testW = 64
	testH = 48
)

// newTestFrame returns a BGR frame filled with the given channel values.
func newTestFrame(t *testing.T, b, g, r float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(testH, testW, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(b, g, r, 0))
	return m
}

func matEqual(a, b gocv.Mat) bool {
	ab, _ := a.DataPtrUint8()
	bb, _ := b.DataPtrUint8()
	return bytes.Equal(ab, bb)
}

// fakeSource replays a script of reads: a nil entry is a failed read.
type fakeSource struct {
	script []*gocv.Mat
	pos    int
	closed bool
}

func (s *fakeSource) Read(dst *gocv.Mat) bool {
	if s.pos >= len(s.script) {
		// Script exhausted; behave like a glitching camera
		return false
	}
	m := s.script[s.pos]
	s.pos++
	if m == nil {
		return false
	}
	m.CopyTo(dst)
	return true
}

func (s *fakeSource) Size() (int, int) { return testW, testH }

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

// fakeDetector replays a queue of results and records what it saw.
type fakeDetector struct {
	results []*pose.LandmarkSet
	calls   int
	seen    []gocv.Mat // clones of the frames it received
	closed  bool
}

func (d *fakeDetector) Detect(rgb gocv.Mat) (*pose.LandmarkSet, error) {
	d.seen = append(d.seen, rgb.Clone())
	if d.calls >= len(d.results) {
		d.calls++
		return nil, nil
	}
	res := d.results[d.calls]
	d.calls++
	return res, nil
}

func (d *fakeDetector) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDetector) free() {
	for i := range d.seen {
		d.seen[i].Close()
	}
}

// markRenderer stamps a single known pixel so tests can tell annotated
// frames from untouched ones.
type markRenderer struct {
	calls int
	sets  []*pose.LandmarkSet
}

func (r *markRenderer) Draw(frame *gocv.Mat, set *pose.LandmarkSet) {
	r.calls++
	r.sets = append(r.sets, set)
	x := int(set.At(pose.Nose).X * float64(frame.Cols()))
	y := int(set.At(pose.Nose).Y * float64(frame.Rows()))
	frame.SetUCharAt(y, x*frame.Channels(), 255)
	frame.SetUCharAt(y, x*frame.Channels()+1, 255)
	frame.SetUCharAt(y, x*frame.Channels()+2, 255)
}

// fakeSink records shown frames and replays a queue of key codes.
type fakeSink struct {
	keys   []int
	polls  int
	shown  []gocv.Mat // clones
	closed bool
}

func (s *fakeSink) Show(frame gocv.Mat) {
	s.shown = append(s.shown, frame.Clone())
}

func (s *fakeSink) PollKey(timeout time.Duration) int {
	if s.polls >= len(s.keys) {
		s.polls++
		return -1
	}
	k := s.keys[s.polls]
	s.polls++
	return k
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSink) free() {
	for i := range s.shown {
		s.shown[i].Close()
	}
}

func TestRunner_FailedReadsSkipEverything(t *testing.T) {
	frame := newTestFrame(t, 10, 20, 30)
	defer frame.Close()

	src := &fakeSource{script: []*gocv.Mat{nil, nil, nil, &frame}}
	det := &fakeDetector{}
	defer det.free()
	ren := &markRenderer{}
	sink := &fakeSink{keys: []int{EscapeKey}}
	defer sink.free()

	r := New(src, det, ren, sink)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 3 silent retries: detector, renderer and sink untouched for those
	if det.calls != 1 {
		t.Errorf("detector calls: got %d, want 1", det.calls)
	}
	if ren.calls != 0 {
		t.Errorf("renderer calls: got %d, want 0", ren.calls)
	}
	if len(sink.shown) != 1 {
		t.Errorf("frames shown: got %d, want 1", len(sink.shown))
	}

	stats := r.Stats()
	if stats.SkippedReads != 3 {
		t.Errorf("skipped reads: got %d, want 3", stats.SkippedReads)
	}
	if stats.Frames != 1 {
		t.Errorf("frames: got %d, want 1", stats.Frames)
	}
}

func TestRunner_NoDetectionShowsUntouchedFrame(t *testing.T) {
	frame := newTestFrame(t, 40, 80, 120)
	defer frame.Close()

	src := &fakeSource{script: []*gocv.Mat{&frame}}
	det := &fakeDetector{} // always reports no body
	defer det.free()
	ren := &markRenderer{}
	sink := &fakeSink{keys: []int{EscapeKey}}
	defer sink.free()

	r := New(src, det, ren, sink)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ren.calls != 0 {
		t.Fatalf("renderer calls: got %d, want 0", ren.calls)
	}
	if len(sink.shown) != 1 {
		t.Fatalf("frames shown: got %d, want 1", len(sink.shown))
	}
	if !matEqual(sink.shown[0], frame) {
		t.Error("displayed frame differs from captured frame with no detection")
	}
}

func TestRunner_DetectorReceivesRGB(t *testing.T) {
	// Pure blue in BGR: channel order must arrive swapped at the detector
	frame := newTestFrame(t, 255, 0, 0)
	defer frame.Close()

	src := &fakeSource{script: []*gocv.Mat{&frame}}
	det := &fakeDetector{}
	defer det.free()
	sink := &fakeSink{keys: []int{EscapeKey}}
	defer sink.free()

	r := New(src, det, &markRenderer{}, sink)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(det.seen) != 1 {
		t.Fatalf("detector saw %d frames, want 1", len(det.seen))
	}
	got := det.seen[0]
	if got.GetUCharAt(0, 0) != 0 || got.GetUCharAt(0, 2) != 255 {
		t.Errorf("detector frame channels not swapped to RGB: first pixel (%d,%d,%d)",
			got.GetUCharAt(0, 0), got.GetUCharAt(0, 1), got.GetUCharAt(0, 2))
	}
}

func TestConvert_BGRtoRGBBijection(t *testing.T) {
	frame := gocv.NewMatWithSize(testH, testW, gocv.MatTypeCV8UC3)
	defer frame.Close()
	// Non-uniform data so a channel mixup can't hide
	data, _ := frame.DataPtrUint8()
	for i := range data {
		data[i] = uint8(i * 7)
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	back := gocv.NewMat()
	defer back.Close()

	gocv.CvtColor(frame, &rgb, gocv.ColorBGRToRGB)
	// The swap is its own inverse
	gocv.CvtColor(rgb, &back, gocv.ColorBGRToRGB)

	if !matEqual(frame, back) {
		t.Error("BGR->RGB->BGR did not reproduce the original pixels")
	}
	if rgb.Rows() != frame.Rows() || rgb.Cols() != frame.Cols() {
		t.Error("conversion changed frame shape")
	}
}

func TestRunner_ExitOnlyOnEscape(t *testing.T) {
	frame := newTestFrame(t, 1, 2, 3)
	defer frame.Close()

	// Enough reads for every key in the script
	script := make([]*gocv.Mat, 5)
	for i := range script {
		script[i] = &frame
	}

	src := &fakeSource{script: script}
	det := &fakeDetector{}
	defer det.free()
	sink := &fakeSink{keys: []int{-1, 'q', 32, 13, EscapeKey}}
	defer sink.free()

	r := New(src, det, &markRenderer{}, sink)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sink.shown) != 5 {
		t.Errorf("frames shown: got %d, want 5 (loop must survive non-escape keys)", len(sink.shown))
	}
}

func TestRunner_ContextCancelStopsLoop(t *testing.T) {
	frame := newTestFrame(t, 9, 9, 9)
	defer frame.Close()

	src := &fakeSource{script: []*gocv.Mat{&frame, &frame, &frame}}
	det := &fakeDetector{}
	defer det.free()
	sink := &fakeSink{} // never reports a key
	defer sink.free()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(src, det, &markRenderer{}, sink)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sink.shown) != 0 {
		t.Errorf("frames shown after pre-cancelled context: got %d, want 0", len(sink.shown))
	}
	if !src.closed || !sink.closed {
		t.Error("source and sink must be released on cancellation")
	}
}

func TestRunner_EndToEndScenario(t *testing.T) {
	frame := newTestFrame(t, 100, 100, 100)
	defer frame.Close()

	// 3 failed reads, 2 frames with no body, 1 frame with a pose, then ESC
	src := &fakeSource{script: []*gocv.Mat{nil, nil, nil, &frame, &frame, &frame}}

	set := &pose.LandmarkSet{Score: 0.9}
	set.Points[pose.Nose] = pose.Landmark{X: 0.5, Y: 0.5, Score: 0.9}

	det := &fakeDetector{results: []*pose.LandmarkSet{nil, nil, set}}
	defer det.free()
	ren := &markRenderer{}
	sink := &fakeSink{keys: []int{-1, -1, EscapeKey}}
	defer sink.free()

	var observed []*pose.LandmarkSet
	r := New(src, det, ren, sink,
		WithFrameFunc(func(f gocv.Mat, s *pose.LandmarkSet) {
			observed = append(observed, s)
		}))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stats := r.Stats()
	if stats.SkippedReads != 3 {
		t.Errorf("skipped reads: got %d, want 3", stats.SkippedReads)
	}
	if stats.Frames != 3 {
		t.Errorf("frames: got %d, want 3", stats.Frames)
	}
	if stats.Detections != 1 {
		t.Errorf("detections: got %d, want 1", stats.Detections)
	}
	if ren.calls != 1 {
		t.Fatalf("renderer calls: got %d, want 1", ren.calls)
	}
	if ren.sets[0] != set {
		t.Error("renderer did not receive the detected landmark set")
	}
	if len(sink.shown) != 3 {
		t.Fatalf("frames shown: got %d, want 3", len(sink.shown))
	}

	// First two displayed frames are untouched
	if !matEqual(sink.shown[0], frame) || !matEqual(sink.shown[1], frame) {
		t.Error("unannotated frames must be pixel-identical to the captured frame")
	}

	// Third differs exactly at the stamped landmark pixel
	annotated := sink.shown[2]
	if matEqual(annotated, frame) {
		t.Error("annotated frame should differ from the captured frame")
	}
	cx, cy := testW/2, testH/2
	for _, ch := range []int{0, 1, 2} {
		if annotated.GetUCharAt(cy, cx*3+ch) != 255 {
			t.Errorf("overlay pixel channel %d: got %d, want 255", ch, annotated.GetUCharAt(cy, cx*3+ch))
		}
	}
	// A pixel far from the landmark is untouched
	if annotated.GetUCharAt(0, 0) != 100 {
		t.Errorf("pixel outside overlay region changed: got %d, want 100", annotated.GetUCharAt(0, 0))
	}

	// Clean termination released both handles
	if !src.closed {
		t.Error("capture source not released")
	}
	if !sink.closed {
		t.Error("display sink not released")
	}

	// Frame observer saw the same sequence
	if len(observed) != 3 || observed[0] != nil || observed[1] != nil || observed[2] != set {
		t.Errorf("frame observer sequence wrong: %v", observed)
	}
}
