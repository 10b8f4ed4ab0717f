package pose

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func setAt(x, y, score float64) *LandmarkSet {
	s := &LandmarkSet{Score: score}
	for i := range s.Points {
		s.Points[i] = Landmark{X: x, Y: y, Score: score}
	}
	return s
}

func TestSmoother_FirstFramePassesThrough(t *testing.T) {
	sm := newSmoother(0.5)

	in := setAt(0.4, 0.6, 0.9)
	out := sm.apply(in)

	if out != in {
		t.Error("first confident frame should pass through unblended")
	}
}

func TestSmoother_BlendsConsecutiveFrames(t *testing.T) {
	sm := newSmoother(0.5)

	sm.apply(setAt(0.0, 0.0, 0.9))
	out := sm.apply(setAt(1.0, 1.0, 0.9))

	// 0.6 new + 0.4 old
	if !approxEqual(out.Points[Nose].X, 0.6) {
		t.Errorf("blended X: got %v, want 0.6", out.Points[Nose].X)
	}
	if !approxEqual(out.Points[LeftAnkle].Y, 0.6) {
		t.Errorf("blended Y: got %v, want 0.6", out.Points[LeftAnkle].Y)
	}
}

func TestSmoother_ResetsBelowTrackingConfidence(t *testing.T) {
	sm := newSmoother(0.5)

	sm.apply(setAt(0.0, 0.0, 0.9))
	out := sm.apply(setAt(1.0, 1.0, 0.4)) // below threshold: no blending

	if !approxEqual(out.Points[Nose].X, 1.0) {
		t.Errorf("low-confidence frame should not blend: got X %v, want 1.0", out.Points[Nose].X)
	}

	// And the low-confidence frame becomes the new tracking baseline
	out = sm.apply(setAt(0.0, 0.0, 0.9))
	if !approxEqual(out.Points[Nose].X, 0.4) {
		t.Errorf("after reset baseline: got X %v, want 0.4", out.Points[Nose].X)
	}
}

func TestSmoother_NilClearsState(t *testing.T) {
	sm := newSmoother(0.5)

	sm.apply(setAt(0.0, 0.0, 0.9))
	if sm.apply(nil) != nil {
		t.Error("nil input must return nil")
	}

	// After a miss, the next frame starts fresh
	in := setAt(1.0, 1.0, 0.9)
	if out := sm.apply(in); out != in {
		t.Error("frame after a miss should pass through unblended")
	}
}
