package pose

// smoothingFactor is the weight given to the newest landmarks when
// tracking across frames (higher = more new data).
const smoothingFactor = 0.6

// smoother blends consecutive landmark sets to damp per-frame jitter.
// It holds the previous frame's pose while tracking confidence stays above
// the configured threshold and resets as soon as it drops.
type smoother struct {
	prev         *LandmarkSet
	minTrackConf float64
}

func newSmoother(minTrackConf float64) *smoother {
	return &smoother{minTrackConf: minTrackConf}
}

// apply folds the current detection into the tracking state and returns
// the smoothed set. A nil input clears tracking state.
func (t *smoother) apply(cur *LandmarkSet) *LandmarkSet {
	if cur == nil {
		t.prev = nil
		return nil
	}
	if cur.Score < t.minTrackConf || t.prev == nil {
		// Not confident enough to track: start fresh from this frame.
		t.prev = cur
		return cur
	}

	blended := &LandmarkSet{Score: cur.Score}
	for i := range cur.Points {
		blended.Points[i] = Landmark{
			X:     smoothingFactor*cur.Points[i].X + (1-smoothingFactor)*t.prev.Points[i].X,
			Y:     smoothingFactor*cur.Points[i].Y + (1-smoothingFactor)*t.prev.Points[i].Y,
			Score: cur.Points[i].Score,
		}
	}
	t.prev = blended
	return blended
}

// reset clears tracking state.
func (t *smoother) reset() {
	t.prev = nil
}
