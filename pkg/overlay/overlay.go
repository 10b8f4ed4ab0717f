// Package overlay draws detected pose landmarks onto video frames.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/dcalleja/go-posecam/pkg/pose"
)

// Renderer draws a skeleton over a frame in place. The zero value is not
// usable; construct with New.
type Renderer struct {
	// MinScore hides individual joints (and bones touching them) whose
	// per-keypoint score is below this.
	MinScore float64

	BoneThickness int
	JointRadius   int

	boneColor  color.RGBA
	jointColor color.RGBA
}

// New returns a renderer with the stock green-bone/red-joint style.
func New() *Renderer {
	return &Renderer{
		MinScore:      0.3,
		BoneThickness: 2,
		JointRadius:   4,
		boneColor:     color.RGBA{0, 255, 0, 0},
		jointColor:    color.RGBA{0, 0, 255, 0},
	}
}

// Draw renders set onto frame in place. Landmark coordinates are
// normalized, so they are scaled by the frame's own size here.
func (r *Renderer) Draw(frame *gocv.Mat, set *pose.LandmarkSet) {
	if set == nil || frame.Empty() {
		return
	}

	w := float64(frame.Cols())
	h := float64(frame.Rows())

	pt := func(lm pose.Landmark) image.Point {
		return image.Pt(int(lm.X*w), int(lm.Y*h))
	}

	// Bones first so joints paint over the line ends
	for _, c := range pose.Connections {
		from := set.At(c.From)
		to := set.At(c.To)
		if from.Score < r.MinScore || to.Score < r.MinScore {
			continue
		}
		gocv.Line(frame, pt(from), pt(to), r.boneColor, r.BoneThickness)
	}

	for k := 0; k < pose.NumKeypoints; k++ {
		lm := set.At(pose.Keypoint(k))
		if lm.Score < r.MinScore {
			continue
		}
		gocv.Circle(frame, pt(lm), r.JointRadius, r.jointColor, -1)
	}
}
