// Package pose provides single-person body pose detection.
package pose

// Keypoint indexes into a LandmarkSet. The order is the 17-point COCO
// skeleton used by MoveNet-family models.
type Keypoint int

const (
	Nose Keypoint = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	// NumKeypoints is the fixed cardinality of a landmark set.
	NumKeypoints = 17
)

var keypointNames = [NumKeypoints]string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

// String returns the snake_case keypoint name.
func (k Keypoint) String() string {
	if k < 0 || k >= NumKeypoints {
		return "unknown"
	}
	return keypointNames[k]
}

// Landmark is one labeled body point for one frame.
// X and Y are normalized to [0,1] relative to the frame.
type Landmark struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score"`
}

// LandmarkSet is the detected pose for a single frame: a fixed-cardinality
// set of labeled points plus an overall confidence.
type LandmarkSet struct {
	Points [NumKeypoints]Landmark `json:"points"`
	Score  float64                `json:"score"`
}

// At returns the landmark for the given keypoint.
func (s *LandmarkSet) At(k Keypoint) Landmark {
	return s.Points[k]
}

// Connection is one bone of the skeleton, a pair of keypoints to join.
type Connection struct {
	From, To Keypoint
}

// Connections is the fixed skeleton topology drawn over detected poses.
var Connections = []Connection{
	{Nose, LeftEye}, {Nose, RightEye},
	{LeftEye, LeftEar}, {RightEye, RightEar},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow}, {LeftElbow, LeftWrist},
	{RightShoulder, RightElbow}, {RightElbow, RightWrist},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee}, {LeftKnee, LeftAnkle},
	{RightHip, RightKnee}, {RightKnee, RightAnkle},
}
