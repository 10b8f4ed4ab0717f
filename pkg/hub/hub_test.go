package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dcalleja/go-posecam/pkg/pose"
)

func TestEncodePoseEvent_RoundTrip(t *testing.T) {
	set := &pose.LandmarkSet{Score: 0.8}
	set.Points[pose.Nose] = pose.Landmark{X: 0.5, Y: 0.25, Score: 0.9}

	msg, err := EncodePoseEvent(PoseEvent{
		Time:     time.Now(),
		Frame:    42,
		Detected: true,
		Pose:     set,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if msg.Type != JSONMessage {
		t.Errorf("message type: got %v, want JSONMessage", msg.Type)
	}

	var got PoseEvent
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Frame != 42 || !got.Detected {
		t.Errorf("frame/detected: got %d/%v", got.Frame, got.Detected)
	}
	if got.Pose == nil || got.Pose.Points[pose.Nose].X != 0.5 {
		t.Error("landmark set did not survive the round trip")
	}
}

func TestEncodePoseEvent_NoDetectionOmitsPose(t *testing.T) {
	msg, err := EncodePoseEvent(PoseEvent{Frame: 1, Detected: false})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(msg.Data, &raw); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, present := raw["pose"]; present {
		t.Error("pose key should be omitted when nothing was detected")
	}
}

func TestNewFrameMessage(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff} // JPEG SOI
	msg := NewFrameMessage(data)

	if msg.Type != BinaryMessage {
		t.Errorf("message type: got %v, want BinaryMessage", msg.Type)
	}
	if string(msg.Data) != string(data) {
		t.Error("frame bytes altered")
	}
}

func TestHub_ClientCountStartsAtZero(t *testing.T) {
	h := New("test")
	if h.ClientCount() != 0 {
		t.Errorf("client count: got %d, want 0", h.ClientCount())
	}
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	h := New("test") // Run is never started: channel fills up

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Broadcast(Message{Type: BinaryMessage, Data: []byte{1}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no hub running")
	}
}
