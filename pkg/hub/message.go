// Package hub provides a thread-safe websocket broadcast hub for the
// pose and frame feeds, using the channel-based fan-out pattern.
package hub

import (
	"encoding/json"
	"time"

	"github.com/dcalleja/go-posecam/pkg/pose"
)

// MessageType indicates the websocket message format
type MessageType int

const (
	// JSONMessage is a JSON-encoded message
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data (e.g., JPEG frames)
	BinaryMessage
)

// Message represents a message to be broadcast to clients
type Message struct {
	Type MessageType
	Data []byte
}

// PoseEvent is the JSON payload of the landmark feed: one detection
// result per displayed frame.
type PoseEvent struct {
	Time     time.Time         `json:"time"`
	Frame    uint64            `json:"frame"`
	Detected bool              `json:"detected"`
	Pose     *pose.LandmarkSet `json:"pose,omitempty"`
}

// EncodePoseEvent marshals a PoseEvent into a broadcastable Message.
func EncodePoseEvent(ev PoseEvent) (Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: JSONMessage, Data: data}, nil
}

// NewFrameMessage wraps an encoded JPEG frame for broadcast.
func NewFrameMessage(jpeg []byte) Message {
	return Message{Type: BinaryMessage, Data: jpeg}
}
