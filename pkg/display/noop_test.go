package display

import (
	"testing"
	"time"
)

func TestNoop_PollKeyReportsNoKey(t *testing.T) {
	var sink Noop

	start := time.Now()
	key := sink.PollKey(5 * time.Millisecond)
	elapsed := time.Since(start)

	if key != -1 {
		t.Errorf("key: got %d, want -1", key)
	}
	if elapsed < 5*time.Millisecond {
		t.Errorf("PollKey returned after %v, want at least the timeout", elapsed)
	}
}

func TestNoop_CloseIsNil(t *testing.T) {
	var sink Noop
	if err := sink.Close(); err != nil {
		t.Errorf("Close: got %v, want nil", err)
	}
}
