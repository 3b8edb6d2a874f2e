package hub

import (
	"testing"
	"time"
)

func TestHubJoinAndStop(t *testing.T) {
	h := New("test", nil)
	go h.Run()

	v := &Viewer{hub: h, send: make(chan Message, 4)}
	h.join <- v
	time.Sleep(50 * time.Millisecond)

	if h.ViewerCount() != 1 {
		t.Errorf("ViewerCount = %d, want 1", h.ViewerCount())
	}
	if !h.Running() {
		t.Error("Hub should be running")
	}

	h.Stop()
	time.Sleep(50 * time.Millisecond)

	if h.Running() {
		t.Error("Hub should have stopped")
	}
	if h.ViewerCount() != 0 {
		t.Errorf("ViewerCount = %d, want 0 after stop", h.ViewerCount())
	}
	if _, open := <-v.send; open {
		t.Error("Viewer channel should be closed on stop")
	}
}

func TestHubBroadcastReachesViewer(t *testing.T) {
	h := New("test", nil)
	go h.Run()
	defer h.Stop()

	v := &Viewer{hub: h, send: make(chan Message, 4)}
	h.join <- v
	time.Sleep(50 * time.Millisecond)

	h.BroadcastBinary([]byte("frame"))

	select {
	case msg := <-v.send:
		if msg.Type != BinaryMessage {
			t.Errorf("Type = %d, want binary", msg.Type)
		}
		if string(msg.Data) != "frame" {
			t.Errorf("Data = %q", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("Broadcast never arrived")
	}
}

func TestHubDropsSlowViewer(t *testing.T) {
	h := New("test", nil)
	go h.Run()
	defer h.Stop()

	// An unbuffered channel that nobody reads models a stalled viewer.
	v := &Viewer{hub: h, send: make(chan Message)}
	h.join <- v
	time.Sleep(50 * time.Millisecond)

	h.BroadcastBinary([]byte("frame"))
	time.Sleep(50 * time.Millisecond)

	if h.ViewerCount() != 0 {
		t.Errorf("ViewerCount = %d, slow viewer should be dropped", h.ViewerCount())
	}
}

func TestHubLeaveTwiceIsSafe(t *testing.T) {
	h := New("test", nil)
	go h.Run()
	defer h.Stop()

	v := &Viewer{hub: h, send: make(chan Message, 4)}
	h.join <- v
	time.Sleep(50 * time.Millisecond)

	h.leave <- v
	h.leave <- v
	time.Sleep(50 * time.Millisecond)

	if h.ViewerCount() != 0 {
		t.Errorf("ViewerCount = %d, want 0", h.ViewerCount())
	}
}
