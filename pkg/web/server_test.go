package web

import (
	"bytes"
	"encoding/json"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lakshya-inakhiya/go-ash/pkg/display"
	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startServer(t *testing.T, addr string) *Server {
	t.Helper()
	s := NewServer(addr, discardLogger())
	go s.Start()
	t.Cleanup(func() { s.Shutdown() })
	time.Sleep(100 * time.Millisecond)
	return s
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	return ws
}

func TestStateEndpoint(t *testing.T) {
	s := startServer(t, ":18090")
	s.UpdateState(func(st *State) {
		st.Backend = "simulated"
		st.Expression = "neutral"
	})

	resp, err := http.Get("http://localhost:18090/api/state")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	var state State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if state.Backend != "simulated" {
		t.Errorf("Backend = %q, want simulated", state.Backend)
	}
	if state.Expression != "neutral" {
		t.Errorf("Expression = %q, want neutral", state.Expression)
	}
}

func TestConversationEndpoint(t *testing.T) {
	s := startServer(t, ":18091")
	s.AddExchange("user", "hello robot")
	s.AddExchange("ash", "hello human")

	resp, err := http.Get("http://localhost:18091/api/conversation")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "hello robot") {
		t.Error("Conversation should contain the user line")
	}
	if !strings.Contains(string(body), "hello human") {
		t.Error("Conversation should contain the reply line")
	}
}

func TestIndexServed(t *testing.T) {
	startServer(t, ":18092")

	resp, err := http.Get("http://localhost:18092/")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Ash Preview") {
		t.Error("Index page should contain the viewer")
	}
}

func TestFrameWebSocket(t *testing.T) {
	s := startServer(t, ":18093")

	ws := dialWS(t, "ws://localhost:18093/ws/frames")
	time.Sleep(100 * time.Millisecond)

	payload := []byte("fake-png-frame")
	s.BroadcastFrame(payload)

	msgType, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Errorf("Message type = %d, want binary", msgType)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Frame payload = %q", data)
	}
}

func TestStatusWebSocket(t *testing.T) {
	s := startServer(t, ":18094")

	ws := dialWS(t, "ws://localhost:18094/ws/status")

	// The current state arrives immediately on connect.
	var initial State
	if err := ws.ReadJSON(&initial); err != nil {
		t.Fatalf("Read error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	s.UpdateState(func(st *State) {
		st.Expression = "happy"
		st.Speaking = true
	})

	var updated State
	if err := ws.ReadJSON(&updated); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if updated.Expression != "happy" {
		t.Errorf("Expression = %q, want happy", updated.Expression)
	}
	if !updated.Speaking {
		t.Error("Speaking should be true")
	}
}

func TestAttachStreamsFrames(t *testing.T) {
	s := startServer(t, ":18095")

	sim := display.NewSimulated(discardLogger())
	if err := sim.Initialize(display.DefaultConfig()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	s.Attach(sim)

	ws := dialWS(t, "ws://localhost:18095/ws/frames")
	time.Sleep(100 * time.Millisecond)

	frame, err := pixbuf.Solid(480, 320, color.RGBA{R: 255, A: 255})
	if err != nil {
		t.Fatalf("Solid failed: %v", err)
	}
	if err := sim.Present(frame); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	msgType, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Errorf("Message type = %d, want binary", msgType)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Frame should be PNG encoded")
	}
}

func TestAttachSkipsEncodingWithoutViewers(t *testing.T) {
	s := NewServer(":0", discardLogger())

	sim := display.NewSimulated(discardLogger())
	if err := sim.Initialize(display.DefaultConfig()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	s.Attach(sim)

	// No hub is running; presenting must still succeed because the
	// callback bails out before encoding.
	frame, err := pixbuf.Solid(480, 320, color.RGBA{A: 255})
	if err != nil {
		t.Fatalf("Solid failed: %v", err)
	}
	if err := sim.Present(frame); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
}
