package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleRecognizerListen(t *testing.T) {
	wav := []byte("RIFF-fake-wav-payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/l16; rate=16000;" {
			t.Errorf("Content-Type = %q", got)
		}
		if r.URL.Query().Get("lang") != "en" {
			t.Errorf("lang = %q", r.URL.Query().Get("lang"))
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}

		// The endpoint answers with one JSON object per line; the
		// first is typically empty.
		w.Write([]byte(`{"result":[]}` + "\n"))
		w.Write([]byte(`{"result":[{"alternative":[{"transcript":"hello robot","confidence":0.92}],"final":true}],"result_index":0}` + "\n"))
	}))
	defer server.Close()

	rec, err := NewGoogleRecognizer(
		WithAPIKey("test-key"),
		WithRecognizerURL(server.URL),
		WithRecorder(&MockRecorder{Payloads: [][]byte{wav}}),
	)
	if err != nil {
		t.Fatalf("Failed to create recognizer: %v", err)
	}
	defer rec.Close()

	text, err := rec.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	if text != "hello robot" {
		t.Errorf("Transcript = %q", text)
	}
}

func TestGoogleRecognizerNoSpeech(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}` + "\n"))
	}))
	defer server.Close()

	rec, err := NewGoogleRecognizer(
		WithAPIKey("test-key"),
		WithRecognizerURL(server.URL),
		WithRecorder(&MockRecorder{Payloads: [][]byte{[]byte("wav")}}),
	)
	if err != nil {
		t.Fatalf("Failed to create recognizer: %v", err)
	}
	defer rec.Close()

	_, err = rec.Listen(context.Background())
	if !errors.Is(err, ErrNoSpeech) {
		t.Errorf("Expected ErrNoSpeech, got %v", err)
	}
}

func TestGoogleRecognizerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	rec, err := NewGoogleRecognizer(
		WithAPIKey("test-key"),
		WithRecognizerURL(server.URL),
		WithRecorder(&MockRecorder{Payloads: [][]byte{[]byte("wav")}}),
	)
	if err != nil {
		t.Fatalf("Failed to create recognizer: %v", err)
	}
	defer rec.Close()

	_, err = rec.Listen(context.Background())
	if err == nil || errors.Is(err, ErrNoSpeech) {
		t.Errorf("Expected transport error, got %v", err)
	}
}

func TestGoogleRecognizerRequiresKey(t *testing.T) {
	if _, err := NewGoogleRecognizer(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestGoogleSynthesizerSay(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tl") != "en" {
			t.Errorf("tl = %q", r.URL.Query().Get("tl"))
		}
		if r.URL.Query().Get("ttsspeed") != "1" {
			t.Errorf("ttsspeed = %q", r.URL.Query().Get("ttsspeed"))
		}
		queries = append(queries, r.URL.Query().Get("q"))
		w.Write([]byte("fake-mp3-" + r.URL.Query().Get("idx")))
	}))
	defer server.Close()

	player := &MockPlayer{}
	syn, err := NewGoogleSynthesizer(
		WithSynthesizerURL(server.URL),
		WithPlayer(player),
	)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}
	defer syn.Close()

	// Two sentences over the chunk limit force a split.
	text := strings.Repeat("alpha ", 30) + "one. " + strings.Repeat("beta ", 30) + "two."
	if err := syn.Say(context.Background(), text); err != nil {
		t.Fatalf("Say failed: %v", err)
	}

	if len(queries) < 2 {
		t.Fatalf("Expected at least 2 synthesis requests, got %d", len(queries))
	}
	if len(player.Played()) != len(queries) {
		t.Errorf("Played %d payloads for %d requests", len(player.Played()), len(queries))
	}
	for i, q := range queries {
		if len(q) > maxChunkLen {
			t.Errorf("Chunk %d over limit: %d chars", i, len(q))
		}
	}
	if string(player.Played()[0]) != "fake-mp3-0" {
		t.Errorf("First payload = %q", player.Played()[0])
	}
}

func TestGoogleSynthesizerSlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ttsspeed") != "0.24" {
			t.Errorf("ttsspeed = %q", r.URL.Query().Get("ttsspeed"))
		}
		w.Write([]byte("mp3"))
	}))
	defer server.Close()

	syn, err := NewGoogleSynthesizer(
		WithSynthesizerURL(server.URL),
		WithPlayer(&MockPlayer{}),
		WithSlow(true),
	)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}
	defer syn.Close()

	if err := syn.Say(context.Background(), "hello"); err != nil {
		t.Fatalf("Say failed: %v", err)
	}
}

func TestGoogleSynthesizerEmptyText(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	syn, err := NewGoogleSynthesizer(
		WithSynthesizerURL(server.URL),
		WithPlayer(&MockPlayer{}),
	)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}
	defer syn.Close()

	if err := syn.Say(context.Background(), "  "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Empty text should not hit the API, got %d calls", calls)
	}
}

func TestGoogleSynthesizerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	player := &MockPlayer{}
	syn, err := NewGoogleSynthesizer(
		WithSynthesizerURL(server.URL),
		WithPlayer(player),
	)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}
	defer syn.Close()

	if err := syn.Say(context.Background(), "hello"); err == nil {
		t.Error("Expected error on HTTP 503")
	}
	if len(player.Played()) != 0 {
		t.Error("Nothing should play when synthesis fails")
	}
}
