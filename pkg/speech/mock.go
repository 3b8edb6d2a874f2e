package speech

import (
	"context"
	"sync"
	"time"
)

// MockRecognizer implements Recognizer for testing.
type MockRecognizer struct {
	// ListenFunc is called when Listen is invoked.
	ListenFunc func(ctx context.Context) (string, error)

	// Transcripts, when ListenFunc is nil, are returned one per call,
	// then ErrNoSpeech.
	Transcripts []string

	mu    sync.Mutex
	calls int
}

// Listen returns the next canned transcript.
func (m *MockRecognizer) Listen(ctx context.Context) (string, error) {
	m.mu.Lock()
	n := m.calls
	m.calls++
	m.mu.Unlock()

	if m.ListenFunc != nil {
		return m.ListenFunc(ctx)
	}
	if n < len(m.Transcripts) {
		return m.Transcripts[n], nil
	}
	return "", ErrNoSpeech
}

// Calls returns how many times Listen ran.
func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close implements Recognizer.
func (m *MockRecognizer) Close() error { return nil }

// MockSpeaker implements Speaker for testing.
type MockSpeaker struct {
	// SayFunc is called when Say is invoked.
	SayFunc func(ctx context.Context, text string) error

	// Latency simulates playback time.
	Latency time.Duration

	mu     sync.Mutex
	spoken []string
}

// Say records the text.
func (m *MockSpeaker) Say(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.Latency):
		}
	}
	if m.SayFunc != nil {
		return m.SayFunc(ctx, text)
	}
	return nil
}

// Spoken returns everything passed to Say, in order.
func (m *MockSpeaker) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Close implements Speaker.
func (m *MockSpeaker) Close() error { return nil }

// Verify the interfaces at compile time.
var (
	_ Recognizer = (*MockRecognizer)(nil)
	_ Speaker    = (*MockSpeaker)(nil)
)
