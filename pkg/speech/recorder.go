package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"
)

// Recorder captures one utterance from the microphone.
type Recorder interface {
	// Record captures audio for at most d and returns a WAV payload.
	Record(ctx context.Context, d time.Duration) ([]byte, error)
}

// ALSARecorder records through the arecord tool. Spawning a process per
// utterance is plenty for a conversation loop and avoids cgo audio
// bindings on the Pi.
type ALSARecorder struct {
	device     string
	sampleRate int
	logger     *slog.Logger
}

// NewALSARecorder creates a recorder for the given capture device.
// Empty device means the ALSA default.
func NewALSARecorder(device string, sampleRate int, logger *slog.Logger) *ALSARecorder {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &ALSARecorder{
		device:     device,
		sampleRate: sampleRate,
		logger:     logger.With("component", "speech.recorder"),
	}
}

// Available reports whether arecord exists on this system.
func (r *ALSARecorder) Available() bool {
	_, err := exec.LookPath("arecord")
	return err == nil
}

// Record runs arecord for at most d and returns the captured WAV.
func (r *ALSARecorder) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	if !r.Available() {
		return nil, ErrNoMicrophone
	}

	args := arecordArgs(d, r.sampleRate, r.device)
	cmd := exec.CommandContext(ctx, "arecord", args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	r.logger.Debug("recording", "seconds", d.Seconds(), "device", r.device)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("arecord: %w (%s)", err, bytes.TrimSpace(errBuf.Bytes()))
	}
	if out.Len() == 0 {
		return nil, ErrNoSpeech
	}
	return out.Bytes(), nil
}

// arecordArgs builds the arecord invocation: quiet, 16-bit mono WAV on
// stdout, capped at the phrase limit.
func arecordArgs(d time.Duration, sampleRate int, device string) []string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	args := []string{
		"-q",
		"-t", "wav",
		"-f", "S16_LE",
		"-r", strconv.Itoa(sampleRate),
		"-c", "1",
		"-d", strconv.Itoa(secs),
	}
	if device != "" {
		args = append(args, "-D", device)
	}
	return args
}

// MockRecorder returns canned WAV payloads in order, then errors.
type MockRecorder struct {
	// Payloads are returned one per Record call.
	Payloads [][]byte

	// Err is returned once Payloads run out.
	Err error

	calls int
}

// Record returns the next canned payload.
func (m *MockRecorder) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	if m.calls < len(m.Payloads) {
		p := m.Payloads[m.calls]
		m.calls++
		return p, nil
	}
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, ErrNoSpeech
}

// Calls returns how many times Record ran.
func (m *MockRecorder) Calls() int { return m.calls }
