package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
)

// Player plays one audio payload, returning when playback finishes.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// playerCommands are tried in order. All of them read from stdin.
var playerCommands = []struct {
	name string
	args []string
}{
	{"mpg123", []string{"-q", "-"}},
	{"ffplay", []string{"-autoexit", "-nodisp", "-loglevel", "quiet", "-"}},
	{"mplayer", []string{"-really-quiet", "-"}},
}

// ExecPlayer pipes audio into an external player process. One process
// per payload keeps the failure mode simple: a wedged player dies with
// its context.
type ExecPlayer struct {
	name   string
	args   []string
	logger *slog.Logger
}

// NewExecPlayer finds an installed player command.
func NewExecPlayer(logger *slog.Logger) (*ExecPlayer, error) {
	for _, c := range playerCommands {
		if _, err := exec.LookPath(c.name); err == nil {
			logger.Debug("audio player found", "command", c.name)
			return &ExecPlayer{
				name:   c.name,
				args:   c.args,
				logger: logger.With("component", "speech.player"),
			}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Play pipes the payload into the player and waits for it to exit.
func (p *ExecPlayer) Play(ctx context.Context, audio []byte) error {
	if len(audio) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, p.name, p.args...)
	cmd.Stdin = bytes.NewReader(audio)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

// MockPlayer records played payloads for tests.
type MockPlayer struct {
	// Err, when set, is returned by every Play call.
	Err error

	mu     sync.Mutex
	played [][]byte
}

// Play records the payload.
func (m *MockPlayer) Play(ctx context.Context, audio []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(audio))
	copy(buf, audio)
	m.played = append(m.played, buf)
	return m.Err
}

// Played returns everything passed to Play, in order.
func (m *MockPlayer) Played() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.played))
	copy(out, m.played)
	return out
}
