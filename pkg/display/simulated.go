package display

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync/atomic"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// Simulated is an in-memory backend for development, CI and the browser
// preview. It retains the last presented frame instead of pushing it to
// hardware, and it never fails to initialize.
type Simulated struct {
	logger *slog.Logger
	cfg    Config

	initialized bool
	closed      bool
	frame       *pixbuf.Buffer

	// onFrame, when set, runs synchronously after every Present and
	// Clear, on the presenting goroutine.
	onFrame func(*pixbuf.Buffer)

	// Stats
	presents atomic.Int64
	clears   atomic.Int64
	bytesOut atomic.Int64
}

// SimStats is a snapshot of the simulated backend's counters.
type SimStats struct {
	Presents int64 `json:"presents"`
	Clears   int64 `json:"clears"`
	Bytes    int64 `json:"bytes"`
}

// NewSimulated creates a simulated backend.
func NewSimulated(logger *slog.Logger) *Simulated {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulated{logger: logger}
}

// SetOnFrame registers a hook that observes every frame. Set it before the
// backend starts presenting; the hook runs on the presenting goroutine.
func (s *Simulated) SetOnFrame(fn func(*pixbuf.Buffer)) {
	s.onFrame = fn
}

// Initialize never fails. A config that doesn't validate is replaced by the
// defaults, which is what makes the simulated backend the selector's
// last resort.
func (s *Simulated) Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("simulated display: falling back to default config", "error", err)
		cfg = DefaultConfig()
	}
	s.cfg = cfg
	s.initialized = true
	s.closed = false
	s.logger.Info("simulated display ready", "width", cfg.Width, "height", cfg.Height)
	return nil
}

// Present retains the frame. Buffers are immutable, so retaining the
// pointer is as good as a copy.
func (s *Simulated) Present(frame *pixbuf.Buffer) error {
	if !s.initialized || s.closed {
		return ErrNotInitialized
	}
	if frame.Width() != s.cfg.Width || frame.Height() != s.cfg.Height {
		return &TransferError{
			Kind: KindSimulated,
			Op:   "present",
			Err:  fmt.Errorf("frame is %dx%d, panel is %dx%d", frame.Width(), frame.Height(), s.cfg.Width, s.cfg.Height),
		}
	}

	s.frame = frame
	s.presents.Add(1)
	s.bytesOut.Add(int64(frame.Size()))
	if s.onFrame != nil {
		s.onFrame(frame)
	}
	return nil
}

// Clear retains a solid frame.
func (s *Simulated) Clear(c color.RGBA) error {
	if !s.initialized || s.closed {
		return ErrNotInitialized
	}
	frame, err := pixbuf.Solid(s.cfg.Width, s.cfg.Height, c)
	if err != nil {
		return &TransferError{Kind: KindSimulated, Op: "clear", Err: err}
	}

	s.frame = frame
	s.clears.Add(1)
	s.bytesOut.Add(int64(frame.Size()))
	if s.onFrame != nil {
		s.onFrame(frame)
	}
	return nil
}

// LastFrame returns the most recently presented frame, or nil before the
// first present. It is not synchronized; call it from the presenting
// goroutine, or observe frames through SetOnFrame.
func (s *Simulated) LastFrame() *pixbuf.Buffer {
	return s.frame
}

// Stats returns a snapshot of the counters. Safe from any goroutine.
func (s *Simulated) Stats() SimStats {
	return SimStats{
		Presents: s.presents.Load(),
		Clears:   s.clears.Load(),
		Bytes:    s.bytesOut.Load(),
	}
}

// Close marks the backend halted.
func (s *Simulated) Close() error {
	s.closed = true
	return nil
}

// Kind identifies the implementation.
func (s *Simulated) Kind() Kind { return KindSimulated }

func (s *Simulated) String() string {
	return fmt.Sprintf("display.Simulated{%dx%d}", s.cfg.Width, s.cfg.Height)
}

// Verify Simulated implements Backend at compile time.
var _ Backend = (*Simulated)(nil)
