//go:build !linux

package display

import (
	"errors"
	"image/color"
	"log/slog"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// fbBackend on non-Linux platforms only knows how to fail, which lets the
// selector fall through to the simulated backend.
type fbBackend struct {
	logger *slog.Logger
}

func newFramebufferBackend(logger *slog.Logger) *fbBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &fbBackend{logger: logger}
}

func (f *fbBackend) Initialize(cfg Config) error {
	return &InitError{Kind: KindFramebuffer, Err: errors.New("framebuffer is only available on Linux")}
}

func (f *fbBackend) Present(frame *pixbuf.Buffer) error { return ErrNotInitialized }

func (f *fbBackend) Clear(c color.RGBA) error { return ErrNotInitialized }

func (f *fbBackend) Close() error { return nil }

func (f *fbBackend) Kind() Kind { return KindFramebuffer }

func (f *fbBackend) String() string { return "display.Framebuffer{unsupported}" }

var _ Backend = (*fbBackend)(nil)
