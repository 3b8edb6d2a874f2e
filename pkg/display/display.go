// Package display drives the robot's face panel.
//
// This package supports multiple backends:
//   - SPI (ILI9486) - Production use on Raspberry Pi
//   - Framebuffer - Linux fbdev overlays (/dev/fb1)
//   - Simulated - CI/testing/development without hardware
//
// The backend is selected at runtime in that priority order, or can be
// pinned explicitly via configuration. The simulated backend always works,
// so selection never fails.
package display

import (
	"image/color"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// Kind names a display backend implementation.
type Kind string

const (
	// KindAuto tries the backends in priority order.
	KindAuto Kind = "auto"
	// KindSPI drives an ILI9486 panel over SPI.
	KindSPI Kind = "spi"
	// KindFramebuffer writes to a Linux framebuffer device.
	KindFramebuffer Kind = "framebuffer"
	// KindSimulated keeps frames in memory.
	KindSimulated Kind = "simulated"
)

// Backend is the capability the rest of the robot programs against. A
// backend instance is not safe for concurrent use: it is driven from one
// goroutine, and callers that share one add their own synchronization.
type Backend interface {
	// Initialize acquires resources and programs the hardware. It must be
	// called once before Present or Clear.
	Initialize(cfg Config) error

	// Present pushes one full frame. It blocks until the frame is handed
	// to the device, is never retried internally and cannot be cancelled
	// mid-frame. The frame geometry must match the configuration.
	Present(frame *pixbuf.Buffer) error

	// Clear fills the panel with a solid color without the caller
	// allocating a frame.
	Clear(c color.RGBA) error

	// Close releases resources. It is idempotent; Present and Clear fail
	// with ErrNotInitialized afterwards.
	Close() error

	// Kind identifies the implementation.
	Kind() Kind

	String() string
}

// AvailableKinds returns the kinds that can be asked for explicitly.
func AvailableKinds() []Kind {
	return []Kind{KindAuto, KindSPI, KindFramebuffer, KindSimulated}
}
