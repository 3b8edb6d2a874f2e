package display

import (
	"fmt"
	"image/color"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/lakshya-inakhiya/go-ash/pkg/display/ili9486"
	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// hardwareBackend drives the ILI9486 panel over SPI. It owns the port and
// hands the chip work to the ili9486 driver; frames are converted to RGB565
// here, subpixel order is the controller's problem (the MADCTL BGR bit).
type hardwareBackend struct {
	logger *slog.Logger
	cfg    Config
	port   spi.PortCloser
	dev    *ili9486.Dev
	closed bool
}

func newHardwareBackend(logger *slog.Logger) *hardwareBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &hardwareBackend{logger: logger}
}

// Initialize opens the SPI port, resolves the GPIO lines and runs the panel
// init sequence. Every failure is an *InitError so the selector can move on.
func (h *hardwareBackend) Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return &InitError{Kind: KindSPI, Err: err}
	}
	if _, err := host.Init(); err != nil {
		return &InitError{Kind: KindSPI, Err: fmt.Errorf("host init: %w", err)}
	}

	portName := fmt.Sprintf("SPI%d.%d", cfg.SPI.Bus, cfg.SPI.Device)
	port, err := spireg.Open(portName)
	if err != nil {
		return &InitError{Kind: KindSPI, Err: fmt.Errorf("open %s: %w", portName, err)}
	}

	dc, err := pinByNumber(cfg.SPI.DCPin, "dc")
	if err != nil {
		port.Close()
		return &InitError{Kind: KindSPI, Err: err}
	}
	rst, err := pinByNumber(cfg.SPI.ResetPin, "rst")
	if err != nil {
		port.Close()
		return &InitError{Kind: KindSPI, Err: err}
	}
	bl, err := pinByNumber(cfg.SPI.BacklightPin, "backlight")
	if err != nil {
		port.Close()
		return &InitError{Kind: KindSPI, Err: err}
	}

	rotation, err := ili9486.RotationFromDegrees(cfg.SPI.Rotation)
	if err != nil {
		port.Close()
		return &InitError{Kind: KindSPI, Err: err}
	}

	dev, err := ili9486.NewSPI(port, dc, rst, bl, &ili9486.Opts{
		W:        cfg.Width,
		H:        cfg.Height,
		Rotation: rotation,
		BGR:      cfg.SPI.BGR,
		Speed:    physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz,
	})
	if err != nil {
		port.Close()
		return &InitError{Kind: KindSPI, Err: err}
	}

	h.cfg = cfg
	h.port = port
	h.dev = dev
	h.closed = false
	h.logger.Info("spi display ready",
		"port", portName,
		"speed_hz", cfg.SPI.SpeedHz,
		"rotation", cfg.SPI.Rotation,
	)
	return nil
}

func pinByNumber(n int, role string) (gpio.PinIO, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if p == nil {
		return nil, fmt.Errorf("no GPIO%d for %s line", n, role)
	}
	return p, nil
}

// Present converts the frame to the wire format and streams it. Blocking,
// no retries: a failed frame surfaces and the next present starts clean.
func (h *hardwareBackend) Present(frame *pixbuf.Buffer) error {
	if h.dev == nil || h.closed {
		return ErrNotInitialized
	}
	if frame.Width() != h.cfg.Width || frame.Height() != h.cfg.Height {
		return &TransferError{
			Kind: KindSPI,
			Op:   "present",
			Err:  fmt.Errorf("frame is %dx%d, panel is %dx%d", frame.Width(), frame.Height(), h.cfg.Width, h.cfg.Height),
		}
	}
	if err := h.dev.Draw565(frame.Convert(pixbuf.RGB565).Bytes()); err != nil {
		return &TransferError{Kind: KindSPI, Op: "present", Err: err}
	}
	return nil
}

// Clear floods the panel without allocating a frame.
func (h *hardwareBackend) Clear(c color.RGBA) error {
	if h.dev == nil || h.closed {
		return ErrNotInitialized
	}
	if err := h.dev.Fill(pixbuf.PackRGB565(c)); err != nil {
		return &TransferError{Kind: KindSPI, Op: "clear", Err: err}
	}
	return nil
}

// Close switches the panel off and releases the port.
func (h *hardwareBackend) Close() error {
	if h.closed || h.dev == nil {
		h.closed = true
		return nil
	}
	h.closed = true
	if err := h.dev.Halt(); err != nil {
		h.port.Close()
		return err
	}
	return h.port.Close()
}

// Kind identifies the implementation.
func (h *hardwareBackend) Kind() Kind { return KindSPI }

func (h *hardwareBackend) String() string {
	return fmt.Sprintf("display.SPI{%dx%d}", h.cfg.Width, h.cfg.Height)
}

var _ Backend = (*hardwareBackend)(nil)
