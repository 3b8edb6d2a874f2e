//go:build linux

package display

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// fbioGetVScreeninfo is FBIOGET_VSCREENINFO from linux/fb.h.
const fbioGetVScreeninfo = 0x4600

// fbBitfield mirrors struct fb_bitfield.
type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// fbVarScreeninfo mirrors struct fb_var_screeninfo. Everything in it is a
// __u32, so the layout is identical on every architecture.
type fbVarScreeninfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          fbBitfield
	Green        fbBitfield
	Blue         fbBitfield
	Transp       fbBitfield
	NonStd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	PixClock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HSyncLen     uint32
	VSyncLen     uint32
	Sync         uint32
	VMode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// fbBackend writes frames into a memory-mapped Linux framebuffer device.
// SPI panel overlays (fbtft and friends) show up as a second fbdev node, so
// this path covers setups where the kernel already owns the panel.
type fbBackend struct {
	logger *slog.Logger
	cfg    Config

	file   *os.File
	mem    []byte
	stride int
	format pixbuf.Format

	initialized bool
	closed      bool
}

func newFramebufferBackend(logger *slog.Logger) *fbBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &fbBackend{logger: logger}
}

// Initialize opens the device, reads the kernel's idea of the mode and maps
// the framebuffer memory. Geometry or pixel layout mismatches are init
// errors: wrong writes to a foreign framebuffer help nobody.
func (f *fbBackend) Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return &InitError{Kind: KindFramebuffer, Err: err}
	}

	file, err := os.OpenFile(cfg.FramebufferPath, os.O_RDWR, 0)
	if err != nil {
		return &InitError{Kind: KindFramebuffer, Err: err}
	}

	vinfo, err := varScreeninfo(file.Fd())
	if err != nil {
		file.Close()
		return &InitError{Kind: KindFramebuffer, Err: err}
	}

	format, stride, err := fbLayout(vinfo, cfg)
	if err != nil {
		file.Close()
		return &InitError{Kind: KindFramebuffer, Err: err}
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, stride*cfg.Height, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return &InitError{Kind: KindFramebuffer, Err: fmt.Errorf("mmap: %w", err)}
	}

	f.cfg = cfg
	f.file = file
	f.mem = mem
	f.stride = stride
	f.format = format
	f.initialized = true
	f.closed = false
	f.logger.Info("framebuffer display ready",
		"path", cfg.FramebufferPath,
		"format", format.String(),
		"stride", stride,
	)
	return nil
}

func varScreeninfo(fd uintptr) (*fbVarScreeninfo, error) {
	var v fbVarScreeninfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, fbioGetVScreeninfo, uintptr(unsafe.Pointer(&v))); errno != 0 {
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO: %w", errno)
	}
	return &v, nil
}

// fbLayout validates the kernel-reported mode against the config and picks
// the 565 variant from the red channel position.
func fbLayout(v *fbVarScreeninfo, cfg Config) (pixbuf.Format, int, error) {
	if int(v.XRes) != cfg.Width || int(v.YRes) != cfg.Height {
		return 0, 0, fmt.Errorf("framebuffer is %dx%d, config wants %dx%d", v.XRes, v.YRes, cfg.Width, cfg.Height)
	}
	if v.BitsPerPixel != 16 {
		return 0, 0, fmt.Errorf("framebuffer is %d bpp, want 16", v.BitsPerPixel)
	}

	stride := int(v.XResVirtual) * 2
	if stride < cfg.Width*2 {
		stride = cfg.Width * 2
	}

	switch {
	case v.Red.Offset == 11 && v.Green.Offset == 5 && v.Blue.Offset == 0:
		return pixbuf.RGB565, stride, nil
	case v.Blue.Offset == 11 && v.Green.Offset == 5 && v.Red.Offset == 0:
		return pixbuf.BGR565, stride, nil
	default:
		return 0, 0, fmt.Errorf("unsupported channel layout (r=%d g=%d b=%d)", v.Red.Offset, v.Green.Offset, v.Blue.Offset)
	}
}

// Present blits one frame into the mapping. Synchronous: when the copy
// returns, the kernel owns the pixels.
func (f *fbBackend) Present(frame *pixbuf.Buffer) error {
	if !f.initialized || f.closed {
		return ErrNotInitialized
	}
	if frame.Width() != f.cfg.Width || frame.Height() != f.cfg.Height {
		return &TransferError{
			Kind: KindFramebuffer,
			Op:   "present",
			Err:  fmt.Errorf("frame is %dx%d, panel is %dx%d", frame.Width(), frame.Height(), f.cfg.Width, f.cfg.Height),
		}
	}

	f.blit(frame.Convert(f.format).Bytes())
	return nil
}

// blit copies big-endian 565 pairs into the little-endian mapping, row by
// row to honor the virtual stride.
func (f *fbBackend) blit(src []byte) {
	rowBytes := f.cfg.Width * 2
	for y := 0; y < f.cfg.Height; y++ {
		so := y * rowBytes
		do := y * f.stride
		for x := 0; x < rowBytes; x += 2 {
			f.mem[do+x] = src[so+x+1]
			f.mem[do+x+1] = src[so+x]
		}
	}
}

// Clear fills the mapping with one color.
func (f *fbBackend) Clear(c color.RGBA) error {
	if !f.initialized || f.closed {
		return ErrNotInitialized
	}

	v := pixbuf.PackRGB565(c)
	if f.format == pixbuf.BGR565 {
		v = pixbuf.PackBGR565(c)
	}
	lo, hi := byte(v), byte(v>>8)

	rowBytes := f.cfg.Width * 2
	for y := 0; y < f.cfg.Height; y++ {
		do := y * f.stride
		for x := 0; x < rowBytes; x += 2 {
			f.mem[do+x] = lo
			f.mem[do+x+1] = hi
		}
	}
	return nil
}

// Close unmaps the framebuffer and closes the device.
func (f *fbBackend) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	var err error
	if f.mem != nil {
		err = unix.Munmap(f.mem)
		f.mem = nil
	}
	if f.file != nil {
		if cerr := f.file.Close(); err == nil {
			err = cerr
		}
		f.file = nil
	}
	return err
}

// Kind identifies the implementation.
func (f *fbBackend) Kind() Kind { return KindFramebuffer }

func (f *fbBackend) String() string {
	return fmt.Sprintf("display.Framebuffer{%s %dx%d}", f.cfg.FramebufferPath, f.cfg.Width, f.cfg.Height)
}

var _ Backend = (*fbBackend)(nil)
