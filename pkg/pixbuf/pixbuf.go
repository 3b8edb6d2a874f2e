// Package pixbuf provides the fixed-geometry pixel buffers that flow from
// the expression cache to the display backends. A Buffer is immutable after
// construction: whoever needs to keep a frame keeps the Buffer, not the
// bytes.
package pixbuf

import (
	"fmt"
	"image"
	"image/color"
)

// Format identifies the pixel layout of a Buffer payload.
type Format int

const (
	// RGB888 is 3 bytes per pixel, R then G then B, row-major.
	RGB888 Format = iota
	// RGB565 is 2 bytes per pixel, big-endian, 5 red / 6 green / 5 blue.
	// This is the byte order the panel expects on the SPI wire.
	RGB565
	// BGR565 is RGB565 with the red and blue fields swapped, for panels
	// wired with a BGR subpixel order.
	BGR565
)

// BytesPerPixel returns the payload stride of the format.
func (f Format) BytesPerPixel() int {
	if f == RGB888 {
		return 3
	}
	return 2
}

func (f Format) String() string {
	switch f {
	case RGB888:
		return "rgb888"
	case RGB565:
		return "rgb565"
	case BGR565:
		return "bgr565"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

func (f Format) valid() bool {
	return f == RGB888 || f == RGB565 || f == BGR565
}

// Buffer is one full frame: geometry, format and payload. The payload length
// is always exactly width*height*BytesPerPixel; construction rejects
// anything else, so consumers never re-check.
type Buffer struct {
	w, h   int
	format Format
	pix    []byte
}

// New builds a Buffer from a raw payload. The payload is copied, and its
// length must match the geometry exactly; short or long payloads are
// rejected rather than padded or truncated.
func New(w, h int, f Format, pix []byte) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pixbuf: invalid geometry %dx%d", w, h)
	}
	if !f.valid() {
		return nil, fmt.Errorf("pixbuf: unknown format %d", int(f))
	}
	want := w * h * f.BytesPerPixel()
	if len(pix) != want {
		return nil, fmt.Errorf("pixbuf: payload is %d bytes, want exactly %d for %dx%d %s", len(pix), want, w, h, f)
	}
	cp := make([]byte, want)
	copy(cp, pix)
	return &Buffer{w: w, h: h, format: f, pix: cp}, nil
}

// FromImage flattens any image into an RGB888 Buffer, top-left origin,
// row-major. Alpha is dropped.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pixbuf: image has empty bounds %v", bounds)
	}
	pix := make([]byte, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pix = append(pix, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	return &Buffer{w: w, h: h, format: RGB888, pix: pix}, nil
}

// Solid builds an RGB888 Buffer filled with a single color.
func Solid(w, h int, c color.RGBA) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pixbuf: invalid geometry %dx%d", w, h)
	}
	pix := make([]byte, w*h*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
	}
	return &Buffer{w: w, h: h, format: RGB888, pix: pix}, nil
}

// Width returns the frame width in pixels.
func (b *Buffer) Width() int { return b.w }

// Height returns the frame height in pixels.
func (b *Buffer) Height() int { return b.h }

// Format returns the payload layout.
func (b *Buffer) Format() Format { return b.format }

// Bounds returns the frame rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.w, b.h)
}

// Size returns the payload length in bytes.
func (b *Buffer) Size() int { return len(b.pix) }

// Bytes returns the payload. The returned slice is the Buffer's backing
// store and must not be modified.
func (b *Buffer) Bytes() []byte { return b.pix }

// Clone returns an independent copy of the Buffer.
func (b *Buffer) Clone() *Buffer {
	cp := make([]byte, len(b.pix))
	copy(cp, b.pix)
	return &Buffer{w: b.w, h: b.h, format: b.format, pix: cp}
}

// ToImage renders the Buffer as an image, whatever its format. Used by the
// simulated backend's preview path; the hardware paths never round-trip
// through image.Image.
func (b *Buffer) ToImage() *image.RGBA {
	src := b
	if b.format != RGB888 {
		src = b.Convert(RGB888)
	}
	img := image.NewRGBA(image.Rect(0, 0, b.w, b.h))
	j := 0
	for i := 0; i < len(src.pix); i += 3 {
		img.Pix[j] = src.pix[i]
		img.Pix[j+1] = src.pix[i+1]
		img.Pix[j+2] = src.pix[i+2]
		img.Pix[j+3] = 0xff
		j += 4
	}
	return img
}

func (b *Buffer) String() string {
	return fmt.Sprintf("pixbuf(%dx%d %s, %d bytes)", b.w, b.h, b.format, len(b.pix))
}
