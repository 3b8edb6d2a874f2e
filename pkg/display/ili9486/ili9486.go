// Package ili9486 controls an ILI9486 TFT panel via SPI.
//
// The ILI9486 is a 320x480 16-bit color controller, commonly sold as a 3.5"
// 480x320 landscape module for the Raspberry Pi. The driver speaks the
// 4-wire serial interface: SPI plus a data/command GPIO line, with optional
// reset and backlight lines.
//
// Pixels cross the wire as RGB565, two bytes per pixel, high byte first.
package ili9486

import (
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Command bytes used by this driver.
const (
	cmdNop     = 0x00
	cmdSwreset = 0x01
	cmdSlpout  = 0x11
	cmdDispoff = 0x28
	cmdDispon  = 0x29
	cmdCaset   = 0x2a
	cmdRaset   = 0x2b
	cmdRamwr   = 0x2c
	cmdMadctl  = 0x36
	cmdPixfmt  = 0x3a
)

// MADCTL bits.
const (
	madctlMY  = 0x80 // row address order
	madctlMX  = 0x40 // column address order
	madctlMV  = 0x20 // row/column exchange
	madctlML  = 0x10 // vertical refresh order
	madctlBGR = 0x08 // BGR subpixel order
	madctlMH  = 0x04 // horizontal refresh order
)

// pixfmt16 selects 16 bits per pixel on the serial interface.
const pixfmt16 = 0x55

// defaultChunkSize bounds a single SPI transfer. The Linux spidev buffer is
// 4096 bytes unless raised via module parameter, so a full 307200-byte frame
// goes out in 75 writes.
const defaultChunkSize = 4096

// DefaultSpeed is used when Opts.Speed is zero.
const DefaultSpeed = 64 * physic.MegaHertz

// Rotation selects the panel orientation. The native orientation is
// portrait; Rotation90 turns the module into the usual 480x320 landscape.
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// RotationFromDegrees maps 0, 90, 180 or 270 to a Rotation.
func RotationFromDegrees(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotation0, nil
	case 90:
		return Rotation90, nil
	case 180:
		return Rotation180, nil
	case 270:
		return Rotation270, nil
	default:
		return 0, fmt.Errorf("ili9486: rotation must be 0, 90, 180 or 270, got %d", deg)
	}
}

// madctl computes the MADCTL register value for an orientation. This is the
// whole rotation story: the panel itself remaps addresses, the driver never
// rotates pixels.
func madctl(r Rotation, bgr bool) byte {
	var v byte
	switch r {
	case Rotation0:
		v = 0
	case Rotation90:
		v = madctlMX | madctlMV | madctlMH
	case Rotation180:
		v = madctlMX | madctlMY | madctlMH | madctlML
	case Rotation270:
		v = madctlMV | madctlMY | madctlML
	}
	if bgr {
		v |= madctlBGR
	}
	return v
}

// Opts is the configuration for the ILI9486 panel.
type Opts struct {
	// Logical dimensions in pixels after rotation (default: 480x320).
	W int
	H int

	// Panel orientation.
	Rotation Rotation

	// BGR selects BGR subpixel order. Some modules wire the panel that
	// way; the symptom of getting it wrong is swapped red and blue.
	BGR bool

	// SPI clock. Defaults to DefaultSpeed. These modules run well past
	// the 20MHz the datasheet promises.
	Speed physic.Frequency
}

// Dev is the device handle for the ILI9486 panel.
type Dev struct {
	// Communication
	c   conn.Conn   // SPI connection
	dc  gpio.PinOut // Data/Command pin, low = command, high = data
	rst gpio.PinIO  // Reset pin (optional, nil if not used)
	bl  gpio.PinOut // Backlight pin (optional, nil if not used)

	// Display geometry
	rect image.Rectangle

	// Largest single SPI transfer, always even so no pixel straddles
	// two transfers.
	chunk int

	// State
	halted bool
}

// NewSPI creates an ILI9486 device connected via SPI and runs the panel
// initialization sequence.
//
// The dc (Data/Command) pin is required. rst and bl may be nil when the
// module ties reset high or switches the backlight elsewhere. opts can be
// nil for a 480x320 landscape panel at the default clock.
func NewSPI(p spi.Port, dc gpio.PinOut, rst gpio.PinIO, bl gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("ili9486: dc pin is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w == 0 && h == 0 {
		w, h = 480, 320
	}
	if w <= 0 || h <= 0 || w*h > 480*320 {
		return nil, fmt.Errorf("ili9486: unsupported geometry %dx%d", w, h)
	}
	if opts.Rotation < Rotation0 || opts.Rotation > Rotation270 {
		return nil, fmt.Errorf("ili9486: invalid rotation %d", opts.Rotation)
	}
	speed := opts.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}

	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ili9486: connect: %w", err)
	}

	chunk := defaultChunkSize
	if limits, ok := c.(conn.Limits); ok {
		if max := limits.MaxTxSize(); max > 0 && max < chunk {
			chunk = max &^ 1
		}
	}
	if chunk < 2 {
		return nil, errors.New("ili9486: transport transfer limit below one pixel")
	}

	d := &Dev{
		c:     c,
		dc:    dc,
		rst:   rst,
		bl:    bl,
		rect:  image.Rect(0, 0, w, h),
		chunk: chunk,
	}

	if err := d.init(opts); err != nil {
		return nil, err
	}

	return d, nil
}

// init resets the panel and programs it for 16-bit pixels at the requested
// orientation. The waits follow the datasheet: 120ms after releasing reset,
// after a software reset, and after leaving sleep.
func (d *Dev) init(opts *Opts) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ili9486: reset: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ili9486: reset: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ili9486: reset: %w", err)
		}
		time.Sleep(120 * time.Millisecond)
	}

	if err := d.writeCmd(cmdSwreset); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)

	if err := d.writeCmd(cmdSlpout); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)

	if err := d.writeCmd(cmdPixfmt, pixfmt16); err != nil {
		return err
	}
	if err := d.writeCmd(cmdMadctl, madctl(opts.Rotation, opts.BGR)); err != nil {
		return err
	}

	if err := d.writeCmd(cmdDispon); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)

	// Backlight on last, so the panel never shows garbage.
	if d.bl != nil {
		if err := d.bl.Out(gpio.High); err != nil {
			return fmt.Errorf("ili9486: backlight: %w", err)
		}
	}

	return nil
}

// writeCmd sends a command byte followed by its parameter bytes.
func (d *Dev) writeCmd(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.sendData(data)
}

// sendData streams data bytes with DC held high across every transfer.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for off := 0; off < len(data); off += d.chunk {
		end := off + d.chunk
		if end > len(data) {
			end = len(data)
		}
		if err := d.c.Tx(data[off:end], nil); err != nil {
			return err
		}
	}
	return nil
}

// setWindow selects the RAM region [x0,x1]x[y0,y1] (inclusive) and opens it
// for writing.
func (d *Dev) setWindow(x0, y0, x1, y1 int) error {
	if err := d.writeCmd(cmdCaset, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.writeCmd(cmdRaset, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.writeCmd(cmdRamwr)
}

// Draw565 pushes one full frame of big-endian RGB565 pixels. The payload
// must be exactly W*H*2 bytes; nothing is written on a size mismatch. The
// call blocks until the last chunk is on the wire and never retries.
func (d *Dev) Draw565(pix []byte) error {
	if d.halted {
		return errors.New("ili9486: halted")
	}
	want := d.rect.Dx() * d.rect.Dy() * 2
	if len(pix) != want {
		return fmt.Errorf("ili9486: payload is %d bytes, want exactly %d", len(pix), want)
	}
	if err := d.setWindow(0, 0, d.rect.Dx()-1, d.rect.Dy()-1); err != nil {
		return err
	}
	return d.sendData(pix)
}

// Fill floods the panel with one RGB565 color without allocating a full
// frame: a single chunk of the repeated pixel is streamed until the window
// is covered.
func (d *Dev) Fill(c565 uint16) error {
	if d.halted {
		return errors.New("ili9486: halted")
	}
	if err := d.setWindow(0, 0, d.rect.Dx()-1, d.rect.Dy()-1); err != nil {
		return err
	}

	total := d.rect.Dx() * d.rect.Dy() * 2
	size := d.chunk
	if size > total {
		size = total
	}
	pattern := make([]byte, size)
	for i := 0; i < size; i += 2 {
		pattern[i] = byte(c565 >> 8)
		pattern[i+1] = byte(c565)
	}

	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for total > 0 {
		n := len(pattern)
		if n > total {
			n = total
		}
		if err := d.c.Tx(pattern[:n], nil); err != nil {
			return err
		}
		total -= n
	}
	return nil
}

// Bounds returns the logical panel rectangle.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Halt switches the backlight and the display off. The device does not
// accept further draws; re-create it to start over.
func (d *Dev) Halt() error {
	d.halted = true
	if d.bl != nil {
		if err := d.bl.Out(gpio.Low); err != nil {
			return fmt.Errorf("ili9486: backlight: %w", err)
		}
	}
	return d.writeCmd(cmdDispoff)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ili9486.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
