package pixbuf

import (
	"bytes"
	"image/color"
	"testing"
)

func TestConvertKnownValues(t *testing.T) {
	// One pixel each of pure red, green, blue, white, black.
	src, err := New(5, 1, RGB888, []byte{
		0xff, 0x00, 0x00,
		0x00, 0xff, 0x00,
		0x00, 0x00, 0xff,
		0xff, 0xff, 0xff,
		0x00, 0x00, 0x00,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rgb := src.Convert(RGB565)
	wantRGB := []byte{
		0xf8, 0x00, // red: 11111 000000 00000
		0x07, 0xe0, // green: 00000 111111 00000
		0x00, 0x1f, // blue: 00000 000000 11111
		0xff, 0xff,
		0x00, 0x00,
	}
	if !bytes.Equal(rgb.Bytes(), wantRGB) {
		t.Errorf("rgb565 = %x, want %x", rgb.Bytes(), wantRGB)
	}

	bgr := src.Convert(BGR565)
	wantBGR := []byte{
		0x00, 0x1f, // red lands in the low field
		0x07, 0xe0,
		0xf8, 0x00,
		0xff, 0xff,
		0x00, 0x00,
	}
	if !bytes.Equal(bgr.Bytes(), wantBGR) {
		t.Errorf("bgr565 = %x, want %x", bgr.Bytes(), wantBGR)
	}
}

func TestConvertSameFormatReturnsReceiver(t *testing.T) {
	buf, _ := Solid(4, 4, color.RGBA{R: 0x42})
	if buf.Convert(RGB888) != buf {
		t.Error("converting to the buffer's own format should not allocate")
	}
}

func TestConvertDeterministic(t *testing.T) {
	pix := make([]byte, 16*8*3)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	buf, _ := New(16, 8, RGB888, pix)

	a := buf.Convert(RGB565)
	b := buf.Convert(RGB565)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same input produced different rgb565 payloads")
	}
}

func TestConvertDownUpDownIsStable(t *testing.T) {
	pix := make([]byte, 32*4*3)
	for i := range pix {
		pix[i] = byte(i*13 + 5)
	}
	buf, _ := New(32, 4, RGB888, pix)

	down := buf.Convert(RGB565)
	again := down.Convert(RGB888).Convert(RGB565)
	if !bytes.Equal(down.Bytes(), again.Bytes()) {
		t.Error("565 payload changed across a round trip through rgb888")
	}
}

func TestConvertSwap565RoundTrip(t *testing.T) {
	pix := make([]byte, 8*8*2)
	for i := range pix {
		pix[i] = byte(i * 3)
	}
	buf, _ := New(8, 8, RGB565, pix)

	back := buf.Convert(BGR565).Convert(RGB565)
	if !bytes.Equal(back.Bytes(), buf.Bytes()) {
		t.Error("rgb565 -> bgr565 -> rgb565 did not reproduce the payload")
	}
}

func TestConvertGeometryPreserved(t *testing.T) {
	buf, _ := Solid(480, 320, color.RGBA{R: 0x80, G: 0x40, B: 0x20})
	out := buf.Convert(RGB565)
	if out.Width() != 480 || out.Height() != 320 {
		t.Errorf("geometry = %dx%d, want 480x320", out.Width(), out.Height())
	}
	if out.Size() != 480*320*2 {
		t.Errorf("size = %d, want %d", out.Size(), 480*320*2)
	}
}

func TestPack565(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		rgb  uint16
		bgr  uint16
	}{
		{"red", color.RGBA{R: 0xff}, 0xf800, 0x001f},
		{"green", color.RGBA{G: 0xff}, 0x07e0, 0x07e0},
		{"blue", color.RGBA{B: 0xff}, 0x001f, 0xf800},
		{"white", color.RGBA{R: 0xff, G: 0xff, B: 0xff}, 0xffff, 0xffff},
		{"black", color.RGBA{}, 0x0000, 0x0000},
	}
	for _, tt := range tests {
		if got := PackRGB565(tt.c); got != tt.rgb {
			t.Errorf("%s: PackRGB565 = %#04x, want %#04x", tt.name, got, tt.rgb)
		}
		if got := PackBGR565(tt.c); got != tt.bgr {
			t.Errorf("%s: PackBGR565 = %#04x, want %#04x", tt.name, got, tt.bgr)
		}
	}
}
