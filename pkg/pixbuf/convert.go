package pixbuf

import "image/color"

// Convert returns the Buffer in the requested format. Converting to the
// Buffer's own format returns the Buffer itself; everything else allocates.
// 888→565 truncates to the top 5/6/5 bits; 565→888 replicates the high bits
// into the low ones, so a convert-down/convert-up/convert-down cycle is
// stable.
func (b *Buffer) Convert(f Format) *Buffer {
	if f == b.format || !f.valid() {
		return b
	}
	var out []byte
	switch {
	case b.format == RGB888:
		out = pack16(b.pix, f == BGR565)
	case f == RGB888:
		out = unpack16(b.pix, b.format == BGR565)
	default:
		// RGB565 <-> BGR565: swap the two 5-bit fields in place.
		out = swap565(b.pix)
	}
	return &Buffer{w: b.w, h: b.h, format: f, pix: out}
}

// PackRGB565 packs an 8-bit color into a big-endian-ready RGB565 word.
func PackRGB565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// PackBGR565 packs an 8-bit color with the red and blue fields swapped.
func PackBGR565(c color.RGBA) uint16 {
	return uint16(c.B>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.R>>3)
}

func pack16(src []byte, bgr bool) []byte {
	out := make([]byte, 0, len(src)/3*2)
	for i := 0; i < len(src); i += 3 {
		r, g, b := src[i], src[i+1], src[i+2]
		if bgr {
			r, b = b, r
		}
		v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
		out = append(out, byte(v>>8), byte(v))
	}
	return out
}

func unpack16(src []byte, bgr bool) []byte {
	out := make([]byte, 0, len(src)/2*3)
	for i := 0; i < len(src); i += 2 {
		v := uint16(src[i])<<8 | uint16(src[i+1])
		r5 := byte(v >> 11)
		g6 := byte(v>>5) & 0x3f
		b5 := byte(v) & 0x1f
		if bgr {
			r5, b5 = b5, r5
		}
		out = append(out,
			r5<<3|r5>>2,
			g6<<2|g6>>4,
			b5<<3|b5>>2)
	}
	return out
}

func swap565(src []byte) []byte {
	out := make([]byte, len(src))
	for i := 0; i < len(src); i += 2 {
		v := uint16(src[i])<<8 | uint16(src[i+1])
		r := v >> 11
		g := v >> 5 & 0x3f
		b := v & 0x1f
		v = b<<11 | g<<5 | r
		out[i] = byte(v >> 8)
		out[i+1] = byte(v)
	}
	return out
}
