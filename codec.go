package st7735r

import "fmt"

// PixelFormat is the interface pixel format programmed with COLMOD.
type PixelFormat byte

const (
	// RGB565 sends 16 bits per pixel, two bytes per pixel.
	RGB565 PixelFormat = 0x05
	// RGB444 sends 12 bits per pixel, three bytes per pixel pair.
	RGB444 PixelFormat = 0x03
)

func (f PixelFormat) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case RGB444:
		return "RGB444"
	default:
		return fmt.Sprintf("PixelFormat(0x%02X)", byte(f))
	}
}

// LineSize returns the number of wire bytes for a scanline of width pixels.
func (f PixelFormat) LineSize(width int) int {
	if f == RGB444 {
		return width * 3 / 2
	}
	return width * 2
}

// converter returns the scanline codec for f.
func (f PixelFormat) converter() func(dst, src []byte) {
	if f == RGB444 {
		return convert444
	}
	return convert565
}

// convert565 expands RGB332 pixels from src into two wire bytes each:
//
//	src:  R2 R1 R0 G2 G1 G0 B1 B0
//	dst:  B1 B0 0  0  0  G2 G1 G0 | 0  0  0  R2 R1 R0 0  0
//
// dst must hold at least 2*len(src) bytes.
func convert565(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	_ = dst[2*len(src)-1]
	n := 0
	for _, c := range src {
		dst[n] = (c&0x03)<<6 | (c&0x1C)>>2 // Blue, green
		dst[n+1] = (c & 0xE0) >> 3         // Red
		n += 2
	}
}

// convert444 packs pairs of RGB332 pixels from src into three wire bytes:
//
//	src:  R02 R01 R00 G02 G01 G00 B01 B00 | R12 R11 R10 G12 G11 G10 B11 B10
//	dst:  R02 R01 R00 0 G02 G01 G00 0 | B01 B00 0 0 R12 R11 R10 0 | G12 G11 G10 0 B11 B10 0 0
//
// len(src) must be even and dst must hold at least 3*len(src)/2 bytes.
func convert444(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	_ = dst[3*len(src)/2-1]
	n := 0
	for x := 0; x < len(src); x += 2 {
		c, d := src[x], src[x+1]
		dst[n] = (c & 0xE0) | (c&0x1C)>>1    // R0 G0
		dst[n+1] = (c&0x03)<<6 | (d&0xE0)>>4 // B0 R1
		dst[n+2] = (d&0x1C)<<3 | (d&0x03)<<2 // G1 B1
		n += 3
	}
}
