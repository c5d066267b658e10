// Package image332 provides an 8-bit packed RGB image format for the ST7735R display driver.
//
// Each pixel is one byte laid out as RRRGGGBB: 3 bits of red in the most
// significant bits, 3 bits of green, and 2 bits of blue in the least
// significant bits. The driver expands this representation into the
// controller's wire format one scanline at a time.
package image332

import (
	"image"
	"image/color"
)

// RGB332 is an 8-bit packed color with bit layout RRRGGGBB.
type RGB332 uint8

// Encode packs 8-bit red, green and blue components into an RGB332.
// Only the most significant bits of each component are kept.
func Encode(r, g, b uint8) RGB332 {
	return RGB332((r & 0xE0) | ((g >> 3) & 0x1C) | (b >> 6))
}

// R returns the 3-bit red field.
func (c RGB332) R() uint8 { return uint8(c) >> 5 }

// G returns the 3-bit green field.
func (c RGB332) G() uint8 { return (uint8(c) >> 2) & 0x07 }

// B returns the 2-bit blue field.
func (c RGB332) B() uint8 { return uint8(c) & 0x03 }

// RGBA implements color.Color.
//
// Each field is scaled to 16 bits; the maximum field value maps to 0xFFFF.
func (c RGB332) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R()) * 0xFFFF / 7
	g = uint32(c.G()) * 0xFFFF / 7
	b = uint32(c.B()) * 0xFFFF / 3
	return r, g, b, 0xFFFF
}

func toRGB332(c color.Color) color.Color {
	if p, ok := c.(RGB332); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return Encode(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGB332Model converts colors to RGB332.
var RGB332Model = color.ModelFunc(toRGB332)

// Packed is an in-memory image holding one RGB332 byte per pixel, row-major.
type Packed struct {
	Pix    []byte          // Pixel data (1 byte per pixel)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewPacked creates a new Packed image with the specified bounds.
func NewPacked(r image.Rectangle) *Packed {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Packed{Rect: r}
	}
	return &Packed{
		Pix:    make([]byte, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Packed) ColorModel() color.Model {
	return RGB332Model
}

// Bounds returns the image bounds.
func (p *Packed) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Packed) At(x, y int) color.Color {
	return p.RGB332At(x, y)
}

// RGB332At returns the packed color of the pixel at (x, y).
func (p *Packed) RGB332At(x, y int) RGB332 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return RGB332(p.Pix[p.PixOffset(x, y)])
}

// Set implements draw.Image.
func (p *Packed) Set(x, y int, c color.Color) {
	p.SetRGB332(x, y, RGB332Model.Convert(c).(RGB332))
}

// SetRGB332 sets the pixel at (x, y) without color conversion.
func (p *Packed) SetRGB332(x, y int, c RGB332) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = byte(c)
}

// Fill sets every pixel to c.
func (p *Packed) Fill(c RGB332) {
	for i := range p.Pix {
		p.Pix[i] = byte(c)
	}
}

// Row returns the pixels of scanline y, relative to Rect.Min.Y.
func (p *Packed) Row(y int) []byte {
	start := y * p.Stride
	return p.Pix[start : start+p.Rect.Dx()]
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Packed) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}
