// Package image332 provides an 8-bit packed RGB image format for the ST7735R display driver.
//
// A pixel occupies one byte. The three most significant bits hold red, the
// next three green and the two least significant bits blue:
//
//	bit:   7  6  5  4  3  2  1  0
//	       R2 R1 R0 G2 G1 G0 B1 B0
//
// Memory layout example for a 3-pixel row:
//
//	Pixels: red    green  blue
//	Bytes:  0xE0   0x1C   0x03
//
// This package provides:
//
// - RGB332: a color type holding the packed byte
// - RGB332Model: a color model for converting standard Go colors to RGB332
// - Encode: the packing rule, (r & 0xE0) | ((g >> 3) & 0x1C) | (b >> 6)
// - Packed: an image.Image and draw.Image backed by one byte per pixel
//
// Example usage:
//
//	img := image332.NewPacked(image.Rect(0, 0, 128, 128))
//	img.SetRGB332(10, 20, image332.Encode(255, 0, 0))
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package image332
