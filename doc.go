// Package st7735r controls a ST7735R color TFT LCD via SPI.
//
// The ST7735R is a 132x162 RGB TFT controller found on many small breakout
// boards. This driver implements the display.Drawer interface from periph.io
// and the drivers.Displayer interface from TinyGo, so it can be used with
// periph.io tools as well as tinyfont.
//
// # Display Characteristics
//
// - 8-bit RGB332 frame buffer (one byte per pixel) kept in host memory
// - 16-bit (RGB565) or 12-bit (RGB444) wire pixel format
// - Full-frame refresh, sent scanline by scanline
// - Display inversion
// - Calibrated addressing offsets per panel variant
//
// # Hardware Connection
//
// Connect the ST7735R display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCK         → SPI Clock (SCLK)
//	SI/MOSI     → SPI Data (MOSI)
//	D/C         → GPIO (any available pin)
//	TCS         → SPI Chip Select, or a GPIO passed as Opts.CS
//	RST         → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//		"image/color"
//		"image/draw"
//
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/st7735r"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		dcPin := gpioreg.ByName("GPIO25")
//
//		dev, _ := st7735r.NewSPI(spiBus, dcPin, nil)
//		defer dev.Halt()
//
//		// Draw into the frame buffer, then send it.
//		img := dev.Image()
//		draw.Draw(img, image.Rect(0, 0, 16, 16), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)
//		dev.Refresh()
//	}
//
// # Frame Buffer and Colors
//
// The frame buffer is an image332.Packed image: one byte per pixel with bit
// layout RRRGGGBB. Use image332.Encode to build colors from 8-bit components:
//
//	red := image332.Encode(255, 0, 0) // 0xE0
//
// Any draw.Image operation works on the frame buffer. Standard Go colors are
// converted with image332.RGB332Model.
//
// # Refresh Protocol
//
// Refresh converts each buffer row into the wire format and sends, for every
// scanline, a column address set, a row address set and a memory write. The
// first buffer row is written to the last panel row; the panel scans its RAM
// in the opposite direction so the image appears upright.
//
// # Using Hardware Reset and Chip Select Pins (Optional)
//
//	dev, _ := st7735r.NewSPI(spiBus, dcPin, &st7735r.Opts{
//		CS:  gpioreg.ByName("GPIO8"),
//		RST: gpioreg.ByName("GPIO24"),
//	})
//
// With RST the driver pulses the reset line (1ms high, 1ms low, 1ms high)
// before the register sequence. With CS the driver frames every command and
// every parameter block itself and the SPI port is opened with spi.NoCS.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
package st7735r
