// Package st7735r controls a ST7735R color TFT LCD via SPI.
//
// The ST7735R is a 132x162 RGB controller. The driver keeps an 8-bit RGB332
// frame buffer and expands it into the controller's wire format one scanline
// at a time on every refresh.
//
// See the examples for how to use this package.
package st7735r

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/st7735r/image332"
	"tinygo.org/x/drivers"
)

// Panel holds the calibrated addressing constants of a panel variant.
//
// The controller RAM is larger than the visible glass, so the visible area
// starts at an offset that depends on how the glass was bonded.
type Panel struct {
	W, H int // Visible size in pixels

	ColStart  uint16 // First RAM column of the visible area
	ColEnd    uint16 // Last RAM column of the column window
	RowOffset int    // RAM row of visible row 0
	MADCTL    byte   // Memory access control (scan direction, RGB order)
}

// Adafruit144 is the Adafruit 1.44" 128x128 breakout (product 2088).
var Adafruit144 = Panel{
	W:         128,
	H:         128,
	ColStart:  3,
	ColEnd:    160,
	RowOffset: 2,
	MADCTL:    0xE0,
}

// Opts is the configuration for the ST7735R display.
type Opts struct {
	// Panel variant. The zero value selects Adafruit144.
	Panel Panel

	// Wire pixel format. The zero value selects RGB565.
	Format PixelFormat

	// Optional chip select pin, active low. When nil the SPI port drives its
	// own chip select around every transfer.
	CS gpio.PinOut

	// Optional hardware reset pin.
	RST gpio.PinOut
}

// Dev is the device handle for the ST7735R display.
//
// Dev is not safe for concurrent use. Drawing into Image and calling Refresh
// must be serialized by the caller.
type Dev struct {
	// Communication
	c   conn.Conn
	dc  gpio.PinOut
	cs  gpio.PinOut // Chip select (optional)
	rst gpio.PinOut // Reset pin (optional)

	// Display geometry
	panel  Panel
	format PixelFormat
	rect   image.Rectangle

	// Pixel buffers
	img     *image332.Packed
	line    []byte // One converted scanline
	convert func(dst, src []byte)

	// Bus scratch
	cmd       [1]byte
	colWindow [4]byte
	rowWindow [4]byte

	halted bool
}

var errHalted = errors.New("st7735r: halted")

// sleep is replaced in tests.
var sleep = time.Sleep

// NewSPI creates a new ST7735R device connected via SPI.
//
// The SPI port is configured for 15MHz, Mode0, 8-bit transfers. The dc
// (Data/Command) GPIO pin must be provided.
//
// The display is initialized and cleared before NewSPI returns, which blocks
// for about half a second.
//
// opts can be nil to use defaults (Adafruit 1.44" panel, RGB565).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("st7735r: dc pin is required")
	}
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	// Write cycle is 66ns minimum, datasheet section 8.4.
	mode := spi.Mode0
	if o.CS != nil {
		mode |= spi.NoCS
	}
	c, err := p.Connect(15*physic.MegaHertz, mode, 8)
	if err != nil {
		return nil, fmt.Errorf("st7735r: %w", err)
	}

	d := newDev(c, dc, o)
	if err := d.Init(); err != nil {
		return nil, err
	}
	if err := d.Refresh(); err != nil {
		return nil, err
	}
	return d, nil
}

// normalize applies defaults and validates the options.
func (opts *Opts) normalize() (*Opts, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Panel == (Panel{}) {
		o.Panel = Adafruit144
	}
	if o.Format == 0 {
		o.Format = RGB565
	}

	p := o.Panel
	if p.W <= 0 || p.H <= 0 {
		return nil, errors.New("st7735r: panel size must be positive")
	}
	if p.W > 162 || p.H > 162 {
		return nil, errors.New("st7735r: panel larger than controller RAM")
	}
	if p.ColStart > p.ColEnd {
		return nil, errors.New("st7735r: column window start after end")
	}
	if p.RowOffset < 0 || p.RowOffset+p.H > 162 {
		return nil, errors.New("st7735r: row offset out of range")
	}
	switch o.Format {
	case RGB565:
	case RGB444:
		if p.W%2 != 0 {
			return nil, errors.New("st7735r: RGB444 requires an even width")
		}
	default:
		return nil, fmt.Errorf("st7735r: unsupported pixel format %s", o.Format)
	}
	return &o, nil
}

// newDev allocates the buffers for a device on an established connection.
func newDev(c conn.Conn, dc gpio.PinOut, o *Opts) *Dev {
	d := &Dev{
		c:       c,
		dc:      dc,
		cs:      o.CS,
		rst:     o.RST,
		panel:   o.Panel,
		format:  o.Format,
		rect:    image.Rect(0, 0, o.Panel.W, o.Panel.H),
		img:     image332.NewPacked(image.Rect(0, 0, o.Panel.W, o.Panel.H)),
		line:    make([]byte, o.Format.LineSize(o.Panel.W)),
		convert: o.Format.converter(),
	}
	binary.BigEndian.PutUint32(d.colWindow[:], uint32(o.Panel.ColStart)<<16|uint32(o.Panel.ColEnd))
	return d
}

// Init resets the controller and replays the power-up register sequence.
//
// It blocks for about half a second. Init also brings a halted device back.
func (d *Dev) Init() error {
	if d.cs != nil {
		if err := d.cs.Out(gpio.High); err != nil {
			return fmt.Errorf("st7735r: failed to release CS: %w", err)
		}
	}
	if d.rst != nil {
		if err := d.dc.Out(gpio.Low); err != nil {
			return fmt.Errorf("st7735r: failed to pull DC low: %w", err)
		}
		for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
			if err := d.rst.Out(l); err != nil {
				return fmt.Errorf("st7735r: failed to set RST %s: %w", l, err)
			}
			sleep(time.Millisecond)
		}
	}
	if err := d.sendSequence(initSequence(d.madctl(), d.format)); err != nil {
		return fmt.Errorf("st7735r: init: %w", err)
	}
	d.halted = false
	return nil
}

// madctl returns the MADCTL value for the configured panel and format.
//
// The RGB565 codec emits blue in the first field, so the panel value is used
// as is; the RGB444 codec emits red first and needs the opposite order.
func (d *Dev) madctl() byte {
	if d.format == RGB444 {
		return d.panel.MADCTL ^ madctlBGR
	}
	return d.panel.MADCTL
}

// sendSequence writes each step's command and parameters, then waits for the
// step's settle time.
func (d *Dev) sendSequence(steps []step) error {
	for _, s := range steps {
		if err := d.writeCommand(s.cmd, s.data); err != nil {
			return err
		}
		if s.delay > 0 {
			sleep(s.delay)
		}
	}
	return nil
}

// writeCommand sends a command byte, followed by its parameters if any. Each
// part is a separate chip select frame.
func (d *Dev) writeCommand(cmd byte, data []byte) error {
	d.cmd[0] = cmd
	if err := d.transfer(gpio.Low, d.cmd[:]); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.transfer(gpio.High, data)
}

// transfer sets DC to dc and writes b with chip select asserted. Chip select
// is released even if the write fails.
func (d *Dev) transfer(dc gpio.Level, b []byte) error {
	if err := d.dc.Out(dc); err != nil {
		return err
	}
	if d.cs == nil {
		return d.c.Tx(b, nil)
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		return err
	}
	err := d.c.Tx(b, nil)
	if csErr := d.cs.Out(gpio.High); err == nil {
		err = csErr
	}
	return err
}

// Refresh sends the whole frame buffer to the display.
//
// The panel's row order is inverted relative to the buffer: the first buffer
// row goes to the last panel row. Each scanline sets the column and row
// window and then writes the converted pixels. A bus error aborts the
// refresh; the panel keeps the scanlines already written.
func (d *Dev) Refresh() error {
	if d.halted {
		return errHalted
	}
	w := d.rect.Dx()
	pix := d.img.Pix
	start := 0
	for row := d.rect.Dy() - 1; row >= 0; row-- {
		d.convert(d.line, pix[start:start+w])
		if err := d.writeCommand(cmdCASET, d.colWindow[:]); err != nil {
			return fmt.Errorf("st7735r: refresh row %d: %w", row, err)
		}
		y := uint32(row + d.panel.RowOffset)
		binary.BigEndian.PutUint32(d.rowWindow[:], y<<16|(y+1))
		if err := d.writeCommand(cmdRASET, d.rowWindow[:]); err != nil {
			return fmt.Errorf("st7735r: refresh row %d: %w", row, err)
		}
		if err := d.writeCommand(cmdRAMWR, d.line); err != nil {
			return fmt.Errorf("st7735r: refresh row %d: %w", row, err)
		}
		start += w
	}
	return nil
}

// Image returns the frame buffer. Changes are sent on the next Refresh.
func (d *Dev) Image() *image332.Packed {
	return d.img
}

// Format returns the wire pixel format.
func (d *Dev) Format() PixelFormat {
	return d.format
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image332.RGB332Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write replaces the frame buffer with raw RGB332 pixels and refreshes the
// display. The data must be exactly d.Bounds().Dx() * d.Bounds().Dy() bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != len(d.img.Pix) {
		return 0, errors.New("st7735r: invalid buffer size")
	}
	copy(d.img.Pix, pixels)
	if err := d.Refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Draw draws src into the frame buffer and refreshes the whole display.
//
// Only the area dst is drawn into, but the full frame is always sent.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}

	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: if source is already a full size RGB332 image.
	if s, ok := src.(*image332.Packed); ok && s != d.img && dst == d.rect &&
		sp == (image.Point{}) && s.Rect == d.rect && s.Stride == d.img.Stride {
		copy(d.img.Pix, s.Pix)
	} else if src != image.Image(d.img) {
		draw.Draw(d.img, dst, src, sp, draw.Src)
	}
	return d.Refresh()
}

// Fill sets every pixel of the frame buffer to c.
func (d *Dev) Fill(c image332.RGB332) {
	d.img.Fill(c)
}

// Size implements drivers.Displayer.
func (d *Dev) Size() (x, y int16) {
	return int16(d.rect.Dx()), int16(d.rect.Dy())
}

// SetPixel implements drivers.Displayer.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	d.img.SetRGB332(int(x), int(y), image332.Encode(c.R, c.G, c.B))
}

// Display implements drivers.Displayer.
func (d *Dev) Display() error {
	return d.Refresh()
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	cmd := cmdINVOFF
	if invert {
		cmd = cmdINVON
	}
	return d.writeCommand(cmd, nil)
}

// Halt turns the display off and puts the controller to sleep.
//
// After calling Halt, the display will not respond to further commands until
// Init is called.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.writeCommand(cmdDISPOFF, nil); err != nil {
		return err
	}
	return d.writeCommand(cmdSLPIN, nil)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7735r.Dev{%dx%d, %s}", d.rect.Dx(), d.rect.Dy(), d.format)
}

var _ display.Drawer = &Dev{}
var _ drivers.Displayer = &Dev{}
