// Package st7735rtest is meant to be used to test drivers over a fake ST7735R
// panel.
//
// Panel implements spi.PortCloser and exposes the DC, CS and RST lines as
// gpio pins. Everything written to it is recorded, and the command stream is
// decoded into an emulated display RAM so tests can check what would appear
// on the glass.
package st7735rtest

import (
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Controller commands decoded by Panel.
const (
	SWRESET byte = 0x01
	SLPIN   byte = 0x10
	SLPOUT  byte = 0x11
	NORON   byte = 0x13
	INVOFF  byte = 0x20
	INVON   byte = 0x21
	DISPOFF byte = 0x28
	DISPON  byte = 0x29
	CASET   byte = 0x2A
	RASET   byte = 0x2B
	RAMWR   byte = 0x2C
	MADCTL  byte = 0x36
	COLMOD  byte = 0x3A
)

// MADCTL bits.
const (
	MY  byte = 0x80 // Row address order
	MX  byte = 0x40 // Column address order
	MV  byte = 0x20 // Row/column exchange
	BGR byte = 0x08 // BGR color filter order
)

// Display RAM geometry of the ST7735R.
const (
	RAMColumns = 132
	RAMRows    = 162
)

// EventKind tells pin changes and bus writes apart.
type EventKind int

const (
	PinChange EventKind = iota
	BusWrite
)

// Event is one observable action on the panel interface, in order.
type Event struct {
	Kind EventKind

	// PinChange.
	Pin   string
	Level gpio.Level

	// BusWrite. DC and CS are the line levels at the time of the write; CS is
	// Low when the port frames chip select itself. Cmd is the command byte for
	// a command write, or the command the data belongs to.
	Data []byte
	DC   gpio.Level
	CS   gpio.Level
	Cmd  byte
}

// Command is a command byte with the parameter bytes that followed it.
type Command struct {
	Cmd  byte
	Data []byte
}

// Pin is a gpiotest.Pin that reports level changes to its Panel.
type Pin struct {
	gpiotest.Pin

	// Err, when set, is returned by Out and the level is left unchanged.
	Err error

	p *Panel
}

// Out implements gpio.PinOut.
func (pin *Pin) Out(l gpio.Level) error {
	if pin.Err != nil {
		return pin.Err
	}
	if err := pin.Pin.Out(l); err != nil {
		return err
	}
	pin.p.pinChanged(pin, l)
	return nil
}

// Panel implements spi.PortCloser and emulates an ST7735R controller.
type Panel struct {
	sync.Mutex

	DC  *Pin
	CS  *Pin
	RST *Pin

	// PhysicalBGR is set when the glass has BGR subpixel order. Pixel data is
	// decoded with the first color field as blue when exactly one of
	// PhysicalBGR and the MADCTL BGR bit is set.
	PhysicalBGR bool

	// FailOn, when set, is called before every bus write. A non-nil error is
	// returned from Tx and the write is dropped.
	FailOn func(e Event) error

	// Record holds the raw bytes of every successful write.
	Record conntest.Record
	Events []Event

	// GRAM is the display RAM, addressed as (column, row). It is square so
	// that both MADCTL orientations fit.
	GRAM *image.RGBA

	Initialized bool
	Freq        physic.Frequency
	Mode        spi.Mode

	// Controller state.
	Sleeping bool
	On       bool
	Inverted bool
	MADCTL   byte
	COLMOD   byte

	cmd              byte
	args             []byte
	colStart, colEnd int
	rowStart, rowEnd int
	col, row         int
	pending          []byte
}

// NewPanel returns a powered-up panel with its control pins.
func NewPanel() *Panel {
	p := &Panel{
		GRAM:        image.NewRGBA(image.Rect(0, 0, RAMRows, RAMRows)),
		PhysicalBGR: true,
	}
	p.DC = &Pin{Pin: gpiotest.Pin{N: "DC", Num: 0, L: gpio.Low}, p: p}
	p.CS = &Pin{Pin: gpiotest.Pin{N: "CS", Num: 1, L: gpio.High}, p: p}
	p.RST = &Pin{Pin: gpiotest.Pin{N: "RST", Num: 2, L: gpio.High}, p: p}
	p.reset()
	return p
}

func (p *Panel) String() string {
	return "st7735rtest"
}

// Close implements spi.PortCloser.
func (p *Panel) Close() error {
	return nil
}

// LimitSpeed implements spi.PortCloser.
func (p *Panel) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Connect implements spi.PortCloser.
func (p *Panel) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.Lock()
	defer p.Unlock()
	if p.Initialized {
		return nil, conntest.Errorf("st7735rtest: Connect cannot be called twice")
	}
	if bits != 8 {
		return nil, conntest.Errorf("st7735rtest: unsupported word size %d", bits)
	}
	p.Initialized = true
	p.Freq = f
	p.Mode = mode
	return &panelConn{p}, nil
}

// Commands returns the decoded command stream: every byte written with DC
// low starts a command and bytes written with DC high are appended to it.
func (p *Panel) Commands() []Command {
	p.Lock()
	defer p.Unlock()
	var out []Command
	for _, e := range p.Events {
		if e.Kind != BusWrite {
			continue
		}
		if e.DC == gpio.Low {
			for _, b := range e.Data {
				out = append(out, Command{Cmd: b})
			}
			continue
		}
		if len(out) == 0 {
			continue
		}
		last := &out[len(out)-1]
		last.Data = append(last.Data, e.Data...)
	}
	return out
}

// Snapshot copies the RAM region r into a new image. When flipY is set the
// rows are reversed, matching a panel scanning RAM bottom-up.
func (p *Panel) Snapshot(r image.Rectangle, flipY bool) *image.RGBA {
	p.Lock()
	defer p.Unlock()
	r = r.Intersect(p.GRAM.Rect)
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		sy := r.Min.Y + y
		if flipY {
			sy = r.Max.Y - 1 - y
		}
		src := p.GRAM.Pix[p.GRAM.PixOffset(r.Min.X, sy):p.GRAM.PixOffset(r.Max.X, sy)]
		copy(out.Pix[out.PixOffset(0, y):], src)
	}
	return out
}

// At returns the color stored in RAM at column x, row y.
func (p *Panel) At(x, y int) color.RGBA {
	p.Lock()
	defer p.Unlock()
	return p.GRAM.RGBAAt(x, y)
}

func (p *Panel) pinChanged(pin *Pin, l gpio.Level) {
	p.Lock()
	defer p.Unlock()
	p.Events = append(p.Events, Event{Kind: PinChange, Pin: pin.N, Level: l})
	if pin == p.RST && l == gpio.Low {
		p.reset()
	}
}

// reset puts the controller in its power-on state. GRAM content is kept.
func (p *Panel) reset() {
	p.Sleeping = true
	p.On = false
	p.Inverted = false
	p.MADCTL = 0
	p.COLMOD = 0x06
	p.cmd = 0
	p.args = p.args[:0]
	p.pending = p.pending[:0]
	p.colStart, p.colEnd = 0, RAMColumns-1
	p.rowStart, p.rowEnd = 0, RAMRows-1
	p.col, p.row = 0, 0
}

func (p *Panel) selected() bool {
	if p.Mode&spi.NoCS == 0 {
		return true
	}
	return p.CS.Read() == gpio.Low
}

func (p *Panel) tx(w, r []byte) error {
	if len(r) != 0 {
		return conntest.Errorf("st7735rtest: reads are not supported")
	}
	// Pin reads take the pin locks only, never the panel lock.
	dc := p.DC.Read()
	cs := gpio.Low
	sel := p.selected()
	if !sel {
		cs = gpio.High
	}

	p.Lock()
	defer p.Unlock()
	e := Event{Kind: BusWrite, Data: append([]byte(nil), w...), DC: dc, CS: cs, Cmd: p.cmd}
	if dc == gpio.Low && len(w) != 0 {
		e.Cmd = w[0]
	}
	if p.FailOn != nil {
		if err := p.FailOn(e); err != nil {
			return err
		}
	}
	if err := p.Record.Tx(w, nil); err != nil {
		return err
	}
	p.Events = append(p.Events, e)
	if !sel {
		return nil
	}
	if dc == gpio.Low {
		for _, b := range w {
			p.command(b)
		}
		return nil
	}
	p.data(w)
	return nil
}

func (p *Panel) command(b byte) {
	p.cmd = b
	p.args = p.args[:0]
	p.pending = p.pending[:0]
	switch b {
	case SWRESET:
		p.reset()
	case SLPIN:
		p.Sleeping = true
	case SLPOUT:
		p.Sleeping = false
	case DISPON:
		p.On = true
	case DISPOFF:
		p.On = false
	case INVON:
		p.Inverted = true
	case INVOFF:
		p.Inverted = false
	case RAMWR:
		p.col, p.row = p.colStart, p.rowStart
	}
}

func (p *Panel) data(w []byte) {
	switch p.cmd {
	case CASET, RASET:
		p.args = append(p.args, w...)
		if len(p.args) < 4 {
			return
		}
		start := int(p.args[0])<<8 | int(p.args[1])
		end := int(p.args[2])<<8 | int(p.args[3])
		if p.cmd == CASET {
			p.colStart, p.colEnd = start, end
		} else {
			p.rowStart, p.rowEnd = start, end
		}
		p.args = p.args[:0]
	case MADCTL:
		p.MADCTL = w[len(w)-1]
	case COLMOD:
		p.COLMOD = w[len(w)-1] & 0x07
	case RAMWR:
		p.pending = append(p.pending, w...)
		p.drain()
	}
}

// drain decodes complete pixel groups from pending into RAM.
func (p *Panel) drain() {
	swap := p.PhysicalBGR != (p.MADCTL&BGR != 0)
	n := 0
	switch p.COLMOD {
	case 0x03:
		for ; n+3 <= len(p.pending); n += 3 {
			b := p.pending[n : n+3]
			p.put(expand4(b[0]>>4), expand4(b[0]&0xF), expand4(b[1]>>4), swap)
			p.put(expand4(b[1]&0xF), expand4(b[2]>>4), expand4(b[2]&0xF), swap)
		}
	case 0x05:
		for ; n+2 <= len(p.pending); n += 2 {
			v := uint16(p.pending[n])<<8 | uint16(p.pending[n+1])
			p.put(expand5(uint8(v>>11)), expand6(uint8(v>>5)&0x3F), expand5(uint8(v)&0x1F), swap)
		}
	default:
		// 18-bit: one byte per component, upper 6 bits significant.
		for ; n+3 <= len(p.pending); n += 3 {
			b := p.pending[n : n+3]
			p.put(b[0]&0xFC, b[1]&0xFC, b[2]&0xFC, swap)
		}
	}
	p.pending = append(p.pending[:0], p.pending[n:]...)
}

// put stores one pixel at the RAM write pointer and advances it inside the
// address window.
func (p *Panel) put(first, g, last uint8, swap bool) {
	r, b := first, last
	if swap {
		r, b = last, first
	}
	cols, rows := RAMColumns, RAMRows
	if p.MADCTL&MV != 0 {
		cols, rows = RAMRows, RAMColumns
	}
	if p.col < cols && p.row < rows {
		p.GRAM.SetRGBA(p.col, p.row, color.RGBA{R: r, G: g, B: b, A: 0xFF})
	}
	p.col++
	if p.col > p.colEnd {
		p.col = p.colStart
		p.row++
		if p.row > p.rowEnd {
			p.row = p.rowStart
		}
	}
}

func expand4(v uint8) uint8 { return v<<4 | v }
func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

type panelConn struct {
	p *Panel
}

func (c *panelConn) String() string {
	return c.p.String()
}

func (c *panelConn) Tx(w, r []byte) error {
	return c.p.tx(w, r)
}

func (c *panelConn) Duplex() conn.Duplex {
	return conn.Half
}

func (c *panelConn) TxPackets(p []spi.Packet) error {
	return conntest.Errorf("st7735rtest: TxPackets is not implemented")
}

var _ spi.PortCloser = &Panel{}
var _ gpio.PinIO = &Pin{}
