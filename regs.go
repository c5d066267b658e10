package st7735r

import "time"

// ST7735R command set, datasheet section 10.
const (
	cmdSWRESET byte = 0x01 // Software reset
	cmdSLPIN   byte = 0x10 // Sleep in
	cmdSLPOUT  byte = 0x11 // Sleep out
	cmdNORON   byte = 0x13 // Normal display mode on
	cmdINVOFF  byte = 0x20 // Display inversion off
	cmdINVON   byte = 0x21 // Display inversion on
	cmdDISPOFF byte = 0x28 // Display off
	cmdDISPON  byte = 0x29 // Display on
	cmdCASET   byte = 0x2A // Column address set
	cmdRASET   byte = 0x2B // Row address set
	cmdRAMWR   byte = 0x2C // Memory write
	cmdMADCTL  byte = 0x36 // Memory data access control
	cmdCOLMOD  byte = 0x3A // Interface pixel format
	cmdFRMCTR1 byte = 0xB1 // Frame rate control, normal mode
	cmdFRMCTR2 byte = 0xB2 // Frame rate control, idle mode
	cmdFRMCTR3 byte = 0xB3 // Frame rate control, partial mode
	cmdINVCTR  byte = 0xB4 // Display inversion control
	cmdPWCTR1  byte = 0xC0 // Power control 1
	cmdPWCTR2  byte = 0xC1 // Power control 2
	cmdPWCTR3  byte = 0xC2 // Power control 3, normal mode
	cmdPWCTR4  byte = 0xC3 // Power control 4, idle mode
	cmdPWCTR5  byte = 0xC4 // Power control 5, partial mode
	cmdVMCTR1  byte = 0xC5 // VCOM control
	cmdGMCTRP1 byte = 0xE0 // Positive gamma correction
	cmdGMCTRN1 byte = 0xE1 // Negative gamma correction
)

// madctlBGR selects BGR subpixel order in MADCTL.
const madctlBGR byte = 0x08

// step is one entry of a register sequence: a command, its optional
// parameters, and the minimum time to wait before the next command.
type step struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

// initSequence returns the power-up register table for the given MADCTL and
// COLMOD values. Entries are replayed in order by sendSequence.
func initSequence(madctl byte, colmod PixelFormat) []step {
	return []step{
		{cmd: cmdSWRESET, delay: 150 * time.Millisecond}, // > 120ms
		{cmd: cmdSLPOUT, delay: 256 * time.Millisecond},  // datasheet says 120ms
		{cmd: cmdFRMCTR1, data: []byte{0x01, 0x2C, 0x2D}},
		{cmd: cmdFRMCTR2, data: []byte{0x01, 0x2C, 0x2D}},
		{cmd: cmdFRMCTR3, data: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
		{cmd: cmdINVCTR, data: []byte{0x07}},              // Line inversion
		{cmd: cmdPWCTR1, data: []byte{0xA2, 0x02, 0x84}},  // GVDD = 4.7V, 1.0uA
		{cmd: cmdPWCTR2, data: []byte{0xC5}},              // VGH = 14.7V, VGL = -7.35V
		{cmd: cmdPWCTR3, data: []byte{0x0A, 0x00}},        // Opamp current small, boost frequency
		{cmd: cmdPWCTR4, data: []byte{0x8A, 0x2A}},
		{cmd: cmdPWCTR5, data: []byte{0x8A, 0xEE}},
		{cmd: cmdVMCTR1, data: []byte{0x0E}},              // VCOMH = 4V, VCOML = -1.1V
		{cmd: cmdINVOFF},
		{cmd: cmdMADCTL, data: []byte{madctl}},
		{cmd: cmdCOLMOD, data: []byte{byte(colmod)}},
		{cmd: cmdGMCTRP1, data: []byte{
			0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D,
			0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10,
		}},
		{cmd: cmdGMCTRN1, data: []byte{
			0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D,
			0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10,
		}},
		{cmd: cmdNORON, delay: 10 * time.Millisecond},
		{cmd: cmdDISPON, delay: 100 * time.Millisecond},
	}
}
