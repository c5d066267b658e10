package image332

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    RGB332
	}{
		{"black", 0, 0, 0, 0x00},
		{"white", 255, 255, 255, 0xFF},
		{"red", 255, 0, 0, 0xE0},
		{"green", 0, 255, 0, 0x1C},
		{"blue", 0, 0, 255, 0x03},
		{"low bits dropped", 0x1F, 0x1F, 0x3F, 0x00},
		{"mixed", 0xA0, 0x60, 0x80, 0xA0 | 0x0C | 0x02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Encode(%d, %d, %d) = 0x%02X, want 0x%02X", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	c := RGB332(0b101_011_10)
	if c.R() != 0b101 {
		t.Errorf("R() = %03b, want 101", c.R())
	}
	if c.G() != 0b011 {
		t.Errorf("G() = %03b, want 011", c.G())
	}
	if c.B() != 0b10 {
		t.Errorf("B() = %02b, want 10", c.B())
	}
}

func TestRGB332RGBA(t *testing.T) {
	tests := []struct {
		name       string
		c          RGB332
		r, g, b, a uint32
	}{
		{"black", 0x00, 0, 0, 0, 0xFFFF},
		{"white", 0xFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF},
		{"red", 0xE0, 0xFFFF, 0, 0, 0xFFFF},
		{"green", 0x1C, 0, 0xFFFF, 0, 0xFFFF},
		{"blue", 0x03, 0, 0, 0xFFFF, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if r != tt.r || g != tt.g || b != tt.b || a != tt.a {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, %x)", r, g, b, a, tt.r, tt.g, tt.b, tt.a)
			}
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	// Every packed value survives a trip through color.RGBA and back.
	for v := 0; v < 256; v++ {
		c := RGB332(v)
		got := RGB332Model.Convert(color.RGBA64Model.Convert(c)).(RGB332)
		if got != c {
			t.Fatalf("round trip of 0x%02X = 0x%02X", v, got)
		}
	}
}

func TestModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  RGB332
	}{
		{"passthrough", RGB332(0x5A), 0x5A},
		{"black", color.Black, 0x00},
		{"white", color.White, 0xFF},
		{"red", color.RGBA{0xFF, 0, 0, 0xFF}, 0xE0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGB332Model.Convert(tt.input).(RGB332); got != tt.want {
				t.Errorf("Convert(%v) = 0x%02X, want 0x%02X", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewPacked(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantStride int
		wantPixLen int
	}{
		{"128x128", image.Rect(0, 0, 128, 128), 128, 16384},
		{"2x2", image.Rect(0, 0, 2, 2), 2, 4},
		{"offset rect", image.Rect(10, 20, 13, 22), 3, 6},
		{"empty", image.Rect(0, 0, 0, 0), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewPacked(tt.rect)
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
		})
	}
}

func TestPackedSetGet(t *testing.T) {
	img := NewPacked(image.Rect(0, 0, 3, 2))
	img.SetRGB332(0, 0, 0xE0)
	img.SetRGB332(2, 1, 0x03)
	img.Set(1, 0, color.RGBA{0, 0xFF, 0, 0xFF})

	want := []byte{0xE0, 0x1C, 0x00, 0x00, 0x00, 0x03}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("Pix[%d] = 0x%02X, want 0x%02X", i, img.Pix[i], b)
		}
	}
	if c, ok := img.At(0, 0).(RGB332); !ok || c != 0xE0 {
		t.Errorf("At(0, 0) = %v, want RGB332(0xE0)", img.At(0, 0))
	}
}

func TestPackedOutOfBounds(t *testing.T) {
	img := NewPacked(image.Rect(0, 0, 2, 2))
	img.SetRGB332(-1, 0, 0xFF)
	img.SetRGB332(0, 2, 0xFF)
	for i, b := range img.Pix {
		if b != 0 {
			t.Errorf("Pix[%d] = 0x%02X after out-of-bounds Set, want 0", i, b)
		}
	}
	if got := img.RGB332At(5, 5); got != 0 {
		t.Errorf("RGB332At(5, 5) = 0x%02X, want 0", got)
	}
}

func TestPackedOffsetRect(t *testing.T) {
	img := NewPacked(image.Rect(100, 50, 102, 52))
	img.SetRGB332(101, 51, 0x42)
	if img.Pix[3] != 0x42 {
		t.Errorf("Pix[3] = 0x%02X, want 0x42", img.Pix[3])
	}
	if got := img.RGB332At(101, 51); got != 0x42 {
		t.Errorf("RGB332At(101, 51) = 0x%02X, want 0x42", got)
	}
}

func TestPackedRowAndFill(t *testing.T) {
	img := NewPacked(image.Rect(0, 0, 4, 3))
	img.Fill(0x1C)
	img.SetRGB332(1, 2, 0xE0)

	row := img.Row(2)
	if len(row) != 4 {
		t.Fatalf("len(Row(2)) = %d, want 4", len(row))
	}
	want := []byte{0x1C, 0xE0, 0x1C, 0x1C}
	for i, b := range want {
		if row[i] != b {
			t.Errorf("Row(2)[%d] = 0x%02X, want 0x%02X", i, row[i], b)
		}
	}
}

func TestPackedDraw(t *testing.T) {
	img := NewPacked(image.Rect(0, 0, 4, 4))
	draw.Draw(img, image.Rect(1, 1, 3, 3), image.NewUniform(color.White), image.Point{}, draw.Src)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := RGB332(0)
			if x >= 1 && x < 3 && y >= 1 && y < 3 {
				want = 0xFF
			}
			if got := img.RGB332At(x, y); got != want {
				t.Errorf("RGB332At(%d, %d) = 0x%02X, want 0x%02X", x, y, got, want)
			}
		}
	}
}
