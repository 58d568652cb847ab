package cpu

import (
	"slices"
	"strings"
)

const (
	DISPLAY_WIDTH  = 64 // Default display width in pixels.
	DISPLAY_HEIGHT = 32 // Default display height in pixels.
	SPRITE_WIDTH   = 8  // Pixels per sprite row.
)

// Signal is the last display mutation pending observation by the consumer.
type Signal int

//go:generate go tool stringer -linecomment -type=Signal
const (
	SIGNAL_NONE    = Signal(0) // none
	SIGNAL_CLEAR   = Signal(1) // clear
	SIGNAL_REFRESH = Signal(2) // refresh
)

// Display is a monochrome pixel grid, stored row-major.
type Display struct {
	Width  int
	Height int
	Pixels []bool
	Signal Signal
}

// NewDisplay creates a blank display of the given size.
func NewDisplay(width, height int) *Display {
	return &Display{
		Width:  width,
		Height: height,
		Pixels: make([]bool, width*height),
	}
}

// index returns the pixel index, wrapping coordinates around the edges.
func (d *Display) index(x, y int) int {
	x %= d.Width
	if x < 0 {
		x += d.Width
	}
	y %= d.Height
	if y < 0 {
		y += d.Height
	}
	return y*d.Width + x
}

// Pixel returns the pixel at (x, y), with wrapping.
func (d *Display) Pixel(x, y int) bool {
	return d.Pixels[d.index(x, y)]
}

// Clear turns all pixels off and raises SIGNAL_CLEAR.
func (d *Display) Clear() {
	clear(d.Pixels)
	d.Signal = SIGNAL_CLEAR
}

// Blit XORs one sprite row onto the display at (x, y), MSB leftmost.
// Coordinates wrap, never clip. Returns true if any lit pixel was
// turned off.
func (d *Display) Blit(x, y int, row uint8) (collision bool) {
	for col := range SPRITE_WIDTH {
		if row&(0x80>>col) == 0 {
			continue
		}
		n := d.index(x+col, y)
		if d.Pixels[n] {
			collision = true
		}
		d.Pixels[n] = !d.Pixels[n]
	}
	return
}

// Take returns the pending signal and resets it to SIGNAL_NONE.
func (d *Display) Take() (signal Signal) {
	signal = d.Signal
	d.Signal = SIGNAL_NONE
	return
}

// Snapshot returns a copy of the pixel grid.
func (d *Display) Snapshot() []bool {
	return slices.Clone(d.Pixels)
}

// String renders the display as text, '#' for lit pixels.
func (d *Display) String() string {
	var sb strings.Builder
	for y := range d.Height {
		for x := range d.Width {
			if d.Pixels[y*d.Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
