// Package frontend renders the CHIP-8 display in a window, and feeds the
// host keyboard to the hex keypad.
package frontend

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ezrec/chip8/cpu"
	chipio "github.com/ezrec/chip8/io"
)

// keyMap maps the hex keys to the left hand side of a QWERTY keyboard.
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  =>  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var keyMap = [chipio.KEY_COUNT]ebiten.Key{
	0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

// Window is an ebiten.Game showing the most recent display frame.
type Window struct {
	Keypad     *chipio.Keypad // Keypad updated from the host keyboard.
	Video      *chipio.Video  // Source of display frames.
	Foreground color.RGBA     // Lit pixel colour.
	Background color.RGBA     // Unlit pixel colour.

	frame  chipio.Frame
	image  *ebiten.Image
	pixels []byte
}

var _ ebiten.Game = (*Window)(nil)

// NewWindow creates a window for the keypad and video hand-off.
func NewWindow(keypad *chipio.Keypad, video *chipio.Video) *Window {
	return &Window{
		Keypad:     keypad,
		Video:      video,
		Foreground: color.RGBA{0xE0, 0xE0, 0xE0, 0xFF},
		Background: color.RGBA{0x10, 0x10, 0x10, 0xFF},
	}
}

// KeyMask returns the keypad state for a host key state; bit n is key n.
func KeyMask(pressed func(key ebiten.Key) bool) (mask uint16) {
	for n, key := range keyMap {
		if pressed(key) {
			mask |= 1 << n
		}
	}
	return
}

// RGBA converts a frame to RGBA pixel data, reusing buf when possible.
func RGBA(frame *chipio.Frame, on, off color.RGBA, buf []byte) []byte {
	size := 4 * frame.Width * frame.Height
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]

	for n, lit := range frame.Pixels {
		c := off
		if lit {
			c = on
		}
		buf[4*n+0] = c.R
		buf[4*n+1] = c.G
		buf[4*n+2] = c.B
		buf[4*n+3] = c.A
	}

	return buf
}

// drain keeps the newest pending frame. Returns true once the emulator
// has closed the video.
func (w *Window) drain() (ended bool) {
	for {
		select {
		case frame, ok := <-w.Video.Frames():
			if !ok {
				return true
			}
			w.frame = frame
		default:
			return false
		}
	}
}

// Update polls the keyboard and collects display frames.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	w.Keypad.Set(KeyMask(ebiten.IsKeyPressed))

	if w.drain() {
		return ebiten.Termination
	}

	return nil
}

// Draw renders the most recent frame.
func (w *Window) Draw(screen *ebiten.Image) {
	if len(w.frame.Pixels) == 0 {
		screen.Fill(w.Background)
		return
	}

	if w.image == nil || w.image.Bounds().Dx() != w.frame.Width || w.image.Bounds().Dy() != w.frame.Height {
		w.image = ebiten.NewImage(w.frame.Width, w.frame.Height)
	}

	w.pixels = RGBA(&w.frame, w.Foreground, w.Background, w.pixels)
	w.image.WritePixels(w.pixels)
	screen.DrawImage(w.image, nil)
}

// Layout uses the display resolution; ebiten scales it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w.frame.Width == 0 {
		return cpu.DISPLAY_WIDTH, cpu.DISPLAY_HEIGHT
	}
	return w.frame.Width, w.frame.Height
}

// Run opens the window and runs until it is closed, or the emulator ends.
func (w *Window) Run(title string, scale int) error {
	ebiten.SetWindowSize(cpu.DISPLAY_WIDTH*scale, cpu.DISPLAY_HEIGHT*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(w)
}
