package io

import (
	"sync"

	"github.com/ezrec/chip8/cpu"
)

// Frame is a snapshot of the display, and the signal that produced it.
type Frame struct {
	Width  int
	Height int
	Pixels []bool // Row-major, Width*Height.
	Signal cpu.Signal
}

// NewFrame takes a snapshot of the display.
func NewFrame(display *cpu.Display, signal cpu.Signal) Frame {
	return Frame{
		Width:  display.Width,
		Height: display.Height,
		Pixels: display.Snapshot(),
		Signal: signal,
	}
}

// Pixel returns the pixel at (x, y), which must be in range.
func (fr *Frame) Pixel(x, y int) bool {
	return fr.Pixels[y*fr.Width+x]
}

// Video hands display frames from the emulator to a renderer.
// At most one frame is pending; publishing replaces a stale frame
// rather than waiting for the renderer.
type Video struct {
	mutex  sync.Mutex
	frames chan Frame
	closed bool
}

// NewVideo creates an open video hand-off.
func NewVideo() *Video {
	return &Video{
		frames: make(chan Frame, 1),
	}
}

// Publish offers a frame to the renderer. It never blocks.
func (v *Video) Publish(frame Frame) (err error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.closed {
		err = ErrVideoClosed
		return
	}

	// Drop the unconsumed frame, if any.
	select {
	case <-v.frames:
	default:
	}

	select {
	case v.frames <- frame:
	default:
	}

	return
}

// Frames is the receive side of the hand-off. It is closed by Close.
func (v *Video) Frames() <-chan Frame {
	return v.frames
}

// Latest returns the pending frame, if any, without waiting.
func (v *Video) Latest() (frame Frame, ok bool) {
	select {
	case frame, ok = <-v.frames:
	default:
	}
	return
}

// Close ends the hand-off. Further publishes fail with ErrVideoClosed.
func (v *Video) Close() {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	close(v.frames)
}

// Closed is true once Close has been called.
func (v *Video) Closed() bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	return v.closed
}
