package io

import (
	"testing"

	"github.com/ezrec/chip8/cpu"
	"github.com/stretchr/testify/assert"
)

func TestVideo_Publish(t *testing.T) {
	assert := assert.New(t)

	v := NewVideo()

	_, ok := v.Latest()
	assert.False(ok)

	display := cpu.NewDisplay(8, 2)
	display.Blit(0, 0, 0x80)
	assert.NoError(v.Publish(NewFrame(display, cpu.SIGNAL_REFRESH)))

	// The snapshot is not affected by later drawing.
	display.Blit(0, 1, 0x80)

	frame, ok := v.Latest()
	assert.True(ok)
	assert.Equal(8, frame.Width)
	assert.Equal(2, frame.Height)
	assert.Equal(cpu.SIGNAL_REFRESH, frame.Signal)
	assert.True(frame.Pixel(0, 0))
	assert.False(frame.Pixel(0, 1))

	_, ok = v.Latest()
	assert.False(ok)
}

func TestVideo_Coalesce(t *testing.T) {
	assert := assert.New(t)

	v := NewVideo()
	display := cpu.NewDisplay(8, 2)

	// Nobody is consuming; publishing must not block.
	for n := range 100 {
		display.Blit(n%8, 0, 0x80)
		assert.NoError(v.Publish(NewFrame(display, cpu.SIGNAL_REFRESH)))
	}
	display.Clear()
	assert.NoError(v.Publish(NewFrame(display, cpu.SIGNAL_CLEAR)))

	frame := <-v.Frames()
	assert.Equal(cpu.SIGNAL_CLEAR, frame.Signal)

	_, ok := v.Latest()
	assert.False(ok)
}

func TestVideo_Close(t *testing.T) {
	assert := assert.New(t)

	v := NewVideo()
	assert.False(v.Closed())

	v.Close()
	v.Close()
	assert.True(v.Closed())

	err := v.Publish(Frame{})
	assert.ErrorIs(err, ErrVideoClosed)

	_, ok := <-v.Frames()
	assert.False(ok)
}
