package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.NoError(s.Push(0x234))
	assert.False(s.Empty())
	assert.Equal(uint8(1), s.Sp)
	assert.Equal(uint16(0x234), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x234)
	s.Push(0xABC)

	val, err := s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0xABC), val)
	assert.Equal(uint8(1), s.Sp)

	val, err = s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x234), val)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, err := s.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint16(0), val)
	assert.Equal(uint8(0), s.Sp)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, ok := s.Peek()
	assert.False(ok)

	s.Push(0x234)
	s.Push(0xABC)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xABC), val)
	assert.Equal(uint8(2), s.Sp)
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := range STACK_LIMIT {
		assert.False(s.Full())
		assert.NoError(s.Push(uint16(i)))
	}

	assert.True(s.Full())
	assert.ErrorIs(s.Push(0xFFF), ErrStackOverflow)
	assert.Equal(uint8(STACK_LIMIT), s.Sp)

	val, err := s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(STACK_LIMIT-1), val)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x234)
	s.Push(0xABC)

	s.Reset()
	assert.True(s.Empty())
	assert.Equal([STACK_LIMIT]uint16{}, s.Data)
}
