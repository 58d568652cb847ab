package io

import (
	"sync/atomic"

	"github.com/ezrec/chip8/cpu"
)

const KEY_COUNT = 16 // Hex keys 0-F.

// Keypad is the state of the sixteen hex keys, one bit per key. It is
// written by the input side and read by the CPU, possibly concurrently.
type Keypad struct {
	state atomic.Uint32
}

var _ cpu.Keypad = (*Keypad)(nil)

// Press marks a key as down.
func (kp *Keypad) Press(key uint8) (err error) {
	if key >= KEY_COUNT {
		err = ErrKeyInvalid
		return
	}
	kp.state.Or(1 << key)
	return
}

// Release marks a key as up.
func (kp *Keypad) Release(key uint8) (err error) {
	if key >= KEY_COUNT {
		err = ErrKeyInvalid
		return
	}
	kp.state.And(^uint32(1 << key))
	return
}

// Set replaces the state of all keys; bit n is key n.
func (kp *Keypad) Set(mask uint16) {
	kp.state.Store(uint32(mask))
}

// State returns the state of all keys; bit n is key n.
func (kp *Keypad) State() uint16 {
	return uint16(kp.state.Load())
}

// Pressed is true while the key is down.
func (kp *Keypad) Pressed(key uint8) bool {
	if key >= KEY_COUNT {
		return false
	}
	return kp.state.Load()&(1<<key) != 0
}
