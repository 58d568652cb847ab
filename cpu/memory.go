package cpu

import (
	"io"
)

// Memory map constants.
//
//	0x000-0x1FF: Interpreter area, holds the font sprites at FONT_BASE.
//	0x200-0xFFF: Program and program-writable data.
const (
	MEMORY_SIZE   = 0x1000 // Total addressable bytes.
	PROGRAM_START = 0x200  // Load address of the ROM, and initial PC.
	PROGRAM_SIZE  = MEMORY_SIZE - PROGRAM_START

	FONT_BASE   = 0x050 // Address of the glyph for hex digit 0.
	FONT_HEIGHT = 5     // Bytes (rows) per glyph.
)

// font holds the 4x5 hex digit glyphs 0-F, one row per byte, MSB first.
var font = [16 * FONT_HEIGHT]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4K address space of the machine.
type Memory struct {
	data [MEMORY_SIZE]uint8
}

// NewMemory creates a memory with the font sprites installed.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	mem.Reset()
	return
}

// Reset clears program memory and reinstalls the font sprites.
func (mem *Memory) Reset() {
	clear(mem.data[:])
	copy(mem.data[FONT_BASE:], font[:])
}

// check verifies a program-visible address.
func check(addr int) error {
	switch {
	case addr < 0 || addr >= MEMORY_SIZE:
		return ErrUnmappedAddress(addr)
	case addr < PROGRAM_START:
		return ErrReservedAddress(addr)
	}
	return nil
}

// LoadByte reads a single byte of program memory.
func (mem *Memory) LoadByte(addr int) (value uint8, err error) {
	err = check(addr)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// StoreByte writes a single byte of program memory.
func (mem *Memory) StoreByte(addr int, value uint8) (err error) {
	err = check(addr)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// LoadWord reads two consecutive bytes, high byte first.
func (mem *Memory) LoadWord(addr int) (word uint16, err error) {
	hi, err := mem.LoadByte(addr)
	if err != nil {
		return
	}
	lo, err := mem.LoadByte(addr + 1)
	if err != nil {
		return
	}

	word = uint16(hi)<<8 | uint16(lo)
	return
}

// Sprite reads a sprite row. In addition to program memory, the
// interpreter's font table is readable here.
func (mem *Memory) Sprite(addr int) (row uint8, err error) {
	if addr >= FONT_BASE && addr < FONT_BASE+len(font) {
		row = mem.data[addr]
		return
	}

	return mem.LoadByte(addr)
}

// LoadRom copies a ROM image to PROGRAM_START, truncating anything that
// does not fit. Returns the number of bytes copied.
func (mem *Memory) LoadRom(rom []byte) int {
	return copy(mem.data[PROGRAM_START:], rom)
}

// Dump writes the entire raw address space to the writer.
func (mem *Memory) Dump(w io.Writer) (n int, err error) {
	return w.Write(mem.data[:])
}
