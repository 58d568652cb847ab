package cpu

import (
	"iter"
)

// Link is a label reference that is patched once all labels are known.
type Link struct {
	Label   string  // Label name.
	Offset  int     // Byte offset of the patched word within the opcode.
	Operand Operand // Field of the word receiving the label address.
}

// Opcode is the assembled form of a single source line.
type Opcode struct {
	LineNo  int      // Source line number.
	Address int      // Address of the first byte.
	Words   []string // Source words, after equate substitution.
	Bytes   []byte   // Assembled bytes.
	Links   []Link   // Unresolved label references.
}

// Program is an assembled program, ready to load at PROGRAM_START.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode, if any, that assembled the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Address && int(addr) < op.Address+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Address,
			}
			break
		}
	}

	return
}

// Binary returns the ROM image.
func (prog *Program) Binary() (rom []byte) {
	for _, value := range prog.Bytes() {
		rom = append(rom, value)
	}

	return
}

// Bytes iterates over the address and value of every assembled byte.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(uint16(op.Address+n), value) {
					return
				}
			}
		}
	}
}
