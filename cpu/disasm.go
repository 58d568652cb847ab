package cpu

import (
	"fmt"
	"io"
)

// Disassemble writes one line per instruction word of the ROM image,
// addressed from PROGRAM_START. Words that do not decode are listed as NOP.
func Disassemble(rom []byte, w io.Writer) (err error) {
	for offset := 0; offset < len(rom); offset += 2 {
		word := uint16(rom[offset]) << 8
		if offset+1 < len(rom) {
			word |= uint16(rom[offset+1])
		}

		text := "NOP"
		inst, derr := Decode(word)
		if derr == nil {
			text = inst.String()
		}

		_, err = fmt.Fprintf(w, "0x%03X\t| %s\n", PROGRAM_START+offset, text)
		if err != nil {
			return
		}
	}

	return
}
