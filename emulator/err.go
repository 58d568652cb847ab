package emulator

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16 // Address of the failing instruction.
	Word   uint16 // Instruction word at Pc, if readable.
	LineNo int    // Source line, if the program was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d pc 0x%03x (0x%04x): %v", err.LineNo, err.Pc, err.Word, err.Err)
	}
	return f("pc 0x%03x (0x%04x): %v", err.Pc, err.Word, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
