package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrMemory         = errors.New(f("memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOperandsInvalid    = errors.New(f("operands invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramTooLarge    = errors.New(f("program too large"))
)

// ErrInvalidRegister is returned when a register index is outside V0-VF.
type ErrInvalidRegister int

func (er ErrInvalidRegister) Error() string {
	return f("register %d is invalid", int(er))
}

// ErrReservedAddress is returned for program access to the interpreter area.
type ErrReservedAddress int

func (ea ErrReservedAddress) Error() string {
	return f("address 0x%03x is reserved", int(ea))
}

func (ea ErrReservedAddress) Unwrap() error {
	return ErrMemory
}

// ErrUnmappedAddress is returned for access beyond the end of memory.
type ErrUnmappedAddress int

func (ea ErrUnmappedAddress) Error() string {
	return f("address 0x%x is out of bounds", int(ea))
}

func (ea ErrUnmappedAddress) Unwrap() error {
	return ErrMemory
}

// ErrDecode is returned for an instruction word that matches no pattern.
type ErrDecode uint16

func (ed ErrDecode) Error() string {
	return f("bad instruction 0x%04x", uint16(ed))
}

func (ed ErrDecode) Is(err error) (ok bool) {
	_, ok = err.(ErrDecode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseArgument string

func (err ErrParseArgument) Error() string {
	return f("'%v' is not an operand", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOperandRange is returned when an operand does not fit its field.
type ErrOperandRange struct {
	Value int
	Mask  uint16
}

func (err ErrOperandRange) Error() string {
	return f("operand %#x does not fit field %#04x", err.Value, err.Mask)
}
