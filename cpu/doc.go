// Package cpu implements the interpreter core and assembler for a CHIP-8 class
// virtual machine.
//
// The CPU consists of sixteen 8-bit general-purpose registers (V0-VF, with VF
// doubling as the carry, borrow and collision flag), a 16-bit index register
// (I), a program counter (PC) starting at 0x200, a sixteen entry call stack,
// delay and sound timers, and 4096 bytes of memory whose low 512 bytes are
// reserved for the interpreter and its font sprites.
//
// Instruction words are fetched big-endian, decoded into one of 35 instruction
// variants, and executed against the CPU state and a monochrome display
// surface. Drawing and clearing the display raise a signal that the display
// consumer observes and resets.
//
// The assembler provides a mnemonic assembly language for the same instruction
// set, supporting labels, equates, data directives, and compile-time expression
// evaluation. The disassembler renders a ROM image back into that language.
package cpu
