package cpu

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"math/rand/v2"
	"strings"
)

// HALT_ADDRESS is the SYS target that stops the interpreter. This is an
// interpreter extension; every other SYS address is a no-op.
const HALT_ADDRESS = 0x100

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%#x", MEMORY_SIZE),
	"PROGRAM_START":  fmt.Sprintf("%#x", PROGRAM_START),
	"FONT_BASE":      fmt.Sprintf("%#x", FONT_BASE),
	"FONT_HEIGHT":    fmt.Sprintf("%v", FONT_HEIGHT),
	"STACK_LIMIT":    fmt.Sprintf("%v", STACK_LIMIT),
	"HALT_ADDRESS":   fmt.Sprintf("%#x", HALT_ADDRESS),
	"DISPLAY_WIDTH":  fmt.Sprintf("%v", DISPLAY_WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%v", DISPLAY_HEIGHT),
}

// Keypad reports the state of the sixteen hex keys.
type Keypad interface {
	Pressed(key uint8) bool
}

// Cpu is the interpreter state: registers, stack, memory and timers.
// The display surface is borrowed from the owner of the Cpu.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers         // V0-VF and I.
	Pc        uint16  // Program counter.
	Stack     Stack   // Call stack and stack pointer.
	Memory    *Memory // Address space.
	Delay     uint8   // Delay timer.
	Sound     uint8   // Sound timer.

	Display *Display     // Display surface drawn on by CLS and DRW.
	Keypad  Keypad       // Key state for SKP, SKNP and LD Vx, K. May be nil.
	Random  func() uint8 // Uniform random byte source for RND.

	Ticks int // Executed instruction counter.

	running bool
}

// NewCpu creates a CPU that draws onto the display. A nil display
// is replaced by a blank display of the default size.
func NewCpu(display *Display) (cpu *Cpu) {
	if display == nil {
		display = NewDisplay(DISPLAY_WIDTH, DISPLAY_HEIGHT)
	}

	cpu = &Cpu{
		Memory:  NewMemory(),
		Display: display,
		Random:  func() uint8 { return uint8(rand.Uint32()) },
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers, stack, timers and program memory.
// - Reinstalls the font sprites.
// - Sets PC to PROGRAM_START.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Stack.Reset()
	cpu.Memory.Reset()
	cpu.Pc = PROGRAM_START
	cpu.Delay = 0
	cpu.Sound = 0
	cpu.Ticks = 0
	cpu.running = true
}

// Running is false once the program has halted.
func (cpu *Cpu) Running() bool {
	return cpu.running
}

// LoadRom copies a ROM image into program memory.
func (cpu *Cpu) LoadRom(rom []byte) (n int) {
	n = cpu.Memory.LoadRom(rom)
	if cpu.Verbose {
		log.Printf("cpu: loaded %d of %d bytes", n, len(rom))
	}
	return
}

// Dump writes the raw address space to the writer.
func (cpu *Cpu) Dump(w io.Writer) (n int, err error) {
	return cpu.Memory.Dump(w)
}

// TickTimers counts the delay and sound timers down by one.
func (cpu *Cpu) TickTimers() {
	if cpu.Delay > 0 {
		cpu.Delay--
	}
	if cpu.Sound > 0 {
		cpu.Sound--
	}
}

// Sounding is true while the sound timer is running.
func (cpu *Cpu) Sounding() bool {
	return cpu.Sound > 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   pc: %04X\n", cpu.Pc)
	fmt.Fprintf(&sb, "    i: %04X\n", cpu.I)
	for n, v := range cpu.V {
		fmt.Fprintf(&sb, "   v%X: %02X\n", n, v)
	}
	fmt.Fprintf(&sb, "   sp: %02X\n", cpu.Stack.Sp)
	if top, ok := cpu.Stack.Peek(); ok {
		fmt.Fprintf(&sb, "stack: %04X\n", top)
	} else {
		fmt.Fprintf(&sb, "stack: ----\n")
	}
	fmt.Fprintf(&sb, "   dt: %02X\n", cpu.Delay)
	fmt.Fprintf(&sb, "   st: %02X\n", cpu.Sound)

	return sb.String()
}

// Fetch reads the instruction word at the program counter.
func (cpu *Cpu) Fetch() (word uint16, err error) {
	return cpu.Memory.LoadWord(int(cpu.Pc))
}

// Step fetches, decodes and executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	inst, err := Decode(word)
	if err != nil {
		return
	}

	return cpu.Execute(inst)
}

// Execute executes a single decoded instruction. The program counter is
// only updated when the instruction succeeds.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: %03x: %04x %v", cpu.Pc, inst.Word(), inst)
	}

	next_pc := cpu.Pc + 2

	vx, err := cpu.Get(inst.X())
	if err != nil {
		return
	}
	vy, err := cpu.Get(inst.Y())
	if err != nil {
		return
	}

	switch inst.Op() {
	case OP_CLS:
		cpu.Display.Clear()
	case OP_RET:
		next_pc, err = cpu.Stack.Pop()
	case OP_SYS:
		if inst.Addr() == HALT_ADDRESS {
			cpu.running = false
			next_pc = cpu.Pc
			if cpu.Verbose {
				log.Printf("cpu: halt at %03x", cpu.Pc)
			}
		}
	case OP_JP:
		next_pc = inst.Addr()
	case OP_CALL:
		err = cpu.Stack.Push(cpu.Pc + 2)
		next_pc = inst.Addr()
	case OP_SE_BYTE:
		if vx == inst.Byte() {
			next_pc += 2
		}
	case OP_SNE_BYTE:
		if vx != inst.Byte() {
			next_pc += 2
		}
	case OP_SE_REG:
		if vx == vy {
			next_pc += 2
		}
	case OP_SNE_REG:
		if vx != vy {
			next_pc += 2
		}
	case OP_LD_BYTE:
		err = cpu.Set(inst.X(), inst.Byte())
	case OP_ADD_BYTE:
		err = cpu.Set(inst.X(), vx+inst.Byte())
	case OP_LD_REG:
		err = cpu.Set(inst.X(), vy)
	case OP_OR:
		err = cpu.Set(inst.X(), vx|vy)
	case OP_AND:
		err = cpu.Set(inst.X(), vx&vy)
	case OP_XOR:
		err = cpu.Set(inst.X(), vx^vy)
	case OP_ADD_REG:
		sum := uint16(vx) + uint16(vy)
		cpu.flag(sum > 0xFF)
		err = cpu.Set(inst.X(), uint8(sum))
	case OP_SUB:
		cpu.flag(vx > vy)
		err = cpu.Set(inst.X(), vx-vy)
	case OP_SUBN:
		cpu.flag(vy > vx)
		err = cpu.Set(inst.X(), vy-vx)
	case OP_SHR:
		cpu.flag(vx&0x01 != 0)
		err = cpu.Set(inst.X(), vx>>1)
	case OP_SHL:
		cpu.flag(vx&0x80 != 0)
		err = cpu.Set(inst.X(), vx<<1)
	case OP_LD_I:
		cpu.I = inst.Addr()
	case OP_JP_V0:
		next_pc = uint16(cpu.V[0]) + inst.Addr()
	case OP_RND:
		err = cpu.Set(inst.X(), cpu.Random()&inst.Byte())
	case OP_DRW:
		err = cpu.draw(int(vx), int(vy), inst.N())
	case OP_SKP:
		if cpu.pressed(vx) {
			next_pc += 2
		}
	case OP_SKNP:
		if !cpu.pressed(vx) {
			next_pc += 2
		}
	case OP_LD_VX_DT:
		err = cpu.Set(inst.X(), cpu.Delay)
	case OP_LD_VX_K:
		key, ok := cpu.anyKey()
		if ok {
			err = cpu.Set(inst.X(), key)
		} else {
			// Don't advance until a key is down.
			next_pc = cpu.Pc
		}
	case OP_LD_DT_VX:
		cpu.Delay = vx
	case OP_LD_ST_VX:
		cpu.Sound = vx
	case OP_ADD_I:
		cpu.I += uint16(vx)
	case OP_LD_F:
		cpu.I = FONT_BASE + uint16(vx&0xF)*FONT_HEIGHT
	case OP_LD_B:
		err = cpu.storeBcd(vx)
	case OP_LD_MEM_VX:
		err = cpu.storeRegisters(inst.X())
	case OP_LD_VX_MEM:
		err = cpu.loadRegisters(inst.X())
	default:
		err = ErrDecode(inst.Word())
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// draw XORs an n row sprite from I onto the display at (x, y), and sets
// VF to report any collision.
func (cpu *Cpu) draw(x, y int, n int) (err error) {
	collision := false
	for row := range n {
		var bits uint8
		bits, err = cpu.Memory.Sprite(int(cpu.I) + row)
		if err != nil {
			return
		}
		if cpu.Display.Blit(x, y+row, bits) {
			collision = true
		}
	}

	cpu.flag(collision)
	cpu.Display.Signal = SIGNAL_REFRESH

	return
}

// pressed checks the key named by the low nibble of a register value.
func (cpu *Cpu) pressed(value uint8) bool {
	if cpu.Keypad == nil {
		return false
	}
	return cpu.Keypad.Pressed(value & 0xF)
}

// anyKey returns the lowest numbered key that is down.
func (cpu *Cpu) anyKey() (key uint8, ok bool) {
	if cpu.Keypad == nil {
		return
	}
	for n := 0; n < 16; n++ {
		if cpu.Keypad.Pressed(uint8(n)) {
			return uint8(n), true
		}
	}
	return
}

// storeBcd stores the hundreds, tens and units digits of value at I.
func (cpu *Cpu) storeBcd(value uint8) (err error) {
	digits := [3]uint8{value / 100, value / 10 % 10, value % 10}
	for n, digit := range digits {
		err = cpu.Memory.StoreByte(int(cpu.I)+n, digit)
		if err != nil {
			return
		}
	}
	return
}

// storeRegisters copies V0 through Vlast, inclusive, to memory at I.
func (cpu *Cpu) storeRegisters(last int) (err error) {
	for n := 0; n <= last; n++ {
		var value uint8
		value, err = cpu.Get(n)
		if err != nil {
			return
		}
		err = cpu.Memory.StoreByte(int(cpu.I)+n, value)
		if err != nil {
			return
		}
	}
	return
}

// loadRegisters copies memory at I into V0 through Vlast, inclusive.
func (cpu *Cpu) loadRegisters(last int) (err error) {
	for n := 0; n <= last; n++ {
		var value uint8
		value, err = cpu.Memory.LoadByte(int(cpu.I) + n)
		if err != nil {
			return
		}
		err = cpu.Set(n, value)
		if err != nil {
			return
		}
	}
	return
}
