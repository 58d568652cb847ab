package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// keys is a Keypad for tests.
type keys [16]bool

func (k *keys) Pressed(key uint8) bool {
	return k[key]
}

// newTestCpu creates a CPU with the words loaded at PROGRAM_START.
func newTestCpu(words ...uint16) (cpu *Cpu) {
	var rom []byte
	for _, word := range words {
		rom = append(rom, byte(word>>8), byte(word))
	}

	cpu = NewCpu(nil)
	cpu.LoadRom(rom)
	return
}

// run steps the CPU count times, failing on any error.
func run(t *testing.T, cpu *Cpu, count int) {
	for range count {
		err := cpu.Step()
		if err != nil {
			t.Fatalf("pc %03x: %v", cpu.Pc, err)
		}
	}
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x6A05)
	run(t, cpu, 1)
	cpu.Delay = 3
	cpu.Stack.Push(0x300)

	cpu.Reset()
	assert.Equal(uint16(PROGRAM_START), cpu.Pc)
	assert.Equal(uint8(0), cpu.V[0xA])
	assert.True(cpu.Stack.Empty())
	assert.Equal(uint8(0), cpu.Delay)
	assert.True(cpu.Running())
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		a, b  uint8
		op    uint16
		value uint8
		flag  uint8
	}){
		{"add_carry", 250, 10, 0x8014, 4, 1},
		{"add", 1, 1, 0x8014, 2, 0},
		{"sub", 5, 3, 0x8015, 2, 1},
		{"sub_borrow", 3, 5, 0x8015, 254, 0},
		{"sub_equal", 5, 5, 0x8015, 0, 0},
		{"subn", 3, 5, 0x8017, 2, 1},
		{"subn_borrow", 5, 3, 0x8017, 254, 0},
		{"shr", 3, 0, 0x8006, 1, 1},
		{"shr_even", 4, 0, 0x8006, 2, 0},
		{"shl", 0x81, 0, 0x800E, 0x02, 1},
		{"shl_clear", 0x41, 0, 0x800E, 0x82, 0},
		{"or", 0x0F, 0x30, 0x8011, 0x3F, 0},
		{"and", 0x0F, 0x3C, 0x8012, 0x0C, 0},
		{"xor", 0x0F, 0x3C, 0x8013, 0x33, 0},
		{"ld", 0x0F, 0x3C, 0x8010, 0x3C, 0},
		{"add_byte", 0xFF, 0, 0x7002, 0x01, 0},
	}

	for _, entry := range table {
		cpu := newTestCpu(0x6000|uint16(entry.a), 0x6100|uint16(entry.b), entry.op)
		run(t, cpu, 3)
		assert.Equal(entry.value, cpu.V[0], entry.name)
		assert.Equal(entry.flag, cpu.V[REGISTER_FLAG], entry.name)
		assert.Equal(uint16(0x206), cpu.Pc, entry.name)
	}
}

func TestCpu_Skip(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		op   uint16
		pc   uint16
	}){
		{"se_byte", 0x3005, 0x208},
		{"se_byte_not", 0x3006, 0x206},
		{"sne_byte", 0x4006, 0x208},
		{"sne_byte_not", 0x4005, 0x206},
		{"se_reg", 0x5010, 0x208},
		{"sne_reg", 0x9010, 0x206},
	}

	for _, entry := range table {
		cpu := newTestCpu(0x6005, 0x6105, entry.op)
		run(t, cpu, 3)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
	}
}

func TestCpu_CallReturn(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x2300)
	cpu.Memory.StoreByte(0x300, 0x00)
	cpu.Memory.StoreByte(0x301, 0xEE)

	run(t, cpu, 1)
	assert.Equal(uint16(0x300), cpu.Pc)
	assert.Equal(uint8(1), cpu.Stack.Sp)

	run(t, cpu, 1)
	assert.Equal(uint16(0x202), cpu.Pc)
	assert.Equal(uint8(0), cpu.Stack.Sp)
}

func TestCpu_StackErrors(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x00EE)
	err := cpu.Step()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint16(0x200), cpu.Pc)

	cpu = newTestCpu(0x2200)
	run(t, cpu, STACK_LIMIT)
	err = cpu.Step()
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(uint16(0x200), cpu.Pc)
}

func TestCpu_Jump(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x1456)
	run(t, cpu, 1)
	assert.Equal(uint16(0x456), cpu.Pc)

	cpu = newTestCpu(0x6004, 0xB300)
	run(t, cpu, 2)
	assert.Equal(uint16(0x304), cpu.Pc)
}

func TestCpu_Draw(t *testing.T) {
	assert := assert.New(t)

	// LD V0, 0; LD F, V0; DRW V0, V0, 5; DRW V0, V0, 5
	cpu := newTestCpu(0x6000, 0xF029, 0xD005, 0xD005)
	run(t, cpu, 3)
	assert.Equal(uint16(FONT_BASE), cpu.I)
	assert.Equal(uint8(0), cpu.V[REGISTER_FLAG])
	assert.Equal(SIGNAL_REFRESH, cpu.Display.Signal)
	assert.Equal(uint16(0x206), cpu.Pc)

	// Glyph '0' is 0xF0, 0x90, 0x90, 0x90, 0xF0.
	for x := range 4 {
		assert.True(cpu.Display.Pixel(x, 0))
		assert.True(cpu.Display.Pixel(x, 4))
	}
	assert.True(cpu.Display.Pixel(0, 2))
	assert.False(cpu.Display.Pixel(1, 2))
	assert.True(cpu.Display.Pixel(3, 2))

	run(t, cpu, 1)
	assert.Equal(uint8(1), cpu.V[REGISTER_FLAG])
	assert.False(strings.Contains(cpu.Display.String(), "#"))
}

func TestCpu_DrawWrap(t *testing.T) {
	assert := assert.New(t)

	// LD V0, 64; LD V1, 0; LD F, V1; DRW V0, V1, 1
	cpu := newTestCpu(0x6040, 0x6100, 0xF129, 0xD011)
	run(t, cpu, 4)

	assert.True(cpu.Display.Pixel(0, 0))
	assert.True(cpu.Display.Pixel(3, 0))
	assert.False(cpu.Display.Pixel(4, 0))
	assert.False(cpu.Display.Pixel(63, 0))
}

func TestCpu_Clear(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x6A05, 0x00E0)
	cpu.Display.Blit(0, 0, 0xFF)
	run(t, cpu, 2)

	assert.Equal(uint8(5), cpu.V[0xA])
	assert.Equal(uint16(0x204), cpu.Pc)
	assert.Equal(SIGNAL_CLEAR, cpu.Display.Take())
	assert.False(cpu.Display.Pixel(0, 0))
}

func TestCpu_Bcd(t *testing.T) {
	assert := assert.New(t)

	// LD V0, 254; LD I, 0x300; LD B, V0
	cpu := newTestCpu(0x60FE, 0xA300, 0xF033)
	run(t, cpu, 3)

	for n, digit := range []uint8{2, 5, 4} {
		value, err := cpu.Memory.LoadByte(0x300 + n)
		assert.NoError(err)
		assert.Equal(digit, value)
	}
	assert.Equal(uint16(0x300), cpu.I)
}

func TestCpu_BulkStoreLoad(t *testing.T) {
	assert := assert.New(t)

	// LD V0, 1; LD V1, 2; LD V2, 3; LD V3, 4; LD I, 0x300; LD [I], V2
	cpu := newTestCpu(0x6001, 0x6102, 0x6203, 0x6304, 0xA300, 0xF255)
	run(t, cpu, 6)

	for n, expect := range []uint8{1, 2, 3, 0} {
		value, err := cpu.Memory.LoadByte(0x300 + n)
		assert.NoError(err)
		assert.Equal(expect, value, "0x%03x", 0x300+n)
	}
	assert.Equal(uint16(0x300), cpu.I)

	// LD I, 0x400; LD V2, [I]
	cpu = newTestCpu(0xA400, 0xF265)
	cpu.V[3] = 0x33
	for n, value := range []uint8{7, 8, 9, 10} {
		cpu.Memory.StoreByte(0x400+n, value)
	}
	run(t, cpu, 2)
	assert.Equal([]uint8{7, 8, 9, 0x33}, cpu.V[:4])
	assert.Equal(uint16(0x400), cpu.I)
}

func TestCpu_MemoryFault(t *testing.T) {
	assert := assert.New(t)

	// LD I, 0x100; LD V0, [I]
	cpu := newTestCpu(0xA100, 0xF065)
	run(t, cpu, 1)

	err := cpu.Step()
	assert.ErrorIs(err, ErrMemory)
	assert.Equal(ErrReservedAddress(0x100), err)
	assert.Equal(uint16(0x202), cpu.Pc)
}

func TestCpu_Halt(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x0123, 0x0100)
	run(t, cpu, 1)
	assert.True(cpu.Running())
	assert.Equal(uint16(0x202), cpu.Pc)

	run(t, cpu, 1)
	assert.False(cpu.Running())
	assert.Equal(uint16(0x202), cpu.Pc)
}

func TestCpu_Keys(t *testing.T) {
	assert := assert.New(t)

	pad := &keys{}

	// LD V0, 5; SKP V0
	cpu := newTestCpu(0x6005, 0xE09E)
	run(t, cpu, 2)
	assert.Equal(uint16(0x204), cpu.Pc, "no keypad")

	cpu = newTestCpu(0x6005, 0xE09E)
	cpu.Keypad = pad
	pad[5] = true
	run(t, cpu, 2)
	assert.Equal(uint16(0x206), cpu.Pc)

	// LD V0, 0x15; SKNP V0 uses the low nibble.
	cpu = newTestCpu(0x6015, 0xE0A1)
	cpu.Keypad = pad
	run(t, cpu, 2)
	assert.Equal(uint16(0x204), cpu.Pc)

	pad[5] = false
	cpu = newTestCpu(0x6015, 0xE0A1)
	cpu.Keypad = pad
	run(t, cpu, 2)
	assert.Equal(uint16(0x206), cpu.Pc)
}

func TestCpu_WaitKey(t *testing.T) {
	assert := assert.New(t)

	pad := &keys{}

	cpu := newTestCpu(0xF30A)
	cpu.Keypad = pad

	run(t, cpu, 3)
	assert.Equal(uint16(0x200), cpu.Pc)

	pad[0xC] = true
	pad[0x7] = true
	run(t, cpu, 1)
	assert.Equal(uint16(0x202), cpu.Pc)
	assert.Equal(uint8(0x7), cpu.V[3])
}

func TestCpu_Timers(t *testing.T) {
	assert := assert.New(t)

	// LD V0, 2; LD DT, V0; LD ST, V0
	cpu := newTestCpu(0x6002, 0xF015, 0xF018, 0xF107)
	run(t, cpu, 3)
	assert.Equal(uint8(2), cpu.Delay)
	assert.True(cpu.Sounding())

	cpu.TickTimers()
	run(t, cpu, 1)
	assert.Equal(uint8(1), cpu.V[1])

	cpu.TickTimers()
	cpu.TickTimers()
	assert.Equal(uint8(0), cpu.Delay)
	assert.Equal(uint8(0), cpu.Sound)
	assert.False(cpu.Sounding())
}

func TestCpu_Index(t *testing.T) {
	assert := assert.New(t)

	// LD V0, 0x10; LD VF, 0x55; LD I, 0xFFF; ADD I, V0
	cpu := newTestCpu(0x6010, 0x6F55, 0xAFFF, 0xF01E)
	run(t, cpu, 4)
	assert.Equal(uint16(0x100F), cpu.I)
	assert.Equal(uint8(0x55), cpu.V[REGISTER_FLAG])

	inst, err := Decode(0xF01E)
	assert.NoError(err)
	cpu.I = 0xFFFF
	cpu.V[0] = 1
	assert.NoError(cpu.Execute(inst))
	assert.Equal(uint16(0), cpu.I)

	// LD V2, 0x1A; LD F, V2
	cpu = newTestCpu(0x621A, 0xF229)
	run(t, cpu, 2)
	assert.Equal(uint16(FONT_BASE+0xA*FONT_HEIGHT), cpu.I)
}

func TestCpu_Random(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0xC30F)
	cpu.Random = func() uint8 { return 0xA5 }
	run(t, cpu, 1)
	assert.Equal(uint8(0x05), cpu.V[3])
}

func TestCpu_BadInstruction(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0xFFFF)
	err := cpu.Step()
	assert.True(errors.Is(err, ErrDecode(0)))
	assert.Equal(uint16(0x200), cpu.Pc)
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x6A05)
	run(t, cpu, 1)

	text := cpu.String()
	assert.Contains(text, "pc: 0202")
	assert.Contains(text, "vA: 05")
	assert.Contains(text, "stack: ----")

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x200", defines["PROGRAM_START"])
	assert.Equal("0x50", defines["FONT_BASE"])
}
