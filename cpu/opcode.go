package cpu

import (
	"fmt"
	"math/bits"
	"strings"
)

// Op is a decoded instruction variant.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_CLS       = Op(0)  // CLS
	OP_RET       = Op(1)  // RET
	OP_SYS       = Op(2)  // SYS
	OP_JP        = Op(3)  // JP
	OP_CALL      = Op(4)  // CALL
	OP_SE_BYTE   = Op(5)  // SE
	OP_SNE_BYTE  = Op(6)  // SNE
	OP_SE_REG    = Op(7)  // SE
	OP_LD_BYTE   = Op(8)  // LD
	OP_ADD_BYTE  = Op(9)  // ADD
	OP_LD_REG    = Op(10) // LD
	OP_OR        = Op(11) // OR
	OP_AND       = Op(12) // AND
	OP_XOR       = Op(13) // XOR
	OP_ADD_REG   = Op(14) // ADD
	OP_SUB       = Op(15) // SUB
	OP_SHR       = Op(16) // SHR
	OP_SUBN      = Op(17) // SUBN
	OP_SHL       = Op(18) // SHL
	OP_SNE_REG   = Op(19) // SNE
	OP_LD_I      = Op(20) // LD
	OP_JP_V0     = Op(21) // JP
	OP_RND       = Op(22) // RND
	OP_DRW       = Op(23) // DRW
	OP_SKP       = Op(24) // SKP
	OP_SKNP      = Op(25) // SKNP
	OP_LD_VX_DT  = Op(26) // LD
	OP_LD_VX_K   = Op(27) // LD
	OP_LD_DT_VX  = Op(28) // LD
	OP_LD_ST_VX  = Op(29) // LD
	OP_ADD_I     = Op(30) // ADD
	OP_LD_F      = Op(31) // LD
	OP_LD_B      = Op(32) // LD
	OP_LD_MEM_VX = Op(33) // LD
	OP_LD_VX_MEM = Op(34) // LD
)

// ArgKind is the syntactic kind of an instruction operand.
type ArgKind int

//go:generate go tool stringer -linecomment -type=ArgKind
const (
	ARG_REGISTER = ArgKind(0) // Vx
	ARG_NUMBER   = ArgKind(1) // number
	ARG_V0       = ArgKind(2) // V0
	ARG_I        = ArgKind(3) // I
	ARG_MEM_I    = ArgKind(4) // [I]
	ARG_DT       = ArgKind(5) // DT
	ARG_ST       = ArgKind(6) // ST
	ARG_K        = ArgKind(7) // K
	ARG_F        = ArgKind(8) // F
	ARG_B        = ArgKind(9) // B
)

// Operand field masks within the instruction word.
const (
	FIELD_X    = uint16(0x0F00) // Register Vx.
	FIELD_Y    = uint16(0x00F0) // Register Vy.
	FIELD_N    = uint16(0x000F) // Nibble.
	FIELD_BYTE = uint16(0x00FF) // Immediate byte.
	FIELD_ADDR = uint16(0x0FFF) // Address.
)

// Operand describes one operand of a pattern, and which bits hold it.
// Fixed operands (I, DT, ...) have a zero mask.
type Operand struct {
	Kind ArgKind
	Mask uint16
}

// Value extracts the operand field from an instruction word.
func (o Operand) Value(word uint16) int {
	if o.Mask == 0 {
		return 0
	}
	return int((word & o.Mask) >> bits.TrailingZeros16(o.Mask))
}

// Encode places a value into the operand field.
func (o Operand) Encode(value int) (field uint16, err error) {
	if o.Mask == 0 {
		return
	}
	shift := bits.TrailingZeros16(o.Mask)
	limit := int(o.Mask >> shift)
	if value < 0 || value > limit {
		err = ErrOperandRange{Value: value, Mask: o.Mask}
		return
	}
	field = uint16(value) << shift
	return
}

// pattern is an instruction word template.
type pattern struct {
	Op    Op
	Mask  uint16
	Value uint16
	Args  []Operand
}

var (
	argX    = Operand{ARG_REGISTER, FIELD_X}
	argY    = Operand{ARG_REGISTER, FIELD_Y}
	argN    = Operand{ARG_NUMBER, FIELD_N}
	argByte = Operand{ARG_NUMBER, FIELD_BYTE}
	argAddr = Operand{ARG_NUMBER, FIELD_ADDR}
)

// patterns is indexed by Op, and ordered by decode priority: the two
// full-word literals precede the 0x0nnn SYS family they overlap.
var patterns = [...]pattern{
	OP_CLS:       {OP_CLS, 0xFFFF, 0x00E0, nil},
	OP_RET:       {OP_RET, 0xFFFF, 0x00EE, nil},
	OP_SYS:       {OP_SYS, 0xF000, 0x0000, []Operand{argAddr}},
	OP_JP:        {OP_JP, 0xF000, 0x1000, []Operand{argAddr}},
	OP_CALL:      {OP_CALL, 0xF000, 0x2000, []Operand{argAddr}},
	OP_SE_BYTE:   {OP_SE_BYTE, 0xF000, 0x3000, []Operand{argX, argByte}},
	OP_SNE_BYTE:  {OP_SNE_BYTE, 0xF000, 0x4000, []Operand{argX, argByte}},
	OP_SE_REG:    {OP_SE_REG, 0xF00F, 0x5000, []Operand{argX, argY}},
	OP_LD_BYTE:   {OP_LD_BYTE, 0xF000, 0x6000, []Operand{argX, argByte}},
	OP_ADD_BYTE:  {OP_ADD_BYTE, 0xF000, 0x7000, []Operand{argX, argByte}},
	OP_LD_REG:    {OP_LD_REG, 0xF00F, 0x8000, []Operand{argX, argY}},
	OP_OR:        {OP_OR, 0xF00F, 0x8001, []Operand{argX, argY}},
	OP_AND:       {OP_AND, 0xF00F, 0x8002, []Operand{argX, argY}},
	OP_XOR:       {OP_XOR, 0xF00F, 0x8003, []Operand{argX, argY}},
	OP_ADD_REG:   {OP_ADD_REG, 0xF00F, 0x8004, []Operand{argX, argY}},
	OP_SUB:       {OP_SUB, 0xF00F, 0x8005, []Operand{argX, argY}},
	OP_SHR:       {OP_SHR, 0xF00F, 0x8006, []Operand{argX, argY}},
	OP_SUBN:      {OP_SUBN, 0xF00F, 0x8007, []Operand{argX, argY}},
	OP_SHL:       {OP_SHL, 0xF00F, 0x800E, []Operand{argX, argY}},
	OP_SNE_REG:   {OP_SNE_REG, 0xF00F, 0x9000, []Operand{argX, argY}},
	OP_LD_I:      {OP_LD_I, 0xF000, 0xA000, []Operand{{ARG_I, 0}, argAddr}},
	OP_JP_V0:     {OP_JP_V0, 0xF000, 0xB000, []Operand{{ARG_V0, 0}, argAddr}},
	OP_RND:       {OP_RND, 0xF000, 0xC000, []Operand{argX, argByte}},
	OP_DRW:       {OP_DRW, 0xF000, 0xD000, []Operand{argX, argY, argN}},
	OP_SKP:       {OP_SKP, 0xF0FF, 0xE09E, []Operand{argX}},
	OP_SKNP:      {OP_SKNP, 0xF0FF, 0xE0A1, []Operand{argX}},
	OP_LD_VX_DT:  {OP_LD_VX_DT, 0xF0FF, 0xF007, []Operand{argX, {ARG_DT, 0}}},
	OP_LD_VX_K:   {OP_LD_VX_K, 0xF0FF, 0xF00A, []Operand{argX, {ARG_K, 0}}},
	OP_LD_DT_VX:  {OP_LD_DT_VX, 0xF0FF, 0xF015, []Operand{{ARG_DT, 0}, argX}},
	OP_LD_ST_VX:  {OP_LD_ST_VX, 0xF0FF, 0xF018, []Operand{{ARG_ST, 0}, argX}},
	OP_ADD_I:     {OP_ADD_I, 0xF0FF, 0xF01E, []Operand{{ARG_I, 0}, argX}},
	OP_LD_F:      {OP_LD_F, 0xF0FF, 0xF029, []Operand{{ARG_F, 0}, argX}},
	OP_LD_B:      {OP_LD_B, 0xF0FF, 0xF033, []Operand{{ARG_B, 0}, argX}},
	OP_LD_MEM_VX: {OP_LD_MEM_VX, 0xF0FF, 0xF055, []Operand{{ARG_MEM_I, 0}, argX}},
	OP_LD_VX_MEM: {OP_LD_VX_MEM, 0xF0FF, 0xF065, []Operand{argX, {ARG_MEM_I, 0}}},
}

// OP_COUNT is the number of instruction variants.
const OP_COUNT = len(patterns)

// family groups the masked patterns by the top nibble of the word.
var family [16][]*pattern

func init() {
	for n := range patterns {
		p := &patterns[n]
		if p.Mask == 0xFFFF {
			continue
		}
		top := p.Value >> 12
		family[top] = append(family[top], p)
	}
}

// Instruction is a decoded instruction word. It is only produced by Decode.
type Instruction struct {
	op   Op
	word uint16
}

// Decode maps an instruction word to its instruction variant.
func Decode(word uint16) (inst Instruction, err error) {
	switch word {
	case patterns[OP_CLS].Value:
		return Instruction{op: OP_CLS, word: word}, nil
	case patterns[OP_RET].Value:
		return Instruction{op: OP_RET, word: word}, nil
	}

	for _, p := range family[word>>12] {
		if word&p.Mask == p.Value {
			inst = Instruction{op: p.Op, word: word}
			return
		}
	}

	err = ErrDecode(word)
	return
}

// Op returns the instruction variant.
func (inst Instruction) Op() Op {
	return inst.op
}

// Word returns the instruction word the instruction was decoded from.
func (inst Instruction) Word() uint16 {
	return inst.word
}

// X returns the Vx register field.
func (inst Instruction) X() int {
	return int((inst.word >> 8) & 0xF)
}

// Y returns the Vy register field.
func (inst Instruction) Y() int {
	return int((inst.word >> 4) & 0xF)
}

// N returns the low nibble.
func (inst Instruction) N() int {
	return int(inst.word & 0xF)
}

// Byte returns the low byte immediate.
func (inst Instruction) Byte() uint8 {
	return uint8(inst.word & 0xFF)
}

// Addr returns the 12-bit address field.
func (inst Instruction) Addr() uint16 {
	return inst.word & 0xFFF
}

// Operands returns the instruction's operand descriptions.
func (inst Instruction) Operands() []Operand {
	return patterns[inst.op].Args
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() string {
	args := inst.Operands()
	if len(args) == 0 {
		return inst.op.String()
	}

	strs := make([]string, len(args))
	for n, arg := range args {
		value := arg.Value(inst.word)
		switch arg.Kind {
		case ARG_REGISTER:
			strs[n] = fmt.Sprintf("V%X", value)
		case ARG_NUMBER:
			switch arg.Mask {
			case FIELD_ADDR:
				strs[n] = fmt.Sprintf("0x%03X", value)
			case FIELD_BYTE:
				strs[n] = fmt.Sprintf("0x%02X", value)
			default:
				strs[n] = fmt.Sprintf("%d", value)
			}
		default:
			strs[n] = arg.Kind.String()
		}
	}

	return inst.op.String() + " " + strings.Join(strs, ", ")
}
