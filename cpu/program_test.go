package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"LD V0, 1",
		"",
		".word 0x1234, 0x5678",
		"CLS",
	)

	dbg := prog.Debug(0x200)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x205)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(3, dbg.Index)

	dbg = prog.Debug(0x206)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.LineNo)
	assert.Equal([]string{"CLS"}, dbg.Words)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "CLS")

	dbg := prog.Debug(0x1FF)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x202)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "CLS", ".byte 7")

	var addrs []uint16
	for addr := range prog.Bytes() {
		addrs = append(addrs, addr)
		if addr == 0x201 {
			break
		}
	}
	assert.Equal([]uint16{0x200, 0x201}, addrs)
	assert.Equal([]byte{0x00, 0xE0, 0x07}, prog.Binary())
}
