// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// mnemonics maps each mnemonic to its instruction variants.
var mnemonics = map[string][]Op{}

func init() {
	for n := range patterns {
		name := patterns[n].Op.String()
		mnemonics[name] = append(mnemonics[name], patterns[n].Op)
	}
}

// Fixed operand names.
var fixedMap = map[string]ArgKind{
	"I":   ARG_I,
	"[I]": ARG_MEM_I,
	"DT":  ARG_DT,
	"ST":  ARG_ST,
	"K":   ARG_K,
	"F":   ARG_F,
	"B":   ARG_B,
}

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// argument is a parsed operand.
type argument struct {
	Kind  ArgKind
	Value int    // Register index or number.
	Label string // Label to be linked, for a number.
}

// fits checks if the argument can fill the operand.
func (arg argument) fits(op Operand) bool {
	if op.Kind == ARG_V0 {
		return arg.Kind == ARG_REGISTER && arg.Value == 0
	}
	return arg.Kind == op.Kind
}

// valueOf returns the value of a number. A leading '#' marks hexadecimal.
func valueOf(word string) (value int, err error) {
	var v64 int64
	if rest, ok := strings.CutPrefix(word, "#"); ok {
		v64, err = strconv.ParseInt(rest, 16, 32)
	} else {
		v64, err = strconv.ParseInt(word, 0, 32)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parseArgument classifies a single operand.
func parseArgument(text string) (arg argument, err error) {
	upper := strings.ToUpper(text)

	kind, ok := fixedMap[upper]
	if ok {
		arg.Kind = kind
		return
	}

	if len(upper) == 2 && upper[0] == 'V' {
		index, perr := strconv.ParseUint(upper[1:], 16, 4)
		if perr == nil {
			arg.Kind = ARG_REGISTER
			arg.Value = int(index)
			return
		}
	}

	arg.Kind = ARG_NUMBER
	arg.Value, err = valueOf(text)
	if err == nil {
		return
	}

	if reLabel.MatchString(text) {
		err = nil
		arg.Label = text
		return
	}

	err = ErrParseArgument(text)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		equ, eerr := valueOf(str)
		if eerr != nil {
			// Registers and other non-integer equates are not visible.
			continue
		}
		pred[key] = starlark.MakeInt(equ)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// currentAddress gets the address of the next assembled byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = nil
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		for _, link := range op.Links {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")

			addr, ok := asm.Label[link.Label]
			if !ok {
				err = ErrLabelMissing(link.Label)
				return
			}
			var field uint16
			field, err = link.Operand.Encode(addr)
			if err != nil {
				return
			}
			op.Bytes[link.Offset] |= byte(field >> 8)
			op.Bytes[link.Offset+1] |= byte(field)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseLine parses a single line of source.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentAddress()

		line = strings.TrimSpace(strings.TrimPrefix(line, words[0]))
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	mnemonic := words[0]
	var args []string
	rest := strings.TrimSpace(strings.TrimPrefix(line, mnemonic))
	if len(rest) > 0 {
		args = strings.Split(rest, ",")
		for n, arg := range args {
			arg = strings.TrimSpace(arg)
			equate, ok := asm.Equate[arg]
			if ok {
				arg = equate
			}
			args[n] = arg
		}
	}

	op := Opcode{
		LineNo:  lineno,
		Address: asm.currentAddress(),
		Words:   append([]string{mnemonic}, args...),
	}

	switch strings.ToLower(mnemonic) {
	case ".byte":
		op.Bytes, op.Links, err = parseData(args, 1)
	case ".word":
		op.Bytes, op.Links, err = parseData(args, 2)
	default:
		if strings.HasPrefix(mnemonic, ".") {
			err = ErrDirectiveInvalid
			return
		}
		var word uint16
		word, op.Links, err = encode(strings.ToUpper(mnemonic), args)
		op.Bytes = []byte{byte(word >> 8), byte(word)}
	}
	if err != nil {
		return
	}

	if op.Address+len(op.Bytes) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	asm.Opcode = append(asm.Opcode, op)

	return
}

// parseData assembles a .byte or .word directive.
func parseData(args []string, size int) (data []byte, links []Link, err error) {
	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	operand := Operand{ARG_NUMBER, uint16(1<<(8*size) - 1)}
	for _, text := range args {
		var arg argument
		arg, err = parseArgument(text)
		if err != nil {
			return
		}
		if arg.Kind != ARG_NUMBER {
			err = ErrParseArgument(text)
			return
		}

		var field uint16
		if len(arg.Label) > 0 {
			if size < 2 {
				err = ErrParseNumber(text)
				return
			}
			links = append(links, Link{Label: arg.Label, Offset: len(data), Operand: operand})
		} else {
			field, err = operand.Encode(arg.Value)
			if err != nil {
				return
			}
		}

		if size == 2 {
			data = append(data, byte(field>>8))
		}
		data = append(data, byte(field))
	}

	return
}

// encode assembles an instruction from its mnemonic and operands.
func encode(mnemonic string, texts []string) (word uint16, links []Link, err error) {
	ops, ok := mnemonics[mnemonic]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := make([]argument, len(texts))
	for n, text := range texts {
		args[n], err = parseArgument(text)
		if err != nil {
			return
		}
	}

	for _, op := range ops {
		p := &patterns[op]
		if len(p.Args) != len(args) {
			continue
		}
		match := true
		for n, operand := range p.Args {
			match = match && args[n].fits(operand)
		}
		if !match {
			continue
		}

		word = p.Value
		for n, operand := range p.Args {
			arg := args[n]
			if len(arg.Label) > 0 {
				if operand.Mask != FIELD_ADDR {
					err = ErrParseNumber(arg.Label)
					return
				}
				links = append(links, Link{Label: arg.Label, Operand: operand})
				continue
			}
			var field uint16
			field, err = operand.Encode(arg.Value)
			if err != nil {
				return
			}
			word |= field
		}
		return
	}

	err = ErrOperandsInvalid
	return
}
