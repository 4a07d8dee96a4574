package mips

import (
	"fmt"

	"github.com/slowlang/xlate/compiler/asm"
)

type (
	Opcode int

	// Format fixes the operand shape of an instruction.
	Format int

	// Strategy fixes how an instruction is lowered.
	Strategy int

	opInfo struct {
		name     string
		format   Format
		strategy Strategy

		runtime  string       // Arithmetic: runtime method name
		native   asm.NativeOp // Logical, Shift
		unsigned bool         // Compare
	}
)

const (
	RRFormat Format = iota
	RIFormat

	numFormats
)

const (
	Arithmetic Strategy = iota
	Compare
	Logical
	Shift

	numStrategies
)

const (
	_ Opcode = iota

	SLT
	SLTU
	ADD
	ADDU
	SUB
	SUBU
	MUL
	AND
	OR
	XOR
	NOR
	SLLV
	SRLV
	SRAV

	SLTI
	SLTIU
	ADDI
	ADDIU
	ANDI
	ORI
	XORI
	SLL
	SRL
	SRA

	numOpcodes
)

var opcodes = [numOpcodes]opInfo{
	SLT:  {name: "slt", format: RRFormat, strategy: Compare},
	SLTU: {name: "sltu", format: RRFormat, strategy: Compare, unsigned: true},
	ADD:  {name: "add", format: RRFormat, strategy: Arithmetic, runtime: "add"},
	ADDU: {name: "addu", format: RRFormat, strategy: Arithmetic, runtime: "addu"},
	SUB:  {name: "sub", format: RRFormat, strategy: Arithmetic, runtime: "sub"},
	SUBU: {name: "subu", format: RRFormat, strategy: Arithmetic, runtime: "subu"},
	MUL:  {name: "mul", format: RRFormat, strategy: Arithmetic, runtime: "mul"},
	AND:  {name: "and", format: RRFormat, strategy: Logical, native: asm.And},
	OR:   {name: "or", format: RRFormat, strategy: Logical, native: asm.Or},
	XOR:  {name: "xor", format: RRFormat, strategy: Logical, native: asm.Xor},
	NOR:  {name: "nor", format: RRFormat, strategy: Logical, native: asm.Or},
	SLLV: {name: "sllv", format: RRFormat, strategy: Shift, native: asm.Shl},
	SRLV: {name: "srlv", format: RRFormat, strategy: Shift, native: asm.Ushr},
	SRAV: {name: "srav", format: RRFormat, strategy: Shift, native: asm.Shr},

	SLTI:  {name: "slti", format: RIFormat, strategy: Compare},
	SLTIU: {name: "sltiu", format: RIFormat, strategy: Compare, unsigned: true},
	ADDI:  {name: "addi", format: RIFormat, strategy: Arithmetic, runtime: "addi"},
	ADDIU: {name: "addiu", format: RIFormat, strategy: Arithmetic, runtime: "addiu"},
	ANDI:  {name: "andi", format: RIFormat, strategy: Logical, native: asm.And},
	ORI:   {name: "ori", format: RIFormat, strategy: Logical, native: asm.Or},
	XORI:  {name: "xori", format: RIFormat, strategy: Logical, native: asm.Xor},
	SLL:   {name: "sll", format: RIFormat, strategy: Shift, native: asm.Shl},
	SRL:   {name: "srl", format: RIFormat, strategy: Shift, native: asm.Ushr},
	SRA:   {name: "sra", format: RIFormat, strategy: Shift, native: asm.Shr},
}

var opByName = func() map[string]Opcode {
	m := make(map[string]Opcode, numOpcodes)

	for op, info := range opcodes {
		if info.name != "" {
			m[info.name] = Opcode(op)
		}
	}

	return m
}()

func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opByName[name]
	return op, ok
}

func (op Opcode) Valid() bool {
	return op > 0 && op < numOpcodes
}

func (op Opcode) Format() Format {
	return op.info().format
}

func (op Opcode) Strategy() Strategy {
	return op.info().strategy
}

// Unsigned reports whether op compares unsigned values.
func (op Opcode) Unsigned() bool {
	return op.info().unsigned
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("opcode(%d)", int(op))
	}

	return opcodes[op].name
}

func (op Opcode) info() *opInfo {
	if !op.Valid() {
		panic(fmt.Sprintf("invalid opcode: %d", int(op)))
	}

	return &opcodes[op]
}

func (f Format) String() string {
	switch f {
	case RRFormat:
		return "RR"
	case RIFormat:
		return "RI"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

func (s Strategy) String() string {
	switch s {
	case Arithmetic:
		return "arithmetic"
	case Compare:
		return "compare"
	case Logical:
		return "logical"
	case Shift:
		return "shift"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}
