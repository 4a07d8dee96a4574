package mips

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/xlate/compiler/asm"
	"github.com/slowlang/xlate/compiler/set"
)

type (
	// Insn is a decoded instruction.
	// RR instructions use SrcA, SrcB and Dst.
	// RI instructions use SrcA as the source, Dst and Imm.
	Insn struct {
		Addr uint32
		Op   Opcode

		SrcA Reg
		SrcB Reg
		Dst  Reg

		Imm int32
	}

	// Usage is the set of registers an instruction reads and writes.
	Usage struct {
		Sources set.Bits[Reg]
		Dests   set.Bits[Reg]
	}

	// Context is shared by all instructions of a translation unit.
	Context struct {
		Namespace string // runtime support namespace path
		Runtime   string // runtime support class

		Sink asm.Sink
	}
)

const (
	DefaultRuntime = "CRunTime"

	defaultStackHeight  = 2
	unsignedStackHeight = 6
)

func RR(addr uint32, op Opcode, a, b, d Reg) (Insn, error) {
	if !op.Valid() || op.Format() != RRFormat {
		return Insn{}, errors.New("%v is not an RR instruction", op)
	}

	return Insn{Addr: addr, Op: op, SrcA: a, SrcB: b, Dst: d}, nil
}

func RI(addr uint32, op Opcode, s, d Reg, imm int32) (Insn, error) {
	if !op.Valid() || op.Format() != RIFormat {
		return Insn{}, errors.New("%v is not an RI instruction", op)
	}

	return Insn{Addr: addr, Op: op, SrcA: s, Dst: d, Imm: imm}, nil
}

// Validate checks i can be discovered and lowered at all.
func (i Insn) Validate() error {
	if !i.Op.Valid() {
		return errors.New("invalid opcode: %d", int(i.Op))
	}

	if !i.SrcA.Valid() {
		return errors.New("invalid source register: %d", int(i.SrcA))
	}

	if i.Format() == RRFormat && !i.SrcB.Valid() {
		return errors.New("invalid source register: %d", int(i.SrcB))
	}

	if !i.Dst.Valid() {
		return errors.New("invalid destination register: %d", int(i.Dst))
	}

	return nil
}

func (i Insn) Format() Format { return i.Op.Format() }

func (i Insn) Strategy() Strategy { return i.Op.Strategy() }

// Label is the only label i may synthesize.
func (i Insn) Label() asm.Label { return asm.Label(i.Addr) }

// Nop reports whether i is the canonical no-op sll zero, zero, 0.
func (i Insn) Nop() bool {
	return i.Op == SLL && i.SrcA == Zero && i.Dst == Zero && i.Imm == 0
}

// Discover returns registers read and written by i.
// It's pure and doesn't depend on emission.
func (i Insn) Discover() (u Usage) {
	if i.Nop() {
		return u
	}

	read := func(r Reg) {
		if r != Zero {
			u.Sources.Set(r)
		}
	}

	read(i.SrcA)

	if i.Format() == RRFormat {
		read(i.SrcB)
	}

	if i.Dst != Zero {
		u.Dests.Set(i.Dst)
	}

	return u
}

// MaxStackHeight is the operand stack depth the lowering of i needs at most.
func (i Insn) MaxStackHeight() int {
	switch {
	case i.Nop():
		return 0
	case i.Strategy() == Compare && i.Op.Unsigned():
		return unsignedStackHeight
	default:
		return defaultStackHeight
	}
}

// Emit writes lowered i to s.
// Operand stack depth is the same before and after a successful call.
func (i Insn) Emit(s asm.Sink, tc *Context) (err error) {
	err = i.checkShape()
	if err != nil {
		return err
	}

	e := &emitter{Sink: s}

	lowerers[i.Format()][i.Strategy()](i, e, tc)

	if e.err != nil {
		return &SinkError{Addr: i.Addr, Err: e.err}
	}

	return nil
}

func (i Insn) checkShape() error {
	if i.Nop() {
		return nil
	}

	shape := func(format string, args ...any) error {
		return &ShapeError{Addr: i.Addr, Op: i.Op, Reason: fmt.Sprintf(format, args...)}
	}

	if i.Dst == Zero {
		return shape("destination is %v", Zero)
	}

	if !i.Dst.General() || !i.SrcA.General() || i.Format() == RRFormat && !i.SrcB.General() {
		return shape("not a general register operand")
	}

	if i.Format() == RIFormat && i.Strategy() == Shift && (i.Imm < 0 || i.Imm > 31) {
		return shape("shift amount %d", i.Imm)
	}

	return nil
}

func (i Insn) String() string {
	switch {
	case i.Format() == RIFormat:
		return fmt.Sprintf("%#08x: %v %v, %v, %d", i.Addr, i.Op, i.Dst, i.SrcA, i.Imm)
	case i.Strategy() == Shift: // sllv rd, rt, rs
		return fmt.Sprintf("%#08x: %v %v, %v, %v", i.Addr, i.Op, i.Dst, i.SrcB, i.SrcA)
	}

	return fmt.Sprintf("%#08x: %v %v, %v, %v", i.Addr, i.Op, i.Dst, i.SrcA, i.SrcB)
}

func (i Insn) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, i.String())
}

func (u Usage) Equal(x Usage) bool {
	return u.Sources.Equal(x.Sources) && u.Dests.Equal(x.Dests)
}

func (u Usage) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Map, 2)

	b = e.AppendString(b, "src")
	b = u.Sources.TlogAppend(b)

	b = e.AppendString(b, "dst")
	b = u.Dests.TlogAppend(b)

	return b
}

func (tc *Context) method(name string, arity int) asm.Method {
	m := asm.Method{
		Class: DefaultRuntime,
		Name:  name,
		Arity: arity,
	}

	if tc == nil {
		return m
	}

	m.Namespace = tc.Namespace

	if tc.Runtime != "" {
		m.Class = tc.Runtime
	}

	return m
}
