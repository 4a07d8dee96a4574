package mips

import (
	"github.com/slowlang/xlate/compiler/asm"
)

type (
	lowerFunc func(i Insn, e *emitter, tc *Context)

	// emitter remembers the first sink error and drops everything after it.
	emitter struct {
		asm.Sink

		err error
	}
)

// lowerers is indexed by instruction format and strategy.
var lowerers = [numFormats][numStrategies]lowerFunc{
	RRFormat: {
		Arithmetic: lowerCallRR,
		Compare:    lowerCompareRR,
		Logical:    lowerLogicalRR,
		Shift:      lowerShiftRR,
	},
	RIFormat: {
		Arithmetic: lowerCallRI,
		Compare:    lowerCompareRI,
		Logical:    lowerLogicalRI,
		Shift:      lowerShiftRI,
	},
}

func lowerCompareRR(i Insn, e *emitter, tc *Context) {
	if i.SrcA == Zero {
		// 0 < b is lowered as b != 0
		l := i.Label()

		e.pushConst(1)
		e.pushReg(i.SrcB)
		e.emit(asm.BrTrue{Label: l})
		e.emit(asm.Pop{})
		e.pushConst(0)
		e.emit(asm.Bind{Label: l})
		e.store(i.Dst)

		return
	}

	e.pushReg(i.SrcA)
	e.pushReg(i.SrcB)
	e.compare(i.Op.Unsigned())
	e.store(i.Dst)
}

func lowerCompareRI(i Insn, e *emitter, tc *Context) {
	e.pushReg(i.SrcA)

	if i.Op.Unsigned() {
		e.emit(asm.PushConstU{Value: uint32(i.Imm)})
	} else {
		e.pushConst(i.Imm)
	}

	e.compare(i.Op.Unsigned())
	e.store(i.Dst)
}

// lowerCallRR routes through the runtime even if an operand is Zero.
func lowerCallRR(i Insn, e *emitter, tc *Context) {
	e.pushReg(i.SrcA)
	e.pushReg(i.SrcB)
	e.emit(asm.Call{Target: tc.method(i.Op.info().runtime, 2)})
	e.store(i.Dst)
}

func lowerCallRI(i Insn, e *emitter, tc *Context) {
	e.pushReg(i.SrcA)
	e.pushConst(i.Imm)
	e.emit(asm.Call{Target: tc.method(i.Op.info().runtime, 2)})
	e.store(i.Dst)
}

func lowerLogicalRR(i Insn, e *emitter, tc *Context) {
	e.pushReg(i.SrcA)
	e.pushReg(i.SrcB)
	e.native(i.Op.info().native)

	if i.Op == NOR {
		e.pushConst(-1)
		e.native(asm.Xor)
	}

	e.store(i.Dst)
}

func lowerLogicalRI(i Insn, e *emitter, tc *Context) {
	e.pushReg(i.SrcA)
	e.pushConst(i.Imm)
	e.native(i.Op.info().native)
	e.store(i.Dst)
}

func lowerShiftRR(i Insn, e *emitter, tc *Context) {
	e.pushReg(i.SrcB)
	e.pushReg(i.SrcA)
	e.native(i.Op.info().native)
	e.store(i.Dst)
}

func lowerShiftRI(i Insn, e *emitter, tc *Context) {
	if i.Nop() {
		return
	}

	e.pushReg(i.SrcA)
	e.pushConst(i.Imm)
	e.native(i.Op.info().native)
	e.store(i.Dst)
}

// compare leaves 1 on the stack if a < b and 0 otherwise.
// Native comparison gives -1, 0 or 1, and only -1 has the sign bit set.
func (e *emitter) compare(unsigned bool) {
	if unsigned {
		e.emit(asm.CmpU{})
	} else {
		e.emit(asm.Cmp{})
	}

	e.pushConst(31)
	e.native(asm.Ushr)
}

// pushReg never reads Zero as a register.
func (e *emitter) pushReg(r Reg) {
	if r == Zero {
		e.pushConst(0)
		return
	}

	e.emit(asm.PushReg{Reg: asm.Reg(r)})
}

func (e *emitter) pushConst(v int32) {
	e.emit(asm.PushConst{Value: v})
}

func (e *emitter) native(op asm.NativeOp) {
	e.emit(asm.Native{Op: op})
}

func (e *emitter) store(r Reg) {
	e.emit(asm.Store{Reg: asm.Reg(r)})
}

func (e *emitter) emit(x asm.Instr) {
	if e.err != nil {
		return
	}

	e.err = e.Sink.Emit(x)
}
