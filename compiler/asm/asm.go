package asm

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Reg is a target local slot holding a source register.
	Reg int

	// Label is a branch target. It's derived from the address
	// of the instruction that synthesized it.
	Label uint32

	NativeOp int

	Instr any

	PushReg struct {
		Reg Reg
	}

	PushConst struct {
		Value int32
	}

	// PushConstU pushes the value without sign interpretation.
	PushConstU struct {
		Value uint32
	}

	// Cmp pops b, a and pushes -1, 0 or 1 comparing a to b as signed values.
	Cmp struct{}

	// CmpU is Cmp for unsigned values.
	CmpU struct{}

	// BrTrue pops a value and jumps to Label if it's not zero.
	BrTrue struct {
		Label Label
	}

	Bind struct {
		Label Label
	}

	Pop struct{}

	// Store pops a value into Reg.
	Store struct {
		Reg Reg
	}

	// Native is a binary operation the target implements directly.
	Native struct {
		Op NativeOp
	}

	// Call invokes a static runtime support method.
	Call struct {
		Target Method
	}

	// Method is a symbolic runtime support method.
	// It's resolved to text only by sinks.
	Method struct {
		Namespace string
		Class     string
		Name      string
		Arity     int
	}
)

const (
	And NativeOp = iota
	Or
	Xor
	Shl
	Shr
	Ushr
)

var nativeNames = []string{
	And:  "and",
	Or:   "or",
	Xor:  "xor",
	Shl:  "shl",
	Shr:  "shr",
	Ushr: "ushr",
}

// Effect returns the number of operand stack values x consumes and produces.
func Effect(x Instr) (pop, push int) {
	switch x := x.(type) {
	case PushReg, PushConst, PushConstU:
		return 0, 1
	case Cmp, CmpU, Native:
		return 2, 1
	case BrTrue, Pop, Store:
		return 1, 0
	case Bind:
		return 0, 0
	case Call:
		return x.Target.Arity, 1
	default:
		panic(fmt.Sprintf("unsupported instruction: %T", x))
	}
}

func (l Label) String() string {
	return fmt.Sprintf("L_tmp_%x", uint32(l))
}

func (op NativeOp) String() string {
	if op < 0 || int(op) >= len(nativeNames) {
		return fmt.Sprintf("native(%d)", int(op))
	}

	return nativeNames[op]
}

// String is a method reference in the form of
// int32 ns.Class::name(int32,int32).
func (m Method) String() string {
	b := []byte("int32 ")

	if m.Namespace != "" {
		b = append(b, m.Namespace...)
		b = append(b, '.')
	}

	b = append(b, m.Class...)
	b = append(b, "::"...)
	b = append(b, m.Name...)
	b = append(b, '(')

	for i := 0; i < m.Arity; i++ {
		if i != 0 {
			b = append(b, ',')
		}

		b = append(b, "int32"...)
	}

	b = append(b, ')')

	return string(b)
}

func (m Method) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, m.String())
}
