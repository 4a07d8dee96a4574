package format

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/xlate/compiler/asm"
	"github.com/slowlang/xlate/compiler/mips"
)

type (
	// Text is a Sink serializing operations to target assembly text.
	Text struct {
		B []byte
	}
)

// Header opens a method with the operand stack limit.
func Header(b []byte, name string, stack int) []byte {
	b = app(b, 0, ".method %s\n", name)
	b = app(b, 1, ".limit stack %d\n", stack)

	return b
}

func Footer(b []byte) []byte {
	return app(b, 0, ".end method\n")
}

func (t *Text) Emit(x asm.Instr) (err error) {
	b, err := formatInstr(t.B, x, 1)
	if err != nil {
		return err
	}

	t.B = b

	return nil
}

func formatInstr(b []byte, x asm.Instr, d int) ([]byte, error) {
	switch x := x.(type) {
	case asm.PushReg:
		b = app(b, d, "load\t%v\n", mips.Reg(x.Reg))
	case asm.PushConst:
		b = app(b, d, "ldc\t%d\n", x.Value)
	case asm.PushConstU:
		b = app(b, d, "ldc\t%#x\n", x.Value)
	case asm.Cmp:
		b = app(b, d, "cmp\n")
	case asm.CmpU:
		b = app(b, d, "cmp.un\n")
	case asm.BrTrue:
		b = app(b, d, "brtrue\t%v\n", x.Label)
	case asm.Bind:
		b = app(b, 0, "%v:\n", x.Label)
	case asm.Pop:
		b = app(b, d, "pop\n")
	case asm.Store:
		b = app(b, d, "store\t%v\n", mips.Reg(x.Reg))
	case asm.Native:
		b = app(b, d, "%v\n", x.Op)
	case asm.Call:
		b = app(b, d, "call\t%v\n", x.Target)
	default:
		return nil, errors.New("unsupported instruction: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.AppendPrintf(b, f, args...)
	return b
}
