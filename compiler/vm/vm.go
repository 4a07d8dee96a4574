package vm

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/xlate/compiler/asm"
)

type (
	// Func is a runtime support method implementation.
	Func func(args []uint32) uint32

	// Machine executes target code the way the target VM does.
	// Stack values are 32-bit words, signedness is up to operations.
	Machine struct {
		Regs [64]uint32

		// Runtime is keyed by method name.
		Runtime map[string]Func

		stack []uint32
	}
)

var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackLeak      = errors.New("values left on stack")
	ErrUnknownLabel   = errors.New("unknown label")
	ErrUnknownMethod  = errors.New("unknown runtime method")
)

func New() *Machine {
	return &Machine{
		Runtime: DefaultRuntime(),
	}
}

func (m *Machine) Run(ctx context.Context, code []asm.Instr) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "vm: run", "code", len(code))
	defer tr.Finish("err", &err)

	labels := make(map[asm.Label]int)

	for pc, x := range code {
		if b, ok := x.(asm.Bind); ok {
			labels[b.Label] = pc
		}
	}

	m.stack = m.stack[:0]

	for pc := 0; pc < len(code); pc++ {
		x := code[pc]

		if tr.If("vm_step") {
			tr.Printw("step", "pc", pc, "typ", tlog.NextAsType, x, "stack", m.stack)
		}

		switch x := x.(type) {
		case asm.PushReg:
			m.push(m.Regs[x.Reg])
		case asm.PushConst:
			m.push(uint32(x.Value))
		case asm.PushConstU:
			m.push(x.Value)
		case asm.Pop:
			_, err = m.pop()
		case asm.Store:
			var v uint32

			if v, err = m.pop(); err == nil {
				m.Regs[x.Reg] = v
			}
		case asm.Bind:
		case asm.BrTrue:
			var v uint32

			v, err = m.pop()
			if err != nil || v == 0 {
				break
			}

			to, ok := labels[x.Label]
			if !ok {
				return errors.Wrap(ErrUnknownLabel, "pc %d: %v", pc, x.Label)
			}

			pc = to
		case asm.Cmp:
			err = m.binary(func(a, b uint32) uint32 {
				return sign(int64(int32(a)) - int64(int32(b)))
			})
		case asm.CmpU:
			err = m.binary(func(a, b uint32) uint32 {
				return sign(int64(a) - int64(b))
			})
		case asm.Native:
			f, ok := natives[x.Op]
			if !ok {
				return errors.New("pc %d: unsupported native op: %v", pc, x.Op)
			}

			err = m.binary(f)
		case asm.Call:
			err = m.call(x.Target)
		default:
			return errors.New("pc %d: unsupported instruction: %T", pc, x)
		}

		if err != nil {
			return errors.Wrap(err, "pc %d: %T", pc, x)
		}
	}

	if len(m.stack) != 0 {
		return errors.Wrap(ErrStackLeak, "%d", len(m.stack))
	}

	return nil
}

func (m *Machine) call(t asm.Method) error {
	f, ok := m.Runtime[t.Name]
	if !ok {
		return errors.Wrap(ErrUnknownMethod, "%v", t)
	}

	if len(m.stack) < t.Arity {
		return ErrStackUnderflow
	}

	st := len(m.stack) - t.Arity
	r := f(m.stack[st:])

	m.stack = append(m.stack[:st], r)

	return nil
}

func (m *Machine) binary(f func(a, b uint32) uint32) error {
	b, err := m.pop()
	if err != nil {
		return err
	}

	a, err := m.pop()
	if err != nil {
		return err
	}

	m.push(f(a, b))

	return nil
}

func (m *Machine) push(v uint32) {
	m.stack = append(m.stack, v)
}

func (m *Machine) pop() (uint32, error) {
	l := len(m.stack)
	if l == 0 {
		return 0, ErrStackUnderflow
	}

	v := m.stack[l-1]
	m.stack = m.stack[:l-1]

	return v, nil
}

func sign(d int64) uint32 {
	switch {
	case d < 0:
		return 0xffffffff
	case d > 0:
		return 1
	default:
		return 0
	}
}
