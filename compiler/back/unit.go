package back

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/xlate/compiler/asm"
	"github.com/slowlang/xlate/compiler/mips"
	"github.com/slowlang/xlate/compiler/set"
)

type (
	State int

	// Unit translates one instruction stream in two passes.
	// Discover must complete before Emit, and neither may run twice.
	// A pass aborted by an error leaves the unit Failed.
	Unit struct {
		tc   *mips.Context
		code []mips.Insn

		state State

		table Table

		discovered set.Bitmap
		emitted    set.Bitmap

		labels map[asm.Label]uint32

		buf asm.Buffer

		errs []error
	}

	// Table is register usage by instruction address.
	// It's the hand-off to the register allocator.
	Table struct {
		addrs []uint32
		usage map[uint32]mips.Usage
	}

	InvariantError struct {
		Addr   uint32
		Reason string
		From   loc.PC
	}
)

const (
	Discovering State = iota
	Emitting
	Done
	Failed
)

var ErrInvariantViolation = errors.New("invariant violation")

func New(tc *mips.Context, code []mips.Insn) *Unit {
	return &Unit{
		tc:   tc,
		code: code,

		table: Table{
			usage: make(map[uint32]mips.Usage, len(code)),
		},

		discovered: set.MakeBitmap(len(code)),
		emitted:    set.MakeBitmap(len(code)),

		labels: make(map[asm.Label]uint32),
	}
}

// Translate runs both passes over code writing to tc.Sink.
func Translate(ctx context.Context, tc *mips.Context, code []mips.Insn) (u *Unit, err error) {
	u = New(tc, code)

	err = u.Discover(ctx)
	if err != nil {
		return u, errors.Wrap(err, "discover")
	}

	err = u.Emit(ctx)
	if err != nil {
		return u, errors.Wrap(err, "emit")
	}

	return u, nil
}

// Discover is pass 1. It collects register usage of every instruction.
func (u *Unit) Discover(ctx context.Context) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "back: discover", "insns", len(u.code))
	defer tr.Finish("err", &err)

	if u.state != Discovering {
		return u.violation(0, "discover in state %v", u.state)
	}

	defer u.failOn(&err)

	for idx, i := range u.code {
		if _, ok := u.table.usage[i.Addr]; ok {
			return u.violation(i.Addr, "duplicate instruction address")
		}

		if err := i.Validate(); err != nil {
			return u.violation(i.Addr, "malformed instruction: %v", err)
		}

		use := i.Discover()

		u.table.addrs = append(u.table.addrs, i.Addr)
		u.table.usage[i.Addr] = use
		u.discovered.Set(idx)

		tr.V("discover").Printw("usage", "insn", i, "usage", use)
	}

	u.state = Emitting

	return nil
}

// Emit is pass 2. Instructions are lowered strictly in order.
// A lowering error is recorded and skips the instruction,
// any other error aborts the pass.
func (u *Unit) Emit(ctx context.Context) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "back: emit", "insns", len(u.code))
	defer tr.Finish("err", &err)

	if u.state != Emitting {
		return u.violation(0, "emit in state %v", u.state)
	}

	if u.tc == nil || u.tc.Sink == nil {
		return errors.New("no sink")
	}

	defer u.failOn(&err)

	if idx := u.discovered.FirstClear(len(u.code)); idx >= 0 {
		return u.violation(u.code[idx].Addr, "emit before discover")
	}

	for idx, i := range u.code {
		err = u.emit(ctx, idx, i)
		if errors.Is(err, mips.ErrUnsupportedOperandShape) {
			tr.Printw("lowering failed", "insn", i, "err", err)

			u.errs = append(u.errs, err)

			continue
		}
		if err != nil {
			return errors.Wrap(err, "insn %#x", i.Addr)
		}
	}

	u.state = Done

	if tr.If("dump_usage") {
		for _, a := range u.table.addrs {
			tr.Printw("usage", "addr", a, "usage", u.table.usage[a])
		}
	}

	return nil
}

func (u *Unit) emit(ctx context.Context, idx int, i mips.Insn) (err error) {
	u.buf.Reset()

	err = i.Emit(&u.buf, u.tc)
	if err != nil {
		return err
	}

	if d := u.buf.Depth(); d != 0 {
		return u.violation(i.Addr, "operand stack depth changed by %d", d)
	}

	if p, lim := u.buf.Peak(), i.MaxStackHeight(); p > lim {
		return u.violation(i.Addr, "operand stack height %d exceeds %d", p, lim)
	}

	labels := u.buf.Labels()

	for _, l := range labels {
		if prev, ok := u.labels[l]; ok {
			return u.violation(i.Addr, "label %v already bound by %#x", l, prev)
		}
	}

	tlog.SpanFromContext(ctx).V("lower").Printw("lowered", "insn", i, "ops", len(u.buf.Code), "peak", u.buf.Peak())

	err = u.buf.Replay(u.tc.Sink)
	if err != nil {
		return &mips.SinkError{Addr: i.Addr, Err: err}
	}

	for _, l := range labels {
		u.labels[l] = i.Addr
	}

	u.emitted.Set(idx)

	return nil
}

func (u *Unit) State() State { return u.state }

func (u *Unit) Table() *Table { return &u.table }

// Errors returns lowering errors of skipped instructions.
func (u *Unit) Errors() []error { return u.errs }

// Emitted reports how many instructions were written to the sink.
func (u *Unit) Emitted() int { return u.emitted.Size() }

// MaxStack is the operand stack size the whole unit needs.
func (u *Unit) MaxStack() int { return MaxStack(u.code) }

// MaxStack is the largest declared stack height of code.
func MaxStack(code []mips.Insn) (r int) {
	for _, i := range code {
		if h := i.MaxStackHeight(); h > r {
			r = h
		}
	}

	return r
}

func (u *Unit) failOn(errp *error) {
	if *errp != nil {
		u.state = Failed
	}
}

func (u *Unit) violation(addr uint32, format string, args ...any) error {
	return &InvariantError{
		Addr:   addr,
		Reason: fmt.Sprintf(format, args...),
		From:   loc.Caller(1),
	}
}

// Summary is the union of all instructions' usage.
func (t *Table) Summary() (s mips.Usage) {
	for _, a := range t.addrs {
		u := t.usage[a]

		s.Sources.Merge(u.Sources)
		s.Dests.Merge(u.Dests)
	}

	return s
}

// Addrs returns instruction addresses in program order.
func (t *Table) Addrs() []uint32 { return t.addrs }

func (t *Table) Usage(addr uint32) (mips.Usage, bool) {
	u, ok := t.usage[addr]
	return u, ok
}

func (t *Table) Len() int { return len(t.addrs) }

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%#x: %v: %s (at %v)", e.Addr, ErrInvariantViolation, e.Reason, e.From)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}

func (s State) String() string {
	switch s {
	case Discovering:
		return "discovering"
	case Emitting:
		return "emitting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
