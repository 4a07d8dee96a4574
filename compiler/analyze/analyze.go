package analyze

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"nikand.dev/go/heap"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/xlate/compiler/ast"
	"github.com/slowlang/xlate/compiler/mips"
	"github.com/slowlang/xlate/compiler/parse"
)

type (
	UnsupportedASTNodeError struct{ T ast.Node }

	lines struct {
		heap.Heap[line]
	}

	line struct {
		idx  int
		insn mips.Insn
	}
)

var (
	ErrOperandCount    = errors.New("wrong number of operands")
	ErrAddressOverflow = errors.New("address space overflow")
)

// Analyze decodes listing lines into instructions ordered by address.
// A line without an address follows the previous one.
// Duplicate addresses are kept, they are the driver's to reject.
func Analyze(ctx context.Context, st *parse.State, x *ast.Listing) (code []mips.Insn, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "analyze", "lines", len(x.Lines))
	defer tr.Finish("err", &err)

	q := lines{Heap: heap.Heap[line]{Less: linesLess}}

	var next uint64

	for j, l := range x.Lines {
		i, err := analyzeLine(st, l, next)
		if err != nil {
			return nil, errors.Wrap(err, "%v", st.Pos(l.Pos))
		}

		next = uint64(i.Addr) + 4

		q.Push(line{idx: j, insn: i})
	}

	code = make([]mips.Insn, 0, q.Len())

	for q.Len() != 0 {
		code = append(code, q.Pop().insn)
	}

	if tr.If("dump_insns") {
		for _, i := range code {
			tr.Printw("insn", "insn", i)
		}
	}

	return code, nil
}

func analyzeLine(st *parse.State, l *ast.Line, next uint64) (i mips.Insn, err error) {
	var addr uint32

	switch {
	case l.Addr != nil:
		addr, err = Addr(st, l.Addr)
		if err != nil {
			return i, errors.Wrap(err, "address")
		}
	case next > math.MaxUint32:
		return i, errors.Wrap(ErrAddressOverflow, "after %#x", next-4)
	default:
		addr = uint32(next)
	}

	name := strings.ToLower(string(st.Text(l.Op.Pos, l.Op.End)))

	op, ok := mips.OpcodeByName(name)
	if !ok {
		return i, errors.New("unsupported instruction: %s", name)
	}

	if len(l.Args) != 3 {
		return i, errors.Wrap(ErrOperandCount, "%v: want 3, got %d", op, len(l.Args))
	}

	d, err := Reg(st, l.Args[0])
	if err != nil {
		return i, errors.Wrap(err, "operand 1")
	}

	s, err := Reg(st, l.Args[1])
	if err != nil {
		return i, errors.Wrap(err, "operand 2")
	}

	if op.Format() == mips.RIFormat {
		imm, err := Imm(st, l.Args[2])
		if err != nil {
			return i, errors.Wrap(err, "operand 3")
		}

		return mips.RI(addr, op, s, d, imm)
	}

	t, err := Reg(st, l.Args[2])
	if err != nil {
		return i, errors.Wrap(err, "operand 3")
	}

	if op.Strategy() == mips.Shift {
		// op rd, rt, rs: shift rt by rs
		return mips.RR(addr, op, t, s, d)
	}

	return mips.RR(addr, op, s, t, d)
}

func Addr(st *parse.State, x ast.Node) (uint32, error) {
	n, ok := x.(ast.Int)
	if !ok {
		return 0, NewUnsupportedASTNode(x)
	}

	neg, v, err := parseInt(st.Text(n.Pos, n.End), 32)
	if err != nil {
		return 0, err
	}

	if neg {
		return 0, errors.New("negative address")
	}

	return uint32(v), nil
}

func Reg(st *parse.State, x ast.Node) (mips.Reg, error) {
	n, ok := x.(ast.Reg)
	if !ok {
		return 0, errors.New("register expected, got %v", reflect.TypeOf(x))
	}

	name := string(st.Text(n.Pos, n.End))

	r, ok := mips.RegByName(name)
	if !ok {
		return 0, errors.New("unknown register: %s", name)
	}

	return r, nil
}

// Imm accepts both signed and unsigned 32 bit values.
// Values above MaxInt32 are taken as two's complement.
func Imm(st *parse.State, x ast.Node) (int32, error) {
	n, ok := x.(ast.Int)
	if !ok {
		return 0, errors.New("immediate expected, got %v", reflect.TypeOf(x))
	}

	neg, v, err := parseInt(st.Text(n.Pos, n.End), 32)
	if err != nil {
		return 0, err
	}

	if !neg {
		return int32(uint32(v)), nil
	}

	if v > 1<<31 {
		return 0, errors.New("immediate out of range: -%d", v)
	}

	return int32(-int64(v)), nil
}

func parseInt(b []byte, bits int) (neg bool, v uint64, err error) {
	s := string(b)

	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	base := 10

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}

	v, err = strconv.ParseUint(s, base, bits)
	if err != nil {
		return false, 0, errors.Wrap(err, "parse int")
	}

	return neg, v, nil
}

func linesLess(d []line, i, j int) bool {
	if d[i].insn.Addr != d[j].insn.Addr {
		return d[i].insn.Addr < d[j].insn.Addr
	}

	return d[i].idx < d[j].idx
}

func NewUnsupportedASTNode(x ast.Node) UnsupportedASTNodeError {
	return UnsupportedASTNodeError{
		T: x,
	}
}

func (e UnsupportedASTNodeError) Error() string {
	return fmt.Sprintf("unsupported node: %v", reflect.TypeOf(e.T))
}
