package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/xlate/compiler/ast"
)

type (
	// Listing is {Line} separated by blank lines and comments.
	Listing struct{}

	// Line is [Int ':'] Ident [Operand {',' Operand}] EOL.
	Line struct{}

	Operand struct{}
)

func (p Listing) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	res := &ast.Listing{
		Base: ast.Base{Pos: st},
	}

	i = Blank.Skip(b, st)

	for i < len(b) {
		x, i, err = Line{}.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "line %d", len(res.Lines)+1)
		}

		res.Lines = append(res.Lines, x.(*ast.Line))

		i = Blank.Skip(b, i)
	}

	res.End = i

	return res, i, nil
}

func (p Line) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	res := &ast.Line{
		Base: ast.Base{Pos: st},
	}

	addr := AllOf{
		Int{Unsigned: true},
		Spaced(Const(":"), Inline),
	}

	x, i, err = Optional{addr}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "address")
	}

	if xt, ok := x.([]ast.Node); ok {
		res.Addr = xt[0]
	}

	x, i, err = Spaced(Ident{}, Inline).Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "mnemonic")
	}

	res.Op = x.(ast.Ident)

	args := Separated{
		Of:  Spaced(Operand{}, Inline),
		Sep: Spaced(Const(","), Inline),
	}

	x, i, err = Optional{args}.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "operands")
	}

	if xt, ok := x.([]ast.Node); ok {
		res.Args = xt
	}

	res.End = i

	_, i, err = Spaced(EOL{}, Inline).Parse(ctx, b, i)
	if err != nil {
		return nil, i, err
	}

	return res, i, nil
}

func (p Operand) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return AnyOf{Int{}, Reg{}}.Parse(ctx, b, st)
}
