package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/xlate/compiler/ast"
)

type (
	Const []byte

	Ident struct{}

	// Reg is $name, $number or a bare name.
	Reg struct{}

	// EOL is the end of line or the end of text.
	EOL struct{}
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = identEnd(b, st, false)
	if i == st {
		return nil, st, errors.New("Ident expected")
	}

	return ast.Ident{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func (p Reg) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st
	digits := false

	if i < len(b) && b[i] == '$' {
		i++
		digits = true
	}

	end := identEnd(b, i, digits)
	if end == i {
		return nil, st, errors.New("Reg expected")
	}

	return ast.Reg{Base: ast.Base{Pos: st, End: end}}, end, nil
}

func (EOL) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) {
		return None{}, st, nil
	}

	if b[st] == '\n' {
		return None{}, st + 1, nil
	}

	return nil, st, errors.New("end of line expected")
}

func identEnd(b []byte, st int, digitFirst bool) (i int) {
	i = st

	if i == len(b) {
		return i
	}

	c := b[i]

	switch {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
	case digitFirst && c >= '0' && c <= '9':
	default:
		return st
	}

	i++

	for i < len(b) {
		c := b[i]

		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_':
			i++
		default:
			return i
		}
	}

	return i
}
