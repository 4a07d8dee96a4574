package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/xlate/compiler/ast"
)

type (
	// Int is [+-] (0x hexdigits | digits).
	Int struct {
		Unsigned bool
	}
)

func (p Int) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if !p.Unsigned && i < len(b) && (b[i] == '-' || b[i] == '+') {
		i++
	}

	hex := false

	if i+1 < len(b) && b[i] == '0' && (b[i+1] == 'x' || b[i+1] == 'X') {
		i += 2
		hex = true
	}

	dst := i

	for i < len(b) && isDigit(b[i], hex) {
		i++
	}

	if i == dst {
		return nil, st, errors.New("Int expected")
	}

	if i < len(b) && isLetter(b[i]) {
		return nil, i, errors.New("bad digit: %q", b[i])
	}

	return ast.Int{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
	}, i, nil
}

func isDigit(c byte, hex bool) bool {
	return c >= '0' && c <= '9' || hex && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F')
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
