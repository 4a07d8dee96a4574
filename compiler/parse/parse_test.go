package parse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/xlate/compiler/ast"
)

func TestListing(t *testing.T) {
	ctx := context.Background()

	s, x, err := Parse(ctx, "a.s", []byte(`# leading comment

0x400010: slt v0, zero, $a1   # compare
	addiu $sp, $29, -16
sll zero, zero, 0 ; nop

400020:sltiu v1,a0,0x7fff`))
	require.NoError(t, err)
	require.Len(t, x.Lines, 4)

	text := func(n ast.Node) string {
		switch n := n.(type) {
		case ast.Int:
			return string(s.Text(n.Pos, n.End))
		case ast.Reg:
			return string(s.Text(n.Pos, n.End))
		case ast.Ident:
			return string(s.Text(n.Pos, n.End))
		case nil:
			return "<nil>"
		}

		return "?"
	}

	type line struct {
		addr string
		op   string
		args []string
	}

	exp := []line{
		{"0x400010", "slt", []string{"v0", "zero", "$a1"}},
		{"<nil>", "addiu", []string{"$sp", "$29", "-16"}},
		{"<nil>", "sll", []string{"zero", "zero", "0"}},
		{"400020", "sltiu", []string{"v1", "a0", "0x7fff"}},
	}

	for i, l := range x.Lines {
		var args []string
		for _, a := range l.Args {
			args = append(args, text(a))
		}

		assert.Equal(t, exp[i], line{addr: text(l.Addr), op: text(l.Op), args: args}, "line %d", i)
	}
}

func TestOperandKinds(t *testing.T) {
	_, x, err := Parse(context.Background(), "", []byte("slt $5, t0, -0x10\n"))
	require.NoError(t, err)
	require.Len(t, x.Lines, 1)

	args := x.Lines[0].Args
	require.Len(t, args, 3)

	assert.IsType(t, ast.Reg{}, args[0])
	assert.IsType(t, ast.Reg{}, args[1])
	assert.IsType(t, ast.Int{}, args[2])
}

func TestNoOperands(t *testing.T) {
	_, x, err := Parse(context.Background(), "", []byte("nop # nothing\nsyscall"))
	require.NoError(t, err)
	require.Len(t, x.Lines, 2)

	assert.Empty(t, x.Lines[0].Args)
	assert.Empty(t, x.Lines[1].Args)
}

func TestEmpty(t *testing.T) {
	_, x, err := Parse(context.Background(), "", []byte("\n  # only comments\n;\n"))
	require.NoError(t, err)
	assert.Empty(t, x.Lines)
}

func TestErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
		pos  string
	}{
		{"missing colon", "0x10 slt v0, a0, a1\n", "f.s:1:5"},
		{"trailing comma", "slt v0, a0,\n", ""},
		{"bad digit", "slti v0, a0, 12z\n", ""},
		{"garbage", "slt v0, a0, a1 )\n", "f.s:1:15"},
		{"no mnemonic", "0x10:\n", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(context.Background(), "f.s", []byte(tc.text))
			require.Error(t, err)

			if tc.pos != "" {
				assert.Contains(t, err.Error(), tc.pos)
			}
		})
	}
}

func TestPartialRead(t *testing.T) {
	s := New()
	s.Grammar = Line{}

	s.AddFile("f.s", []byte("slt v0, a0, a1\nslt v1, a0, a1\n"))

	_, err := s.Parse(context.Background())
	require.Error(t, err)

	var pe PartialReadError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, 15, pe.End)
	assert.Equal(t, "f.s:2:1", s.Pos(pe.End))
}

func TestComments(t *testing.T) {
	b := []byte("  # a\n\t; b\n x")

	assert.Equal(t, len(b)-1, Blank.Skip(b, 0))
	assert.Equal(t, 5, Inline.Skip(b, 0))
}
