package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/slowlang/xlate/compiler/mips"
	"github.com/slowlang/xlate/compiler/vm"
)

const listing = `# v0 = (a0 < a1) + (a2 != 0)
0x400000: slt t0, a0, a1
          slt t1, zero, a2
          addu v0, t0, t1
          sltu v1, a0, a1
          slt zero, a0, a1     # no destination
          slti t2, a0, 10
`

func TestTranslate(t *testing.T) {
	ctx := context.Background()

	r, err := Translate(ctx, "dir/prog.s", []byte(listing), Config{Namespace: "app"})
	require.NoError(t, err)

	assert.Equal(t, "prog", r.Name)
	assert.Len(t, r.Insns, 6)
	assert.Equal(t, 5, r.Unit.Emitted())

	if assert.Len(t, r.Unit.Errors(), 1) {
		err := r.Unit.Errors()[0]

		assert.True(t, errors.Is(err, mips.ErrUnsupportedOperandShape))

		var se *mips.ShapeError
		if assert.True(t, errors.As(err, &se)) {
			assert.Equal(t, uint32(0x400010), se.Addr)
		}
	}

	text := string(r.Text)

	assert.True(t, strings.HasPrefix(text, ".method prog\n\t.limit stack 6\n"), "%s", text)
	assert.True(t, strings.HasSuffix(text, ".end method\n"), "%s", text)
	assert.Contains(t, text, "\tcall\tint32 app.CRunTime::addu(int32,int32)\n")
	assert.Contains(t, text, "L_tmp_400004:\n")

	m := vm.New()
	m.Regs[mips.A0] = 0xffffffff
	m.Regs[mips.A1] = 1
	m.Regs[mips.A2] = 5

	err = m.Run(ctx, r.Code)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), m.Regs[mips.T0])
	assert.Equal(t, uint32(1), m.Regs[mips.T1])
	assert.Equal(t, uint32(2), m.Regs[mips.V0])
	assert.Equal(t, uint32(0), m.Regs[mips.V1])
	assert.Equal(t, uint32(1), m.Regs[mips.T2])
	assert.Equal(t, uint32(0), m.Regs[mips.Zero])
}

func TestTranslateDuplicate(t *testing.T) {
	r, err := Translate(context.Background(), "dup.s", []byte("0x10: slt v0, a0, a1\n0x10: slt v1, a0, a1\n"), Config{})
	require.Error(t, err)
	require.NotNil(t, r)

	assert.Nil(t, r.Text)
}

func TestTranslateParseError(t *testing.T) {
	_, err := Translate(context.Background(), "bad.s", []byte("slt v0, a0, a1 )\n"), Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad.s:1:")
}

func TestTranslateFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "unit.s")

	err := os.WriteFile(name, []byte("slt v0, a0, a1\n"), 0o644)
	require.NoError(t, err)

	r, err := TranslateFile(context.Background(), name, Config{Runtime: "Rt"})
	require.NoError(t, err)

	c, err := CheckFile(context.Background(), name, Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Unit.Emitted())

	assert.Equal(t, "unit", r.Name)
	assert.Equal(t, ".method unit\n\t.limit stack 2\n\tload\ta0\n\tload\ta1\n\tcmp\n\tldc\t31\n\tushr\n\tstore\tv0\n.end method\n", string(r.Text))

	_, err = TranslateFile(context.Background(), filepath.Join(t.TempDir(), "missing.s"), Config{})
	assert.Error(t, err)
}

func TestMethodName(t *testing.T) {
	assert.Equal(t, "a", MethodName("x/y/a.s"))
	assert.Equal(t, "b", MethodName("b"))
	assert.Equal(t, "main", MethodName(""))
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	r, err := Check(ctx, "prog.s", []byte(listing), Config{})
	require.NoError(t, err)

	assert.Nil(t, r.Code)
	assert.Nil(t, r.Text)
	assert.Equal(t, 5, r.Unit.Emitted())
	assert.Len(t, r.Unit.Errors(), 1)
	assert.Equal(t, 6, r.Unit.Table().Len())

	tr, err := Translate(ctx, "prog.s", []byte(listing), Config{})
	require.NoError(t, err)

	assert.Equal(t, tr.Unit.Table().Addrs(), r.Unit.Table().Addrs())
}
