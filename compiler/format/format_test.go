package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/xlate/compiler/asm"
	"github.com/slowlang/xlate/compiler/back"
	"github.com/slowlang/xlate/compiler/mips"
)

func TestFormat(t *testing.T) {
	i, err := mips.RR(0x400010, mips.SLT, mips.Zero, mips.A1, mips.V0)
	require.NoError(t, err)

	var text Text

	err = i.Emit(&text, nil)
	require.NoError(t, err)

	assert.Equal(t, `	ldc	1
	load	a1
	brtrue	L_tmp_400010
	pop
	ldc	0
L_tmp_400010:
	store	v0
`, string(text.B))
}

func TestFormatCode(t *testing.T) {
	code := []asm.Instr{
		asm.PushReg{Reg: asm.Reg(mips.A0)},
		asm.PushConstU{Value: 0xffffffff},
		asm.CmpU{},
		asm.PushConst{Value: 31},
		asm.Native{Op: asm.Ushr},
		asm.Store{Reg: asm.Reg(mips.V0)},
		asm.PushReg{Reg: asm.Reg(mips.SP)},
		asm.PushConst{Value: -16},
		asm.Call{Target: asm.Method{Namespace: "app", Class: "CRunTime", Name: "addiu", Arity: 2}},
		asm.Store{Reg: asm.Reg(mips.SP)},
	}

	text := Text{B: Header(nil, "run", 6)}

	for _, x := range code {
		require.NoError(t, text.Emit(x))
	}

	b := Footer(text.B)

	assert.Equal(t, `.method run
	.limit stack 6
	load	a0
	ldc	0xffffffff
	cmp.un
	ldc	31
	ushr
	store	v0
	load	sp
	ldc	-16
	call	int32 app.CRunTime::addiu(int32,int32)
	store	sp
.end method
`, string(b))
}

func TestFormatUnsupported(t *testing.T) {
	text := Text{B: []byte("x\n")}

	err := text.Emit(struct{}{})
	assert.Error(t, err)
	assert.Equal(t, "x\n", string(text.B))
}

func TestUsage(t *testing.T) {
	code := []mips.Insn{
		{Addr: 0x400010, Op: mips.SLT, SrcA: mips.Zero, SrcB: mips.A1, Dst: mips.V0},
		{Addr: 0x400014, Op: mips.ADDIU, SrcA: mips.SP, Dst: mips.SP, Imm: -16},
		{Addr: 0x400018, Op: mips.SLL},
	}

	u := back.New(nil, code)

	err := u.Discover(context.Background())
	require.NoError(t, err)

	b := Usage(nil, u.Table())

	assert.Equal(t, `0x00400010:	reads a1	writes v0
0x00400014:	reads sp	writes sp
0x00400018:	reads -	writes -
unit:	reads a1 sp	writes v0 sp
`, string(b))
}
