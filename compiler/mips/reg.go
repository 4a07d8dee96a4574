package mips

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type Reg int

const (
	Zero Reg = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA

	HI
	LO

	NumRegs
)

var regNames = [NumRegs]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
	"hi", "lo",
}

var regByName = func() map[string]Reg {
	m := make(map[string]Reg, NumRegs+1)

	for r, n := range regNames {
		m[n] = Reg(r)
	}

	m["s8"] = FP

	return m
}()

// RegByName accepts ABI names (a0, s8, ...) and numbers (0..31)
// with an optional $ prefix.
func RegByName(name string) (Reg, bool) {
	if len(name) != 0 && name[0] == '$' {
		name = name[1:]
	}

	if r, ok := regByName[name]; ok {
		return r, true
	}

	n := 0

	for i, c := range []byte(name) {
		if c < '0' || c > '9' || i == 2 {
			return 0, false
		}

		n = n*10 + int(c-'0')
	}

	if name == "" || n >= 32 {
		return 0, false
	}

	return Reg(n), true
}

// General reports whether r is one of the 32 general purpose registers.
// Zero is general, although it's never read or written as one.
func (r Reg) Valid() bool {
	return r >= Zero && r < NumRegs
}

func (r Reg) General() bool {
	return r >= Zero && r < HI
}

func (r Reg) String() string {
	if r < 0 || r >= NumRegs {
		return fmt.Sprintf("reg(%d)", int(r))
	}

	return regNames[r]
}

func (r Reg) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, r.String())
}
