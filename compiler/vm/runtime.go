package vm

import "github.com/slowlang/xlate/compiler/asm"

var natives = map[asm.NativeOp]func(a, b uint32) uint32{
	asm.And:  func(a, b uint32) uint32 { return a & b },
	asm.Or:   func(a, b uint32) uint32 { return a | b },
	asm.Xor:  func(a, b uint32) uint32 { return a ^ b },
	asm.Shl:  func(a, b uint32) uint32 { return a << (b & 31) },
	asm.Shr:  func(a, b uint32) uint32 { return uint32(int32(a) >> (b & 31)) },
	asm.Ushr: func(a, b uint32) uint32 { return a >> (b & 31) },
}

// DefaultRuntime implements the arithmetic helpers of the runtime support class.
// Overflow wraps: add, addi and sub don't trap.
func DefaultRuntime() map[string]Func {
	add := func(x []uint32) uint32 { return x[0] + x[1] }
	sub := func(x []uint32) uint32 { return x[0] - x[1] }

	return map[string]Func{
		"add":   add,
		"addu":  add,
		"addi":  add,
		"addiu": add,
		"sub":   sub,
		"subu":  sub,
		"mul": func(x []uint32) uint32 {
			return uint32(int32(x[0]) * int32(x[1]))
		},
	}
}
