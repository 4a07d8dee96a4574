package mips

import (
	"fmt"

	"tlog.app/go/errors"
)

type (
	// ShapeError is an operand combination the lowering can't handle.
	// It aborts the one instruction only.
	ShapeError struct {
		Addr   uint32
		Op     Opcode
		Reason string
	}

	// SinkError is a write rejected by the emission sink.
	SinkError struct {
		Addr uint32
		Err  error
	}
)

var ErrUnsupportedOperandShape = errors.New("unsupported operand shape")

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%#x: %v: %v: %s", e.Addr, e.Op, ErrUnsupportedOperandShape, e.Reason)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrUnsupportedOperandShape
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%#x: sink: %v", e.Addr, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
