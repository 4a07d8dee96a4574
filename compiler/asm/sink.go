package asm

import (
	"tlog.app/go/errors"
)

type (
	// Sink accepts target operations in order.
	Sink interface {
		Emit(x Instr) error
	}

	// Buffer is a Sink collecting operations
	// and accounting the operand stack depth.
	Buffer struct {
		Code []Instr

		depth int
		peak  int
	}

	// Discard accounts stack depth like Buffer but keeps no code.
	Discard struct {
		Buffer
	}

	// Tee writes each operation to all sinks in order.
	Tee []Sink
)

var ErrStackUnderflow = errors.New("operand stack underflow")

func (b *Buffer) Emit(x Instr) error {
	err := b.account(x)
	if err != nil {
		return err
	}

	b.Code = append(b.Code, x)

	return nil
}

func (b *Buffer) account(x Instr) error {
	pop, push := Effect(x)

	if pop > b.depth {
		return errors.Wrap(ErrStackUnderflow, "%T: need %d, have %d", x, pop, b.depth)
	}

	b.depth += push - pop

	if b.depth > b.peak {
		b.peak = b.depth
	}

	return nil
}

func (b *Buffer) Depth() int { return b.depth }

// Peak is the maximum depth observed since the last Reset.
func (b *Buffer) Peak() int { return b.peak }

func (b *Buffer) Reset() {
	b.Code = b.Code[:0]
	b.depth = 0
	b.peak = 0
}

// Labels returns labels bound in the buffer.
func (b *Buffer) Labels() (r []Label) {
	for _, x := range b.Code {
		if x, ok := x.(Bind); ok {
			r = append(r, x.Label)
		}
	}

	return r
}

// Replay emits buffered code into s.
func (b *Buffer) Replay(s Sink) error {
	for _, x := range b.Code {
		err := s.Emit(x)
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Discard) Emit(x Instr) error {
	return d.account(x)
}

func (t Tee) Emit(x Instr) error {
	for _, s := range t {
		err := s.Emit(x)
		if err != nil {
			return err
		}
	}

	return nil
}
