package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/xlate/compiler/ast"
)

type (
	Skipper interface {
		Skip(b []byte, st int) int
	}

	Spaces uint64

	// Comments skips spaces and comments running to the end of line.
	// Newline itself is skipped only if it's in Spaces.
	Comments struct {
		Spaces Spaces
		Start  Spaces
	}

	Spacer struct {
		Spaces Skipper
		Of     Parser
	}
)

var (
	Space    = NewSpaces(' ')
	SpaceTab = NewSpaces(' ', '\t')
	SpaceAll = NewSpaces(' ', '\t', '\r', '\n')

	CommentStart = NewSpaces('#', ';')

	Inline = Comments{Spaces: NewSpaces(' ', '\t', '\r'), Start: CommentStart}
	Blank  = Comments{Spaces: SpaceAll, Start: CommentStart}
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Is(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && s.Is(b[i]) {
		i++
	}

	return
}

func (s Comments) Skip(b []byte, st int) (i int) {
	i = st

	for {
		i = s.Spaces.Skip(b, i)

		if i == len(b) || !s.Start.Is(b[i]) {
			return i
		}

		for i < len(b) && b[i] != '\n' {
			i++
		}
	}
}

func Spaced(p Parser, ss Skipper) Spacer {
	return Spacer{
		Spaces: ss,
		Of:     p,
	}
}

func SpacedBy(p Parser, skip ...byte) Spacer {
	return Spacer{
		Spaces: NewSpaces(skip...),
		Of:     p,
	}
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := p.Spaces.Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil {
		if i == vst {
			i = st
		}

		err = errors.Wrap(err, "%T", p.Of)
	}

	return
}
