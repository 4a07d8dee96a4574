package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/xlate/compiler/ast"
)

type (
	State struct {
		b []byte // all files concatenated

		Grammar Parser

		files []file
	}

	file struct {
		base int
		size int
		name string
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	PartialReadError struct {
		End int
	}
)

func ParseFile(ctx context.Context, name string) (*State, *ast.Listing, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, data)
}

func Parse(ctx context.Context, name string, text []byte) (s *State, x *ast.Listing, err error) {
	s = New()

	s.AddFile(name, text)

	x, err = s.Parse(ctx)

	return s, x, err
}

func New() *State {
	return &State{
		Grammar: Listing{},
	}
}

func (s *State) Parse(ctx context.Context) (x *ast.Listing, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "size", len(s.b), "files", len(s.files))
	defer tr.Finish("err", &err)

	n, i, err := s.Grammar.Parse(ctx, s.b, 0)
	if err != nil {
		return nil, errors.Wrap(err, "at %v", s.Pos(i))
	}

	i = Blank.Skip(s.b, i)

	if i != len(s.b) {
		return nil, errors.Wrap(PartialReadError{End: i}, "at %v", s.Pos(i))
	}

	x, ok := n.(*ast.Listing)
	if !ok {
		return nil, errors.New("listing expected, got %T", n)
	}

	tr.V("parse").Printw("parsed", "lines", len(x.Lines))

	return x, nil
}

func (s *State) AddFile(name string, text []byte) {
	f := file{
		name: name,
		base: len(s.b),
		size: len(text),
	}

	s.b = append(s.b, text...)

	if len(text) != 0 && text[len(text)-1] != '\n' {
		s.b = append(s.b, '\n')
		f.size++
	}

	s.files = append(s.files, f)
}

func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

// Pos formats pos as file:line:col.
func (s *State) Pos(pos int) string {
	for _, f := range s.files {
		if pos < f.base || pos > f.base+f.size {
			continue
		}

		text := s.b[f.base:pos]
		line := bytes.Count(text, []byte{'\n'}) + 1
		col := pos - f.base - bytes.LastIndexByte(text, '\n')

		return fmt.Sprintf("%s:%d:%d", f.name, line, col)
	}

	return fmt.Sprintf("pos %d", pos)
}

func (e PartialReadError) Error() string {
	return "unexpected text"
}
