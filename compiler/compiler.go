package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/xlate/compiler/analyze"
	"github.com/slowlang/xlate/compiler/asm"
	"github.com/slowlang/xlate/compiler/back"
	"github.com/slowlang/xlate/compiler/format"
	"github.com/slowlang/xlate/compiler/mips"
	"github.com/slowlang/xlate/compiler/parse"
)

type (
	Config struct {
		Namespace string
		Runtime   string
	}

	Result struct {
		Name string

		Insns []mips.Insn
		Code  []asm.Instr
		Unit  *back.Unit

		Text []byte
	}
)

func (c Config) Context(s asm.Sink) *mips.Context {
	tc := &mips.Context{
		Namespace: c.Namespace,
		Runtime:   c.Runtime,
		Sink:      s,
	}

	if tc.Runtime == "" {
		tc.Runtime = mips.DefaultRuntime
	}

	return tc
}

func TranslateFile(ctx context.Context, name string, cfg Config) (*Result, error) {
	text, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Translate(ctx, name, text, cfg)
}

func CheckFile(ctx context.Context, name string, cfg Config) (*Result, error) {
	text, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Check(ctx, name, text, cfg)
}

// Translate lowers a listing into target code.
// Instructions of unsupported shape are skipped and reported in Unit.Errors,
// the rest of the unit is still translated.
func Translate(ctx context.Context, name string, text []byte, cfg Config) (r *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "translate", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	r, err = load(ctx, name, text)
	if err != nil {
		return nil, err
	}

	var buf asm.Buffer

	out := format.Text{
		B: format.Header(nil, r.Name, back.MaxStack(r.Insns)),
	}

	r.Unit, err = back.Translate(ctx, cfg.Context(asm.Tee{&buf, &out}), r.Insns)
	if err != nil {
		return r, errors.Wrap(err, "lower")
	}

	r.Code = buf.Code
	r.Text = format.Footer(out.B)

	tr.Printw("translated", "insns", len(r.Insns), "emitted", r.Unit.Emitted(), "code", len(r.Code), "errors", len(r.Unit.Errors()))

	return r, nil
}

// Check runs both passes keeping no code.
// Result carries the usage table and lowering errors only.
func Check(ctx context.Context, name string, text []byte, cfg Config) (r *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "check", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	r, err = load(ctx, name, text)
	if err != nil {
		return nil, err
	}

	var d asm.Discard

	r.Unit, err = back.Translate(ctx, cfg.Context(&d), r.Insns)
	if err != nil {
		return r, errors.Wrap(err, "lower")
	}

	tr.Printw("checked", "insns", len(r.Insns), "emitted", r.Unit.Emitted(), "errors", len(r.Unit.Errors()))

	return r, nil
}

func load(ctx context.Context, name string, text []byte) (r *Result, err error) {
	st, x, err := parse.Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	r = &Result{Name: MethodName(name)}

	r.Insns, err = analyze.Analyze(ctx, st, x)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	return r, nil
}

func readFile(ctx context.Context, name string) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return text, nil
}

// MethodName derives the target method name from a file name.
func MethodName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || base == "." || base == string(filepath.Separator) {
		return "main"
	}

	return base
}
