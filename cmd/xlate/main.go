package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/xlate/compiler"
	"github.com/slowlang/xlate/compiler/format"
	"github.com/slowlang/xlate/compiler/mips"
	"github.com/slowlang/xlate/compiler/vm"
)

var cfg compiler.Config

func main() {
	translateCmd := &cli.Command{
		Name:        "translate",
		Description: "print target assembly for listing files",
		Action:      translateAct,
		Args:        cli.Args{},
	}

	usageCmd := &cli.Command{
		Name:        "usage",
		Description: "print register usage of every instruction",
		Action:      usageAct,
		Args:        cli.Args{},
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "execute a listing on the reference machine: run FILE [reg=value...]",
		Action:      runAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "xlate",
		Description: "xlate translates MIPS instruction listings to stack machine code",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("namespace", "", "runtime support namespace"),
			cli.NewFlag("runtime", mips.DefaultRuntime, "runtime support class"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			translateCmd,
			usageCmd,
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	cfg = compiler.Config{
		Namespace: c.String("namespace"),
		Runtime:   c.String("runtime"),
	}

	return nil
}

func translateAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		r, err := compiler.TranslateFile(ctx, a, cfg)
		if err != nil {
			return errors.Wrap(err, "translate %v", a)
		}

		_, err = os.Stdout.Write(r.Text)
		if err != nil {
			return errors.Wrap(err, "write")
		}

		err = lowerErrors(a, r)
		if err != nil {
			return err
		}
	}

	return nil
}

func usageAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		r, err := compiler.CheckFile(ctx, a, cfg)
		if err != nil {
			return errors.Wrap(err, "check %v", a)
		}

		_, err = os.Stdout.Write(format.Usage(nil, r.Unit.Table()))
		if err != nil {
			return errors.Wrap(err, "write")
		}

		err = lowerErrors(a, r)
		if err != nil {
			return err
		}
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) == 0 {
		return errors.New("file argument expected")
	}

	m := vm.New()

	for _, a := range c.Args[1:] {
		r, v, err := parseAssign(a)
		if err != nil {
			return errors.Wrap(err, "arg %q", a)
		}

		m.Regs[r] = v
	}

	r, err := compiler.TranslateFile(ctx, c.Args[0], cfg)
	if err != nil {
		return errors.Wrap(err, "translate %v", c.Args[0])
	}

	err = lowerErrors(c.Args[0], r)
	if err != nil {
		return err
	}

	err = m.Run(ctx, r.Code)
	if err != nil {
		return errors.Wrap(err, "run")
	}

	for reg := mips.Reg(1); reg < mips.HI; reg++ {
		if v := m.Regs[reg]; v != 0 {
			fmt.Printf("%-4v %#08x  %d\n", reg, v, int32(v))
		}
	}

	return nil
}

func lowerErrors(name string, r *compiler.Result) error {
	errs := r.Unit.Errors()
	if len(errs) == 0 {
		return nil
	}

	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "%v: %v\n", name, err)
	}

	return errors.New("%v: %d instructions not translated", name, len(errs))
}

// parseAssign parses reg=value.
func parseAssign(s string) (r mips.Reg, v uint32, err error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, errors.New("reg=value expected")
	}

	r, ok = mips.RegByName(name)
	if !ok || !r.General() || r == mips.Zero {
		return 0, 0, errors.New("bad register: %v", name)
	}

	if x, err := strconv.ParseInt(val, 0, 32); err == nil {
		return r, uint32(x), nil
	}

	x, err := strconv.ParseUint(val, 0, 32)
	if err != nil {
		return 0, 0, errors.Wrap(err, "parse value")
	}

	return r, uint32(x), nil
}
