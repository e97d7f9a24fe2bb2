package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/arith/lang"
	"github.com/ardnew/arith/log"
)

// Eval evaluates a program and prints its value.
type Eval struct {
	Prelude []string `help:"Definition file(s) bound before the program"             type:"existingfile"`
	Expr    string   `help:"Evaluate the given program text instead of source files" short:"e"`
	Source  []string `arg:"" help:"Source input file(s) or '-' for stdin" name:"source" optional:"" type:"existingfile"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	out, errOut := outputFrom(ctx)
	opts := langOptions()

	prelude, err := loadPrelude(ctx, errOut, e.Prelude, opts...)
	if err != nil {
		return err
	}

	src, err := e.source()
	if err != nil {
		return err
	}

	fail := ErrEvaluate.With(slog.String("command", "eval"))

	prog, err := lang.Parse(ctx, src, opts...)
	if err != nil {
		return report(errOut, fail, src, err)
	}

	v, err := lang.Evaluate(ctx, prog.WithPrelude(prelude), opts...)
	if err != nil {
		return report(errOut, fail, src, err)
	}

	log.DebugContext(ctx, "evaluated",
		slog.Int("prelude", len(prelude)),
		slog.String("value", lang.FormatValue(v)),
	)

	_, err = fmt.Fprintln(out, lang.FormatValue(v))

	return err
}

func (e *Eval) source() (string, error) {
	if e.Expr == "" {
		return readSource(e.Source)
	}

	if len(e.Source) > 0 {
		return "", ErrInputConflict.With(slog.Any("source", e.Source))
	}

	return e.Expr, nil
}

// langOptions returns the options every command passes to the lang package.
func langOptions() []lang.Option {
	return []lang.Option{lang.WithLogger(log.Default())}
}

// loadPrelude parses the definition files at paths in order and checks that
// they evaluate. Each file may refer to names bound by the files before it.
func loadPrelude(
	ctx context.Context,
	w io.Writer,
	paths []string,
	opts ...lang.Option,
) ([]lang.Definition, error) {
	var defs []lang.Definition

	for _, path := range paths {
		src, err := readSource([]string{path})
		if err != nil {
			return nil, err
		}

		more, err := lang.ParseDefinitions(ctx, src, opts...)
		if err == nil {
			defs = append(slices.Clip(defs), more...)
			_, err = lang.EvaluateDefinitions(ctx, defs, opts...)
		}

		if err != nil {
			return nil, report(w, ErrPrelude.With(slog.String("file", path)), src, err)
		}

		log.DebugContext(ctx, "prelude loaded",
			slog.String("file", path),
			slog.Int("definitions", len(more)),
		)
	}

	return defs, nil
}

// report writes a source snippet for positioned errors to w and returns err
// wrapped in base.
func report(w io.Writer, base *lang.Error, src string, err error) error {
	var pe lang.Positioned
	if errors.As(err, &pe) {
		fmt.Fprint(w, lang.FormatError(err, src))
	}

	return base.Wrap(err)
}
