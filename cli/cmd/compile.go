package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/arith/lang"
	"github.com/ardnew/arith/log"
)

// Compile runs a program through the bytecode backend.
type Compile struct {
	Input

	Prelude []string `help:"Definition file(s) bound before the program" type:"existingfile"`
	Show    bool     `help:"Print the lowered expression source instead of running it"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	out, errOut := outputFrom(ctx)
	opts := langOptions()

	prelude, err := loadPrelude(ctx, errOut, c.Prelude, opts...)
	if err != nil {
		return err
	}

	src, err := c.read()
	if err != nil {
		return err
	}

	fail := ErrEvaluate.With(slog.String("command", "compile"))

	prog, err := lang.Parse(ctx, src, opts...)
	if err != nil {
		return report(errOut, fail, src, err)
	}

	compiled, err := lang.Compile(ctx, prog.WithPrelude(prelude), opts...)
	if err != nil {
		return fail.Wrap(err)
	}

	if c.Show {
		_, err = fmt.Fprintln(out, compiled.Source())

		return err
	}

	v, err := compiled.Run(ctx)
	if err != nil {
		return report(errOut, fail, src, err)
	}

	log.DebugContext(ctx, "compiled program evaluated",
		slog.String("value", lang.FormatValue(v)),
	)

	_, err = fmt.Fprintln(out, lang.FormatValue(v))

	return err
}
