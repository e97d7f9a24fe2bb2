package cmd

import (
	"context"

	"github.com/ardnew/arith/cli/cmd/repl"
	"github.com/ardnew/arith/log"
)

// Repl starts an interactive session.
type Repl struct {
	Prelude []string `help:"Definition file(s) bound at session start" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, errOut := outputFrom(ctx)

	prelude, err := loadPrelude(ctx, errOut, r.Prelude, langOptions()...)
	if err != nil {
		return err
	}

	cacheDir := kongContextFrom(ctx).Model.Vars()[CacheIdentifier]

	return repl.Run(ctx, prelude, cacheDir, log.Default())
}
