package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/arith/log"
	"github.com/ardnew/arith/server"
)

// Serve answers evaluation requests over HTTP until interrupted.
type Serve struct {
	Addr     string        `default:":8080" help:"TCP address to listen on"`
	Prelude  []string      `help:"Definition file(s) bound before every request" type:"existingfile"`
	Shutdown time.Duration `default:"5s"    help:"Time allowed for in-flight requests on shutdown"`
}

// Run executes the serve command.
func (s *Serve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, errOut := outputFrom(ctx)

	prelude, err := loadPrelude(ctx, errOut, s.Prelude, langOptions()...)
	if err != nil {
		return err
	}

	srv := server.New(
		server.WithLogger(log.Default()),
		server.WithPrelude(prelude),
		server.WithShutdownTimeout(s.Shutdown),
	)

	if err := srv.ListenAndServe(ctx, s.Addr); err != nil {
		return ErrServe.With(slog.String("addr", s.Addr)).Wrap(err)
	}

	return nil
}
