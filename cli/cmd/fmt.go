package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/arith/lang"
)

// Fmt parses a program and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native arith syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
}

// Input is the single source argument shared by the fmt subcommands.
type Input struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source" type:"existingfile"`
}

// read returns the source text.
func (in Input) read() (string, error) {
	return readSource([]string{in.Source})
}

// parse reads and parses the source, writing a snippet for positioned
// errors.
func (in Input) parse(ctx context.Context, format string) (*lang.Program, error) {
	src, err := in.read()
	if err != nil {
		return nil, err
	}

	prog, err := lang.Parse(ctx, src, langOptions()...)
	if err != nil {
		_, errOut := outputFrom(ctx)

		return nil, report(errOut, ErrFormat.With(slog.String("format", format)), src, err)
	}

	return prog, nil
}

// Native formats input as native arith syntax.
type Native struct {
	Input

	Compact bool `help:"Write the program on a single line" short:"c"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	if !f.Compact {
		return prog.Format(ctx, out)
	}

	line, err := prog.Canonical()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, line)

	return err
}

// JSON formats input as JSON.
type JSON struct {
	Input

	Indent int `default:"2" help:"Indent width for JSON output; 0 for one line" short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	return prog.FormatJSON(ctx, out, j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Input

	Indent int `default:"2" help:"Indent width for YAML output; 0 for flow style" short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	if err := prog.FormatYAML(ctx, out, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST prints input as an indented syntax tree with positions.
type AST struct {
	Input
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	return prog.Print(ctx, out)
}

// Tokens prints one line per token: position, kind and lexeme.
type Tokens struct {
	Input
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	src, err := t.read()
	if err != nil {
		return err
	}

	out, errOut := outputFrom(ctx)

	toks, err := lang.Tokenize(src)
	if err != nil {
		return report(errOut, ErrFormat.With(slog.String("format", "tokens")), src, err)
	}

	for _, tok := range toks {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok); err != nil {
			return err
		}
	}

	return nil
}
