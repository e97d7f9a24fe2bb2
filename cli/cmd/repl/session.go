package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/arith/lang"
	"github.com/ardnew/arith/log"
)

// Session is the state carried between REPL inputs: a prelude of definitions
// that every later program is evaluated after.
//
// The prelude is only ever replaced by one that evaluated successfully, so
// its bindings are always available.
type Session struct {
	defs   []lang.Definition
	env    *lang.Environment
	logger log.Logger
}

// Result is the outcome of one [Session.Eval].
//
// A line made only of definitions extends the prelude and reports the names
// it bound; any other line reports the value of its program.
type Result struct {
	Bound []string
	Value float64
}

// NewSession returns a Session whose prelude is defs. It fails if defs do not
// evaluate.
func NewSession(
	ctx context.Context,
	defs []lang.Definition,
	logger log.Logger,
) (*Session, error) {
	s := &Session{logger: logger}

	if err := s.set(ctx, defs); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Session) options() []lang.Option {
	return []lang.Option{lang.WithLogger(s.logger)}
}

// set checks defs and makes them the prelude.
func (s *Session) set(ctx context.Context, defs []lang.Definition) error {
	env, err := lang.EvaluateDefinitions(ctx, defs, s.options()...)
	if err != nil {
		return err
	}

	s.defs, s.env = defs, env

	return nil
}

// Eval evaluates line against the prelude. Error positions refer to line.
func (s *Session) Eval(ctx context.Context, line string) (Result, error) {
	opts := s.options()

	defs, err := lang.ParseDefinitions(ctx, line, opts...)
	if err == nil && len(defs) > 0 {
		if err := s.set(ctx, append(slices.Clip(s.defs), defs...)); err != nil {
			return Result{}, err
		}

		names := make([]string, len(defs))
		for i, def := range defs {
			names[i] = def.Name
		}

		s.logger.TraceContext(ctx, "repl prelude extended",
			slog.Any("names", names),
			slog.Int("definitions", len(s.defs)),
		)

		return Result{Bound: names}, nil
	}

	prog, err := lang.Parse(ctx, line, opts...)
	if err != nil {
		return Result{}, err
	}

	v, err := lang.Evaluate(ctx, prog.WithPrelude(s.defs), opts...)
	if err != nil {
		return Result{}, err
	}

	return Result{Value: v}, nil
}

// Lookup returns the current value of name in the prelude.
func (s *Session) Lookup(name string) (float64, bool) {
	return s.env.Lookup(name)
}

// Names returns the distinct names bound by the prelude in first-bound order.
func (s *Session) Names() []string {
	var names []string

	for _, def := range s.defs {
		if !slices.Contains(names, def.Name) {
			names = append(names, def.Name)
		}
	}

	return names
}

// Binding is one prelude definition and its value.
type Binding struct {
	Name     string
	Source   string
	Value    float64
	Shadowed bool
}

// Bindings returns every prelude definition in order. A binding is shadowed
// when a later definition reuses its name.
func (s *Session) Bindings() []Binding {
	out := make([]Binding, 0, len(s.defs))

	i := 0
	for name, value := range s.env.All() {
		src, err := lang.FormatExpr(s.defs[i].Value)
		if err != nil {
			src = "?"
		}

		shadowed := slices.ContainsFunc(s.defs[i+1:], func(d lang.Definition) bool {
			return d.Name == name
		})

		out = append(out, Binding{
			Name:     name,
			Source:   src,
			Value:    value,
			Shadowed: shadowed,
		})

		i++
	}

	return out
}

// Source returns the prelude in native syntax, one definition per line.
func (s *Session) Source() (string, error) {
	var b strings.Builder

	for _, def := range s.defs {
		src, err := lang.FormatExpr(def.Value)
		if err != nil {
			return "", err
		}

		b.WriteString("def ")
		b.WriteString(def.Name)
		b.WriteString(" = ")
		b.WriteString(src)
		b.WriteString(";\n")
	}

	return b.String(), nil
}

// Replace parses src as definitions and makes them the prelude. The prelude
// is unchanged on error; error positions refer to src.
func (s *Session) Replace(ctx context.Context, src string) error {
	defs, err := lang.ParseDefinitions(ctx, src, s.options()...)
	if err != nil {
		return err
	}

	return s.set(ctx, defs)
}

// clone returns a copy of s that can be changed without affecting s.
func (s *Session) clone() *Session {
	c := *s

	return &c
}

// Reset drops the prelude.
func (s *Session) Reset() {
	s.defs, s.env = nil, lang.NewEnvironment()
}

// Len returns the number of prelude definitions.
func (s *Session) Len() int { return len(s.defs) }
