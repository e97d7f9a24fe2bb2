package lang

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/arith/log"
)

// Evaluate computes the value of prog.
//
// Definitions are evaluated in order, each against the bindings made before
// it, and the result expression is evaluated last. The error, if any, is an
// [*EvalError], or [ErrInvalidProgram] for a malformed tree.
func Evaluate(ctx context.Context, prog *Program, opts ...Option) (float64, error) {
	v, _, err := evaluate(ctx, prog, makeOptions(opts...))

	return v, err
}

// EvaluateEnv is like [Evaluate] but also returns the Environment holding
// every definition's value.
func EvaluateEnv(
	ctx context.Context,
	prog *Program,
	opts ...Option,
) (float64, *Environment, error) {
	return evaluate(ctx, prog, makeOptions(opts...))
}

// Run parses and evaluates src.
//
// The error, if any, is a [*LexError], [*ParseError] or [*EvalError].
func Run(ctx context.Context, src string, opts ...Option) (float64, error) {
	prog, err := Parse(ctx, src, opts...)
	if err != nil {
		return 0, err
	}

	return Evaluate(ctx, prog, opts...)
}

// EvaluateDefinitions evaluates defs in order and returns the resulting
// Environment. It is used to check a prelude before it is prepended to a
// program with [Program.WithPrelude].
func EvaluateDefinitions(
	ctx context.Context,
	defs []Definition,
	opts ...Option,
) (*Environment, error) {
	o := makeOptions(opts...)
	ev := evaluator{ctx: ctx, env: NewEnvironment(), logger: o.logger}

	if err := ev.bind(defs); err != nil {
		return nil, err
	}

	return ev.env, nil
}

func evaluate(
	ctx context.Context,
	prog *Program,
	o options,
) (float64, *Environment, error) {
	if prog == nil {
		return 0, nil, ErrInvalidProgram.With(slog.String("reason", "nil program"))
	}

	ev := evaluator{ctx: ctx, env: NewEnvironment(), logger: o.logger}

	if err := ev.bind(prog.Definitions); err != nil {
		return 0, nil, err
	}

	v, err := ev.eval(prog.Result)
	if err != nil {
		return 0, nil, err
	}

	ev.logger.TraceContext(ctx, "evaluate complete",
		slog.Int("bindings", ev.env.Len()),
		slog.Any("value", number(v)),
	)

	return v, ev.env, nil
}

type evaluator struct {
	ctx    context.Context
	env    *Environment
	logger log.Logger
}

func (ev *evaluator) bind(defs []Definition) error {
	for _, def := range defs {
		v, err := ev.eval(def.Value)
		if err != nil {
			return err
		}

		ev.env.Define(def.Name, v)

		ev.logger.TraceContext(ev.ctx, "bind",
			slog.String("name", def.Name),
			slog.Any("value", number(v)),
		)
	}

	return nil
}

func (ev *evaluator) eval(e Expr) (float64, error) {
	switch n := e.(type) {
	case *Literal:
		if n == nil {
			break
		}

		return n.Value, nil

	case *Reference:
		if n == nil {
			break
		}

		v, ok := ev.env.Lookup(n.Name)
		if !ok {
			return 0, &EvalError{
				Kind: UndefinedIdentifier,
				Pos:  n.Start,
				Name: n.Name,
			}
		}

		return v, nil

	case *Binary:
		if n == nil {
			break
		}

		l, err := ev.eval(n.Left)
		if err != nil {
			return 0, err
		}

		r, err := ev.eval(n.Right)
		if err != nil {
			return 0, err
		}

		return apply(n.Op, l, r, n.OpPos)
	}

	return 0, ErrInvalidProgram.With(slog.String("node", typeName(e)))
}

// apply computes l op r. Division by exactly zero (of either sign) is an
// error; every other result follows IEEE-754.
func apply(op Op, l, r float64, pos Position) (float64, error) {
	switch op {
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	case Mul:
		return l * r, nil
	case Div:
		if r == 0 {
			return 0, &EvalError{Kind: DivisionByZero, Pos: pos}
		}

		return l / r, nil
	default:
		return 0, ErrInvalidProgram.With(slog.String("op", op.String()))
	}
}

// FormatValue renders v in the shortest decimal form that parses back to v,
// or as "+Inf", "-Inf" or "NaN".
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func typeName(e Expr) string {
	switch e.(type) {
	case nil:
		return "nil"
	case *Literal:
		return "nil *Literal"
	case *Reference:
		return "nil *Reference"
	case *Binary:
		return "nil *Binary"
	default:
		return "unknown"
	}
}

// number defers formatting of a logged value until a handler needs it.
type number float64

func (n number) LogValue() slog.Value {
	return slog.StringValue(FormatValue(float64(n)))
}
