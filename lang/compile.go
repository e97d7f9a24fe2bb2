package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/arith/log"
)

// Compiled is a [Program] lowered to an expr-lang bytecode program.
//
// Running it yields the same value, or the same [*EvalError], as [Evaluate]
// on the original Program. A Compiled is immutable and safe for concurrent
// use.
type Compiled struct {
	program *vm.Program
	env     map[string]any
	source  string
	logger  log.Logger
}

// Names of the functions available to lowered source.
const (
	fnDivide  = "divide"
	fnUnbound = "unbound"
)

// Compile lowers prog to expr-lang source and compiles it.
//
// Literals become float64 variables of the run environment, definitions
// become a chain of let bindings, and references resolve statically to the
// newest preceding binding. Division and unresolved references call
// functions that report the [*EvalError] the tree-walking evaluator would.
func Compile(ctx context.Context, prog *Program, opts ...Option) (*Compiled, error) {
	o := makeOptions(opts...)

	if prog == nil {
		return nil, ErrInvalidProgram.With(slog.String("reason", "nil program"))
	}

	lw := lowering{env: map[string]any{}}

	for i, def := range prog.Definitions {
		lw.b.WriteString("let ")
		lw.b.WriteString(bindingName(i))
		lw.b.WriteString(" = ")

		if err := lw.expr(def.Value); err != nil {
			return nil, err
		}

		lw.b.WriteString("; ")
		lw.scope = append(lw.scope, def.Name)
	}

	if err := lw.expr(prog.Result); err != nil {
		return nil, err
	}

	source := lw.b.String()
	sites, unbound := lw.sites, lw.unbound

	program, err := expr.Compile(source,
		expr.Env(lw.env),
		expr.AsFloat64(),
		expr.Function(fnDivide,
			func(params ...any) (any, error) {
				l, r := params[0].(float64), params[1].(float64)
				if r == 0 {
					return nil, &EvalError{
						Kind: DivisionByZero,
						Pos:  sites[params[2].(int)],
					}
				}

				return l / r, nil
			},
			new(func(float64, float64, int) float64),
		),
		expr.Function(fnUnbound,
			func(params ...any) (any, error) {
				ref := unbound[params[0].(int)]

				return nil, &EvalError{
					Kind: UndefinedIdentifier,
					Pos:  ref.Start,
					Name: ref.Name,
				}
			},
			new(func(int) float64),
		),
	)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	o.logger.TraceContext(ctx, "compile complete",
		slog.String("source", source),
		slog.Int("literals", len(lw.env)),
	)

	return &Compiled{
		program: program,
		env:     lw.env,
		source:  source,
		logger:  o.logger,
	}, nil
}

// Source returns the lowered expr-lang source.
func (c *Compiled) Source() string { return c.source }

// Run executes the compiled program.
func (c *Compiled) Run(ctx context.Context) (float64, error) {
	out, err := expr.Run(c.program, c.env)
	if err != nil {
		var ee *EvalError
		if errors.As(err, &ee) {
			return 0, ee
		}

		return 0, ErrExecute.Wrap(err)
	}

	v, ok := out.(float64)
	if !ok {
		return 0, ErrExecute.With(slog.String("result", typeOf(out)))
	}

	c.logger.TraceContext(ctx, "run complete", slog.Any("value", number(v)))

	return v, nil
}

// lowering accumulates expr-lang source for one Program.
type lowering struct {
	b       strings.Builder
	env     map[string]any
	scope   []string
	sites   []Position
	unbound []*Reference
}

func bindingName(i int) string { return "d" + strconv.Itoa(i) }

func (lw *lowering) expr(e Expr) error {
	switch n := e.(type) {
	case *Literal:
		if n == nil {
			break
		}

		name := "k" + strconv.Itoa(len(lw.env))
		lw.env[name] = n.Value
		lw.b.WriteString(name)

		return nil

	case *Reference:
		if n == nil {
			break
		}

		for i := len(lw.scope) - 1; i >= 0; i-- {
			if lw.scope[i] == n.Name {
				lw.b.WriteString(bindingName(i))

				return nil
			}
		}

		lw.b.WriteString(fnUnbound + "(" + strconv.Itoa(len(lw.unbound)) + ")")
		lw.unbound = append(lw.unbound, n)

		return nil

	case *Binary:
		if n == nil {
			break
		}

		if n.Op == Div {
			site := len(lw.sites)
			lw.sites = append(lw.sites, n.OpPos)

			lw.b.WriteString(fnDivide + "(")

			if err := lw.expr(n.Left); err != nil {
				return err
			}

			lw.b.WriteString(", ")

			if err := lw.expr(n.Right); err != nil {
				return err
			}

			lw.b.WriteString(", " + strconv.Itoa(site) + ")")

			return nil
		}

		if n.Op.Precedence() == 0 {
			return ErrInvalidProgram.With(slog.String("op", n.Op.String()))
		}

		lw.b.WriteString("(")

		if err := lw.expr(n.Left); err != nil {
			return err
		}

		lw.b.WriteString(" " + n.Op.String() + " ")

		if err := lw.expr(n.Right); err != nil {
			return err
		}

		lw.b.WriteString(")")

		return nil
	}

	return ErrInvalidProgram.With(slog.String("node", typeName(e)))
}

func typeOf(v any) string { return fmt.Sprintf("%T", v) }
