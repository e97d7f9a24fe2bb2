package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes p in native syntax, one statement per line.
//
// The output parses back to a structurally equal Program. Parentheses are
// emitted only where precedence or left-associativity requires them.
func (p *Program) Format(_ context.Context, w io.Writer) error {
	return p.write(w, "\n")
}

// Canonical returns p in native syntax on a single line.
func (p *Program) Canonical() (string, error) {
	var b strings.Builder

	if err := p.write(&b, " "); err != nil {
		return "", err
	}

	return strings.TrimSuffix(b.String(), " "), nil
}

func (p *Program) write(w io.Writer, sep string) error {
	if p == nil {
		return ErrInvalidProgram.With(slog.String("reason", "nil program"))
	}

	var b strings.Builder

	for _, def := range p.Definitions {
		if !isName(def.Name) {
			return ErrInvalidProgram.With(slog.String("name", def.Name))
		}

		b.WriteString("def ")
		b.WriteString(def.Name)
		b.WriteString(" = ")

		if err := writeExpr(&b, def.Value); err != nil {
			return err
		}

		b.WriteString(";")
		b.WriteString(sep)
	}

	if err := writeExpr(&b, p.Result); err != nil {
		return err
	}

	b.WriteString(sep)

	_, err := io.WriteString(w, b.String())

	return err
}

// FormatExpr returns e in native syntax.
func FormatExpr(e Expr) (string, error) {
	var b strings.Builder

	if err := writeExpr(&b, e); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeExpr(b *strings.Builder, e Expr) error {
	switch n := e.(type) {
	case *Literal:
		if n == nil {
			break
		}

		text, err := literalText(n)
		if err != nil {
			return err
		}

		b.WriteString(text)

		return nil

	case *Reference:
		if n == nil {
			break
		}

		if !isName(n.Name) {
			return ErrInvalidProgram.With(slog.String("name", n.Name))
		}

		// A bare "def" at statement start would begin a definition.
		if n.Name == "def" {
			b.WriteString("(def)")
		} else {
			b.WriteString(n.Name)
		}

		return nil

	case *Binary:
		if n == nil {
			break
		}

		prec := n.Op.Precedence()
		if prec == 0 {
			return ErrInvalidProgram.With(slog.String("op", n.Op.String()))
		}

		// Left-associative: a right operand of equal precedence needs
		// parentheses, a left one does not.
		if err := writeOperand(b, n.Left, prec, false); err != nil {
			return err
		}

		b.WriteString(" ")
		b.WriteString(n.Op.String())
		b.WriteString(" ")

		return writeOperand(b, n.Right, prec, true)
	}

	return ErrInvalidProgram.With(slog.String("node", typeName(e)))
}

func writeOperand(b *strings.Builder, e Expr, parent int, right bool) error {
	child, ok := e.(*Binary)

	wrap := ok && child != nil &&
		(child.Op.Precedence() < parent ||
			(right && child.Op.Precedence() == parent))

	if !wrap {
		return writeExpr(b, e)
	}

	b.WriteString("(")

	if err := writeExpr(b, e); err != nil {
		return err
	}

	b.WriteString(")")

	return nil
}

// literalText returns the source form of n. Literals without source text must
// be finite and non-negative, since the language has no unary minus.
func literalText(n *Literal) (string, error) {
	if n.Text != "" {
		return n.Text, nil
	}

	if math.IsInf(n.Value, 0) || math.IsNaN(n.Value) || math.Signbit(n.Value) {
		return "", ErrFormatLiteral.With(slog.String("value", FormatValue(n.Value)))
	}

	return strconv.FormatFloat(n.Value, 'f', -1, 64), nil
}

// isName reports whether s lexes as exactly one identifier.
func isName(s string) bool {
	toks, err := Tokenize(s)

	return err == nil && len(toks) == 2 && toks[0].Kind == Identifier &&
		toks[0].Lexeme == s
}

// FormatJSON writes p as JSON. A positive indent selects multiline output.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	if p == nil {
		return ErrInvalidProgram.With(slog.String("reason", "nil program"))
	}

	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes p as YAML. A positive indent sets the block indentation;
// zero selects flow style.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	if p == nil {
		return ErrInvalidProgram.With(slog.String("reason", "nil program"))
	}

	opts := []yaml.EncodeOption{yaml.Flow(indent <= 0)}
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Print writes an indented tree of p with node positions.
func (p *Program) Print(_ context.Context, w io.Writer) error {
	if p == nil {
		return ErrInvalidProgram.With(slog.String("reason", "nil program"))
	}

	var b strings.Builder

	b.WriteString("Program\n")

	for _, def := range p.Definitions {
		fmt.Fprintf(&b, "  Definition %s @%s\n", def.Name, def.Start)
		printExpr(&b, def.Value, 2)
	}

	b.WriteString("  Result\n")
	printExpr(&b, p.Result, 2)

	_, err := io.WriteString(w, b.String())

	return err
}

func printExpr(b *strings.Builder, e Expr, depth int) {
	pad := strings.Repeat("  ", depth)

	switch n := e.(type) {
	case *Literal:
		if n != nil {
			fmt.Fprintf(b, "%sLiteral %s @%s\n", pad, FormatValue(n.Value), n.Start)

			return
		}

	case *Reference:
		if n != nil {
			fmt.Fprintf(b, "%sReference %s @%s\n", pad, n.Name, n.Start)

			return
		}

	case *Binary:
		if n != nil {
			fmt.Fprintf(b, "%sBinary %s @%s\n", pad, n.Op, n.OpPos)
			printExpr(b, n.Left, depth+1)
			printExpr(b, n.Right, depth+1)

			return
		}
	}

	fmt.Fprintf(b, "%s<%s>\n", pad, typeName(e))
}
