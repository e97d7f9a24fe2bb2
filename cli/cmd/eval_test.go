package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/arith/lang"
)

// capture returns a context whose command output goes to the returned
// buffers.
func capture() (ctx context.Context, out, errOut *bytes.Buffer) {
	out, errOut = new(bytes.Buffer), new(bytes.Buffer)

	return WithOutput(context.Background(), out, errOut), out, errOut
}

func TestEvalRun(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.arith":  "def a = 5; def b = a*2; a+b",
		"defs.arith":  "def rate = 3;",
		"more.arith":  "def base = rate + 1;",
		"use.arith":   "rate * base",
		"split.arith": "def x = 2;",
	})

	path := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name string
		cmd  Eval
		want string
	}{
		{"expr", Eval{Expr: "(1+2)*3"}, "9\n"},
		{"file", Eval{Source: []string{path("main.arith")}}, "15\n"},
		{"fraction", Eval{Expr: "1/4"}, "0.25\n"},
		{
			"prelude_chain",
			Eval{Prelude: []string{path("defs.arith"), path("more.arith")}, Source: []string{path("use.arith")}},
			"12\n",
		},
		{
			"sources_concatenate",
			Eval{Source: []string{path("split.arith"), path("use.arith")}, Prelude: []string{path("defs.arith"), path("more.arith")}},
			"12\n",
		},
		{"shadow", Eval{Expr: "def a = 1; def a = 2; a"}, "2\n"},
		{"contextual_def", Eval{Expr: "def def = 2; (def) * 3"}, "6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := capture()

			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v\n%s", err, errOut)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestEvalRun_Errors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.arith":  "def a = 1;\ndef b = a / 0;",
		"main.arith": "1",
	})

	tests := []struct {
		name    string
		cmd     Eval
		wantErr []error
		snippet string
	}{
		{
			"undefined",
			Eval{Expr: "x+1"},
			[]error{ErrEvaluate, lang.ErrUndefinedIdentifier},
			"line 1, column 1",
		},
		{
			"division",
			Eval{Expr: "1/0"},
			[]error{ErrEvaluate, lang.ErrDivisionByZero},
			"line 1, column 2",
		},
		{
			"parse",
			Eval{Expr: "1 +"},
			[]error{ErrEvaluate, lang.ErrUnexpectedEndOfInput},
			"line 1, column 4",
		},
		{
			"prelude_position",
			Eval{Prelude: []string{filepath.Join(dir, "bad.arith")}, Expr: "b"},
			[]error{ErrPrelude, lang.ErrDivisionByZero},
			"line 2, column 11",
		},
		{
			"conflict",
			Eval{Expr: "1", Source: []string{filepath.Join(dir, "main.arith")}},
			[]error{ErrInputConflict},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := capture()

			err := tt.cmd.Run(ctx)

			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Run() error = %v, want %v", err, want)
				}
			}

			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out.String())
			}

			if !strings.Contains(errOut.String(), tt.snippet) {
				t.Errorf("error output %q does not contain %q", errOut.String(), tt.snippet)
			}
		})
	}
}

func TestEvalRun_Stdin(t *testing.T) {
	withStdin(t, "def a = 2;\na * 21\n")

	ctx, out, _ := capture()

	if err := (&Eval{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if out.String() != "42\n" {
		t.Errorf("output = %q, want 42", out.String())
	}
}

func TestCompileRun(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.arith": "def a = 5; def b = a*2; a+b",
		"zero.arith": "def z = 0;\n1 / z",
		"defs.arith": "def k = 10;",
		"use.arith":  "k * 2",
	})

	path := func(name string) string { return filepath.Join(dir, name) }

	t.Run("run", func(t *testing.T) {
		ctx, out, _ := capture()

		err := (&Compile{Input: Input{Source: path("main.arith")}}).Run(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if out.String() != "15\n" {
			t.Errorf("output = %q, want 15", out.String())
		}
	})

	t.Run("prelude", func(t *testing.T) {
		ctx, out, _ := capture()

		c := Compile{Input: Input{Source: path("use.arith")}, Prelude: []string{path("defs.arith")}}
		if err := c.Run(ctx); err != nil {
			t.Fatal(err)
		}

		if out.String() != "20\n" {
			t.Errorf("output = %q, want 20", out.String())
		}
	})

	t.Run("show", func(t *testing.T) {
		ctx, out, _ := capture()

		err := (&Compile{Input: Input{Source: path("main.arith")}, Show: true}).Run(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if strings.TrimSpace(out.String()) == "" {
			t.Error("no compiled source printed")
		}
	})

	t.Run("division_by_zero", func(t *testing.T) {
		ctx, _, errOut := capture()

		err := (&Compile{Input: Input{Source: path("zero.arith")}}).Run(ctx)
		if !errors.Is(err, lang.ErrDivisionByZero) {
			t.Fatalf("Run() error = %v, want division by zero", err)
		}

		if !strings.Contains(errOut.String(), "line 2, column 3") {
			t.Errorf("error output = %q", errOut.String())
		}
	})
}
