package lang

import (
	"context"
	"strings"
	"testing"
)

func benchSource(n int) string {
	var b strings.Builder

	for i := range n {
		b.WriteString("def v")
		b.WriteString(repeatDigit('1', i%5+1))
		b.WriteString(" = (1 + 2) * 3 / 4 - 5;\n")
	}

	b.WriteString("v1 * v11 + v111")

	return b.String()
}

func BenchmarkTokenize(b *testing.B) {
	src := benchSource(100)

	b.ReportAllocs()

	for range b.N {
		if _, err := Tokenize(src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	src := benchSource(100)
	ctx := context.Background()

	b.ReportAllocs()

	for range b.N {
		if _, err := Parse(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	ctx := context.Background()
	prog := mustParse(b, benchSource(100))

	b.ReportAllocs()

	for range b.N {
		if _, err := Evaluate(ctx, prog); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompiledRun(b *testing.B) {
	ctx := context.Background()

	compiled, err := Compile(ctx, mustParse(b, benchSource(100)))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for range b.N {
		if _, err := compiled.Run(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
