package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

var roundTripPrograms = []string{
	"42",
	"1+2*3",
	"(1+2)*3",
	"10-3-2",
	"10-(3-2)",
	"2*(3*4)",
	"2*3*4",
	"8/(4/2)",
	"(8/4)/2",
	"1-(2+3)",
	"(1-2)+3",
	"(1+2)*(3-4)/5",
	"def a = 5; def b = a*2; a+b",
	"def def = 2; (def)*3",
	"def x = 1; def x = x + 1; x * (x - 1)",
	"0.5 / 0.25",
	"007 + 1.50",
}

func TestFormat_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, src := range roundTripPrograms {
		t.Run(src, func(t *testing.T) {
			prog := mustParse(t, src)

			var buf bytes.Buffer
			if err := prog.Format(ctx, &buf); err != nil {
				t.Fatal(err)
			}

			again, err := Parse(ctx, buf.String())
			if err != nil {
				t.Fatalf("re-parse %q: %v", buf.String(), err)
			}

			if !prog.Equal(again) {
				t.Errorf("round trip changed structure:\n%s", buf.String())
			}

			want, werr := Evaluate(ctx, prog)
			got, gerr := Evaluate(ctx, again)

			if (werr == nil) != (gerr == nil) || (werr == nil && got != want) {
				t.Errorf("round trip changed value: %v, %v vs %v, %v", want, werr, got, gerr)
			}
		})
	}
}

func TestFormat_Multiline(t *testing.T) {
	prog := mustParse(t, "def a = 1;def b=a+2;b*3")

	var buf bytes.Buffer
	if err := prog.Format(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}

	want := "def a = 1;\ndef b = a + 2;\nb * 3\n"
	if buf.String() != want {
		t.Errorf("Format = %q, want %q", buf.String(), want)
	}
}

func TestFormat_BuiltLiterals(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
		err   bool
	}{
		{"integer", 3, "3", false},
		{"fraction", 0.125, "0.125", false},
		{"negative", -1, "", true},
		{"negative zero", math.Copysign(0, -1), "", true},
		{"infinity", math.Inf(1), "", true},
		{"nan", math.NaN(), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatExpr(&Literal{Value: tt.value})

			if tt.err {
				if !errors.Is(err, ErrFormatLiteral) {
					t.Errorf("expected ErrFormatLiteral, got %q, %v", got, err)
				}

				return
			}

			if err != nil || got != tt.want {
				t.Errorf("FormatExpr = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestFormat_InvalidNames(t *testing.T) {
	for _, name := range []string{"", "a b", "1x", "+", "a;"} {
		_, err := FormatExpr(&Reference{Name: name})
		if !errors.Is(err, ErrInvalidProgram) {
			t.Errorf("FormatExpr(Reference %q) = %v, want ErrInvalidProgram", name, err)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	prog := mustParse(t, "def a = 2; a * 3")

	var buf bytes.Buffer
	if err := prog.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	defs, _ := got["definitions"].([]any)
	if len(defs) != 1 {
		t.Fatalf("definitions = %v", got["definitions"])
	}

	result, _ := got["result"].(map[string]any)
	bin, _ := result["binary"].(map[string]any)

	if bin["op"] != "*" {
		t.Errorf("result = %v", result)
	}

	if left, _ := bin["left"].(map[string]any); left["reference"] != "a" {
		t.Errorf("left = %v", bin["left"])
	}

	if right, _ := bin["right"].(map[string]any); right["literal"] != 3.0 {
		t.Errorf("right = %v", bin["right"])
	}
}

func TestFormatJSON_NonFinite(t *testing.T) {
	prog := mustParse(t, "1"+repeatDigit('0', 400))

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), `"+Inf"`) {
		t.Errorf("expected +Inf string, got %s", data)
	}
}

func TestFormatYAML(t *testing.T) {
	prog := mustParse(t, "def a = 2; a - 1")

	for _, indent := range []int{0, 2, 4} {
		var buf bytes.Buffer
		if err := prog.FormatYAML(context.Background(), &buf, indent); err != nil {
			t.Fatal(err)
		}

		var got map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("indent %d: invalid YAML: %v\n%s", indent, err, buf.String())
		}

		result, _ := got["result"].(map[string]any)
		bin, _ := result["binary"].(map[string]any)

		if bin["op"] != "-" {
			t.Errorf("indent %d: result = %v", indent, got["result"])
		}
	}
}

func TestPrint(t *testing.T) {
	prog := mustParse(t, "def a = 1; a + 2")

	var buf bytes.Buffer
	if err := prog.Print(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}

	want := "Program\n" +
		"  Definition a @1:1\n" +
		"    Literal 1 @1:9\n" +
		"  Result\n" +
		"    Binary + @1:14\n" +
		"      Reference a @1:12\n" +
		"      Literal 2 @1:16\n"

	if buf.String() != want {
		t.Errorf("Print:\n%s\nwant:\n%s", buf.String(), want)
	}
}
