package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFiles creates each name with its content under a new temp directory and
// returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

// withStdin replaces os.Stdin with a pipe carrying input for the duration of
// the test.
func withStdin(t *testing.T, input string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, input)
	}()
}

func TestReadSource_Dedup(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.arith": "def a = 1;\n",
		"b.arith": "a + 1\n",
	})

	a := filepath.Join(dir, "a.arith")
	b := filepath.Join(dir, "b.arith")

	link := filepath.Join(dir, "link.arith")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, a)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"single", []string{a}, "def a = 1;\n"},
		{"ordered", []string{a, b}, "def a = 1;\n\na + 1\n"},
		{"reversed", []string{b, a}, "a + 1\n\ndef a = 1;\n"},
		{"duplicate", []string{a, a, b, a}, "def a = 1;\n\na + 1\n"},
		{"relative", []string{a, rel}, "def a = 1;\n"},
		{"symlink", []string{link, a}, "def a = 1;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readSource(tt.paths)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenSources_StdinLast(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.arith": "def a = 1;\n"})
	withStdin(t, "a * 2")

	src, err := openSources([]string{"-", filepath.Join(dir, "a.arith"), "-"})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if !src.stdin || len(src.files) != 1 {
		t.Errorf("stdin = %v, files = %d", src.stdin, len(src.files))
	}

	data, err := io.ReadAll(src.reader())
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "def a = 1;\n\na * 2"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadSource_SeparatesFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"head.arith": "def x = 12",
		"tail.arith": "3; x",
	})

	paths := []string{filepath.Join(dir, "head.arith"), filepath.Join(dir, "tail.arith")}

	src, err := readSource(paths)
	if err != nil {
		t.Fatal(err)
	}

	if src != "def x = 12\n3; x" {
		t.Fatalf("readSource = %q", src)
	}

	ctx, out, errOut := capture()

	err = (&Eval{Source: paths}).Run(ctx)
	if err == nil {
		t.Fatalf("tokens merged across files: evaluated to %q", out)
	}

	if !strings.Contains(errOut.String(), "line 2, column 1") {
		t.Errorf("error output %q does not point at the second file", errOut)
	}
}

func TestOpenSources_Missing(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.arith": "1"})

	_, err := openSources([]string{filepath.Join(dir, "a.arith"), filepath.Join(dir, "nope")})
	if !errors.Is(err, ErrReadSource) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want ErrReadSource wrapping fs.ErrNotExist", err)
	}
}

func TestReadSource(t *testing.T) {
	dir := writeFiles(t, map[string]string{"p.arith": "1 + 2"})

	got, err := readSource([]string{filepath.Join(dir, "p.arith")})
	if err != nil {
		t.Fatal(err)
	}

	if got != "1 + 2" {
		t.Errorf("readSource = %q", got)
	}

	_, err = readSource([]string{filepath.Join(dir, "missing")})
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("err = %v, want ErrReadSource", err)
	}
}

func TestReadSourceDefaultsToStdin(t *testing.T) {
	withStdin(t, "def x = 3; x")

	got, err := readSource(nil)
	if err != nil {
		t.Fatal(err)
	}

	if got != "def x = 3; x" {
		t.Errorf("readSource(nil) = %q", got)
	}
}

func TestOutputDefaults(t *testing.T) {
	out, errOut := outputFrom(context.Background())
	if out != os.Stdout || errOut != os.Stderr {
		t.Error("outputFrom should default to os.Stdout and os.Stderr")
	}

	var a, b bytes.Buffer

	out, errOut = outputFrom(WithOutput(context.Background(), &a, &b))
	if out != &a || errOut != &b {
		t.Error("outputFrom should return the writers from WithOutput")
	}
}
