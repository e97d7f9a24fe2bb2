package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	outputKey struct{}
	output    struct{ out, err io.Writer }
)

// WithOutput returns a new context.Context directing command results to out
// and diagnostics to errOut. Commands use os.Stdout and os.Stderr otherwise.
func WithOutput(ctx context.Context, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, output{out: out, err: errOut})
}

func outputFrom(ctx context.Context) (out, errOut io.Writer) {
	o, _ := ctx.Value(outputKey{}).(output)

	out, errOut = o.out, o.err
	if out == nil {
		out = os.Stdout
	}

	if errOut == nil {
		errOut = os.Stderr
	}

	return out, errOut
}

// stdinSource names standard input in a list of source paths.
const stdinSource = "-"

// sourceSeparator is inserted between consecutive sources.
const sourceSeparator = "\n"

// sourceSet is the inputs of one command. A file named more than once, even
// through a symlink or a different relative path, is kept once. Standard
// input is read after every file.
type sourceSet struct {
	files []*os.File
	infos []os.FileInfo
	stdin bool
}

// openSources opens every path in order. A path that cannot be opened closes
// the files already open and is reported with [ErrReadSource].
func openSources(paths []string) (*sourceSet, error) {
	var (
		s     sourceSet
		stdin os.FileInfo
	)

	if fi, err := os.Stdin.Stat(); err == nil {
		stdin = fi
	}

	for _, path := range paths {
		if path == stdinSource {
			s.stdin = true

			continue
		}

		if err := s.open(path, stdin); err != nil {
			return nil, errors.Join(
				ErrReadSource.Wrap(err).With(slog.String("path", path)),
				s.Close(),
			)
		}
	}

	return &s, nil
}

func (s *sourceSet) open(path string, stdin os.FileInfo) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	fi, err := f.Stat()
	if err != nil {
		return errors.Join(err, f.Close())
	}

	if stdin != nil && os.SameFile(fi, stdin) {
		s.stdin = true

		return f.Close()
	}

	if slices.ContainsFunc(s.infos, func(seen os.FileInfo) bool {
		return os.SameFile(seen, fi)
	}) {
		return f.Close()
	}

	s.files = append(s.files, f)
	s.infos = append(s.infos, fi)

	return nil
}

// reader returns every source in order, separated by a newline so a token
// never spans two sources.
func (s *sourceSet) reader() io.Reader {
	rs := make([]io.Reader, 0, len(s.files)+1)
	for _, f := range s.files {
		rs = append(rs, f)
	}

	if s.stdin {
		rs = append(rs, os.Stdin)
	}

	if len(rs) < 2 {
		return io.MultiReader(rs...)
	}

	joined := make([]io.Reader, 0, 2*len(rs)-1)
	for i, r := range rs {
		if i > 0 {
			joined = append(joined, strings.NewReader(sourceSeparator))
		}

		joined = append(joined, r)
	}

	return io.MultiReader(joined...)
}

// Close closes every opened file. Standard input is left open.
func (s *sourceSet) Close() error {
	errs := make([]error, len(s.files))
	for i, f := range s.files {
		errs[i] = f.Close()
	}

	return errors.Join(errs...)
}

// readSource returns the concatenated contents of paths, or of stdin when
// paths is empty.
func readSource(paths []string) (string, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	src, err := openSources(paths)
	if err != nil {
		return "", err
	}

	defer src.Close()

	var b strings.Builder

	if _, err := io.Copy(&b, src.reader()); err != nil {
		return "", ErrReadSource.Wrap(err).With(slog.Any("paths", paths))
	}

	return b.String(), nil
}
