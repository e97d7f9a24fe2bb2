package lang

//go:generate go tool stringer --linecomment --type ErrorKind --output errorkind_string.go

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrInvalidProgram = NewError("invalid program")
	ErrReadInput      = NewError("failed to read input")
	ErrFormatLiteral  = NewError("literal has no source form")
	ErrCompile        = NewError("expression compilation failed")
	ErrExecute        = NewError("compiled program failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an *Error, that one is returned.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error carrying the same message, so a
// sentinel matches every error derived from it with [Error.Wrap] or
// [Error.With].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ErrorKind classifies positioned errors from every stage.
type ErrorKind int

const (
	UnrecognizedCharacter      ErrorKind = iota + 1 // unrecognized character
	ExpectedToken                                   // expected token
	UnexpectedEndOfInput                            // unexpected end of input
	TrailingTokensAfterProgram                      // trailing tokens after program
	UndefinedIdentifier                             // undefined identifier
	DivisionByZero                                  // division by zero
)

// Stage returns the name of the pipeline stage that reports errors of kind k.
func (k ErrorKind) Stage() string {
	switch k {
	case UnrecognizedCharacter:
		return "lex"
	case ExpectedToken, UnexpectedEndOfInput, TrailingTokensAfterProgram:
		return "parse"
	case UndefinedIdentifier, DivisionByZero:
		return "eval"
	default:
		return "unknown"
	}
}

// Sentinels for use with errors.Is. Each matches every positioned error of
// the same kind regardless of position or detail.
var (
	ErrUnrecognizedCharacter error = &LexError{Kind: UnrecognizedCharacter}
	ErrExpectedToken         error = &ParseError{Kind: ExpectedToken}
	ErrUnexpectedEndOfInput  error = &ParseError{Kind: UnexpectedEndOfInput}
	ErrTrailingTokens        error = &ParseError{Kind: TrailingTokensAfterProgram}
	ErrUndefinedIdentifier   error = &EvalError{Kind: UndefinedIdentifier}
	ErrDivisionByZero        error = &EvalError{Kind: DivisionByZero}
)

// Positioned is implemented by every error that refers to a location in the
// source text.
type Positioned interface {
	error
	Position() Position
	ErrorKind() ErrorKind
}

// LexError reports a character the lexer cannot classify.
type LexError struct {
	Kind ErrorKind
	Pos  Position
	Char rune
}

func (e *LexError) Error() string {
	return e.Kind.String() + " " + quoteRune(e.Char) + " at " + e.Pos.String()
}

func (e *LexError) Position() Position   { return e.Pos }
func (e *LexError) ErrorKind() ErrorKind { return e.Kind }

func (e *LexError) Is(target error) bool { return sameKind(e.Kind, target) }

func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind.String()),
		slog.String("char", quoteRune(e.Char)),
		slog.Any("pos", e.Pos),
	)
}

// ParseError reports a grammar violation.
//
// Expected and Found are set for [ExpectedToken] only.
type ParseError struct {
	Kind     ErrorKind
	Pos      Position
	Expected string
	Found    Token
}

func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.Kind == ExpectedToken {
		b.WriteString(" ")
		b.WriteString(e.Expected)
		b.WriteString(", found ")
		b.WriteString(e.Found.describe())
	}

	b.WriteString(" at ")
	b.WriteString(e.Pos.String())

	return b.String()
}

func (e *ParseError) Position() Position   { return e.Pos }
func (e *ParseError) ErrorKind() ErrorKind { return e.Kind }

func (e *ParseError) Is(target error) bool { return sameKind(e.Kind, target) }

func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Any("pos", e.Pos),
	}

	if e.Kind == ExpectedToken {
		attrs = append(attrs,
			slog.String("expected", e.Expected),
			slog.String("found", e.Found.describe()),
		)
	}

	return slog.GroupValue(attrs...)
}

// EvalError reports a failure while computing a value.
//
// Name is set for [UndefinedIdentifier] only. For [DivisionByZero], Pos is
// the position of the division operator.
type EvalError struct {
	Kind ErrorKind
	Pos  Position
	Name string
}

func (e *EvalError) Error() string {
	if e.Kind == UndefinedIdentifier {
		return e.Kind.String() + " " + strconv.Quote(e.Name) + " at " + e.Pos.String()
	}

	return e.Kind.String() + " at " + e.Pos.String()
}

func (e *EvalError) Position() Position   { return e.Pos }
func (e *EvalError) ErrorKind() ErrorKind { return e.Kind }

func (e *EvalError) Is(target error) bool { return sameKind(e.Kind, target) }

func (e *EvalError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Any("pos", e.Pos),
	}

	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}

	return slog.GroupValue(attrs...)
}

func sameKind(kind ErrorKind, target error) bool {
	var t Positioned

	switch target := target.(type) {
	case *LexError:
		t = target
	case *ParseError:
		t = target
	case *EvalError:
		t = target
	default:
		return false
	}

	return t.ErrorKind() == kind
}

func quoteRune(r rune) string {
	if r == utf8.RuneError {
		return "invalid UTF-8"
	}

	return strconv.QuoteRune(r)
}

// FormatError renders err with a snippet of source pointing at the error
// position:
//
//	parse error at line 1, column 3: expected token ")", found end of input
//	  1 | (1+2
//	        ^
//
// Errors without a position are rendered with their Error method.
func FormatError(err error, source string) string {
	var pe Positioned
	if !errors.As(err, &pe) {
		if err == nil {
			return ""
		}

		return err.Error()
	}

	pos := pe.Position()

	var buf strings.Builder

	buf.WriteString(pe.ErrorKind().Stage())
	buf.WriteString(" error at line ")
	buf.WriteString(strconv.Itoa(pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(pos.Column))
	buf.WriteString(": ")
	buf.WriteString(detail(pe))
	buf.WriteByte('\n')

	lines := strings.Split(source, "\n")
	if pos.Line > 0 && pos.Line <= len(lines) {
		line := strings.TrimRight(lines[pos.Line-1], "\r")
		num := strconv.Itoa(pos.Line)

		buf.WriteString("  ")
		buf.WriteString(num)
		buf.WriteString(" | ")
		buf.WriteString(line)
		buf.WriteByte('\n')

		// 2 leading spaces + " | " (3 chars)
		buf.WriteString(strings.Repeat(" ", len(num)+5+max(pos.Column-1, 0)))
		buf.WriteString("^\n")
	}

	return buf.String()
}

// detail returns the message of pe without its trailing position.
func detail(pe Positioned) string {
	msg := pe.Error()

	return strings.TrimSuffix(msg, " at "+pe.Position().String())
}
