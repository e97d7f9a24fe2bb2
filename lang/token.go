package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"strconv"
)

// Position locates a rune in source text.
//
// Offset is a 0-based byte offset. Line and Column are 1-based; Column counts
// runes, not bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", p.Offset),
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	EndOfInput Kind = iota // end of input
	Number                 // number
	Identifier             // identifier
	Def                    // def
	Plus                   // +
	Minus                  // -
	Star                   // *
	Slash                  // /
	Equals                 // =
	Semicolon              // ;
	LParen                 // (
	RParen                 // )
)

// punctuation maps each single-rune token to its kind.
var punctuation = map[rune]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'=': Equals,
	';': Semicolon,
	'(': LParen,
	')': RParen,
}

// Token is one lexical unit.
//
// Value holds the converted numeric value of a [Number] token and is zero for
// every other kind.
type Token struct {
	Lexeme string
	Pos    Position
	Value  float64
	Kind   Kind
}

// String returns the token's source text, or "end of input".
func (t Token) String() string {
	if t.Kind == EndOfInput {
		return t.Kind.String()
	}

	return t.Lexeme
}

// describe renders t for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case EndOfInput:
		return t.Kind.String()
	case Number, Identifier:
		return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
	default:
		return strconv.Quote(t.Lexeme)
	}
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("lexeme", t.Lexeme),
		slog.String("pos", t.Pos.String()),
	)
}
