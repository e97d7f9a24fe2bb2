package lang

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Lexer produces tokens from source text one at a time.
//
// After the first [EndOfInput] token, or the first error, every further call
// to [Lexer.Next] repeats it.
type Lexer struct {
	src  string
	err  error
	pos  Position
	done bool
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, pos: Position{Line: 1, Column: 1}}
}

// Tokenize returns every token of src, ending with exactly one
// [EndOfInput], or the first [*LexError].
func Tokenize(src string) ([]Token, error) {
	lx := NewLexer(src)
	toks := make([]Token, 0, len(src)/2+1)

	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == EndOfInput {
			return toks, nil
		}
	}
}

// Next returns the next token, skipping whitespace.
func (lx *Lexer) Next() (Token, error) {
	if lx.err != nil {
		return Token{}, lx.err
	}

	lx.skipSpace()

	if lx.done || lx.eof() {
		lx.done = true

		return Token{Kind: EndOfInput, Pos: lx.pos}, nil
	}

	start := lx.pos
	r, size := lx.peek()

	if kind, ok := punctuation[r]; ok {
		lx.advance(r, size)

		return Token{Kind: kind, Lexeme: string(r), Pos: start}, nil
	}

	if isDigit(r) {
		return lx.number(start), nil
	}

	if !isIdentRune(r, size) {
		return Token{}, lx.fail(start, r)
	}

	for !lx.eof() {
		r, size = lx.peek()
		if unicode.IsSpace(r) || isPunct(r) {
			break
		}

		if !isIdentRune(r, size) {
			return Token{}, lx.fail(lx.pos, r)
		}

		lx.advance(r, size)
	}

	return Token{
		Kind:   Identifier,
		Lexeme: lx.src[start.Offset:lx.pos.Offset],
		Pos:    start,
	}, nil
}

func (lx *Lexer) number(start Position) Token {
	lx.digits()

	// A fraction needs at least one digit after the point.
	if r, size := lx.peek(); r == '.' && lx.pos.Offset+size < len(lx.src) &&
		isDigit(rune(lx.src[lx.pos.Offset+size])) {
		lx.advance(r, size)
		lx.digits()
	}

	text := lx.src[start.Offset:lx.pos.Offset]

	// Out-of-range literals yield ±Inf with a range error, which is the value
	// we want.
	value, _ := strconv.ParseFloat(text, 64)

	return Token{Kind: Number, Lexeme: text, Value: value, Pos: start}
}

func (lx *Lexer) digits() {
	for !lx.eof() {
		r, size := lx.peek()
		if !isDigit(r) {
			return
		}

		lx.advance(r, size)
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.eof() {
		r, size := lx.peek()
		if !unicode.IsSpace(r) {
			return
		}

		lx.advance(r, size)
	}
}

func (lx *Lexer) fail(pos Position, r rune) error {
	lx.err = &LexError{Kind: UnrecognizedCharacter, Pos: pos, Char: r}

	return lx.err
}

func (lx *Lexer) eof() bool { return lx.pos.Offset >= len(lx.src) }

func (lx *Lexer) peek() (rune, int) {
	return utf8.DecodeRuneInString(lx.src[lx.pos.Offset:])
}

func (lx *Lexer) advance(r rune, size int) {
	lx.pos.Offset += size

	if r == '\n' {
		lx.pos.Line++
		lx.pos.Column = 1
	} else {
		lx.pos.Column++
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isPunct(r rune) bool {
	_, ok := punctuation[r]

	return ok
}

// isIdentRune reports whether the decoded rune r of width size may appear in
// an identifier, ignoring the digit and punctuation rules.
func isIdentRune(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size <= 1:
		return false
	case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
		return false
	default:
		return true
	}
}
