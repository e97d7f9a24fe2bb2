package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/ardnew/arith/log"
)

// Parse tokenizes and parses src into a [Program].
//
// The error, if any, is a [*LexError] or a [*ParseError].
func Parse(ctx context.Context, src string, opts ...Option) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	return ParseTokens(ctx, toks, opts...)
}

// ParseReader reads all of r and parses it with [Parse].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// ParseTokens parses a token sequence into a [Program].
//
// Tokens after the first [EndOfInput] are ignored; one is synthesized if the
// sequence lacks it. The caller's slice is not modified.
func ParseTokens(
	ctx context.Context,
	toks []Token,
	opts ...Option,
) (*Program, error) {
	p := newParser(ctx, toks, opts...)

	defs, err := p.definitions()
	if err != nil {
		return nil, err
	}

	result, err := p.expression()
	if err != nil {
		return nil, err
	}

	if err := p.end(); err != nil {
		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("tokens", len(p.toks)),
		slog.Int("definitions", len(defs)),
	)

	return &Program{Definitions: defs, Result: result}, nil
}

// ParseDefinitions parses src as a sequence of definitions with no final
// expression, such as a prelude file.
func ParseDefinitions(
	ctx context.Context,
	src string,
	opts ...Option,
) ([]Definition, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := newParser(ctx, toks, opts...)

	defs, err := p.definitions()
	if err != nil {
		return nil, err
	}

	if err := p.end(); err != nil {
		return nil, err
	}

	p.logger.TraceContext(ctx, "parse definitions complete",
		slog.Int("definitions", len(defs)),
	)

	return defs, nil
}

// parser holds the parser state.
type parser struct {
	ctx    context.Context
	logger log.Logger
	toks   []Token
	pos    int
}

func newParser(ctx context.Context, toks []Token, opts ...Option) *parser {
	o := makeOptions(opts...)

	return &parser{
		ctx:    ctx,
		logger: o.logger,
		toks:   terminate(toks),
	}
}

// terminate returns a copy of toks cut after its first EndOfInput, adding one
// after the last token when none is present.
func terminate(toks []Token) []Token {
	for i, tok := range toks {
		if tok.Kind == EndOfInput {
			return append([]Token(nil), toks[:i+1]...)
		}
	}

	end := Position{Line: 1, Column: 1}

	if n := len(toks); n > 0 {
		last := toks[n-1]
		end = Position{
			Offset: last.Pos.Offset + len(last.Lexeme),
			Line:   last.Pos.Line,
			Column: last.Pos.Column + utf8.RuneCountInString(last.Lexeme),
		}
	}

	out := make([]Token, len(toks), len(toks)+1)
	copy(out, toks)

	return append(out, Token{Kind: EndOfInput, Pos: end})
}

// definitions parses definition* while the next statement starts with "def".
func (p *parser) definitions() ([]Definition, error) {
	var defs []Definition

	for p.atDefinition() {
		def, err := p.definition()
		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// atDefinition reports whether the statement at the cursor is a definition.
// "def" is reserved only here; elsewhere it is an ordinary identifier.
func (p *parser) atDefinition() bool {
	tok := p.peek()

	return tok.Kind == Def || (tok.Kind == Identifier && tok.Lexeme == "def")
}

// definition parses: "def" identifier "=" expression ";".
func (p *parser) definition() (Definition, error) {
	kw := p.next()
	kw.Kind = Def
	p.toks[p.pos-1] = kw

	name, err := p.expect(Identifier, Identifier.String())
	if err != nil {
		return Definition{}, err
	}

	if _, err := p.expect(Equals, strconv.Quote(Equals.String())); err != nil {
		return Definition{}, err
	}

	value, err := p.expression()
	if err != nil {
		return Definition{}, err
	}

	if _, err := p.expect(Semicolon, strconv.Quote(Semicolon.String())); err != nil {
		return Definition{}, err
	}

	p.logger.TraceContext(p.ctx, "definition",
		slog.String("name", name.Lexeme),
		slog.String("pos", kw.Pos.String()),
	)

	return Definition{
		Name:    name.Lexeme,
		NamePos: name.Pos,
		Value:   value,
		Start:   kw.Pos,
	}, nil
}

func (p *parser) expression() (Expr, error) { return p.term() }

// term parses: factor (("+" | "-") factor)*, folding left.
func (p *parser) term() (Expr, error) {
	return p.chain(p.factor, Plus, Minus)
}

// factor parses: primary (("*" | "/") primary)*, folding left.
func (p *parser) factor() (Expr, error) {
	return p.chain(p.primary, Star, Slash)
}

func (p *parser) chain(operand func() (Expr, error), ops ...Kind) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if !tok.Kind.in(ops...) {
			return left, nil
		}

		p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		op, _ := opFor(tok.Kind)
		left = &Binary{Op: op, Left: left, Right: right, OpPos: tok.Pos}
	}
}

// primary parses: Number | identifier | "(" expression ")".
func (p *parser) primary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case Number:
		p.next()

		return &Literal{Value: tok.Value, Text: tok.Lexeme, Start: tok.Pos}, nil

	case Identifier:
		p.next()

		return &Reference{Name: tok.Lexeme, Start: tok.Pos}, nil

	case LParen:
		p.next()

		inner, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(RParen, strconv.Quote(RParen.String())); err != nil {
			return nil, err
		}

		return inner, nil

	case EndOfInput:
		return nil, &ParseError{Kind: UnexpectedEndOfInput, Pos: tok.Pos}

	default:
		return nil, &ParseError{
			Kind:     ExpectedToken,
			Pos:      tok.Pos,
			Expected: "expression",
			Found:    tok,
		}
	}
}

// end requires the cursor to be at EndOfInput.
func (p *parser) end() error {
	if tok := p.peek(); tok.Kind != EndOfInput {
		return &ParseError{Kind: TrailingTokensAfterProgram, Pos: tok.Pos}
	}

	return nil
}

// expect consumes the next token if it has kind k. Otherwise it reports an
// ExpectedToken error naming want.
func (p *parser) expect(k Kind, want string) (Token, error) {
	tok := p.peek()
	if tok.Kind != k {
		return Token{}, &ParseError{
			Kind:     ExpectedToken,
			Pos:      tok.Pos,
			Expected: want,
			Found:    tok,
		}
	}

	return p.next(), nil
}

func (p *parser) peek() Token { return p.toks[p.pos] }

// next consumes and returns the next token. The final EndOfInput is never
// consumed.
func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return tok
}

func (k Kind) in(kinds ...Kind) bool {
	for _, c := range kinds {
		if k == c {
			return true
		}
	}

	return false
}
