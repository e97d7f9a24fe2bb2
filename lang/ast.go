package lang

import "strconv"

// Expr is an expression node: one of [*Literal], [*Reference] or [*Binary].
//
// The set is closed; other packages cannot add node kinds.
type Expr interface {
	// Pos returns the position of the node's first token, or of the operator
	// for [*Binary].
	Pos() Position

	exprNode()
}

// Literal is a numeric constant.
//
// Text is the source lexeme and may be empty for literals built in code.
type Literal struct {
	Text  string
	Start Position
	Value float64
}

// Reference names an earlier definition.
type Reference struct {
	Name  string
	Start Position
}

// Binary applies Op to the values of Left and Right.
type Binary struct {
	Left  Expr
	Right Expr
	OpPos Position
	Op    Op
}

func (n *Literal) Pos() Position   { return n.Start }
func (n *Reference) Pos() Position { return n.Start }
func (n *Binary) Pos() Position    { return n.OpPos }

func (*Literal) exprNode()   {}
func (*Reference) exprNode() {}
func (*Binary) exprNode()    {}

// Op is a binary arithmetic operator.
type Op int

const (
	Add Op = iota + 1
	Sub
	Mul
	Div
)

var opSymbol = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/"}

// String returns the operator's source symbol.
func (op Op) String() string {
	if op < Add || op > Div {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}

	return opSymbol[op]
}

// Precedence returns the binding strength of op; higher binds tighter.
func (op Op) Precedence() int {
	switch op {
	case Add, Sub:
		return 1
	case Mul, Div:
		return 2
	default:
		return 0
	}
}

// opFor maps operator tokens to operators.
func opFor(k Kind) (Op, bool) {
	switch k {
	case Plus:
		return Add, true
	case Minus:
		return Sub, true
	case Star:
		return Mul, true
	case Slash:
		return Div, true
	default:
		return 0, false
	}
}

// Definition binds Name to the value of Value for the rest of the program.
//
// Start is the position of the "def" keyword.
type Definition struct {
	Value   Expr
	Name    string
	NamePos Position
	Start   Position
}

// Program is a sequence of definitions followed by the expression whose value
// is the program's result.
type Program struct {
	Result      Expr
	Definitions []Definition
}

// WithPrelude returns a new Program that evaluates defs before the
// definitions of p. Neither p nor defs is modified.
func (p *Program) WithPrelude(defs []Definition) *Program {
	if p == nil {
		return nil
	}

	out := &Program{
		Result:      p.Result,
		Definitions: make([]Definition, 0, len(defs)+len(p.Definitions)),
	}

	out.Definitions = append(out.Definitions, defs...)
	out.Definitions = append(out.Definitions, p.Definitions...)

	return out
}

// Equal reports whether a and b have the same structure, names and literal
// values, ignoring positions and literal text.
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case *Literal:
		b, ok := b.(*Literal)

		return ok && a != nil && b != nil &&
			(a.Value == b.Value || a.Value != a.Value && b.Value != b.Value)

	case *Reference:
		b, ok := b.(*Reference)

		return ok && a != nil && b != nil && a.Name == b.Name

	case *Binary:
		b, ok := b.(*Binary)

		return ok && a != nil && b != nil && a.Op == b.Op &&
			Equal(a.Left, b.Left) && Equal(a.Right, b.Right)

	default:
		return false
	}
}

// Equal reports whether p and q have structurally equal definitions and
// results. See [Equal].
func (p *Program) Equal(q *Program) bool {
	if p == nil || q == nil {
		return p == q
	}

	if len(p.Definitions) != len(q.Definitions) {
		return false
	}

	for i := range p.Definitions {
		if p.Definitions[i].Name != q.Definitions[i].Name ||
			!Equal(p.Definitions[i].Value, q.Definitions[i].Value) {
			return false
		}
	}

	return Equal(p.Result, q.Result)
}
