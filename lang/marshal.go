package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler using [Program.ToMap].
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts p to nested maps and slices of native values:
//
//	{"definitions": [{"name": n, "value": node}...], "result": node}
//
// where node is one of
//
//	{"literal": v}
//	{"reference": name}
//	{"binary": {"op": "+", "left": node, "right": node}}
//
// Non-finite literal values are rendered as strings ("+Inf", "-Inf", "NaN").
func (p *Program) ToMap() map[string]any {
	if p == nil {
		return nil
	}

	defs := make([]any, 0, len(p.Definitions))

	for _, def := range p.Definitions {
		defs = append(defs, map[string]any{
			"name":  def.Name,
			"value": ExprToMap(def.Value),
		})
	}

	return map[string]any{
		"definitions": defs,
		"result":      ExprToMap(p.Result),
	}
}

// ExprToMap converts a single expression as described by [Program.ToMap].
// Nil or unknown nodes yield nil.
func ExprToMap(e Expr) map[string]any {
	switch n := e.(type) {
	case *Literal:
		if n == nil {
			return nil
		}

		if math.IsInf(n.Value, 0) || math.IsNaN(n.Value) {
			return map[string]any{"literal": FormatValue(n.Value)}
		}

		return map[string]any{"literal": n.Value}

	case *Reference:
		if n == nil {
			return nil
		}

		return map[string]any{"reference": n.Name}

	case *Binary:
		if n == nil {
			return nil
		}

		return map[string]any{"binary": map[string]any{
			"op":    n.Op.String(),
			"left":  ExprToMap(n.Left),
			"right": ExprToMap(n.Right),
		}}

	default:
		return nil
	}
}
