package lang

import "iter"

// binding is one Environment entry.
type binding struct {
	name  string
	value float64
}

// Environment maps names to values in insertion order.
//
// Entries are never reassigned. Defining a name again appends a new entry
// that shadows the earlier one for later lookups.
type Environment struct {
	entries []binding
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment { return &Environment{} }

// Define appends a binding of name to value.
func (e *Environment) Define(name string, value float64) {
	e.entries = append(e.entries, binding{name: name, value: value})
}

// Lookup returns the most recent value bound to name.
func (e *Environment) Lookup(name string) (float64, bool) {
	if e == nil {
		return 0, false
	}

	for i := len(e.entries) - 1; i >= 0; i-- {
		if e.entries[i].name == name {
			return e.entries[i].value, true
		}
	}

	return 0, false
}

// Len returns the number of bindings, shadowed ones included.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}

	return len(e.entries)
}

// All returns an iterator over every binding in insertion order, shadowed
// ones included.
func (e *Environment) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		if e == nil {
			return
		}

		for _, b := range e.entries {
			if !yield(b.name, b.value) {
				return
			}
		}
	}
}
