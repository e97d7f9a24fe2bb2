package lang

import "testing"

func TestEnvironment_DefineLookup(t *testing.T) {
	env := NewEnvironment()

	if _, ok := env.Lookup("a"); ok {
		t.Fatal("empty environment resolved a name")
	}

	env.Define("a", 1)
	env.Define("b", 2)
	env.Define("a", 3)

	if v, ok := env.Lookup("a"); !ok || v != 3 {
		t.Errorf("Lookup(a) = %v, %v, want newest binding 3", v, ok)
	}

	if v, ok := env.Lookup("b"); !ok || v != 2 {
		t.Errorf("Lookup(b) = %v, %v", v, ok)
	}

	if env.Len() != 3 {
		t.Errorf("Len() = %d, want 3", env.Len())
	}
}

func TestEnvironment_AllInOrder(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", 1)
	env.Define("y", 2)
	env.Define("x", 3)

	type pair struct {
		name  string
		value float64
	}

	var got []pair
	for name, value := range env.All() {
		got = append(got, pair{name, value})
	}

	want := []pair{{"x", 1}, {"y", 2}, {"x", 3}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	for range env.All() {
		break
	}
}

func TestEnvironment_Nil(t *testing.T) {
	var env *Environment

	if _, ok := env.Lookup("a"); ok {
		t.Error("nil environment resolved a name")
	}

	if env.Len() != 0 {
		t.Error("nil environment has entries")
	}

	for range env.All() {
		t.Error("nil environment yielded an entry")
	}
}
