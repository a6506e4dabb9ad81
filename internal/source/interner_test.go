package source

import "testing"

func TestInternerStableIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern("x")
	b := in.Intern("y")
	if a == b || a == NoStringID {
		t.Fatalf("expected distinct non-zero ids, got %d and %d", a, b)
	}
	if again := in.Intern("x"); again != a {
		t.Fatalf("expected stable id %d, got %d", a, again)
	}
	if s := in.MustLookup(b); s != "y" {
		t.Fatalf("expected y, got %q", s)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("expected lookup of unknown id to fail")
	}
}
