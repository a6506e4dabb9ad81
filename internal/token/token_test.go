package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		ok   bool
	}{
		{"APPROX", KwApprox, true},
		{"ENDORSE", KwEndorse, true},
		{"DEDORSE", KwDedorse, true},
		{"approx", Invalid, false}, // регистр важен
		{"int", KwInt, true},
		{"_Bool", KwBool, true},
		{"main", Invalid, false},
	}
	for _, tt := range tests {
		got, ok := LookupKeyword(tt.text)
		if ok != tt.ok || (ok && got != tt.kind) {
			t.Fatalf("%q: expected (%v,%v), got (%v,%v)", tt.text, tt.kind, tt.ok, got, ok)
		}
	}
}

func TestKindClassifiers(t *testing.T) {
	if !(Token{Kind: KwApprox}).IsDeclQualifier() {
		t.Fatalf("APPROX must be a declaration qualifier")
	}
	if !(Token{Kind: KwUnsigned}).IsTypeSpecifier() {
		t.Fatalf("unsigned must be a type specifier")
	}
	if (Token{Kind: KwReturn}).IsTypeSpecifier() {
		t.Fatalf("return is not a type specifier")
	}
	if !(Token{Kind: ShrAssign}).IsAssignOp() || (Token{Kind: EqEq}).IsAssignOp() {
		t.Fatalf("assignment classifier is wrong")
	}
	for k := Invalid; k <= RBracket; k++ {
		if k.String() == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}
