package token

import (
	"approxc/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, char, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, CharLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwApprox && t.Kind <= KwSizeof
}

// IsTypeSpecifier reports whether the token starts or continues a base type.
func (t Token) IsTypeSpecifier() bool {
	return t.Kind >= KwVoid && t.Kind <= KwEnum
}

// IsDeclQualifier reports storage classes and qualifiers that may appear in
// a declaration specifier list.
func (t Token) IsDeclQualifier() bool {
	return t.Kind == KwApprox || (t.Kind >= KwTypedef && t.Kind <= KwRestrict)
}

// IsAssignOp reports simple and compound assignment operators.
func (t Token) IsAssignOp() bool {
	return t.Kind >= Assign && t.Kind <= ShrAssign
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
