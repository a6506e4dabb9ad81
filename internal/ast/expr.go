package ast

import (
	"approxc/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLit
	ExprBinary
	ExprUnary
	ExprAssign
	ExprCall
	ExprIndex
	ExprMember
	ExprCast
	ExprSizeofType
	ExprTernary
	ExprGroup
	// ExprEscape is ENDORSE(e) or DEDORSE(e).
	ExprEscape
	ExprInitList
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitChar
	ExprLitString
)

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod

	// Битовые
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryShiftRight

	// Логические
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr

	// Сравнения
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq

	ExprBinaryComma

	// ExprBinaryNone marks a plain `=` in ExprAssignData.
	ExprBinaryNone
)

var binaryOpText = [...]string{
	ExprBinaryAdd: "+", ExprBinarySub: "-", ExprBinaryMul: "*", ExprBinaryDiv: "/", ExprBinaryMod: "%",
	ExprBinaryBitAnd: "&", ExprBinaryBitOr: "|", ExprBinaryBitXor: "^",
	ExprBinaryShiftLeft: "<<", ExprBinaryShiftRight: ">>",
	ExprBinaryLogicalAnd: "&&", ExprBinaryLogicalOr: "||",
	ExprBinaryEq: "==", ExprBinaryNotEq: "!=", ExprBinaryLess: "<", ExprBinaryLessEq: "<=",
	ExprBinaryGreater: ">", ExprBinaryGreaterEq: ">=",
	ExprBinaryComma: ",", ExprBinaryNone: "",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsComparison reports relational and equality operators.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq && op <= ExprBinaryGreaterEq
}

// IsLogical reports && and ||.
func (op ExprBinaryOp) IsLogical() bool {
	return op == ExprBinaryLogicalAnd || op == ExprBinaryLogicalOr
}

type ExprUnaryOp uint8

const (
	ExprUnaryPlus ExprUnaryOp = iota
	ExprUnaryMinus
	ExprUnaryNot
	ExprUnaryBitNot
	ExprUnaryDeref
	ExprUnaryAddr
	ExprUnaryPreInc
	ExprUnaryPreDec
	ExprUnaryPostInc
	ExprUnaryPostDec
	ExprUnarySizeof
)

var unaryOpText = [...]string{
	ExprUnaryPlus: "+", ExprUnaryMinus: "-", ExprUnaryNot: "!", ExprUnaryBitNot: "~",
	ExprUnaryDeref: "*", ExprUnaryAddr: "&", ExprUnaryPreInc: "++", ExprUnaryPreDec: "--",
	ExprUnaryPostInc: "++", ExprUnaryPostDec: "--", ExprUnarySizeof: "sizeof",
}

func (op ExprUnaryOp) String() string {
	if int(op) < len(unaryOpText) {
		return unaryOpText[op]
	}
	return "?"
}

// IsIncDec reports ++ and -- in either position.
func (op ExprUnaryOp) IsIncDec() bool {
	return op >= ExprUnaryPreInc && op <= ExprUnaryPostDec
}

type EscapeKind uint8

const (
	EscapeEndorse EscapeKind = iota
	EscapeDedorse
)

func (k EscapeKind) String() string {
	if k == EscapeDedorse {
		return "DEDORSE"
	}
	return "ENDORSE"
}

type ExprIdentData struct {
	Name source.StringID
}

type ExprLiteralData struct {
	Kind ExprLitKind
	Text string
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// ExprAssignData: Op is ExprBinaryNone for `=`, otherwise the compound operator.
type ExprAssignData struct {
	Op     ExprBinaryOp
	Target ExprID
	Value  ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprMemberData struct {
	Target ExprID
	Field  source.StringID
	Arrow  bool
}

type ExprCastData struct {
	Type  TypeID
	Value ExprID
}

type ExprSizeofTypeData struct {
	Type TypeID
}

type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprEscapeData struct {
	Kind  EscapeKind
	Value ExprID
}

type ExprInitListData struct {
	Elems []ExprID
}
