package types

import (
	"fmt"

	"approxc/internal/qual"
)

// TypeID uniquely identifies a qualified type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindInt
	KindUint
	KindFloat
	KindEnum
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindFn
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindEnum:
		return "enum"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindFn:
		return "fn"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	// Width128 stands for long double regardless of the target's real size.
	Width128 Width = 128
)

// ArrayUnknownLength marks T[] and arrays whose length is not a literal.
const ArrayUnknownLength = ^uint32(0)

// Type is a compact descriptor of a qualified type. Qual is the qualifier of
// the value itself; for arrays it mirrors the element qualifier.
type Type struct {
	Kind    Kind
	Qual    qual.Qualifier
	Elem    TypeID
	Count   uint32
	Width   Width
	Payload uint32 // struct/union/fn/enum slot
}

// Descriptor helpers ---------------------------------------------------------

func MakeInt(width Width, q qual.Qualifier) Type {
	return Type{Kind: KindInt, Width: width, Qual: q}
}

func MakeUint(width Width, q qual.Qualifier) Type {
	return Type{Kind: KindUint, Width: width, Qual: q}
}

func MakeFloat(width Width, q qual.Qualifier) Type {
	return Type{Kind: KindFloat, Width: width, Qual: q}
}

// MakePointer describes a pointer; q qualifies the pointer value, the pointee
// qualifier lives in elem.
func MakePointer(elem TypeID, q qual.Qualifier) Type {
	return Type{Kind: KindPointer, Elem: elem, Qual: q}
}

// IsArithmetic reports integer, enum, bool and floating kinds.
func (t Type) IsArithmetic() bool {
	switch t.Kind {
	case KindBool, KindInt, KindUint, KindFloat, KindEnum:
		return true
	}
	return false
}

// IsScalar reports arithmetic and pointer kinds.
func (t Type) IsScalar() bool {
	return t.IsArithmetic() || t.Kind == KindPointer
}

// IsIndirect reports kinds with a pointee: pointers and arrays.
func (t Type) IsIndirect() bool {
	return t.Kind == KindPointer || t.Kind == KindArray
}

// IsAggregate reports struct and union kinds.
func (t Type) IsAggregate() bool {
	return t.Kind == KindStruct || t.Kind == KindUnion
}
