package ast

import (
	"approxc/internal/source"
)

// TypeExprKind — форма узла синтаксиса типа. Декларатор разворачивается в
// цепочку: Pointer/Array/Func ссылаются на Elem, в самом низу — Base.
type TypeExprKind uint8

const (
	TypeExprBase TypeExprKind = iota
	TypeExprPointer
	TypeExprArray
	TypeExprFunc
)

// BaseKind is the arithmetic or named part of a specifier list.
type BaseKind uint8

const (
	BaseVoid BaseKind = iota
	BaseChar
	BaseShort
	BaseInt
	BaseLong
	BaseLongLong
	BaseFloat
	BaseDouble
	BaseLongDouble
	BaseBool
	BaseStruct
	BaseUnion
	BaseEnum
	BaseTypedefName
)

// TypeExpr is one level of a declared type. Approx is the qualifier written
// at this level: in the specifier list for Base, after '*' for Pointer.
type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Approx  bool
	Payload PayloadID
}

type TypeBaseData struct {
	Base     BaseKind
	Unsigned bool
	// Name is the struct/union/enum tag or the typedef name.
	Name   source.StringID
	Record RecordID // body, when defined at this spot
	Enum   EnumID
}

type TypePointerData struct {
	Elem TypeID
}

type TypeArrayData struct {
	Elem TypeID
	Len  ExprID // NoExprID for []
}

type TypeFuncData struct {
	Result   TypeID
	Params   []ParamID
	Variadic bool
	// Unspecified marks the old-style empty list `f()`.
	Unspecified bool
}

type TypeExprs struct {
	Arena    *Arena[TypeExpr]
	Bases    *Arena[TypeBaseData]
	Pointers *Arena[TypePointerData]
	Arrays   *Arena[TypeArrayData]
	Funcs    *Arena[TypeFuncData]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &TypeExprs{
		Arena:    NewArena[TypeExpr](capHint),
		Bases:    NewArena[TypeBaseData](capHint),
		Pointers: NewArena[TypePointerData](capHint),
		Arrays:   NewArena[TypeArrayData](capHint >> 2),
		Funcs:    NewArena[TypeFuncData](capHint >> 2),
	}
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *TypeExprs) new(kind TypeExprKind, sp source.Span, approx bool, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: kind, Span: sp, Approx: approx, Payload: PayloadID(payload)}))
}

func (t *TypeExprs) NewBase(sp source.Span, approx bool, data TypeBaseData) TypeID {
	return t.new(TypeExprBase, sp, approx, t.Bases.Allocate(data))
}

func (t *TypeExprs) Base(id TypeID) (*TypeBaseData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprBase {
		return nil, false
	}
	return t.Bases.Get(uint32(te.Payload)), true
}

func (t *TypeExprs) NewPointer(sp source.Span, approx bool, elem TypeID) TypeID {
	return t.new(TypeExprPointer, sp, approx, t.Pointers.Allocate(TypePointerData{Elem: elem}))
}

func (t *TypeExprs) Pointer(id TypeID) (*TypePointerData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprPointer {
		return nil, false
	}
	return t.Pointers.Get(uint32(te.Payload)), true
}

// NewArray: массив не несёт собственного квалификатора, он берётся у элемента.
func (t *TypeExprs) NewArray(sp source.Span, elem TypeID, length ExprID) TypeID {
	return t.new(TypeExprArray, sp, false, t.Arrays.Allocate(TypeArrayData{Elem: elem, Len: length}))
}

func (t *TypeExprs) Array(id TypeID) (*TypeArrayData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprArray {
		return nil, false
	}
	return t.Arrays.Get(uint32(te.Payload)), true
}

func (t *TypeExprs) NewFunc(sp source.Span, data TypeFuncData) TypeID {
	return t.new(TypeExprFunc, sp, false, t.Funcs.Allocate(data))
}

func (t *TypeExprs) Func(id TypeID) (*TypeFuncData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprFunc {
		return nil, false
	}
	return t.Funcs.Get(uint32(te.Payload)), true
}

// WithApprox returns a copy of the node id with the qualifier set. Used when a
// typedef'd or shared base gets an extra APPROX in a later specifier list.
func (t *TypeExprs) WithApprox(id TypeID) TypeID {
	te := t.Get(id)
	if te == nil || te.Approx {
		return id
	}
	cp := *te
	cp.Approx = true
	return TypeID(t.Arena.Allocate(cp))
}
