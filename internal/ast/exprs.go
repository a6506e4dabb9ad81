package ast

import (
	"approxc/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Idents    *Arena[ExprIdentData]
	Literals  *Arena[ExprLiteralData]
	Binaries  *Arena[ExprBinaryData]
	Unaries   *Arena[ExprUnaryData]
	Assigns   *Arena[ExprAssignData]
	Calls     *Arena[ExprCallData]
	Indices   *Arena[ExprIndexData]
	Members   *Arena[ExprMemberData]
	Casts     *Arena[ExprCastData]
	Sizeofs   *Arena[ExprSizeofTypeData]
	Ternaries *Arena[ExprTernaryData]
	Groups    *Arena[ExprGroupData]
	Escapes   *Arena[ExprEscapeData]
	InitLists *Arena[ExprInitListData]
}

// NewExprs creates per-kind arenas; capHint 0 means 1<<8.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint >> 3
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Idents:    NewArena[ExprIdentData](capHint),
		Literals:  NewArena[ExprLiteralData](capHint),
		Binaries:  NewArena[ExprBinaryData](capHint),
		Unaries:   NewArena[ExprUnaryData](small),
		Assigns:   NewArena[ExprAssignData](small),
		Calls:     NewArena[ExprCallData](small),
		Indices:   NewArena[ExprIndexData](small),
		Members:   NewArena[ExprMemberData](small),
		Casts:     NewArena[ExprCastData](small),
		Sizeofs:   NewArena[ExprSizeofTypeData](small),
		Ternaries: NewArena[ExprTernaryData](small),
		Groups:    NewArena[ExprGroupData](small),
		Escapes:   NewArena[ExprEscapeData](small),
		InitLists: NewArena[ExprInitListData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, text string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: kind, Text: text}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewAssign(span source.Span, op ExprBinaryOp, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Op: op, Target: target, Value: value}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Target: target, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

func (e *Exprs) NewMember(span source.Span, target ExprID, field source.StringID, arrow bool) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(ExprMemberData{Target: target, Field: field, Arrow: arrow}))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

func (e *Exprs) NewCast(span source.Span, typ TypeID, value ExprID) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(ExprCastData{Type: typ, Value: value}))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	p, ok := e.payload(id, ExprCast)
	if !ok {
		return nil, false
	}
	return e.Casts.Get(p), true
}

func (e *Exprs) NewSizeofType(span source.Span, typ TypeID) ExprID {
	return e.new(ExprSizeofType, span, e.Sizeofs.Allocate(ExprSizeofTypeData{Type: typ}))
}

func (e *Exprs) SizeofType(id ExprID) (*ExprSizeofTypeData, bool) {
	p, ok := e.payload(id, ExprSizeofType)
	if !ok {
		return nil, false
	}
	return e.Sizeofs.Get(p), true
}

func (e *Exprs) NewTernary(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprTernary, span, e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	if !ok {
		return nil, false
	}
	return e.Ternaries.Get(p), true
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(p), true
}

func (e *Exprs) NewEscape(span source.Span, kind EscapeKind, value ExprID) ExprID {
	return e.new(ExprEscape, span, e.Escapes.Allocate(ExprEscapeData{Kind: kind, Value: value}))
}

func (e *Exprs) Escape(id ExprID) (*ExprEscapeData, bool) {
	p, ok := e.payload(id, ExprEscape)
	if !ok {
		return nil, false
	}
	return e.Escapes.Get(p), true
}

func (e *Exprs) NewInitList(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprInitList, span, e.InitLists.Allocate(ExprInitListData{Elems: elems}))
}

func (e *Exprs) InitList(id ExprID) (*ExprInitListData, bool) {
	p, ok := e.payload(id, ExprInitList)
	if !ok {
		return nil, false
	}
	return e.InitLists.Get(p), true
}

// Unparen strips grouping parentheses.
func (e *Exprs) Unparen(id ExprID) ExprID {
	for {
		g, ok := e.Group(id)
		if !ok {
			return id
		}
		id = g.Inner
	}
}
