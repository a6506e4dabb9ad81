package ast

import (
	"testing"

	"approxc/internal/source"
)

func TestArenaOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("id 0 must be nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 {
		t.Fatalf("unexpected allocation %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range id must be nil")
	}
}

func TestTypeChainAndPayloadAccess(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	base := b.Types.NewBase(source.Span{}, true, TypeBaseData{Base: BaseInt})
	ptr := b.Types.NewPointer(source.Span{}, false, base)

	if _, ok := b.Types.Base(ptr); ok {
		t.Fatalf("pointer must not expose base payload")
	}
	p, ok := b.Types.Pointer(ptr)
	if !ok || p.Elem != base {
		t.Fatalf("pointer elem mismatch")
	}
	if !b.Types.Get(base).Approx || b.Types.Get(ptr).Approx {
		t.Fatalf("qualifier placement mismatch")
	}

	plain := b.Types.NewBase(source.Span{}, false, TypeBaseData{Base: BaseFloat})
	q := b.Types.WithApprox(plain)
	if q == plain || !b.Types.Get(q).Approx || b.Types.Get(plain).Approx {
		t.Fatalf("WithApprox must copy the node")
	}
}

func TestExprAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewIdent(source.Span{}, b.Strings.Intern("x"))
	g := b.Exprs.NewGroup(source.Span{}, b.Exprs.NewGroup(source.Span{}, x))
	if b.Exprs.Unparen(g) != x {
		t.Fatalf("Unparen did not strip groups")
	}
	if _, ok := b.Exprs.Call(x); ok {
		t.Fatalf("ident is not a call")
	}
	e := b.Exprs.NewEscape(source.Span{}, EscapeDedorse, x)
	if d, ok := b.Exprs.Escape(e); !ok || d.Kind != EscapeDedorse || d.Value != x {
		t.Fatalf("escape payload mismatch")
	}
	if b.Name(b.Exprs.Idents.Get(1).Name) != "x" {
		t.Fatalf("interned name mismatch")
	}
}

func TestLabeledAndGotoPayloads(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	name := b.Strings.Intern("out")
	body := b.Stmts.NewSimple(StmtEmpty, source.Span{})
	lab := b.Stmts.NewLabeled(StmtLabel, source.Span{}, LabeledStmt{Label: name, Body: body})
	jmp := b.Stmts.NewGoto(source.Span{}, name)

	data, ok := b.Stmts.Labeled(lab)
	if !ok || data.Label != name || data.Body != body {
		t.Fatalf("labeled payload mismatch: %+v", data)
	}
	if _, ok := b.Stmts.Labeled(jmp); ok {
		t.Fatalf("goto must not expose a labeled payload")
	}
	g, ok := b.Stmts.Goto(jmp)
	if !ok || g.Label != name {
		t.Fatalf("goto payload mismatch")
	}
	if b.Stmts.Labels.Len() != 1 {
		t.Fatalf("expected one labeled payload, got %d", b.Stmts.Labels.Len())
	}
}
