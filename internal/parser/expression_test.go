package parser

import (
	"testing"

	"approxc/internal/ast"
	"approxc/internal/diag"
)

// exprOf parses `void f(void) { <src>; }` and returns the expression of the first statement.
func exprOf(t *testing.T, decls, src string) (*ast.Builder, ast.ExprID) {
	t.Helper()
	b, file := mustParse(t, decls+"\nvoid f(void) { "+src+"; }")
	items := b.Files.Get(file).Items
	fi, _ := b.Items.Func(items[len(items)-1])
	body, _ := b.Stmts.Block(fi.Body)
	st, ok := b.Stmts.Expr(body.Stmts[0])
	if !ok {
		t.Fatalf("first statement is not an expression")
	}
	return b, st.Expr
}

func TestPrecedence(t *testing.T) {
	b, e := exprOf(t, "int a, c, d;", "a = c + d * 2 < 3 && d")
	as, ok := b.Exprs.Assign(e)
	if !ok || as.Op != ast.ExprBinaryNone {
		t.Fatalf("expected plain assignment")
	}
	and, ok := b.Exprs.Binary(as.Value)
	if !ok || and.Op != ast.ExprBinaryLogicalAnd {
		t.Fatalf("expected && at top of rhs")
	}
	lt, _ := b.Exprs.Binary(and.Left)
	if lt.Op != ast.ExprBinaryLess {
		t.Fatalf("expected <, got %v", lt.Op)
	}
	add, _ := b.Exprs.Binary(lt.Left)
	if add.Op != ast.ExprBinaryAdd {
		t.Fatalf("expected +, got %v", add.Op)
	}
	if mul, _ := b.Exprs.Binary(add.Right); mul.Op != ast.ExprBinaryMul {
		t.Fatalf("expected * under +")
	}
}

func TestCompoundAssignAndRightAssoc(t *testing.T) {
	b, e := exprOf(t, "int a, c;", "a += c = 1")
	outer, ok := b.Exprs.Assign(e)
	if !ok || outer.Op != ast.ExprBinaryAdd {
		t.Fatalf("expected +=")
	}
	if inner, ok := b.Exprs.Assign(outer.Value); !ok || inner.Op != ast.ExprBinaryNone {
		t.Fatalf("expected nested plain assignment")
	}
}

func TestEscapeCastSizeofTernary(t *testing.T) {
	b, e := exprOf(t, "APPROX int x; int y; typedef float real;",
		"y = ENDORSE(x) ? (int)DEDORSE(x) : sizeof(real) + sizeof y")
	as, _ := b.Exprs.Assign(e)
	tern, ok := b.Exprs.Ternary(as.Value)
	if !ok {
		t.Fatalf("expected ternary")
	}
	if esc, ok := b.Exprs.Escape(tern.Cond); !ok || esc.Kind != ast.EscapeEndorse {
		t.Fatalf("expected ENDORSE in condition")
	}
	cast, ok := b.Exprs.Cast(tern.Then)
	if !ok {
		t.Fatalf("expected cast")
	}
	if esc, ok := b.Exprs.Escape(cast.Value); !ok || esc.Kind != ast.EscapeDedorse {
		t.Fatalf("expected DEDORSE under cast")
	}
	sum, _ := b.Exprs.Binary(tern.Else)
	if _, ok := b.Exprs.SizeofType(sum.Left); !ok {
		t.Fatalf("expected sizeof(type)")
	}
	if u, ok := b.Exprs.Unary(sum.Right); !ok || u.Op != ast.ExprUnarySizeof {
		t.Fatalf("expected sizeof expr")
	}
}

func TestPostfixChain(t *testing.T) {
	b, e := exprOf(t, "struct s { int *v; } *sp; int i;", "sp->v[i]++")
	post, ok := b.Exprs.Unary(e)
	if !ok || post.Op != ast.ExprUnaryPostInc {
		t.Fatalf("expected postfix ++")
	}
	idx, ok := b.Exprs.Index(post.Operand)
	if !ok {
		t.Fatalf("expected index")
	}
	if m, ok := b.Exprs.Member(idx.Target); !ok || !m.Arrow || b.Name(m.Field) != "v" {
		t.Fatalf("expected ->v")
	}
}

func TestParenthesizedIsGroupNotCast(t *testing.T) {
	b, e := exprOf(t, "int a, c;", "(a)*c")
	bin, ok := b.Exprs.Binary(e)
	if !ok || bin.Op != ast.ExprBinaryMul {
		t.Fatalf("expected multiplication")
	}
	if _, ok := b.Exprs.Group(bin.Left); !ok {
		t.Fatalf("expected group on the left")
	}
}

func TestExpressionErrorRecovers(t *testing.T) {
	_, _, bag := parseSource(t, "void f(void) { int a; a = ; a = 1; return; }")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynExpectExpression {
		t.Fatalf("expected one SynExpectExpression, got %s", diagnosticsSummary(bag))
	}
}
