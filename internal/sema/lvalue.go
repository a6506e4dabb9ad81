package sema

import (
	"fmt"

	"approxc/internal/ast"
	"approxc/internal/diag"
)

// requireLvalue reports an operand that does not designate storage.
// ENDORSE/DEDORSE results are values: writing through them or taking their
// address would relax the qualifier of the underlying object.
func (tc *typeChecker) requireLvalue(id ast.ExprID, action string) bool {
	if tc.isLvalue(id, action == "take the address of") {
		return true
	}
	msg := fmt.Sprintf("cannot %s this expression: it does not designate an object", action)
	b := diag.ReportError(tc.reporter, diag.SemaNotAssignable, tc.exprSpan(id), msg)
	if _, ok := tc.builder.Exprs.Escape(tc.builder.Exprs.Unparen(id)); ok {
		b = b.WithNote(tc.exprSpan(id), "ENDORSE and DEDORSE produce values; apply them to the value being read")
	}
	b.Emit()
	return false
}

func (tc *typeChecker) isLvalue(id ast.ExprID, addrOf bool) bool {
	ex := tc.builder.Exprs
	id = ex.Unparen(id)
	expr := ex.Get(id)
	if expr == nil {
		return true
	}
	switch expr.Kind {
	case ast.ExprIdent:
		symID, ok := tc.result.Refs[id]
		if !ok {
			// необъявленный идентификатор уже получил свою ошибку
			return true
		}
		switch tc.result.Symbols[symID].Kind {
		case SymbolEnumConst:
			return false
		case SymbolFunc:
			return addrOf
		}
		return true
	case ast.ExprIndex:
		return true
	case ast.ExprUnary:
		data, _ := ex.Unary(id)
		return data.Op == ast.ExprUnaryDeref
	case ast.ExprMember:
		data, _ := ex.Member(id)
		return data.Arrow || tc.isLvalue(data.Target, addrOf)
	case ast.ExprLit:
		data, _ := ex.Literal(id)
		return addrOf && data.Kind == ast.ExprLitString
	}
	return false
}
