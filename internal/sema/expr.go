package sema

import (
	"fmt"
	"strings"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/types"
)

// checkExpr computes the qualified type of an expression, checking every
// nested flow on the way, and records it in ExprTypes.
func (tc *typeChecker) checkExpr(id ast.ExprID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	t := tc.exprType(id)
	tc.result.ExprTypes[id] = t
	return t
}

func (tc *typeChecker) exprType(id ast.ExprID) types.TypeID {
	b := tc.types.Builtins()
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return types.NoTypeID
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := tc.builder.Exprs.Ident(id)
		return tc.identType(id, tc.name(data.Name))

	case ast.ExprLit:
		data, _ := tc.builder.Exprs.Literal(id)
		return tc.literalType(data)

	case ast.ExprBinary:
		data, _ := tc.builder.Exprs.Binary(id)
		return tc.binaryType(data)

	case ast.ExprUnary:
		data, _ := tc.builder.Exprs.Unary(id)
		return tc.unaryType(id, data)

	case ast.ExprAssign:
		data, _ := tc.builder.Exprs.Assign(id)
		target := tc.checkExpr(data.Target)
		value := tc.checkExpr(data.Value)
		if !tc.requireLvalue(data.Target, "assign to") {
			return target
		}
		if data.Op == ast.ExprBinaryNone && tc.sameLvalue(data.Target, data.Value) {
			return target
		}
		construct := "assignment"
		if data.Op != ast.ExprBinaryNone {
			construct = "compound assignment '" + data.Op.String() + "='"
		}
		tc.checkFlow(data.Value, value, target, flowSite{op: qual.OpAssign, construct: construct, span: expr.Span})
		return target

	case ast.ExprCall:
		data, _ := tc.builder.Exprs.Call(id)
		return tc.callType(data)

	case ast.ExprIndex:
		data, _ := tc.builder.Exprs.Index(id)
		return tc.indexType(id, data)

	case ast.ExprMember:
		data, _ := tc.builder.Exprs.Member(id)
		return tc.memberType(id, data)

	case ast.ExprCast:
		data, _ := tc.builder.Exprs.Cast(id)
		target := tc.resolveType(data.Type)
		value := tc.checkExpr(data.Value)
		if tc.kindOf(target) == types.KindVoid {
			return target
		}
		tc.checkFlow(data.Value, value, target, flowSite{op: qual.OpCast, construct: "cast", span: expr.Span})
		return target

	case ast.ExprSizeofType:
		data, _ := tc.builder.Exprs.SizeofType(id)
		tc.resolveType(data.Type)
		return b.ULong

	case ast.ExprTernary:
		data, _ := tc.builder.Exprs.Ternary(id)
		return tc.ternaryType(expr, data)

	case ast.ExprGroup:
		data, _ := tc.builder.Exprs.Group(id)
		return tc.checkExpr(data.Inner)

	case ast.ExprEscape:
		data, _ := tc.builder.Exprs.Escape(id)
		return tc.escapeType(id, data)

	case ast.ExprInitList:
		data, _ := tc.builder.Exprs.InitList(id)
		for _, el := range data.Elems {
			tc.checkExpr(el)
		}
		return b.Void
	}
	return types.NoTypeID
}

func (tc *typeChecker) identType(id ast.ExprID, name string) types.TypeID {
	symID, sym := tc.lookup(name)
	if sym == nil || tc.notYetDeclared(sym) || sym.Kind == SymbolTypedef {
		diag.ReportError(tc.reporter, diag.SemaUndeclaredIdent, tc.exprSpan(id),
			fmt.Sprintf("use of undeclared identifier '%s'", name)).Emit()
		return tc.types.Builtins().Int
	}
	tc.result.Refs[id] = symID
	return sym.Type
}

// notYetDeclared: a global declared by a later top-level item.
func (tc *typeChecker) notYetDeclared(sym *Symbol) bool {
	return sym.Global && !sym.Prelude && sym.Order > tc.itemOrder
}

func (tc *typeChecker) literalType(lit *ast.ExprLiteralData) types.TypeID {
	b := tc.types.Builtins()
	switch lit.Kind {
	case ast.ExprLitFloat:
		if strings.HasSuffix(lit.Text, "f") || strings.HasSuffix(lit.Text, "F") {
			return b.Float
		}
		return b.Double
	case ast.ExprLitString:
		return tc.types.Pointer(b.Char, qual.Precise)
	case ast.ExprLitChar:
		return b.Int
	}
	suffix := strings.ToLower(strings.TrimLeft(lit.Text, "0123456789abcdefABCDEFxX"))
	switch {
	case strings.Contains(suffix, "u") && strings.Contains(suffix, "l"):
		return b.ULong
	case strings.Contains(suffix, "u"):
		return b.Uint
	case strings.Contains(suffix, "l"):
		return b.Long
	}
	return b.Int
}

func (tc *typeChecker) binaryType(data *ast.ExprBinaryData) types.TypeID {
	b := tc.types.Builtins()
	lt := tc.types.Decay(tc.checkExpr(data.Left))
	rt := tc.types.Decay(tc.checkExpr(data.Right))
	if data.Op == ast.ExprBinaryComma {
		return rt
	}
	q := qual.Join(tc.types.Qual(lt), tc.types.Qual(rt))
	if data.Op.IsLogical() || data.Op.IsComparison() {
		return tc.types.WithQual(b.Int, q)
	}
	l, _ := tc.types.Lookup(lt)
	r, _ := tc.types.Lookup(rt)
	switch {
	case l.Kind == types.KindPointer && r.Kind == types.KindPointer && data.Op == ast.ExprBinarySub:
		return tc.types.WithQual(b.Long, q)
	case l.Kind == types.KindPointer:
		return tc.types.WithQual(lt, q)
	case r.Kind == types.KindPointer && data.Op == ast.ExprBinaryAdd:
		return tc.types.WithQual(rt, q)
	}
	return tc.types.WithQual(tc.arithResult(lt, rt), q)
}

// arithResult applies the usual arithmetic conversions; the qualifier of
// the result is PRECISE and joined by the caller.
func (tc *typeChecker) arithResult(lt, rt types.TypeID) types.TypeID {
	b := tc.types.Builtins()
	l, lok := tc.types.Lookup(lt)
	r, rok := tc.types.Lookup(rt)
	if !lok || !rok || !l.IsArithmetic() || !r.IsArithmetic() {
		if lok && l.IsAggregate() {
			return tc.types.WithQual(lt, qual.Precise)
		}
		return b.Int
	}
	best := l
	if arithRank(r) > arithRank(l) {
		best = r
	}
	if arithRank(best) < arithRank(types.MakeInt(types.Width32, qual.Precise)) {
		return b.Int
	}
	best.Qual = qual.Precise
	return tc.types.Intern(best)
}

func arithRank(t types.Type) int {
	switch t.Kind {
	case types.KindFloat:
		return 1000 + int(t.Width)
	case types.KindInt, types.KindUint:
		w := int(t.Width)
		if t.Width == types.WidthAny {
			w = 96
		}
		r := w * 2
		if t.Kind == types.KindUint {
			r++
		}
		return r
	case types.KindBool:
		return 1
	case types.KindEnum:
		return 64
	}
	return 0
}

func (tc *typeChecker) unaryType(id ast.ExprID, data *ast.ExprUnaryData) types.TypeID {
	b := tc.types.Builtins()
	switch data.Op {
	case ast.ExprUnarySizeof:
		tc.checkExpr(data.Operand)
		return b.ULong
	case ast.ExprUnaryAddr:
		t := tc.checkExpr(data.Operand)
		tc.requireLvalue(data.Operand, "take the address of")
		return tc.types.Pointer(t, qual.Precise)
	case ast.ExprUnaryDeref:
		t := tc.types.Decay(tc.checkExpr(data.Operand))
		if elem, ok := tc.types.Pointee(t); ok {
			return elem
		}
		if tt, ok := tc.types.Lookup(t); ok && tt.Kind == types.KindFn {
			return t
		}
		diag.ReportError(tc.reporter, diag.SemaInvalidIndirection, tc.exprSpan(id),
			fmt.Sprintf("indirection requires a pointer operand (%s invalid)", tc.types.Format(t))).Emit()
		return b.Int
	}
	t := tc.checkExpr(data.Operand)
	if data.Op.IsIncDec() {
		// x++ is a self-assignment
		tc.requireLvalue(data.Operand, "modify")
		return t
	}
	q := tc.types.Qual(t)
	if data.Op == ast.ExprUnaryNot {
		return tc.types.WithQual(b.Int, q)
	}
	return tc.types.WithQual(tc.arithResult(t, b.Int), q)
}

// sameLvalue recognises `x = x`, `a[i] = a[i]`, `s.f = s.f` and `*p = *p`.
func (tc *typeChecker) sameLvalue(a, b ast.ExprID) bool {
	ex := tc.builder.Exprs
	a, b = ex.Unparen(a), ex.Unparen(b)
	ea, eb := ex.Get(a), ex.Get(b)
	if ea == nil || eb == nil || ea.Kind != eb.Kind {
		return false
	}
	switch ea.Kind {
	case ast.ExprIdent:
		x, _ := ex.Ident(a)
		y, _ := ex.Ident(b)
		return x.Name == y.Name
	case ast.ExprLit:
		x, _ := ex.Literal(a)
		y, _ := ex.Literal(b)
		return x.Kind == y.Kind && x.Text == y.Text
	case ast.ExprMember:
		x, _ := ex.Member(a)
		y, _ := ex.Member(b)
		return x.Field == y.Field && x.Arrow == y.Arrow && tc.sameLvalue(x.Target, y.Target)
	case ast.ExprIndex:
		x, _ := ex.Index(a)
		y, _ := ex.Index(b)
		return tc.sameLvalue(x.Target, y.Target) && tc.sameLvalue(x.Index, y.Index)
	case ast.ExprUnary:
		x, _ := ex.Unary(a)
		y, _ := ex.Unary(b)
		return x.Op == ast.ExprUnaryDeref && y.Op == ast.ExprUnaryDeref && tc.sameLvalue(x.Operand, y.Operand)
	}
	return false
}

func (tc *typeChecker) callType(data *ast.ExprCallData) types.TypeID {
	b := tc.types.Builtins()
	callee := ""
	target := tc.builder.Exprs.Unparen(data.Target)
	if ident, ok := tc.builder.Exprs.Ident(target); ok {
		callee = tc.name(ident.Name)
		symID, sym := tc.lookup(callee)
		if sym == nil || (sym.Kind == SymbolFunc && tc.notYetDeclared(sym)) {
			return tc.implicitCall(target, callee, symID, data.Args)
		}
	}

	ft := tc.types.Decay(tc.checkExpr(data.Target))
	if elem, ok := tc.types.Pointee(ft); ok {
		ft = elem
	}
	info, ok := tc.types.FnInfo(ft)
	if !ok {
		diag.ReportError(tc.reporter, diag.SemaNotCallable, tc.exprSpan(data.Target),
			fmt.Sprintf("called object of type %s is not a function", tc.types.Format(ft))).Emit()
		for _, arg := range data.Args {
			tc.checkExpr(arg)
		}
		return b.Int
	}
	if callee == "" {
		callee = "function pointer"
	}
	poly := tc.config.isPolymorphic(callee)

	if !info.Unspecified && (len(data.Args) < len(info.Params) || (!info.Variadic && len(data.Args) > len(info.Params))) {
		diag.ReportError(tc.reporter, diag.SemaArgCount, tc.exprSpan(data.Target),
			fmt.Sprintf("'%s' expects %d argument(s), got %d", callee, len(info.Params), len(data.Args))).Emit()
	}
	carried := qual.Precise
	carriedSet := false
	for i, arg := range data.Args {
		at := tc.checkExpr(arg)
		if pq, ok := tc.types.PointeeQual(tc.types.Decay(at)); ok && !carriedSet {
			carried, carriedSet = pq, true
		}
		site := flowSite{op: qual.OpArg, relaxPointee: poly}
		var dst types.TypeID
		if i < len(info.Params) && !info.Unspecified {
			dst = info.Params[i]
			site.construct = fmt.Sprintf("call argument %d of '%s'", i+1, callee)
		} else {
			// вариадические и неописанные аргументы уходят в PRECISE
			dst = tc.types.WithQual(tc.types.Decay(at), qual.Precise)
			site.construct = fmt.Sprintf("variadic argument %d of '%s'", i+1, callee)
			site.relaxPointee = true
		}
		tc.checkFlow(arg, at, dst, site)
	}
	if poly && tc.kindOf(info.Result) == types.KindPointer {
		return tc.polyResult(callee, carried)
	}
	return info.Result
}

// polyResult: memcpy/realloc and friends return memory that came in through
// their first pointer argument, so the pointee qualifier travels with it.
// Allocators return fresh memory, accepted anywhere via isRawPointer.
func (tc *typeChecker) polyResult(callee string, carried qual.Qualifier) types.TypeID {
	void := tc.types.Builtins().Void
	if isAllocator(callee) {
		carried = qual.Precise
	}
	return tc.types.Pointer(tc.types.WithQual(void, carried), qual.Precise)
}

// implicitCall handles a call to a function with no visible declaration.
func (tc *typeChecker) implicitCall(target ast.ExprID, name string, symID SymbolID, args []ast.ExprID) types.TypeID {
	diag.ReportWarning(tc.reporter, diag.SemaImplicitDecl, tc.exprSpan(target),
		fmt.Sprintf("implicit declaration of function '%s'; arguments are checked as PRECISE", name)).Emit()
	if symID != NoSymbolID {
		tc.result.Refs[target] = symID
	}
	poly := tc.config.isPolymorphic(name)
	carried := qual.Precise
	carriedSet := false
	for i, arg := range args {
		at := tc.checkExpr(arg)
		if pq, ok := tc.types.PointeeQual(tc.types.Decay(at)); ok && !carriedSet {
			carried, carriedSet = pq, true
		}
		tc.checkFlow(arg, at, tc.types.WithQual(tc.types.Decay(at), qual.Precise), flowSite{
			op:           qual.OpArg,
			construct:    fmt.Sprintf("call argument %d of '%s'", i+1, name),
			relaxPointee: true,
		})
	}
	if poly {
		return tc.polyResult(name, carried)
	}
	return tc.types.Builtins().Int
}

func (tc *typeChecker) indexType(id ast.ExprID, data *ast.ExprIndexData) types.TypeID {
	base := tc.types.Decay(tc.checkExpr(data.Target))
	index := tc.types.Decay(tc.checkExpr(data.Index))
	indexExpr := data.Index
	if _, ok := tc.types.Pointee(base); !ok {
		if _, ok := tc.types.Pointee(index); ok {
			// i[a]
			base, index = index, base
			indexExpr = data.Target
		}
	}
	if tc.types.Qual(index) == qual.Approx {
		tc.reportSubscript(indexExpr, index)
	}
	elem, ok := tc.types.Pointee(base)
	if !ok {
		diag.ReportError(tc.reporter, diag.SemaInvalidIndirection, tc.exprSpan(id),
			fmt.Sprintf("subscripted value of type %s is not an array or pointer", tc.types.Format(base))).Emit()
		return tc.types.Builtins().Int
	}
	return elem
}

func (tc *typeChecker) reportSubscript(index ast.ExprID, t types.TypeID) {
	sev := diag.SevWarning
	switch tc.config.ApproxSubscript {
	case SubscriptOff:
		return
	case SubscriptError:
		sev = diag.SevError
	}
	diag.NewReportBuilder(tc.reporter, sev, diag.SemaApproxSubscript, tc.exprSpan(index),
		fmt.Sprintf("approximate subscript: index of type %s computes an address from APPROX data", tc.types.Format(t))).
		WithQual("subscript", qual.Precise.String(), qual.Approx.String()).
		Emit()
}

func (tc *typeChecker) memberType(id ast.ExprID, data *ast.ExprMemberData) types.TypeID {
	t := tc.checkExpr(data.Target)
	if data.Arrow {
		elem, ok := tc.types.Pointee(tc.types.Decay(t))
		if !ok {
			diag.ReportError(tc.reporter, diag.SemaInvalidIndirection, tc.exprSpan(id),
				fmt.Sprintf("member reference with '->' on non-pointer type %s", tc.types.Format(t))).Emit()
			return tc.types.Builtins().Int
		}
		t = elem
	}
	field := tc.name(data.Field)
	if _, ok := tc.types.RecordInfo(t); !ok {
		diag.ReportError(tc.reporter, diag.SemaUnknownField, tc.exprSpan(id),
			fmt.Sprintf("member reference base type %s is not a struct or union", tc.types.Format(t))).Emit()
		return tc.types.Builtins().Int
	}
	f, ok := tc.types.Field(t, field)
	if !ok {
		diag.ReportError(tc.reporter, diag.SemaUnknownField, tc.exprSpan(id),
			fmt.Sprintf("no member named '%s' in %s", field, tc.types.Format(tc.types.WithQual(t, qual.Precise)))).Emit()
		return tc.types.Builtins().Int
	}
	return f.Type
}

func (tc *typeChecker) ternaryType(expr *ast.Expr, data *ast.ExprTernaryData) types.TypeID {
	tc.checkCondition(data.Cond, "conditional expression")
	tt := tc.types.Decay(tc.checkExpr(data.Then))
	et := tc.types.Decay(tc.checkExpr(data.Else))
	q := qual.Join(tc.types.Qual(tt), tc.types.Qual(et))
	t, _ := tc.types.Lookup(tt)
	e, _ := tc.types.Lookup(et)
	switch {
	case t.Kind == types.KindPointer && e.Kind == types.KindPointer:
		switch {
		case tc.isRawPointer(data.Then):
			return tc.types.WithQual(et, q)
		case tc.isRawPointer(data.Else):
			return tc.types.WithQual(tt, q)
		}
		tc.checkPointee(et, tt, flowSite{op: qual.OpPointerAlias, construct: "conditional expression", span: expr.Span})
		return tc.types.WithQual(tt, q)
	case t.Kind == types.KindPointer:
		return tc.types.WithQual(tt, q)
	case e.Kind == types.KindPointer:
		return tc.types.WithQual(et, q)
	case t.Kind == types.KindVoid:
		return tt
	}
	return tc.types.WithQual(tc.arithResult(tt, et), q)
}
