package mir

import (
	"strconv"

	"approxc/internal/ast"
	"approxc/internal/sema"
	"approxc/internal/types"
)

func itoa(i int) string { return strconv.Itoa(i) }

func (fl *funcLowerer) exprType(id ast.ExprID) types.TypeID {
	if t, ok := fl.sema.ExprTypes[id]; ok {
		return t
	}
	return fl.types.Builtins().Int
}

// lowerExpr produces the rvalue of an expression.
func (fl *funcLowerer) lowerExpr(id ast.ExprID) ValueID {
	if !id.IsValid() {
		return NoValueID
	}
	expr := fl.builder.Exprs.Get(id)
	if expr == nil {
		return NoValueID
	}
	t := fl.exprType(id)
	switch expr.Kind {
	case ast.ExprIdent:
		sym := fl.sema.Symbol(fl.sema.Refs[id])
		if sym != nil && sym.Kind == sema.SymbolEnumConst {
			return fl.constant(strconv.FormatInt(sym.Value, 10), t)
		}
		addr := fl.lowerAddr(id)
		if sym != nil && sym.Kind == sema.SymbolFunc {
			return addr
		}
		return fl.loadOrDecay(addr, t)

	case ast.ExprLit:
		lit, _ := fl.builder.Exprs.Literal(id)
		return fl.constant(lit.Text, t)

	case ast.ExprBinary:
		data, _ := fl.builder.Exprs.Binary(id)
		switch {
		case data.Op == ast.ExprBinaryComma:
			fl.lowerExpr(data.Left)
			return fl.lowerExpr(data.Right)
		case data.Op.IsLogical():
			return fl.lowerLogical(data, t)
		}
		l := fl.lowerExpr(data.Left)
		r := fl.lowerExpr(data.Right)
		return fl.value(Instr{Kind: InstrBinOp, Op: data.Op.String(), Args: []ValueID{l, r}, Span: expr.Span}, t)

	case ast.ExprUnary:
		data, _ := fl.builder.Exprs.Unary(id)
		return fl.lowerUnary(expr, data, t)

	case ast.ExprAssign:
		data, _ := fl.builder.Exprs.Assign(id)
		slot := fl.exprType(data.Target)
		addr := fl.lowerAddr(data.Target)
		v := fl.lowerExpr(data.Value)
		if data.Op != ast.ExprBinaryNone {
			old := fl.load(addr, slot)
			v = fl.value(Instr{Kind: InstrBinOp, Op: data.Op.String(), Args: []ValueID{old, v}, Span: expr.Span}, slot)
		}
		fl.store(addr, v, slot)
		return v

	case ast.ExprCall:
		data, _ := fl.builder.Exprs.Call(id)
		return fl.lowerCall(expr, data, t)

	case ast.ExprIndex, ast.ExprMember:
		return fl.loadOrDecay(fl.lowerAddr(id), t)

	case ast.ExprCast:
		data, _ := fl.builder.Exprs.Cast(id)
		v := fl.lowerExpr(data.Value)
		return fl.value(Instr{Kind: InstrCast, Args: []ValueID{v}, Span: expr.Span}, t)

	case ast.ExprSizeofType:
		return fl.constant("sizeof", t)

	case ast.ExprTernary:
		data, _ := fl.builder.Exprs.Ternary(id)
		return fl.lowerTernary(data, t)

	case ast.ExprGroup:
		data, _ := fl.builder.Exprs.Group(id)
		return fl.lowerExpr(data.Inner)

	case ast.ExprEscape:
		data, _ := fl.builder.Exprs.Escape(id)
		return fl.lowerEscape(id, data, t)

	case ast.ExprInitList:
		data, _ := fl.builder.Exprs.InitList(id)
		for _, el := range data.Elems {
			fl.lowerExpr(el)
		}
		return NoValueID
	}
	return NoValueID
}

// loadOrDecay loads a scalar; an array lvalue decays to its address.
func (fl *funcLowerer) loadOrDecay(addr ValueID, t types.TypeID) ValueID {
	if tt, _ := fl.types.Lookup(t); tt.Kind == types.KindArray || tt.Kind == types.KindFn {
		return addr
	}
	return fl.load(addr, t)
}

// lowerAddr produces the address of an lvalue.
func (fl *funcLowerer) lowerAddr(id ast.ExprID) ValueID {
	id = fl.builder.Exprs.Unparen(id)
	expr := fl.builder.Exprs.Get(id)
	t := fl.exprType(id)
	ptr := fl.ptrTo(t)
	switch expr.Kind {
	case ast.ExprIdent:
		symID := fl.sema.Refs[id]
		if lid, ok := fl.symToLocal[symID]; ok {
			return fl.value(Instr{Kind: InstrAddr, Local: lid, Global: NoGlobalID, Span: expr.Span}, ptr)
		}
		if gid, ok := fl.symToGlobal[symID]; ok {
			return fl.value(Instr{Kind: InstrAddr, Local: NoLocalID, Global: gid, Span: expr.Span}, ptr)
		}
		data, _ := fl.builder.Exprs.Ident(id)
		return fl.value(Instr{Kind: InstrAddr, Local: NoLocalID, Global: NoGlobalID, Callee: fl.builder.Name(data.Name), Span: expr.Span}, ptr)

	case ast.ExprUnary:
		data, _ := fl.builder.Exprs.Unary(id)
		if data.Op == ast.ExprUnaryDeref {
			return fl.lowerExpr(data.Operand)
		}

	case ast.ExprIndex:
		data, _ := fl.builder.Exprs.Index(id)
		base, index := data.Target, data.Index
		if _, ok := fl.types.Pointee(fl.types.Decay(fl.exprType(base))); !ok {
			base, index = index, base
		}
		b := fl.lowerExpr(base)
		i := fl.lowerExpr(index)
		return fl.value(Instr{Kind: InstrElem, Args: []ValueID{b, i}, Span: expr.Span}, ptr)

	case ast.ExprMember:
		data, _ := fl.builder.Exprs.Member(id)
		var b ValueID
		if data.Arrow {
			b = fl.lowerExpr(data.Target)
		} else {
			b = fl.lowerAddr(data.Target)
		}
		return fl.value(Instr{Kind: InstrElem, Field: fl.builder.Name(data.Field), Args: []ValueID{b}, Span: expr.Span}, ptr)
	}
	// не lvalue, включая ENDORSE/DEDORSE: материализуем во временную переменную
	v := fl.lowerExpr(id)
	lid := fl.newLocal(Local{Name: "tmp." + itoa(len(fl.f.Locals)), Type: t, Tag: fl.tagOf(t)})
	fl.f.emit(Instr{Kind: InstrAlloca, Tag: fl.tagOf(t), Type: t, Dst: NoValueID, Local: lid, Global: NoGlobalID})
	addr := fl.value(Instr{Kind: InstrAddr, Local: lid, Global: NoGlobalID}, ptr)
	fl.store(addr, v, t)
	return addr
}

func (fl *funcLowerer) lowerUnary(expr *ast.Expr, data *ast.ExprUnaryData, t types.TypeID) ValueID {
	switch data.Op {
	case ast.ExprUnaryAddr:
		return fl.lowerAddr(data.Operand)
	case ast.ExprUnaryDeref:
		return fl.loadOrDecay(fl.lowerExpr(data.Operand), t)
	case ast.ExprUnarySizeof:
		return fl.constant("sizeof", t)
	}
	if data.Op.IsIncDec() {
		slot := fl.exprType(data.Operand)
		addr := fl.lowerAddr(data.Operand)
		old := fl.load(addr, slot)
		one := fl.constant("1", fl.types.Builtins().Int)
		op := "+"
		if data.Op == ast.ExprUnaryPreDec || data.Op == ast.ExprUnaryPostDec {
			op = "-"
		}
		next := fl.value(Instr{Kind: InstrBinOp, Op: op, Args: []ValueID{old, one}, Span: expr.Span}, slot)
		fl.store(addr, next, slot)
		if data.Op == ast.ExprUnaryPostInc || data.Op == ast.ExprUnaryPostDec {
			return old
		}
		return next
	}
	v := fl.lowerExpr(data.Operand)
	return fl.value(Instr{Kind: InstrUnOp, Op: data.Op.String(), Args: []ValueID{v}, Span: expr.Span}, t)
}

// lowerLogical keeps short-circuit evaluation through a temporary.
func (fl *funcLowerer) lowerLogical(data *ast.ExprBinaryData, t types.TypeID) ValueID {
	lid := fl.newLocal(Local{Name: "tmp." + itoa(len(fl.f.Locals)), Type: t, Tag: fl.tagOf(t)})
	fl.f.emit(Instr{Kind: InstrAlloca, Tag: fl.tagOf(t), Type: t, Dst: NoValueID, Local: lid, Global: NoGlobalID})
	addr := fl.value(Instr{Kind: InstrAddr, Local: lid, Global: NoGlobalID}, fl.ptrTo(t))
	rhs, short, end := fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel()
	l := fl.lowerExpr(data.Left)
	if data.Op == ast.ExprBinaryLogicalAnd {
		fl.emitCondBr(l, rhs, short)
	} else {
		fl.emitCondBr(l, short, rhs)
	}
	fl.emitLabel(rhs)
	r := fl.lowerExpr(data.Right)
	fl.store(addr, fl.value(Instr{Kind: InstrUnOp, Op: "!!", Args: []ValueID{r}}, t), t)
	fl.emitBr(end)
	fl.emitLabel(short)
	shortVal := "0"
	if data.Op == ast.ExprBinaryLogicalOr {
		shortVal = "1"
	}
	fl.store(addr, fl.constant(shortVal, t), t)
	fl.emitBr(end)
	fl.emitLabel(end)
	return fl.load(addr, t)
}

func (fl *funcLowerer) lowerTernary(data *ast.ExprTernaryData, t types.TypeID) ValueID {
	isVoid := fl.kindOf(t) == types.KindVoid
	var addr ValueID
	if !isVoid {
		lid := fl.newLocal(Local{Name: "tmp." + itoa(len(fl.f.Locals)), Type: t, Tag: fl.tagOf(t)})
		fl.f.emit(Instr{Kind: InstrAlloca, Tag: fl.tagOf(t), Type: t, Dst: NoValueID, Local: lid, Global: NoGlobalID})
		addr = fl.value(Instr{Kind: InstrAddr, Local: lid, Global: NoGlobalID}, fl.ptrTo(t))
	}
	then, els, end := fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel()
	fl.emitCondBr(fl.lowerExpr(data.Cond), then, els)
	for _, arm := range []struct {
		label LabelID
		expr  ast.ExprID
	}{{then, data.Then}, {els, data.Else}} {
		fl.emitLabel(arm.label)
		v := fl.lowerExpr(arm.expr)
		if !isVoid {
			fl.store(addr, v, t)
		}
		fl.emitBr(end)
	}
	fl.emitLabel(end)
	if isVoid {
		return NoValueID
	}
	return fl.load(addr, t)
}

func (fl *funcLowerer) lowerCall(expr *ast.Expr, data *ast.ExprCallData, t types.TypeID) ValueID {
	in := Instr{Kind: InstrCall, Span: expr.Span}
	target := fl.builder.Exprs.Unparen(data.Target)
	direct := false
	if ident, ok := fl.builder.Exprs.Ident(target); ok {
		sym := fl.sema.Symbol(fl.sema.Refs[target])
		if sym == nil || sym.Kind == sema.SymbolFunc {
			in.Callee = fl.builder.Name(ident.Name)
			direct = true
		}
	}
	if !direct {
		in.Args = append(in.Args, fl.lowerExpr(data.Target))
	}
	for _, arg := range data.Args {
		in.Args = append(in.Args, fl.lowerExpr(arg))
	}
	if fl.kindOf(t) == types.KindVoid {
		in.Dst = NoValueID
		in.Type = t
		in.Tag = fl.tagOf(t)
		fl.f.emit(in)
		return NoValueID
	}
	return fl.value(in, t)
}

// lowerEscape emits the marker carrying the sentinel of its direction and
// the checker's marker ID.
func (fl *funcLowerer) lowerEscape(id ast.ExprID, data *ast.ExprEscapeData, t types.TypeID) ValueID {
	v := fl.lowerExpr(data.Value)
	m, ok := fl.sema.MarkerFor(id)
	if !ok {
		return v
	}
	marker := Marker{ID: uint32(m.ID), Direction: m.Direction, Sentinel: fl.lattice.Sentinel(m.Direction)}
	dst := fl.value(Instr{Kind: InstrMarker, Args: []ValueID{v}, Marker: marker, Span: m.Span}, t)
	return dst
}
