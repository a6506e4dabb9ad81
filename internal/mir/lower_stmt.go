package mir

import (
	"approxc/internal/ast"
	"approxc/internal/sema"
	"approxc/internal/types"
)

func (fl *funcLowerer) lowerStmt(id ast.StmtID) {
	st := fl.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := fl.builder.Stmts.Block(id)
		for _, s := range data.Stmts {
			fl.lowerStmt(s)
		}

	case ast.StmtDecl:
		data, _ := fl.builder.Stmts.Decl(id)
		for _, declID := range data.Decls {
			fl.lowerLocalDecl(declID)
		}

	case ast.StmtExpr:
		data, _ := fl.builder.Stmts.Expr(id)
		fl.lowerExpr(data.Expr)

	case ast.StmtIf:
		data, _ := fl.builder.Stmts.If(id)
		then, els, end := fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel()
		fl.emitCondBr(fl.lowerExpr(data.Cond), then, els)
		fl.emitLabel(then)
		fl.lowerStmt(data.Then)
		fl.emitBr(end)
		fl.emitLabel(els)
		fl.lowerStmt(data.Else)
		fl.emitBr(end)
		fl.emitLabel(end)

	case ast.StmtWhile:
		data, _ := fl.builder.Stmts.Loop(id)
		head, body, end := fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel()
		fl.emitBr(head)
		fl.emitLabel(head)
		fl.emitCondBr(fl.lowerExpr(data.Cond), body, end)
		fl.emitLabel(body)
		fl.withTargets(end, head, func() { fl.lowerStmt(data.Body) })
		fl.emitBr(head)
		fl.emitLabel(end)

	case ast.StmtDoWhile:
		data, _ := fl.builder.Stmts.Loop(id)
		body, cond, end := fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel()
		fl.emitBr(body)
		fl.emitLabel(body)
		fl.withTargets(end, cond, func() { fl.lowerStmt(data.Body) })
		fl.emitBr(cond)
		fl.emitLabel(cond)
		fl.emitCondBr(fl.lowerExpr(data.Cond), body, end)
		fl.emitLabel(end)

	case ast.StmtFor:
		data, _ := fl.builder.Stmts.Loop(id)
		fl.lowerStmt(data.Init)
		head, body, post, end := fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel(), fl.f.newLabel()
		fl.emitBr(head)
		fl.emitLabel(head)
		if data.Cond.IsValid() {
			fl.emitCondBr(fl.lowerExpr(data.Cond), body, end)
		} else {
			fl.emitBr(body)
		}
		fl.emitLabel(body)
		fl.withTargets(end, post, func() { fl.lowerStmt(data.Body) })
		fl.emitBr(post)
		fl.emitLabel(post)
		if data.Post.IsValid() {
			fl.lowerExpr(data.Post)
		}
		fl.emitBr(head)
		fl.emitLabel(end)

	case ast.StmtSwitch:
		fl.lowerSwitch(id)

	case ast.StmtCase, ast.StmtDefault:
		data, _ := fl.builder.Stmts.Labeled(id)
		if n := len(fl.caseLabels); n > 0 {
			if l, ok := fl.caseLabels[n-1][id]; ok {
				fl.emitBr(l)
				fl.emitLabel(l)
			}
		}
		fl.lowerStmt(data.Body)

	case ast.StmtLabel:
		data, _ := fl.builder.Stmts.Labeled(id)
		l := fl.namedLabel(fl.builder.Name(data.Label))
		fl.emitBr(l)
		fl.emitLabel(l)
		fl.lowerStmt(data.Body)

	case ast.StmtGoto:
		data, _ := fl.builder.Stmts.Goto(id)
		fl.emitBr(fl.namedLabel(fl.builder.Name(data.Label)))
		fl.emitLabel(fl.f.newLabel())

	case ast.StmtBreak, ast.StmtContinue:
		if n := len(fl.targets); n > 0 {
			t := fl.targets[n-1]
			target := t.brk
			if st.Kind == ast.StmtContinue {
				target = fl.innermostContinue()
			}
			if target != NoLabelID {
				fl.emitBr(target)
				fl.emitLabel(fl.f.newLabel())
			}
		}

	case ast.StmtReturn:
		data, _ := fl.builder.Stmts.Return(id)
		v := NoValueID
		if data.Value.IsValid() {
			v = fl.lowerExpr(data.Value)
		}
		fl.emitRet(v, fl.f.Result)
		// код после return недостижим, но остаётся в своей метке
		fl.emitLabel(fl.f.newLabel())
	}
}

func (fl *funcLowerer) withTargets(brk, cont LabelID, body func()) {
	fl.targets = append(fl.targets, loopTargets{brk: brk, cont: cont})
	body()
	fl.targets = fl.targets[:len(fl.targets)-1]
}

// innermostContinue skips switch frames, which have no continue target.
func (fl *funcLowerer) innermostContinue() LabelID {
	for i := len(fl.targets) - 1; i >= 0; i-- {
		if fl.targets[i].cont != NoLabelID {
			return fl.targets[i].cont
		}
	}
	return NoLabelID
}

func (fl *funcLowerer) namedLabel(name string) LabelID {
	if l, ok := fl.labels[name]; ok {
		return l
	}
	l := fl.f.newLabel()
	fl.labels[name] = l
	return l
}

func (fl *funcLowerer) lowerSwitch(id ast.StmtID) {
	data, _ := fl.builder.Stmts.Switch(id)
	tag := fl.lowerExpr(data.Tag)
	tagType := fl.sema.ExprTypes[data.Tag]
	end := fl.f.newLabel()

	cases := make(map[ast.StmtID]LabelID)
	var order []ast.StmtID
	fl.collectCases(data.Body, func(c ast.StmtID) {
		cases[c] = fl.f.newLabel()
		order = append(order, c)
	})
	dflt := end
	for _, c := range order {
		st := fl.builder.Stmts.Get(c)
		if st.Kind == ast.StmtDefault {
			dflt = cases[c]
			continue
		}
		lab, _ := fl.builder.Stmts.Labeled(c)
		v := fl.lowerExpr(lab.Value)
		eq := fl.value(Instr{Kind: InstrBinOp, Op: "==", Args: []ValueID{tag, v}}, fl.types.WithQual(fl.types.Builtins().Int, fl.types.Qual(tagType)))
		next := fl.f.newLabel()
		fl.emitCondBr(eq, cases[c], next)
		fl.emitLabel(next)
	}
	fl.emitBr(dflt)

	fl.caseLabels = append(fl.caseLabels, cases)
	fl.withTargets(end, NoLabelID, func() { fl.lowerStmt(data.Body) })
	fl.caseLabels = fl.caseLabels[:len(fl.caseLabels)-1]
	fl.emitBr(end)
	fl.emitLabel(end)
}

// collectCases finds case/default labels of one switch, not descending into
// nested switches.
func (fl *funcLowerer) collectCases(id ast.StmtID, visit func(ast.StmtID)) {
	st := fl.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := fl.builder.Stmts.Block(id)
		for _, s := range data.Stmts {
			fl.collectCases(s, visit)
		}
	case ast.StmtCase, ast.StmtDefault:
		visit(id)
		data, _ := fl.builder.Stmts.Labeled(id)
		fl.collectCases(data.Body, visit)
	case ast.StmtLabel:
		data, _ := fl.builder.Stmts.Labeled(id)
		fl.collectCases(data.Body, visit)
	case ast.StmtIf:
		data, _ := fl.builder.Stmts.If(id)
		fl.collectCases(data.Then, visit)
		fl.collectCases(data.Else, visit)
	case ast.StmtWhile, ast.StmtDoWhile, ast.StmtFor:
		data, _ := fl.builder.Stmts.Loop(id)
		fl.collectCases(data.Body, visit)
	}
}

func (fl *funcLowerer) lowerLocalDecl(declID ast.DeclID) {
	decl := fl.builder.Decls.Get(declID)
	if decl == nil || decl.Storage.Has(ast.StorageTypedef) {
		return
	}
	t := fl.sema.DeclTypes[declID]
	if tt, _ := fl.types.Lookup(t); tt.Kind == types.KindFn || decl.Storage.Has(ast.StorageExtern) {
		return
	}
	lid := fl.newLocal(Local{Name: fl.builder.Name(decl.Name), Type: t, Tag: fl.tagOf(t), Span: decl.NameSpan})
	fl.declToLocal[declID] = lid
	if sym := fl.symbolForDecl(declID); sym != sema.NoSymbolID {
		fl.symToLocal[sym] = lid
	}
	fl.f.emit(Instr{Kind: InstrAlloca, Tag: fl.tagOf(t), Type: t, Dst: NoValueID, Local: lid, Global: NoGlobalID, Span: decl.NameSpan})
	if decl.Init.IsValid() {
		addr := fl.value(Instr{Kind: InstrAddr, Local: lid, Global: NoGlobalID}, fl.ptrTo(t))
		fl.lowerInit(addr, decl.Init, t)
	}
}

func (fl *funcLowerer) symbolForDecl(declID ast.DeclID) sema.SymbolID {
	for i := len(fl.sema.Symbols) - 1; i > 0; i-- {
		if fl.sema.Symbols[i].Decl == declID {
			return sema.SymbolID(i) //nolint:gosec // bounded by symbol count
		}
	}
	return sema.NoSymbolID
}

// lowerInit stores an initializer into addr, element by element for lists.
func (fl *funcLowerer) lowerInit(addr ValueID, init ast.ExprID, slot types.TypeID) {
	list, ok := fl.builder.Exprs.InitList(init)
	if !ok {
		fl.store(addr, fl.lowerExpr(init), slot)
		return
	}
	st, _ := fl.types.Lookup(slot)
	switch {
	case st.Kind == types.KindArray:
		for i, el := range list.Elems {
			idx := fl.constant(itoa(i), fl.types.Builtins().Int)
			ea := fl.value(Instr{Kind: InstrElem, Args: []ValueID{addr, idx}}, fl.ptrTo(st.Elem))
			fl.lowerInit(ea, el, st.Elem)
		}
	case st.IsAggregate():
		info, _ := fl.types.RecordInfo(slot)
		for i, el := range list.Elems {
			if info == nil || i >= len(info.Fields) {
				fl.lowerExpr(el)
				continue
			}
			field := info.Fields[i]
			fa := fl.value(Instr{Kind: InstrElem, Field: field.Name, Args: []ValueID{addr}}, fl.ptrTo(field.Type))
			fl.lowerInit(fa, el, field.Type)
		}
	default:
		for i, el := range list.Elems {
			if i == 0 {
				fl.lowerInit(addr, el, slot)
				continue
			}
			fl.lowerExpr(el)
		}
	}
}
