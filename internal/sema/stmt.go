package sema

import (
	"approxc/internal/ast"
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// flowFile — второй проход: инициализаторы глобалов и тела функций.
func (tc *typeChecker) flowFile(file *ast.File) {
	for i, itemID := range file.Items {
		tc.itemOrder = i
		item := tc.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemDecl:
			data, _ := tc.builder.Items.Decl(itemID)
			for _, declID := range data.Decls {
				decl := tc.builder.Decls.Get(declID)
				if decl != nil && decl.Init.IsValid() {
					tc.checkInit(decl.Init, tc.result.DeclTypes[declID])
				}
			}
		case ast.ItemFunc:
			data, _ := tc.builder.Items.Func(itemID)
			tc.checkFunc(data)
		}
	}
}

func (tc *typeChecker) checkFunc(fn *ast.FuncItem) {
	decl := tc.builder.Decls.Get(fn.Decl)
	if decl == nil {
		return
	}
	tc.fnName = tc.name(decl.Name)
	tc.fnResult = tc.types.Builtins().Int
	if info, ok := tc.types.FnInfo(tc.result.DeclTypes[fn.Decl]); ok {
		tc.fnResult = info.Result
	}
	tc.labels, tc.gotos = make(map[string]source.Span), nil
	defer func() {
		tc.fnName = ""
		tc.fnResult = types.NoTypeID
		tc.labels, tc.gotos = nil, nil
	}()

	tc.pushScope()
	defer tc.popScope()
	if sig, ok := tc.builder.Types.Func(decl.Type); ok {
		for _, pid := range sig.Params {
			p := tc.builder.Decls.Param(pid)
			if p == nil || p.Name == source.NoStringID {
				continue
			}
			tc.addSymbol(Symbol{
				Name:  tc.name(p.Name),
				Kind:  SymbolParam,
				Type:  tc.paramType(pid),
				Span:  p.Span,
				Param: pid,
			})
		}
	}
	// параметры и внешний блок тела делят одну область
	if block, ok := tc.builder.Stmts.Block(fn.Body); ok {
		for _, st := range block.Stmts {
			tc.checkStmt(st)
		}
	}
	tc.checkGotos()
}

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := tc.builder.Stmts.Block(id)
		tc.pushScope()
		for _, s := range data.Stmts {
			tc.checkStmt(s)
		}
		tc.popScope()

	case ast.StmtDecl:
		data, _ := tc.builder.Stmts.Decl(id)
		if len(data.Decls) == 0 {
			tc.resolveType(data.Base)
		}
		for _, declID := range data.Decls {
			tc.declare(declID, false)
			decl := tc.builder.Decls.Get(declID)
			if decl != nil && decl.Init.IsValid() {
				tc.checkInit(decl.Init, tc.result.DeclTypes[declID])
			}
		}

	case ast.StmtExpr:
		data, _ := tc.builder.Stmts.Expr(id)
		tc.checkExpr(data.Expr)

	case ast.StmtIf:
		data, _ := tc.builder.Stmts.If(id)
		tc.checkCondition(data.Cond, "if condition")
		tc.checkStmt(data.Then)
		tc.checkStmt(data.Else)

	case ast.StmtWhile:
		data, _ := tc.builder.Stmts.Loop(id)
		tc.checkCondition(data.Cond, "while condition")
		tc.checkStmt(data.Body)

	case ast.StmtDoWhile:
		data, _ := tc.builder.Stmts.Loop(id)
		tc.checkStmt(data.Body)
		tc.checkCondition(data.Cond, "do-while condition")

	case ast.StmtFor:
		data, _ := tc.builder.Stmts.Loop(id)
		tc.pushScope()
		tc.checkStmt(data.Init)
		tc.checkCondition(data.Cond, "for condition")
		tc.checkExpr(data.Post)
		tc.checkStmt(data.Body)
		tc.popScope()

	case ast.StmtSwitch:
		data, _ := tc.builder.Stmts.Switch(id)
		tc.checkCondition(data.Tag, "switch selector")
		tc.checkStmt(data.Body)

	case ast.StmtGoto:
		data, _ := tc.builder.Stmts.Goto(id)
		tc.gotos = append(tc.gotos, gotoRef{name: tc.name(data.Label), span: st.Span})

	case ast.StmtCase, ast.StmtDefault, ast.StmtLabel:
		data, _ := tc.builder.Stmts.Labeled(id)
		if st.Kind == ast.StmtLabel {
			tc.defineLabel(tc.name(data.Label), st.Span)
		}
		if data.Value.IsValid() {
			tc.checkExpr(data.Value)
		}
		tc.checkStmt(data.Body)

	case ast.StmtReturn:
		data, _ := tc.builder.Stmts.Return(id)
		if !data.Value.IsValid() {
			return
		}
		vt := tc.checkExpr(data.Value)
		if tc.kindOf(tc.fnResult) == types.KindVoid {
			return
		}
		tc.checkFlow(data.Value, vt, tc.fnResult, flowSite{op: qual.OpReturn, construct: "return from '" + tc.fnName + "'", span: st.Span})
	}
}

// checkInit walks brace lists element-wise against the declared type.
func (tc *typeChecker) checkInit(init ast.ExprID, dst types.TypeID) {
	if list, ok := tc.builder.Exprs.InitList(init); ok {
		tc.result.ExprTypes[init] = dst
		dt, _ := tc.types.Lookup(dst)
		switch {
		case dt.Kind == types.KindArray:
			for _, el := range list.Elems {
				tc.checkInit(el, dt.Elem)
			}
		case dt.IsAggregate():
			info, _ := tc.types.RecordInfo(dst)
			for i, el := range list.Elems {
				if info == nil || i >= len(info.Fields) || (info.Union && i > 0) {
					tc.checkExpr(el)
					continue
				}
				tc.checkInit(el, info.Fields[i].Type)
			}
		default:
			for i, el := range list.Elems {
				if i == 0 {
					tc.checkInit(el, dst)
					continue
				}
				tc.checkExpr(el)
			}
		}
		return
	}
	vt := tc.checkExpr(init)
	if tc.kindOf(dst) == types.KindArray {
		// char s[] = "..." — строковый литерал всегда PRECISE
		if lit, ok := tc.builder.Exprs.Literal(tc.builder.Exprs.Unparen(init)); ok && lit.Kind == ast.ExprLitString {
			return
		}
	}
	tc.checkFlow(init, vt, dst, flowSite{op: qual.OpInit, construct: "initialization"})
}
