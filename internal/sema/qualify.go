package sema

import (
	"fmt"
	"slices"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// qualifyFile — первый проход: типы всех внешних объявлений и проверка
// повторных объявлений. Выполняется целиком до проверки потоков.
func (tc *typeChecker) qualifyFile(file *ast.File) {
	for i, itemID := range file.Items {
		tc.itemOrder = i
		item := tc.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemDecl:
			data, _ := tc.builder.Items.Decl(itemID)
			if len(data.Decls) == 0 {
				tc.resolveType(data.Base)
			}
			for _, declID := range data.Decls {
				tc.declare(declID, true)
			}
		case ast.ItemFunc:
			data, _ := tc.builder.Items.Func(itemID)
			if sym := tc.declare(data.Decl, true); sym != nil {
				sym.Defined = true
			}
		}
	}
}

// declare resolves a declarator and enters it into the current scope.
func (tc *typeChecker) declare(declID ast.DeclID, global bool) *Symbol {
	decl := tc.builder.Decls.Get(declID)
	if decl == nil {
		return nil
	}
	typ := tc.resolveType(decl.Type)
	tc.result.DeclTypes[declID] = typ
	name := tc.name(decl.Name)
	if name == "" {
		return nil
	}

	kind := SymbolVar
	switch {
	case decl.Storage.Has(ast.StorageTypedef):
		kind = SymbolTypedef
	case tc.kindOf(typ) == types.KindFn:
		kind = SymbolFunc
	}

	// прелюдия живёт в отдельной внешней области, поэтому пользовательское
	// объявление просто перекрывает её без диагностики
	if _, prev := tc.lookupLocal(name); prev != nil && tc.redeclared(prev, kind, typ, decl) {
		return prev
	}
	id := tc.addSymbol(Symbol{
		Name:   name,
		Kind:   kind,
		Type:   typ,
		Span:   decl.NameSpan,
		Decl:   declID,
		Global: global,
		Order:  tc.itemOrder,
	})
	if global && kind != SymbolTypedef && !decl.Storage.Has(ast.StorageStatic) {
		tc.result.Signatures = append(tc.result.Signatures, tc.signature(name, typ, decl.NameSpan))
	}
	return tc.result.Symbol(id)
}

// redeclared compares a new declaration with the symbol already bound in the
// same scope. It returns true when the previous symbol stays in effect.
func (tc *typeChecker) redeclared(prev *Symbol, kind SymbolKind, typ types.TypeID, decl *ast.Decl) bool {
	if prev.Prelude {
		return false
	}
	if prev.Kind != kind {
		tc.reportRedecl(decl.NameSpan, prev.Span,
			fmt.Sprintf("'%s' redeclared as a different kind of symbol (%s, previously %s)", prev.Name, kind, prev.Kind),
			"", "")
		return true
	}
	if msg, expected, found, bad := tc.compareDecl(prev.Type, typ); bad {
		tc.reportRedecl(decl.NameSpan, prev.Span,
			fmt.Sprintf("redeclaration of '%s' %s", prev.Name, msg), expected, found)
	}
	return true
}

// compareDecl checks qualifier identity of two declarations of one entity:
// for functions every parameter and the result, for objects the whole shape.
func (tc *typeChecker) compareDecl(prev, next types.TypeID) (msg, expected, found string, bad bool) {
	pi, pok := tc.types.FnInfo(prev)
	ni, nok := tc.types.FnInfo(next)
	if pok && nok {
		if !pi.Unspecified && !ni.Unspecified {
			if len(pi.Params) != len(ni.Params) || pi.Variadic != ni.Variadic {
				return fmt.Sprintf("changes the parameter list (%d parameters, previously %d)", len(ni.Params), len(pi.Params)),
					"", "", true
			}
			for i := range pi.Params {
				if !tc.sameShape(pi.Params[i], ni.Params[i]) {
					return fmt.Sprintf("changes the qualifier of parameter %d: %s, previously %s",
							i+1, tc.types.Format(ni.Params[i]), tc.types.Format(pi.Params[i])),
						shapeString(tc.types.QualShape(pi.Params[i])), shapeString(tc.types.QualShape(ni.Params[i])), true
				}
			}
		}
		if !tc.sameShape(pi.Result, ni.Result) {
			return fmt.Sprintf("changes the qualifier of the return type: %s, previously %s",
					tc.types.Format(ni.Result), tc.types.Format(pi.Result)),
				shapeString(tc.types.QualShape(pi.Result)), shapeString(tc.types.QualShape(ni.Result)), true
		}
		return "", "", "", false
	}
	if !tc.sameShape(prev, next) {
		return fmt.Sprintf("changes its qualified type: %s, previously %s", tc.types.Format(next), tc.types.Format(prev)),
			shapeString(tc.types.QualShape(prev)), shapeString(tc.types.QualShape(next)), true
	}
	return "", "", "", false
}

func (tc *typeChecker) sameShape(a, b types.TypeID) bool {
	return slices.Equal(tc.types.QualShape(a), tc.types.QualShape(b))
}

func shapeString(qs []qual.Qualifier) string {
	out := ""
	for i, q := range qs {
		if i > 0 {
			out += " -> "
		}
		out += q.String()
	}
	return out
}

func (tc *typeChecker) reportRedecl(at, prev source.Span, msg, expected, found string) {
	tc.result.QualErrors++
	b := diag.ReportError(tc.reporter, diag.SemaRedeclMismatch, at, msg).
		WithNote(prev, "previous declaration is here")
	if expected != "" {
		b = b.WithQual("redeclaration", expected, found)
	}
	b.Emit()
}
