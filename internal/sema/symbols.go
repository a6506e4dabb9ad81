package sema

import (
	"approxc/internal/ast"
	"approxc/internal/source"
	"approxc/internal/types"
)

// SymbolID indexes Result.Symbols; 0 is "no symbol".
type SymbolID uint32

const NoSymbolID SymbolID = 0

type SymbolKind uint8

const (
	SymbolVar SymbolKind = iota
	SymbolParam
	SymbolFunc
	SymbolTypedef
	SymbolEnumConst
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolParam:
		return "parameter"
	case SymbolFunc:
		return "function"
	case SymbolTypedef:
		return "typedef"
	case SymbolEnumConst:
		return "enumerator"
	default:
		return "variable"
	}
}

// Symbol is an entry of the declaration context. Its type is fixed at the
// first declaration and never changes.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    types.TypeID
	Span    source.Span
	Decl    ast.DeclID
	Param   ast.ParamID
	Global  bool
	Prelude bool
	Defined bool
	// Order is the top-level item index of the first declaration.
	Order int
	// Value of an enumerator.
	Value int64
}

type scope struct {
	names map[string]SymbolID
	tags  map[string]types.TypeID
}

func (tc *typeChecker) pushScope() {
	tc.scopes = append(tc.scopes, scope{
		names: make(map[string]SymbolID),
		tags:  make(map[string]types.TypeID),
	})
}

func (tc *typeChecker) popScope() {
	tc.scopes = tc.scopes[:len(tc.scopes)-1]
}

// atFileScope: prelude scope is 0, file scope is 1.
func (tc *typeChecker) atFileScope() bool {
	return len(tc.scopes) <= 2
}

func (tc *typeChecker) addSymbol(sym Symbol) SymbolID {
	tc.result.Symbols = append(tc.result.Symbols, sym)
	id := SymbolID(len(tc.result.Symbols) - 1) //nolint:gosec // bounded by source size
	tc.scopes[len(tc.scopes)-1].names[sym.Name] = id
	return id
}

func (tc *typeChecker) lookup(name string) (SymbolID, *Symbol) {
	for i := len(tc.scopes) - 1; i >= 0; i-- {
		if id, ok := tc.scopes[i].names[name]; ok {
			return id, &tc.result.Symbols[id]
		}
	}
	return NoSymbolID, nil
}

func (tc *typeChecker) lookupLocal(name string) (SymbolID, *Symbol) {
	id, ok := tc.scopes[len(tc.scopes)-1].names[name]
	if !ok {
		return NoSymbolID, nil
	}
	return id, &tc.result.Symbols[id]
}

func (tc *typeChecker) lookupTag(name string) (types.TypeID, bool) {
	for i := len(tc.scopes) - 1; i >= 0; i-- {
		if id, ok := tc.scopes[i].tags[name]; ok {
			return id, true
		}
	}
	return types.NoTypeID, false
}

func (tc *typeChecker) declareTag(name string, id types.TypeID) {
	if name == "" {
		return
	}
	tc.scopes[len(tc.scopes)-1].tags[name] = id
}
