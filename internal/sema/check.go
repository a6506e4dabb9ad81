package sema

import (
	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	// Lattice is shared with lowering; nil means qual.Standard().
	Lattice *qual.Lattice
	Config  Config
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	TypeInterner *types.Interner
	Lattice      *qual.Lattice
	// ExprTypes holds the qualified type of every checked expression; its
	// top-level qualifier is the effective qualifier.
	ExprTypes  map[ast.ExprID]types.TypeID
	DeclTypes  map[ast.DeclID]types.TypeID
	ParamTypes map[ast.ParamID]types.TypeID
	// Refs binds identifier expressions to symbols.
	Refs    map[ast.ExprID]SymbolID
	Symbols []Symbol // index 0 reserved
	Markers []Marker
	// Signatures lists external declarations for the cross-unit check.
	Signatures []Signature
	// QualErrors counts qualification errors (redeclaration mismatches).
	QualErrors int
	Errors     int
}

// Symbol returns the symbol for id or nil.
func (r *Result) Symbol(id SymbolID) *Symbol {
	if id == NoSymbolID || int(id) >= len(r.Symbols) {
		return nil
	}
	return &r.Symbols[id]
}

// MarkerFor returns the marker recorded for an ENDORSE/DEDORSE expression.
func (r *Result) MarkerFor(expr ast.ExprID) (Marker, bool) {
	for _, m := range r.Markers {
		if m.Expr == expr {
			return m, true
		}
	}
	return Marker{}, false
}

// Check runs the qualification pass and then the flow pass over one unit.
func Check(builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	res := Result{
		ExprTypes:  make(map[ast.ExprID]types.TypeID),
		DeclTypes:  make(map[ast.DeclID]types.TypeID),
		ParamTypes: make(map[ast.ParamID]types.TypeID),
		Refs:       make(map[ast.ExprID]SymbolID),
		Symbols:    []Symbol{{}},
	}
	if opts.Types != nil {
		res.TypeInterner = opts.Types
	} else {
		res.TypeInterner = types.NewInterner()
	}
	res.Lattice = opts.Lattice
	if res.Lattice == nil {
		res.Lattice = qual.Standard()
	}
	if builder == nil || fileID == ast.NoFileID {
		return res
	}

	counting := &diag.CountingReporter{Next: opts.Reporter}
	tc := typeChecker{
		builder:   builder,
		fileID:    fileID,
		reporter:  counting,
		types:     res.TypeInterner,
		lattice:   res.Lattice,
		config:    opts.Config.normalized(),
		result:    &res,
		typeCache: make(map[ast.TypeID]types.TypeID),
	}
	tc.run()
	res.Errors = counting.Errors
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	fileID   ast.FileID
	reporter diag.Reporter
	types    *types.Interner
	lattice  *qual.Lattice
	config   Config
	result   *Result

	scopes    []scope
	typeCache map[ast.TypeID]types.TypeID

	// состояние текущей функции
	fnName   string
	fnResult types.TypeID
	labels   map[string]source.Span
	gotos    []gotoRef
	// itemOrder — номер текущего элемента верхнего уровня; глобалы,
	// объявленные позже, ещё не видны.
	itemOrder int
	nextMark  uint32
}

func (tc *typeChecker) run() {
	file := tc.builder.Files.Get(tc.fileID)
	if file == nil {
		return
	}
	tc.pushScope()
	tc.declarePrelude()
	tc.pushScope() // file scope
	tc.qualifyFile(file)
	tc.flowFile(file)
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.builder.Name(id)
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if e := tc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (tc *typeChecker) kindOf(id types.TypeID) types.Kind {
	t, _ := tc.types.Lookup(id)
	return t.Kind
}
