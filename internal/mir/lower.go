package mir

import (
	"errors"
	"fmt"

	"approxc/internal/ast"
	"approxc/internal/qual"
	"approxc/internal/sema"
	"approxc/internal/types"
)

// ErrRejected is returned when the unit has error diagnostics: a rejected
// unit has no lowered form.
var ErrRejected = errors.New("unit has errors; no lowered output")

// LowerUnit converts a checked unit to MIR. Tags come from the checker's
// qualified types.
func LowerUnit(builder *ast.Builder, fileID ast.FileID, res *sema.Result) (*Module, error) {
	if res == nil || builder == nil {
		return nil, fmt.Errorf("lower: missing inputs")
	}
	if res.Errors > 0 {
		return nil, fmt.Errorf("%w (%d errors)", ErrRejected, res.Errors)
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("lower: unknown file %d", fileID)
	}
	lattice := res.Lattice
	if lattice == nil {
		lattice = qual.Standard()
	}
	ml := &moduleLowerer{
		builder:     builder,
		sema:        res,
		types:       res.TypeInterner,
		lattice:     lattice,
		out:         &Module{},
		symToGlobal: make(map[sema.SymbolID]GlobalID),
	}
	ml.collectGlobals()
	for _, itemID := range file.Items {
		fn, ok := builder.Items.Func(itemID)
		if !ok {
			continue
		}
		id := FuncID(len(ml.out.Funcs)) //nolint:gosec // bounded by item count
		f, err := ml.lowerFunc(id, fn)
		if err != nil {
			return nil, err
		}
		ml.out.Funcs = append(ml.out.Funcs, f)
	}
	return ml.out, nil
}

type moduleLowerer struct {
	builder     *ast.Builder
	sema        *sema.Result
	types       *types.Interner
	lattice     *qual.Lattice
	out         *Module
	symToGlobal map[sema.SymbolID]GlobalID
}

// tagOf derives the instruction tag of a qualified type.
func (ml *moduleLowerer) tagOf(t types.TypeID) qual.Tag {
	pq, indirect := ml.types.PointeeQual(t)
	return ml.lattice.TagOf(ml.types.Qual(t), pq, indirect)
}

func (ml *moduleLowerer) kindOf(t types.TypeID) types.Kind {
	tt, _ := ml.types.Lookup(t)
	return tt.Kind
}

func (ml *moduleLowerer) collectGlobals() {
	for i := 1; i < len(ml.sema.Symbols); i++ {
		sym := &ml.sema.Symbols[i]
		if !sym.Global || sym.Prelude || sym.Kind != sema.SymbolVar || !sym.Decl.IsValid() {
			continue
		}
		decl := ml.builder.Decls.Get(sym.Decl)
		if decl == nil || (decl.Storage.Has(ast.StorageExtern) && !decl.Init.IsValid()) {
			continue
		}
		g := Global{
			Name:   sym.Name,
			Type:   sym.Type,
			Tag:    ml.tagOf(sym.Type),
			Span:   sym.Span,
			Static: decl.Storage.Has(ast.StorageStatic),
		}
		if lit, ok := ml.builder.Exprs.Literal(ml.builder.Exprs.Unparen(decl.Init)); ok {
			g.Init = lit.Text
		}
		ml.symToGlobal[sema.SymbolID(i)] = GlobalID(len(ml.out.Globals)) //nolint:gosec // bounded by symbol count
		ml.out.Globals = append(ml.out.Globals, g)
	}
}

func (ml *moduleLowerer) lowerFunc(id FuncID, fn *ast.FuncItem) (*Func, error) {
	decl := ml.builder.Decls.Get(fn.Decl)
	if decl == nil {
		return nil, fmt.Errorf("lower: function item without declaration")
	}
	f := &Func{
		ID:     id,
		Name:   ml.builder.Name(decl.Name),
		Span:   decl.Span,
		Result: ml.types.Builtins().Int,
	}
	if info, ok := ml.types.FnInfo(ml.sema.DeclTypes[fn.Decl]); ok {
		f.Result = info.Result
	}
	f.Tag = ml.tagOf(f.Result)

	fl := &funcLowerer{
		moduleLowerer: ml,
		f:             f,
		symToLocal:    make(map[sema.SymbolID]LocalID),
		declToLocal:   make(map[ast.DeclID]LocalID),
		labels:        make(map[string]LabelID),
	}
	fl.bindParams(decl)
	fl.lowerStmt(fn.Body)
	f.trimUnusedLabels()
	if !f.Terminated() {
		fl.emitRet(NoValueID, f.Result)
	}
	for i := range f.Instrs {
		if in := &f.Instrs[i]; in.Kind == InstrMarker {
			ml.out.Markers = append(ml.out.Markers, MarkerRef{Func: f.Name, Instr: i, Marker: in.Marker, Span: in.Span})
		}
	}
	return f, nil
}

type loopTargets struct {
	brk  LabelID
	cont LabelID
}

type funcLowerer struct {
	*moduleLowerer
	f *Func

	symToLocal  map[sema.SymbolID]LocalID
	declToLocal map[ast.DeclID]LocalID
	labels      map[string]LabelID
	targets     []loopTargets
	// caseLabels хранит метки case/default текущего switch
	caseLabels []map[ast.StmtID]LabelID
}

func (fl *funcLowerer) newLocal(l Local) LocalID {
	fl.f.Locals = append(fl.f.Locals, l)
	return LocalID(len(fl.f.Locals) - 1) //nolint:gosec // bounded by decl count
}

func (fl *funcLowerer) bindParams(decl *ast.Decl) {
	sig, ok := fl.builder.Types.Func(decl.Type)
	if !ok {
		return
	}
	paramSyms := make(map[ast.ParamID]sema.SymbolID)
	for i := 1; i < len(fl.sema.Symbols); i++ {
		if s := &fl.sema.Symbols[i]; s.Kind == sema.SymbolParam {
			paramSyms[s.Param] = sema.SymbolID(i) //nolint:gosec // bounded by symbol count
		}
	}
	for _, pid := range sig.Params {
		p := fl.builder.Decls.Param(pid)
		if p == nil {
			continue
		}
		t := fl.sema.ParamTypes[pid]
		lid := fl.newLocal(Local{Name: fl.builder.Name(p.Name), Type: t, Tag: fl.tagOf(t), Span: p.Span, Param: true})
		fl.f.Params = append(fl.f.Params, lid)
		if sym, ok := paramSyms[pid]; ok {
			fl.symToLocal[sym] = lid
		}
		fl.f.emit(Instr{Kind: InstrParam, Tag: fl.tagOf(t), Type: t, Dst: NoValueID, Local: lid, Span: p.Span})
	}
}

func (fl *funcLowerer) emitRet(v ValueID, t types.TypeID) {
	in := Instr{Kind: InstrRet, Tag: fl.tagOf(t), Type: t, Dst: NoValueID}
	if v != NoValueID {
		in.Args = []ValueID{v}
	}
	fl.f.emit(in)
}

func (fl *funcLowerer) emitLabel(l LabelID) {
	fl.f.emit(Instr{Kind: InstrLabel, Dst: NoValueID, Label: l})
}

func (fl *funcLowerer) emitBr(l LabelID) {
	fl.f.emit(Instr{Kind: InstrBr, Dst: NoValueID, Label: l})
}

func (fl *funcLowerer) emitCondBr(c ValueID, then, els LabelID) {
	fl.f.emit(Instr{Kind: InstrCondBr, Dst: NoValueID, Args: []ValueID{c}, Label: then, Else: els})
}

// value emits an instruction producing a new value of type t.
func (fl *funcLowerer) value(in Instr, t types.TypeID) ValueID {
	in.Dst = fl.f.newValue()
	in.Type = t
	in.Tag = fl.tagOf(t)
	fl.f.emit(in)
	return in.Dst
}

func (fl *funcLowerer) constant(text string, t types.TypeID) ValueID {
	return fl.value(Instr{Kind: InstrConst, Text: text}, t)
}

func (fl *funcLowerer) load(addr ValueID, t types.TypeID) ValueID {
	return fl.value(Instr{Kind: InstrLoad, Args: []ValueID{addr}}, t)
}

// store carries the tag of the destination slot.
func (fl *funcLowerer) store(addr, v ValueID, slot types.TypeID) {
	fl.f.emit(Instr{Kind: InstrStore, Tag: fl.tagOf(slot), Type: slot, Dst: NoValueID, Args: []ValueID{addr, v}})
}

func (fl *funcLowerer) ptrTo(t types.TypeID) types.TypeID {
	return fl.types.Pointer(t, qual.Precise)
}
