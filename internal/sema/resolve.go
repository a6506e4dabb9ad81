package sema

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/types"
)

// resolveType lowers declarator syntax to a qualified type. Results are
// cached per syntax node: one base shared by several declarators defines its
// struct or enum once.
func (tc *typeChecker) resolveType(id ast.TypeID) types.TypeID {
	if !id.IsValid() {
		return tc.types.Builtins().Int
	}
	if cached, ok := tc.typeCache[id]; ok {
		return cached
	}
	out := tc.resolveTypeUncached(id)
	tc.typeCache[id] = out
	return out
}

func (tc *typeChecker) qualOf(approx bool) qual.Qualifier {
	if approx {
		return qual.Approx
	}
	return tc.lattice.Default
}

func (tc *typeChecker) resolveTypeUncached(id ast.TypeID) types.TypeID {
	te := tc.builder.Types.Get(id)
	if te == nil {
		return types.NoTypeID
	}
	switch te.Kind {
	case ast.TypeExprBase:
		data, _ := tc.builder.Types.Base(id)
		base := tc.resolveBase(te, data)
		if te.Approx {
			return tc.types.WithQual(base, qual.Approx)
		}
		return base
	case ast.TypeExprPointer:
		data, _ := tc.builder.Types.Pointer(id)
		return tc.types.Pointer(tc.resolveType(data.Elem), tc.qualOf(te.Approx))
	case ast.TypeExprArray:
		data, _ := tc.builder.Types.Array(id)
		return tc.types.MakeArray(tc.resolveType(data.Elem), tc.arrayLen(data.Len))
	case ast.TypeExprFunc:
		data, _ := tc.builder.Types.Func(id)
		info := types.FnInfo{
			Result:      tc.resolveType(data.Result),
			Variadic:    data.Variadic,
			Unspecified: data.Unspecified,
		}
		for _, pid := range data.Params {
			info.Params = append(info.Params, tc.paramType(pid))
		}
		return tc.types.RegisterFn(info)
	}
	return types.NoTypeID
}

// paramType: array parameters decay to pointers to their element.
func (tc *typeChecker) paramType(pid ast.ParamID) types.TypeID {
	if t, ok := tc.result.ParamTypes[pid]; ok {
		return t
	}
	p := tc.builder.Decls.Param(pid)
	if p == nil {
		return types.NoTypeID
	}
	t := tc.types.Decay(tc.resolveType(p.Type))
	tc.result.ParamTypes[pid] = t
	return t
}

func (tc *typeChecker) resolveBase(te *ast.TypeExpr, data *ast.TypeBaseData) types.TypeID {
	b := tc.types.Builtins()
	switch data.Base {
	case ast.BaseVoid:
		return b.Void
	case ast.BaseBool:
		return b.Bool
	case ast.BaseChar:
		return pick(data.Unsigned, b.UChar, b.Char)
	case ast.BaseShort:
		return pick(data.Unsigned, b.UShort, b.Short)
	case ast.BaseInt:
		return pick(data.Unsigned, b.Uint, b.Int)
	case ast.BaseLong:
		return pick(data.Unsigned, b.ULong, b.Long)
	case ast.BaseLongLong:
		return pick(data.Unsigned, b.ULongLong, b.LongLong)
	case ast.BaseFloat:
		return b.Float
	case ast.BaseDouble:
		return b.Double
	case ast.BaseLongDouble:
		return b.LongDouble
	case ast.BaseStruct, ast.BaseUnion:
		return tc.resolveRecord(data)
	case ast.BaseEnum:
		return tc.resolveEnum(data)
	case ast.BaseTypedefName:
		name := tc.name(data.Name)
		if _, sym := tc.lookup(name); sym != nil && sym.Kind == SymbolTypedef {
			return sym.Type
		}
		if rb := diag.ReportError(tc.reporter, diag.SemaUnknownType, te.Span, fmt.Sprintf("unknown type name '%s'", name)); rb != nil {
			rb.Emit()
		}
		return b.Int
	}
	return b.Int
}

func pick(cond bool, a, b types.TypeID) types.TypeID {
	if cond {
		return a
	}
	return b
}

func (tc *typeChecker) resolveRecord(data *ast.TypeBaseData) types.TypeID {
	union := data.Base == ast.BaseUnion
	tag := tc.name(data.Name)
	if !data.Record.IsValid() {
		if id, ok := tc.lookupTag(tag); ok {
			return id
		}
		// неполный тип: `struct S *p;` до определения
		id := tc.types.RegisterRecord(tag, union)
		tc.declareTag(tag, id)
		return id
	}
	id, ok := types.NoTypeID, false
	if tag != "" {
		// определение завершает ранее объявленный в этой же области тег
		id, ok = tc.scopes[len(tc.scopes)-1].tags[tag]
		if ok {
			if info, _ := tc.types.RecordInfo(id); info != nil && info.Complete {
				ok = false
			}
		}
	}
	if !ok {
		id = tc.types.RegisterRecord(tag, union)
		tc.declareTag(tag, id)
	}
	rec := tc.builder.Decls.Record(data.Record)
	fields := make([]types.Field, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		fields = append(fields, types.Field{Name: tc.name(f.Name), Type: tc.resolveType(f.Type)})
	}
	tc.types.SetRecordFields(id, fields)
	return id
}

func (tc *typeChecker) resolveEnum(data *ast.TypeBaseData) types.TypeID {
	tag := tc.name(data.Name)
	if !data.Enum.IsValid() {
		if id, ok := tc.lookupTag(tag); ok {
			return id
		}
		id := tc.types.RegisterEnum(tag)
		tc.declareTag(tag, id)
		return id
	}
	id := tc.types.RegisterEnum(tag)
	tc.declareTag(tag, id)
	en := tc.builder.Decls.Enum(data.Enum)
	var next int64
	for _, e := range en.Enumerators {
		if e.Value.IsValid() {
			if v, ok := tc.constValue(e.Value); ok {
				next = v
			}
		}
		tc.addSymbol(Symbol{
			Name:   tc.name(e.Name),
			Kind:   SymbolEnumConst,
			Type:   tc.types.Builtins().Int,
			Span:   e.Span,
			Global: tc.atFileScope(),
			Order:  tc.itemOrder,
			Value:  next,
		})
		next++
	}
	return id
}

func (tc *typeChecker) arrayLen(id ast.ExprID) uint32 {
	if !id.IsValid() {
		return types.ArrayUnknownLength
	}
	v, ok := tc.constValue(id)
	if !ok || v < 0 {
		return types.ArrayUnknownLength
	}
	n, err := safecast.Conv[uint32](v)
	if err != nil || n == types.ArrayUnknownLength {
		return types.ArrayUnknownLength
	}
	return n
}

// constValue folds integer literals, enumerators and simple arithmetic.
func (tc *typeChecker) constValue(id ast.ExprID) (int64, bool) {
	id = tc.builder.Exprs.Unparen(id)
	e := tc.builder.Exprs.Get(id)
	if e == nil {
		return 0, false
	}
	switch e.Kind {
	case ast.ExprLit:
		lit, _ := tc.builder.Exprs.Literal(id)
		if lit.Kind != ast.ExprLitInt {
			return 0, false
		}
		text := strings.TrimRight(lit.Text, "uUlL")
		v, err := strconv.ParseInt(text, 0, 64)
		return v, err == nil
	case ast.ExprIdent:
		data, _ := tc.builder.Exprs.Ident(id)
		if _, sym := tc.lookup(tc.name(data.Name)); sym != nil && sym.Kind == SymbolEnumConst {
			return sym.Value, true
		}
	case ast.ExprUnary:
		data, _ := tc.builder.Exprs.Unary(id)
		v, ok := tc.constValue(data.Operand)
		switch data.Op {
		case ast.ExprUnaryMinus:
			return -v, ok
		case ast.ExprUnaryPlus:
			return v, ok
		case ast.ExprUnaryBitNot:
			return ^v, ok
		}
	case ast.ExprBinary:
		data, _ := tc.builder.Exprs.Binary(id)
		l, lok := tc.constValue(data.Left)
		r, rok := tc.constValue(data.Right)
		if !lok || !rok {
			return 0, false
		}
		switch data.Op {
		case ast.ExprBinaryAdd:
			return l + r, true
		case ast.ExprBinarySub:
			return l - r, true
		case ast.ExprBinaryMul:
			return l * r, true
		case ast.ExprBinaryDiv:
			if r != 0 {
				return l / r, true
			}
		case ast.ExprBinaryShiftLeft:
			if r >= 0 && r < 63 {
				return l << r, true
			}
		}
	}
	return 0, false
}
