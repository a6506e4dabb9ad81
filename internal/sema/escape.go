package sema

import (
	"fmt"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// MarkerID is the unit-unique, increasing number of an escape marker.
type MarkerID uint32

// Marker records one ENDORSE/DEDORSE site; lowering turns it into a marker
// instruction carrying Sentinel and ID.
type Marker struct {
	ID        MarkerID
	Direction qual.Direction
	Sentinel  uint32
	Expr      ast.ExprID
	Span      source.Span
	Func      string // "" at file scope
	// Operand is the qualified type of the wrapped expression.
	Operand   types.TypeID
	Redundant bool
}

func (tc *typeChecker) escapeType(id ast.ExprID, data *ast.ExprEscapeData) types.TypeID {
	inner := tc.types.Decay(tc.checkExpr(data.Value))
	dir := qual.Endorse
	if data.Kind == ast.EscapeDedorse {
		dir = qual.Dedorse
	}
	tc.nextMark++
	m := Marker{
		ID:        MarkerID(tc.nextMark),
		Direction: dir,
		Sentinel:  tc.lattice.Sentinel(dir),
		Expr:      id,
		Span:      tc.exprSpan(id),
		Func:      tc.fnName,
		Operand:   inner,
		Redundant: tc.redundantEscape(dir, inner),
	}
	tc.result.Markers = append(tc.result.Markers, m)
	if m.Redundant && tc.config.RedundantEscape {
		what := "operand is already PRECISE"
		if dir == qual.Dedorse {
			what = "operand is PRECISE and has no APPROX pointee"
		}
		diag.ReportWarning(tc.reporter, diag.SemaRedundantEscape, m.Span,
			fmt.Sprintf("%s has no effect: %s", dir, what)).Emit()
	}
	// DEDORSE additionally erases the pointee qualifier; the enclosing flow
	// check asks isDedorsed for that.
	return tc.types.WithQual(inner, qual.Precise)
}

func (tc *typeChecker) redundantEscape(dir qual.Direction, t types.TypeID) bool {
	if tc.types.Qual(t) == qual.Approx {
		return false
	}
	if dir == qual.Dedorse {
		if pq, ok := tc.types.PointeeQual(t); ok && pq == qual.Approx {
			return false
		}
	}
	return true
}
