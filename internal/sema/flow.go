package sema

import (
	"fmt"
	"strings"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// flowSite describes the destination of a checked value transfer.
type flowSite struct {
	op        qual.OpClass
	construct string
	span      source.Span
	// relaxPointee skips the exact pointee match (polymorphic library calls).
	relaxPointee bool
}

// checkFlow validates moving the value of expr (typed src) into a slot of
// type dst. It reports at most one diagnostic per transfer.
func (tc *typeChecker) checkFlow(expr ast.ExprID, src, dst types.TypeID, site flowSite) {
	if src == types.NoTypeID || dst == types.NoTypeID {
		return
	}
	src = tc.types.Decay(src)
	dst = tc.types.Decay(dst)
	if site.span == (source.Span{}) {
		site.span = tc.exprSpan(expr)
	}

	sq, dq := tc.types.Qual(src), tc.types.Qual(dst)
	if v := tc.lattice.Check(sq, dq, site.op); v == qual.PrecisionFlow {
		tc.reportPrecisionFlow(expr, src, dst, site)
		return
	}

	if site.relaxPointee || tc.isDedorsed(expr) || tc.isRawPointer(expr) {
		return
	}
	tc.checkPointee(src, dst, site)
}

// checkPointee applies the exact-match rule along the pointee chain.
// void pointees keep their qualifier: void * is PRECISE memory, APPROX void *
// is approximate memory.
func (tc *typeChecker) checkPointee(src, dst types.TypeID, site flowSite) bool {
	st, _ := tc.types.Lookup(src)
	dt, _ := tc.types.Lookup(dst)
	if st.Kind != types.KindPointer || dt.Kind != types.KindPointer {
		return true
	}
	sShape := tc.types.QualShape(st.Elem)
	dShape := tc.types.QualShape(dt.Elem)
	for i := 0; i < len(sShape) && i < len(dShape); i++ {
		if tc.lattice.PointerCompatible(sShape[i], dShape[i]) {
			continue
		}
		level := "pointee"
		if i > 0 {
			level = fmt.Sprintf("pointee level %d", i+1)
		}
		msg := fmt.Sprintf("pointer qualifier mismatch in %s: %s qualifier is %s, expected %s (%s to %s)",
			site.construct, level, sShape[i], dShape[i],
			tc.types.Format(src), tc.types.Format(dst))
		diag.ReportError(tc.reporter, diag.SemaPointerQualMismatch, site.span, msg).
			WithQual(site.op.String(), dShape[i].String(), sShape[i].String()).
			WithNote(site.span, "pointee qualifiers must match exactly; use DEDORSE to hand APPROX data to a PRECISE pointer").
			Emit()
		return false
	}
	return true
}

func (tc *typeChecker) reportPrecisionFlow(expr ast.ExprID, src, dst types.TypeID, site flowSite) {
	msg := fmt.Sprintf("precision flow violation in %s: APPROX value of type %s flows into PRECISE %s",
		site.construct, tc.types.Format(src), tc.types.Format(dst))
	b := diag.ReportError(tc.reporter, diag.SemaPrecisionFlow, site.span, msg).
		WithQual(site.op.String(), qual.Precise.String(), qual.Approx.String())
	if sp := tc.exprSpan(expr); !sp.Empty() {
		b = b.WithFix("wrap the value in ENDORSE(...)",
			diag.FixEdit{Span: source.Span{File: sp.File, Start: sp.Start, End: sp.Start}, NewText: "ENDORSE("},
			diag.FixEdit{Span: source.Span{File: sp.File, Start: sp.End, End: sp.End}, NewText: ")"},
		)
	}
	b.Emit()
}

// checkCondition: control decisions need PRECISE data.
func (tc *typeChecker) checkCondition(expr ast.ExprID, construct string) {
	if !expr.IsValid() {
		return
	}
	t := tc.checkExpr(expr)
	q := tc.types.Qual(tc.types.Decay(t))
	if tc.lattice.Check(q, qual.Precise, qual.OpCondition) != qual.ApproxCondition {
		return
	}
	sp := tc.exprSpan(expr)
	diag.ReportError(tc.reporter, diag.SemaApproxCondition, sp,
		fmt.Sprintf("approximate condition in %s: %s value decides control flow", construct, tc.types.Format(t))).
		WithQual(construct, qual.Precise.String(), qual.Approx.String()).
		Emit()
}

// isRawPointer: memory nobody has written yet. A fresh block from an
// allocator or a null pointer constant takes any pointee qualifier.
func (tc *typeChecker) isRawPointer(expr ast.ExprID) bool {
	id := tc.builder.Exprs.Unparen(expr)
	if cast, ok := tc.builder.Exprs.Cast(id); ok {
		if lit, ok := tc.builder.Exprs.Literal(tc.builder.Exprs.Unparen(cast.Value)); ok {
			return lit.Kind == ast.ExprLitInt && isZeroLiteral(lit.Text)
		}
		return tc.isRawPointer(cast.Value)
	}
	call, ok := tc.builder.Exprs.Call(id)
	if !ok {
		return false
	}
	ident, ok := tc.builder.Exprs.Ident(tc.builder.Exprs.Unparen(call.Target))
	return ok && isAllocator(tc.name(ident.Name))
}

func isZeroLiteral(text string) bool {
	text = strings.TrimRight(strings.ToLower(text), "ul")
	return strings.Trim(text, "0x") == "" && text != ""
}

// isDedorsed reports an expression wrapped in DEDORSE at its top.
func (tc *typeChecker) isDedorsed(expr ast.ExprID) bool {
	esc, ok := tc.builder.Exprs.Escape(tc.builder.Exprs.Unparen(expr))
	return ok && esc.Kind == ast.EscapeDedorse
}
