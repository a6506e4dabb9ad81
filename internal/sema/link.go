package sema

import (
	"fmt"
	"slices"

	"approxc/internal/diag"
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// Signature is an interner-independent summary of an external declaration,
// used to compare units that were checked separately.
type Signature struct {
	Name string
	Span source.Span
	Text string
	Func bool
	// Unspecified parameter list `f()`: parameters are not compared.
	Unspecified bool
	// Shapes: for functions the result followed by each parameter,
	// for objects a single entry.
	Shapes [][]qual.Qualifier
}

func (tc *typeChecker) signature(name string, typ types.TypeID, span source.Span) Signature {
	sig := Signature{Name: name, Span: span, Text: tc.types.Format(typ)}
	if info, ok := tc.types.FnInfo(typ); ok {
		sig.Func = true
		sig.Unspecified = info.Unspecified
		sig.Shapes = append(sig.Shapes, tc.types.QualShape(info.Result))
		for _, p := range info.Params {
			sig.Shapes = append(sig.Shapes, tc.types.QualShape(p))
		}
		return sig
	}
	sig.Shapes = [][]qual.Qualifier{tc.types.QualShape(typ)}
	return sig
}

func (s Signature) matches(o Signature) bool {
	if s.Func != o.Func {
		return false
	}
	if s.Func && (s.Unspecified || o.Unspecified) {
		return slices.Equal(s.Shapes[0], o.Shapes[0])
	}
	return slices.EqualFunc(s.Shapes, o.Shapes, func(a, b []qual.Qualifier) bool {
		return slices.Equal(a, b)
	})
}

// LinkUnit is one checked unit taking part in the link check.
type LinkUnit struct {
	Signatures []Signature
}

// LinkCheck reports external declarations whose qualified signature differs
// between units. Units are compared in the given order; the first declaration
// of a name is the reference.
func LinkCheck(units []LinkUnit, reporter diag.Reporter) int {
	first := make(map[string]Signature)
	count := 0
	for _, u := range units {
		for _, sig := range u.Signatures {
			ref, ok := first[sig.Name]
			if !ok {
				first[sig.Name] = sig
				continue
			}
			if ref.Span.File == sig.Span.File || ref.matches(sig) {
				continue
			}
			count++
			msg := fmt.Sprintf("'%s' is declared as %s here but as %s in another unit", sig.Name, sig.Text, ref.Text)
			diag.ReportError(reporter, diag.SemaCrossUnitMismatch, sig.Span, msg).
				WithNote(ref.Span, "other declaration is here").
				WithQual("link", ref.Text, sig.Text).
				Emit()
		}
	}
	return count
}
