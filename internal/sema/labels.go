package sema

import (
	"fmt"

	"approxc/internal/diag"
	"approxc/internal/source"
)

// Метки видны во всей функции, goto может ссылаться вперёд.
type gotoRef struct {
	name string
	span source.Span
}

func (tc *typeChecker) defineLabel(name string, span source.Span) {
	if tc.labels == nil {
		return
	}
	if prev, dup := tc.labels[name]; dup {
		diag.ReportError(tc.reporter, diag.SemaDuplicateLabel, span,
			fmt.Sprintf("label '%s' is already defined in '%s'", name, tc.fnName)).
			WithNote(prev, "previous definition is here").
			Emit()
		return
	}
	tc.labels[name] = span
}

func (tc *typeChecker) checkGotos() {
	for _, g := range tc.gotos {
		if _, ok := tc.labels[g.name]; !ok {
			diag.ReportError(tc.reporter, diag.SemaUndefinedLabel, g.span,
				fmt.Sprintf("use of undefined label '%s' in '%s'", g.name, tc.fnName)).Emit()
		}
	}
}
