package diag

import (
	"approxc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

// QualDetail describes the conflicting qualifiers of a qualifier diagnostic.
type QualDetail struct {
	Construct string // "assignment", "call argument", "if condition", ...
	Expected  string
	Found     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Qual     *QualDetail
	Notes    []Note
	Fixes    []Fix
}

// Rule returns the rule name violated by the diagnostic.
func (d Diagnostic) Rule() string {
	return d.Code.Title()
}
