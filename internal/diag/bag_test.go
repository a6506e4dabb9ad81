package diag

import (
	"testing"

	"approxc/internal/source"
)

func TestBagSortAndErrors(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, SemaImplicitDecl, source.Span{File: 1, Start: 20, End: 25}, "w"))
	b.Add(NewError(SemaPrecisionFlow, source.Span{File: 1, Start: 4, End: 9}, "e"))
	b.Add(NewError(SemaApproxCondition, source.Span{File: 0, Start: 30, End: 31}, "c"))
	b.Sort()

	items := b.Items()
	if items[0].Code != SemaApproxCondition || items[1].Code != SemaPrecisionFlow || items[2].Code != SemaImplicitDecl {
		t.Fatalf("unexpected order: %v, %v, %v", items[0].Code, items[1].Code, items[2].Code)
	}
	if !b.HasErrors() || b.ErrorCount() != 2 {
		t.Fatalf("expected 2 errors, got %d", b.ErrorCount())
	}
}

func TestBagLimitKeepsErrorCount(t *testing.T) {
	b := NewBag(1)
	b.Add(New(SevWarning, SemaImplicitDecl, source.Span{}, "w"))
	if b.Add(NewError(SemaPrecisionFlow, source.Span{}, "e")) {
		t.Fatalf("bag should be full")
	}
	if !b.HasErrors() {
		t.Fatalf("dropped error must still count")
	}
}

func TestReportBuilderQualDetail(t *testing.T) {
	b := NewBag(0)
	r := &BagReporter{Bag: b}
	ReportError(r, SemaPrecisionFlow, source.Span{File: 1, Start: 1, End: 2}, "approximate value flows into precise destination").
		WithQual("assignment", "PRECISE", "APPROX").
		WithFix("wrap in ENDORSE", FixEdit{Span: source.Span{File: 1, Start: 1, End: 1}, NewText: "ENDORSE("}).
		Emit()

	if b.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", b.Len())
	}
	d := b.Items()[0]
	if d.Rule() != "precision flow violation" {
		t.Fatalf("unexpected rule %q", d.Rule())
	}
	if d.Qual == nil || d.Qual.Construct != "assignment" || d.Qual.Found != "APPROX" {
		t.Fatalf("unexpected qual detail %+v", d.Qual)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("expected fix")
	}
}

func TestCodeIDFamilies(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:      "LEX1001",
		SynExpectSemicolon:  "SYN2002",
		SemaApproxCondition: "SEM3004",
		IOLoadFileError:     "IO4001",
		ProjConfigInvalid:   "PRJ5001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(&BagReporter{Bag: b})
	d := NewError(SemaPrecisionFlow, source.Span{File: 1, Start: 3, End: 4}, "dup")
	r.Report(d)
	r.Report(d)
	if b.Len() != 1 {
		t.Fatalf("expected duplicates to be dropped, got %d", b.Len())
	}
}
