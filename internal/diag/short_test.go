package diag

import (
	"testing"

	"approxc/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.Add("/workspace/demo/kernel.c", []byte("int a;\nint b;\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaImplicitDecl,
			Message:  "implicit declaration of 'f'",
			Primary:  source.Span{File: file, Start: 11, End: 12},
		},
		{
			Severity: SevError,
			Code:     SemaPrecisionFlow,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 4, End: 5},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 7, End: 10}, Msg: "declared here"},
			},
		},
	}

	want := "error SEM3002 demo/kernel.c:1:5 first line second\n" +
		"note SEM3002 demo/kernel.c:2:1 declared here\n" +
		"warning SEM3007 demo/kernel.c:2:5 implicit declaration of 'f'"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	wantNoNotes := "error SEM3002 demo/kernel.c:1:5 first line second\n" +
		"warning SEM3007 demo/kernel.c:2:5 implicit declaration of 'f'"
	if got := FormatShortDiagnostics(diags, fs, false); got != wantNoNotes {
		t.Fatalf("unexpected output without notes:\n%s", got)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics(nil, source.NewFileSet(), true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
