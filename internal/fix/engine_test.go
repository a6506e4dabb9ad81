package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"approxc/internal/diag"
	"approxc/internal/source"
)

// wrap builds the diagnostic the checker reports for an APPROX value at
// [start, end) together with its ENDORSE fix.
func wrap(file source.FileID, start, end uint32) diag.Diagnostic {
	sp := source.Span{File: file, Start: start, End: end}
	return diag.NewError(diag.SemaPrecisionFlow, sp, "precision flow violation").
		WithFix("wrap the value in ENDORSE(...)",
			diag.FixEdit{Span: source.Span{File: file, Start: start, End: start}, NewText: "ENDORSE("},
			diag.FixEdit{Span: source.Span{File: file, Start: end, End: end}, NewText: ")"},
		)
}

func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte("y = x;"))
	d := wrap(fileID, 4, 5)

	candidates, skips := gatherCandidates([]diag.Diagnostic{d, d})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate skip, got %+v", skips)
	}
	if skips[0].ID != FixID(d, 0) {
		t.Fatalf("skip id = %q", skips[0].ID)
	}
}

func TestApplyAllWrapsEverySite(t *testing.T) {
	src := "y = x; z = x + 1;\n"
	fs, id, path := loadTemp(t, src)
	diags := []diag.Diagnostic{wrap(id, 11, 16), wrap(id, 4, 5)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	// порядок по позиции в файле
	if res.Applied[0].Line != 1 || res.Applied[0].Col != 5 {
		t.Fatalf("first applied at %d:%d", res.Applied[0].Line, res.Applied[0].Col)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "y = ENDORSE(x); z = ENDORSE(x + 1);\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]FileChange{{Path: "a.c", EditCount: 4, Content: []byte(want)}}, res.FileChanges); diff != "" {
		t.Fatalf("file changes mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyOnceAndByID(t *testing.T) {
	src := "y = x; z = w;\n"
	fs, id, path := loadTemp(t, src)
	first, second := wrap(id, 4, 5), wrap(id, 11, 12)

	res, err := Apply(fs, []diag.Diagnostic{second, first}, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != FixID(first, 0) {
		t.Fatalf("once must pick the first site, got %+v", res.Applied)
	}
	if got, _ := os.ReadFile(path); string(got) != src {
		t.Fatalf("dry run modified the file: %q", got)
	}
	if string(res.FileChanges[0].Content) != "y = ENDORSE(x); z = w;\n" {
		t.Fatalf("dry run content = %q", res.FileChanges[0].Content)
	}

	res, err = Apply(fs, []diag.Diagnostic{first, second}, ApplyOptions{Mode: ApplyModeID, TargetID: FixID(second, 0)})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "y = x; z = ENDORSE(w);\n" || len(res.Applied) != 1 {
		t.Fatalf("unexpected content %q", got)
	}

	_, err = Apply(fs, []diag.Diagnostic{first}, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplySkipsConflictsAndVirtualFiles(t *testing.T) {
	fs, id, _ := loadTemp(t, "y = abc;\n")
	replace := diag.NewError(diag.SemaPrecisionFlow, source.Span{File: id, Start: 4, End: 7}, "r").
		WithFix("replace", diag.FixEdit{Span: source.Span{File: id, Start: 4, End: 7}, NewText: "q"})
	overlap := diag.NewError(diag.SemaPrecisionFlow, source.Span{File: id, Start: 5, End: 6}, "o").
		WithFix("inner", diag.FixEdit{Span: source.Span{File: id, Start: 5, End: 6}, NewText: "B"})

	res, err := Apply(fs, []diag.Diagnostic{replace, overlap}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected one applied and one skipped, got %+v", res)
	}

	vid := fs.AddVirtual("v.c", []byte("y = x;"))
	_, err = Apply(fs, []diag.Diagnostic{wrap(vid, 4, 5)}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("virtual file must not be modified, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	e := func(s, en uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: s, End: en}} }
	cases := []struct {
		a, b diag.FixEdit
		want bool
	}{
		{e(3, 3), e(3, 3), false},
		{e(3, 3), e(1, 5), true},
		{e(1, 3), e(3, 3), false},
		{e(1, 4), e(2, 6), true},
		{e(1, 2), e(2, 3), false},
	}
	for _, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tc.a.Span, tc.b.Span, got, tc.want)
		}
	}
}
