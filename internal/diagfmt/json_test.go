package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/source"
)

func flowBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := "APPROX int a;\nint b = a;\n"
	fileID := fs.AddVirtual("flow.c", []byte(content))

	d := diag.New(diag.SevError, diag.SemaPrecisionFlow, source.Span{File: fileID, Start: 22, End: 23}, "approximate value flows into precise 'b'")
	d.Qual = &diag.QualDetail{Construct: "initialization", Expected: "PRECISE", Found: "APPROX"}
	d = d.WithNote(source.Span{File: fileID, Start: 11, End: 12}, "declared here")
	d = d.WithFix("endorse the value",
		diag.FixEdit{Span: source.Span{File: fileID, Start: 22, End: 22}, NewText: "ENDORSE("},
		diag.FixEdit{Span: source.Span{File: fileID, Start: 23, End: 23}, NewText: ")"},
	)

	bag := diag.NewBag(10)
	bag.Add(d)
	bag.Add(diag.New(diag.SevWarning, diag.SemaImplicitDecl, source.Span{File: fileID, Start: 14, End: 17}, "implicit declaration"))
	return bag, fs
}

func TestJSONBasic(t *testing.T) {
	bag, fs := flowBag(t)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || output.Errors != 1 || output.Warnings != 1 {
		t.Fatalf("unexpected counters: count=%d errors=%d warnings=%d", output.Count, output.Errors, output.Warnings)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3002" {
		t.Errorf("unexpected severity/code: %s %s", d.Severity, d.Code)
	}
	if d.Location.File != "flow.c" || d.Location.StartLine != 2 || d.Location.StartCol != 9 {
		t.Errorf("unexpected location: %+v", d.Location)
	}
	if d.Qual == nil {
		t.Fatal("expected qual detail")
	}
	wantQual := QualJSON{Construct: "initialization", Rule: "precision flow violation", Expected: "PRECISE", Found: "APPROX"}
	if *d.Qual != wantQual {
		t.Errorf("qual = %+v, want %+v", *d.Qual, wantQual)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartCol != 12 {
		t.Errorf("unexpected notes: %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 2 {
		t.Fatalf("unexpected fixes: %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "ENDORSE(" || len(edit.AfterLines) != 1 || edit.AfterLines[0] != "int b = ENDORSE(a;" {
		t.Errorf("unexpected edit: %+v", edit)
	}

	if output.Diagnostics[1].Qual != nil {
		t.Errorf("warning without qual detail got one: %+v", output.Diagnostics[1].Qual)
	}
}

func TestJSONMaxAndOmissions(t *testing.T) {
	bag, fs := flowBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1, PathMode: PathModeBasename})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Max not applied: %+v", out)
	}
	// счётчики считаются по всему Bag
	if out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counters must cover the whole bag: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Notes != nil || d.Fixes != nil {
		t.Fatalf("notes/fixes must be omitted: %+v", d)
	}
	if d.Location.StartLine != 0 {
		t.Fatalf("positions must be omitted: %+v", d.Location)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := flowBag(t)

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{
		ToolName:       "approxc",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"check", "flow.c"},
		PathMode:       PathModeBasename,
	})
	if err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "approxc" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if run.Tool.Driver.Rules[0].ID != "SEM3002" || run.Tool.Driver.Rules[1].ID != "SEM3007" {
		t.Fatalf("rules must be sorted by code: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	r := run.Results[0]
	if r.Level != "error" || r.RuleIndex != 0 || r.Properties["found"] != "APPROX" {
		t.Fatalf("unexpected result: %+v", r)
	}
	region := r.Locations[0].PhysicalLocation.Region
	if r.Locations[0].PhysicalLocation.ArtifactLocation.URI != "flow.c" || region.StartLine != 2 || region.StartColumn != 9 {
		t.Fatalf("unexpected location: %+v", r.Locations[0])
	}
	if len(r.RelatedLocations) != 1 || r.RelatedLocations[0].Message.Text != "declared here" {
		t.Fatalf("unexpected related locations: %+v", r.RelatedLocations)
	}
	if run.Results[1].Level != "warning" || run.Results[1].RuleIndex != 1 {
		t.Fatalf("unexpected warning result: %+v", run.Results[1])
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("invocation must report failure: %+v", run.Invocations)
	}
}

func TestTokensOutput(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("tok.c", []byte("// c\nAPPROX int x;"))
	toks := lexer.Tokenize(fs.Get(fileID), lexer.Options{})

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(pretty.Bytes(), []byte(`"APPROX" at 2:1-2:7 (leading: line-comment, newline)`)) {
		t.Fatalf("unexpected pretty tokens:\n%s", pretty.String())
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatalf("invalid tokens JSON: %v", err)
	}
	if len(out) != 5 || out[len(out)-1].Kind != "EOF" {
		t.Fatalf("unexpected tokens: %+v", out)
	}
}
