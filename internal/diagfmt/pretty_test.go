package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"approxc/internal/diag"
	"approxc/internal/source"
)

func spanOf(t *testing.T, file source.FileID, content, needle string) source.Span {
	t.Helper()
	idx := strings.Index(content, needle)
	if idx < 0 {
		t.Fatalf("%q not found in source", needle)
	}
	return source.Span{File: file, Start: uint32(idx), End: uint32(idx + len(needle))}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("char *s = \"unterminated;\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.c", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 10, End: 24},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.c"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.c:1:11"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.c:1:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "kernel.c", expected: "kernel.c:1:"},
		{name: "Long path - basename", path: "/very/long/absolute/path/to/some/nested/directory/file.c", expected: "\nfile.c:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("int x = 42 @\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 11, End: 12}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := "\n" + buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	content := "int main(void) {\n\tAPPROX int a = 1;\n\tint p = a;\n}\n"
	fileID := fs.AddVirtual("flow.c", []byte(content))

	primary := spanOf(t, fileID, content, "a;\n}")
	primary.End = primary.Start + 1

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SemaPrecisionFlow, primary, "approximate value flows into precise 'p'")
	d.Qual = &diag.QualDetail{Construct: "initialization", Expected: "PRECISE", Found: "APPROX"}
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowQual: true})
	got := buf.String()

	want := "flow.c:3:10: ERROR SEM3002: approximate value flows into precise 'p'\n" +
		"3 | \tint p = a;\n" +
		"  | \t        ^\n" +
		"  = precision flow violation: expected PRECISE, found APPROX (initialization)\n"
	if got != want {
		t.Fatalf("unexpected pretty output:\nwant:\n%q\ngot:\n%q", want, got)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	content := "void f(void) {\n  APPROX int a;\n  if (a) {}\n}\n"
	fileID := fs.AddVirtual("cond.c", []byte(content))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.SemaApproxCondition, spanOf(t, fileID, content, "a)"), "approximate value used as if condition"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	got := buf.String()

	for _, want := range []string{"2 |   APPROX int a;", "3 |   if (a) {}", "4 | }", "  |       ^~\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "1 |") {
		t.Fatalf("context should not reach line 1:\n%s", got)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := "APPROX int a;\nint b = a;\n"
	fileID := fs.AddVirtual("fix.c", []byte(content))

	primary := source.Span{File: fileID, Start: 22, End: 23}
	d := diag.New(diag.SevError, diag.SemaPrecisionFlow, primary, "approximate value flows into precise 'b'")
	d = d.WithNote(source.Span{File: fileID, Start: 11, End: 12}, "'a' declared APPROX here")
	d = d.WithFix("endorse the value",
		diag.FixEdit{Span: source.Span{File: fileID, Start: 22, End: 22}, NewText: "ENDORSE("},
		diag.FixEdit{Span: source.Span{File: fileID, Start: 23, End: 23}, NewText: ")"},
	)
	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	checks := []string{
		"note: fix.c:1:12: 'a' declared APPROX here",
		"fix #1: endorse the value",
		"edit fix.c:2:9 apply=\"ENDORSE(\"",
		"preview:",
		"- int b = a;",
		"+ int b = ENDORSE(a;",
		"+ int b = a);",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.c", []byte("int x;\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SemaUndeclaredIdent, source.Span{File: fileID, Start: 4, End: 5}, "boom"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escape codes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escape codes:\n%q", colored.String())
	}
}

func TestCaretGeometryWide(t *testing.T) {
	line := `s = "日本";`
	start := source.LineCol{Line: 1, Col: 6}
	end := source.LineCol{Line: 1, Col: 12}
	pad, width := caretGeometry(line, start, end)
	if pad != 5 || width != 4 {
		t.Fatalf("caretGeometry = (%d, %d), want (5, 4)", pad, width)
	}
	if got := padFor(line, start.Col); got != "     " {
		t.Fatalf("padFor = %q", got)
	}
}
