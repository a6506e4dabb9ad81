package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("unit.c", []byte("int x;\nAPPROX int y;\n\nz"))

	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 1, 7}, // сам '\n' принадлежит первой строке
		{7, 2, 1},
		{14, 2, 8},
		{21, 3, 1},
		{22, 4, 1},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start.Line != tt.line || start.Col != tt.col {
			t.Fatalf("offset %d: expected %d:%d, got %d:%d", tt.off, tt.line, tt.col, start.Line, start.Col)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("unit.c", []byte("first\nsecond\nthird"))
	f := fs.Get(id)
	if got := f.GetLine(2); got != "second" {
		t.Fatalf("expected second, got %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Fatalf("expected third, got %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("expected empty line, got %q", got)
	}
}

func TestNormalizeCRLFAndBOM(t *testing.T) {
	in := []byte("\xEF\xBB\xBFa\r\nb\rc")
	noBOM, hadBOM := removeBOM(in)
	if !hadBOM {
		t.Fatalf("expected BOM to be detected")
	}
	out, changed := normalizeCRLF(noBOM)
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("unexpected normalization: %q (changed=%v)", out, changed)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("unexpected cover: %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("spans from different files must not merge, got %v", got)
	}
}
