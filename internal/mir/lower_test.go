package mir

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/parser"
	"approxc/internal/qual"
	"approxc/internal/sema"
	"approxc/internal/source"
)

func lowerSource(t *testing.T, input string) (*Module, *sema.Result, error) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(input))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	pres := parser.ParseFile(fs, lx, b, parser.Options{Reporter: reporter})
	res := sema.Check(b, pres.File, sema.Options{Reporter: reporter})
	m, err := LowerUnit(b, pres.File, &res)
	return m, &res, err
}

type kt struct {
	Kind InstrKind
	Tag  qual.Tag
}

func tagged(f *Func, kinds ...InstrKind) []kt {
	var out []kt
	for _, in := range f.Instrs {
		for _, k := range kinds {
			if in.Kind == k {
				out = append(out, kt{in.Kind, in.Tag})
			}
		}
	}
	return out
}

func TestLowerTagsLoadsStoresAndReturns(t *testing.T) {
	src := `
APPROX int scale(APPROX int x, int k) {
	APPROX int y = x * k;
	return y;
}`
	m, res, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	f := m.FuncByName("scale")
	if f == nil {
		t.Fatalf("missing function")
	}
	got := tagged(f, InstrParam, InstrAlloca, InstrLoad, InstrStore, InstrRet)
	want := []kt{
		{InstrParam, qual.TagApprox},
		{InstrParam, qual.TagPrecise},
		{InstrAlloca, qual.TagApprox},
		{InstrLoad, qual.TagApprox},  // x
		{InstrLoad, qual.TagPrecise}, // k
		{InstrStore, qual.TagApprox}, // y = ...
		{InstrLoad, qual.TagApprox},  // y
		{InstrRet, qual.TagApprox},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(m, res.TypeInterner, res.Lattice); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLowerPointeeTag(t *testing.T) {
	src := `
void fill(APPROX float *buf, int n) {
	float *APPROX p;
	for (int i = 0; i < n; i++) {
		buf[i] = 0.5f;
	}
}`
	m, res, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	f := m.FuncByName("fill")
	if f.Locals[0].Tag != qual.TagPointeeApprox {
		t.Fatalf("APPROX float * must carry pointee tag, got %d", f.Locals[0].Tag)
	}
	if f.Locals[2].Tag != qual.TagApprox {
		t.Fatalf("float *APPROX must carry value tag, got %d", f.Locals[2].Tag)
	}
	var stores []qual.Tag
	for _, in := range f.Instrs {
		if in.Kind == InstrStore {
			stores = append(stores, in.Tag)
		}
	}
	// i = 0, buf[i] = 0.5f, i++
	want := []qual.Tag{qual.TagPrecise, qual.TagApprox, qual.TagPrecise}
	if diff := cmp.Diff(want, stores); diff != "" {
		t.Fatalf("store tags (-want +got):\n%s", diff)
	}
	if err := Validate(m, res.TypeInterner, res.Lattice); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLowerMarkers(t *testing.T) {
	src := `
APPROX int a;
void sink(int *p);
int f(void) {
	sink(DEDORSE(&a));
	return ENDORSE(a);
}`
	m, res, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	l := res.Lattice
	want := []MarkerRef{
		{Func: "f", Marker: Marker{ID: 1, Direction: qual.Dedorse, Sentinel: l.DedorseSentinel}},
		{Func: "f", Marker: Marker{ID: 2, Direction: qual.Endorse, Sentinel: l.EndorseSentinel}},
	}
	got := make([]MarkerRef, len(m.Markers))
	for i, mr := range m.Markers {
		got[i] = MarkerRef{Func: mr.Func, Marker: mr.Marker}
		if m.Funcs[0].Instrs[mr.Instr].Kind != InstrMarker {
			t.Fatalf("marker index %d does not point at a marker", mr.Instr)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("markers (-want +got):\n%s", diff)
	}
	if len(m.Globals) != 1 || m.Globals[0].Tag != qual.TagApprox {
		t.Fatalf("global a must be tagged APPROX: %+v", m.Globals)
	}
}

func TestLowerRefusesRejectedUnit(t *testing.T) {
	_, _, err := lowerSource(t, "void g(void) { APPROX int x; int y = x; }")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestLowerWarningsDoNotBlock(t *testing.T) {
	_, _, err := lowerSource(t, "void g(void) { int a[4]; APPROX int i; int v = a[i]; }")
	if err != nil {
		t.Fatalf("warnings must not block lowering: %v", err)
	}
}

func TestDumpModule(t *testing.T) {
	src := `
int g(APPROX int x) {
	if (ENDORSE(x) > 0) {
		return 1;
	}
	switch (3) {
	case 1: break;
	default: x = 2;
	}
	while (0) { continue; }
	return 0;
}`
	m, res, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	var buf bytes.Buffer
	if err := DumpModule(&buf, m, res.TypeInterner, DumpOptions{}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"fn g -> int !tag=0:",
		"L0: APPROX int [param] name=x !tag=1",
		"param L0 !tag=1",
		"marker ENDORSE #1 sentinel=0xe5d0",
		"condbr",
		"markers=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
	if err := Validate(m, res.TypeInterner, res.Lattice); err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
}

func TestLowerEscapeOfAggregateKeepsMarker(t *testing.T) {
	src := `
struct P { APPROX int x; };
struct P s;
APPROX int f(void) {
	return ENDORSE(s).x;
}`
	m, _, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if len(m.Markers) != 1 {
		t.Fatalf("expected one marker, got %+v", m.Markers)
	}
	if in := m.Funcs[0].Instrs[m.Markers[0].Instr]; in.Kind != InstrMarker {
		t.Fatalf("marker index points at %v", in.Kind)
	}
}
