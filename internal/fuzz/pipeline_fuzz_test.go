package fuzztests

import (
	"testing"
	"time"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/mir"
	"approxc/internal/parser"
	"approxc/internal/sema"
	"approxc/internal/source"
	"approxc/internal/testkit"
)

// pipelineTimeout bounds one input; exceeding it means a loop in recovery.
const pipelineTimeout = 5 * time.Second

// runPipeline checks input and lowers it when accepted. An accepted unit
// must lower to a valid module.
func runPipeline(t *testing.T, input []byte) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.c", input)
	file := fs.Get(fileID)

	bag := diag.NewBag(128)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	pres := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: reporter, MaxErrors: 128})
	if bag.HasErrors() {
		return
	}
	if err := testkit.CheckSpanInvariants(builder, pres.File, file); err != nil {
		t.Fatalf("span invariants: %v\ninput: %q", err, input)
	}
	res := sema.Check(builder, pres.File, sema.Options{Reporter: reporter})
	if bag.HasErrors() {
		return
	}
	mod, err := mir.LowerUnit(builder, pres.File, &res)
	if err != nil {
		t.Fatalf("accepted unit failed to lower: %v\ninput: %q", err, input)
	}
	if err := mir.Validate(mod, res.TypeInterner, res.Lattice); err != nil {
		t.Fatalf("invalid module: %v\ninput: %q", err, input)
	}
}

func FuzzPipeline(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		runPipeline(t, clampInput(input))
	})
}

// FuzzParserNoHang runs the parser under a timeout.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("void f(void) { int x = 1\nint y = 2; }"))
	f.Add([]byte("void f(void) { x + y\nint z = 3; }"))
	f.Add([]byte("void f(void) { { { { } } } }"))
	f.Add([]byte("void f(void) { for (int i = 0 i < 10 i++) {} }"))
	f.Add([]byte("struct { struct { APPROX int"))
	f.Add([]byte("int (*(*fp)(APPROX int))[3];"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.c", input)
			bag := diag.NewBag(128)
			reporter := &diag.BagReporter{Bag: bag}
			lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter})
			_ = parser.ParseFile(fs, lx, ast.NewBuilder(ast.Hints{}, nil), parser.Options{Reporter: reporter, MaxErrors: 128})
		}()

		select {
		case <-done:
		case <-time.After(pipelineTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				pipelineTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
