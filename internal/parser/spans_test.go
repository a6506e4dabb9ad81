package parser

import (
	"testing"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/source"
	"approxc/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	inputs := []string{
		"APPROX int x;\n",
		"int f(APPROX int v) { return ENDORSE(v) + 1; }\n",
		"/* lead */ struct P { APPROX float x; int y; };\nstruct P p;\n",
		"void g(void) {\n\tAPPROX int buf[8];\n\tint *p = DEDORSE(buf);\n\tfor (int i = 0; i < 8; i++) buf[i] = i * 2;\n}\n",
		"typedef APPROX double real;\nreal scale(real a, real b) { return a * b; }\n",
		"int main() { int x = 1 ? 2 : 3; x += sizeof(int); return x; }\n",
	}
	for _, input := range inputs {
		fs := source.NewFileSet()
		fileID := fs.AddVirtual("span.c", []byte(input))
		bag := diag.NewBag(50)
		reporter := &diag.BagReporter{Bag: bag}
		sf := fs.Get(fileID)
		b := ast.NewBuilder(ast.Hints{}, nil)
		res := ParseFile(fs, lexer.New(sf, lexer.Options{Reporter: reporter}), b, Options{Reporter: reporter})
		if bag.Len() != 0 {
			t.Fatalf("%q: unexpected diagnostics: %s", input, diagnosticsSummary(bag))
		}
		if err := testkit.CheckSpanInvariants(b, res.File, sf); err != nil {
			t.Fatalf("%q: %v", input, err)
		}
	}
}
