package sema

import (
	"fmt"
	"strings"
	"testing"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/parser"
	"approxc/internal/source"
)

type checked struct {
	builder *ast.Builder
	file    ast.FileID
	res     Result
	bag     *diag.Bag
}

func checkSourceWith(t *testing.T, input string, cfg Config) checked {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(input))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	pres := parser.ParseFile(fs, lx, b, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", summary(bag))
	}
	res := Check(b, pres.File, Options{Reporter: reporter, Config: cfg})
	return checked{builder: b, file: pres.File, res: res, bag: bag}
}

func checkSource(t *testing.T, input string) checked {
	t.Helper()
	return checkSourceWith(t, input, Config{})
}

func summary(bag *diag.Bag) string {
	items := bag.Items()
	if len(items) == 0 {
		return "<none>"
	}
	lines := make([]string, len(items))
	for i, d := range items {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func expectOnly(t *testing.T, c checked, code diag.Code, n int) {
	t.Helper()
	if got := countCode(c.bag, code); got != n || c.bag.Len() != n {
		t.Fatalf("expected exactly %d %s, got: %s", n, code.ID(), summary(c.bag))
	}
}

func expectClean(t *testing.T, c checked) {
	t.Helper()
	if c.bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got: %s", summary(c.bag))
	}
}
