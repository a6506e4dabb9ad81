package parser

import (
	"fmt"
	"strings"
	"testing"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(input))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(fs, lx, b, Options{Reporter: reporter})
	return b, res.File, bag
}

func mustParse(t *testing.T, input string) (*ast.Builder, ast.FileID) {
	t.Helper()
	b, file, bag := parseSource(t, input)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return b, file
}

// typeString renders a type chain compactly: "APPROX int", "*APPROX(APPROX float)", "[](int)".
func typeString(b *ast.Builder, id ast.TypeID) string {
	te := b.Types.Get(id)
	if te == nil {
		return "<nil>"
	}
	q := ""
	if te.Approx {
		q = "APPROX "
	}
	switch te.Kind {
	case ast.TypeExprBase:
		data, _ := b.Types.Base(id)
		names := map[ast.BaseKind]string{
			ast.BaseVoid: "void", ast.BaseChar: "char", ast.BaseShort: "short", ast.BaseInt: "int",
			ast.BaseLong: "long", ast.BaseLongLong: "long long", ast.BaseFloat: "float",
			ast.BaseDouble: "double", ast.BaseLongDouble: "long double", ast.BaseBool: "_Bool",
		}
		switch data.Base {
		case ast.BaseStruct:
			return q + "struct " + b.Name(data.Name)
		case ast.BaseUnion:
			return q + "union " + b.Name(data.Name)
		case ast.BaseEnum:
			return q + "enum " + b.Name(data.Name)
		case ast.BaseTypedefName:
			return q + b.Name(data.Name)
		}
		u := ""
		if data.Unsigned {
			u = "unsigned "
		}
		return q + u + names[data.Base]
	case ast.TypeExprPointer:
		ptr, _ := b.Types.Pointer(id)
		return "*" + q + "(" + typeString(b, ptr.Elem) + ")"
	case ast.TypeExprArray:
		arr, _ := b.Types.Array(id)
		return "[](" + typeString(b, arr.Elem) + ")"
	case ast.TypeExprFunc:
		fn, _ := b.Types.Func(id)
		parts := make([]string, 0, len(fn.Params))
		for _, pid := range fn.Params {
			parts = append(parts, typeString(b, b.Decls.Param(pid).Type))
		}
		if fn.Variadic {
			parts = append(parts, "...")
		}
		return "fn(" + strings.Join(parts, ", ") + ") " + typeString(b, fn.Result)
	}
	return "?"
}

// declsOf returns all top-level declarators (including function definitions) by name.
func declsOf(b *ast.Builder, file ast.FileID) map[string]*ast.Decl {
	out := map[string]*ast.Decl{}
	for _, item := range b.Files.Get(file).Items {
		if di, ok := b.Items.Decl(item); ok {
			for _, d := range di.Decls {
				decl := b.Decls.Get(d)
				out[b.Name(decl.Name)] = decl
			}
		}
		if fi, ok := b.Items.Func(item); ok {
			decl := b.Decls.Get(fi.Decl)
			out[b.Name(decl.Name)] = decl
		}
	}
	return out
}
