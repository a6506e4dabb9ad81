package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/source"
	"approxc/internal/token"
)

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(input))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(lx *lexer.Lexer) []token.Kind {
	var out []token.Kind
	for {
		tok := lx.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestQualifierKeywords(t *testing.T) {
	lx, bag := makeTestLexer("APPROX int x = ENDORSE(y) + DEDORSE(p); approx Approx")
	got := kinds(lx)
	want := []token.Kind{
		token.KwApprox, token.KwInt, token.Ident, token.Assign,
		token.KwEndorse, token.LParen, token.Ident, token.RParen, token.Plus,
		token.KwDedorse, token.LParen, token.Ident, token.RParen, token.Semicolon,
		token.Ident, token.Ident, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestOperatorsGreedy(t *testing.T) {
	lx, _ := makeTestLexer("a<<=b>>=c->d++ --e ... x&&y||!z a+=1")
	got := kinds(lx)
	want := []token.Kind{
		token.Ident, token.ShlAssign, token.Ident, token.ShrAssign, token.Ident,
		token.Arrow, token.Ident, token.PlusPlus, token.MinusMinus, token.Ident,
		token.Ellipsis, token.Ident, token.AndAnd, token.Ident, token.OrOr,
		token.Bang, token.Ident, token.Ident, token.PlusAssign, token.IntLit, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"42u", token.IntLit},
		{"0x1Full", token.IntLit},
		{"017", token.IntLit},
		{"1.5", token.FloatLit},
		{".5f", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"2.0L", token.FloatLit},
		{"0x1p3", token.FloatLit},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.src)
		tok := lx.Next()
		if tok.Kind != tc.kind || tok.Text != tc.src {
			t.Errorf("%q: got %v %q", tc.src, tok.Kind, tok.Text)
		}
		if bag.Len() != 0 {
			t.Errorf("%q: unexpected diagnostics", tc.src)
		}
	}
}

func TestBadNumber(t *testing.T) {
	lx, bag := makeTestLexer("1e+ 12abc")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Invalid || tok.Text != "12abc" {
		t.Fatalf("expected invalid suffix token, got %v %q", tok.Kind, tok.Text)
	}
	if bag.Len() != 2 || bag.Items()[0].Code != diag.LexBadNumber {
		t.Fatalf("expected two LexBadNumber diagnostics, got %v", bag.Items())
	}
}

func TestStringsAndChars(t *testing.T) {
	lx, bag := makeTestLexer(`"a\"b" '\n' 'x'`)
	want := []token.Kind{token.StringLit, token.CharLit, token.CharLit, token.EOF}
	if diff := cmp.Diff(want, kinds(lx)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}

	lx, bag = makeTestLexer("\"abc\nx")
	lx.Next()
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string")
	}
}

func TestPreprocessorLinesAreTrivia(t *testing.T) {
	src := "#include <stdio.h>\n#define SQ(x) \\\n  ((x)*(x))\nint a; // tail\n/* block */ a # b"
	lx, bag := makeTestLexer(src)
	tok := lx.Next()
	if tok.Kind != token.KwInt {
		t.Fatalf("expected int, got %v", tok.Kind)
	}
	var preproc []string
	for _, tr := range tok.Leading {
		if tr.Kind == token.TriviaPreproc {
			preproc = append(preproc, tr.Text)
		}
	}
	want := []string{"#include <stdio.h>", "#define SQ(x) \\\n  ((x)*(x))"}
	if diff := cmp.Diff(want, preproc); diff != "" {
		t.Fatalf("preproc trivia mismatch (-want +got):\n%s", diff)
	}
	// '#' не в начале строки — неизвестный символ
	got := kinds(lx)
	wantKinds := []token.Kind{token.Ident, token.Semicolon, token.Ident, token.Invalid, token.Ident, token.EOF}
	if diff := cmp.Diff(wantKinds, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected one unknown char diagnostic, got %v", bag.Items())
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeTestLexer("int /* oops")
	kinds(lx)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected unterminated comment diagnostic")
	}
}

func TestUnicodeIdentNFC(t *testing.T) {
	// "é" как e + combining acute и как precomposed
	lx, bag := makeTestLexer("cafe\u0301 caf\u00e9")
	a := lx.Next()
	b := lx.Next()
	if a.Kind != token.Ident || b.Kind != token.Ident {
		t.Fatalf("expected identifiers, got %v %v", a.Kind, b.Kind)
	}
	if a.Text != b.Text {
		t.Fatalf("identifiers not normalized: %q vs %q", a.Text, b.Text)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.c", []byte("int x;"))
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{})
	if len(toks) != 4 || toks[3].Kind != token.EOF {
		t.Fatalf("unexpected tokens %v", toks)
	}
}
