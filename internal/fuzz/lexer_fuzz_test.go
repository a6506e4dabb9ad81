package fuzztests

import (
	"testing"

	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/source"
	"approxc/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.c", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		tokens := lexer.Tokenize(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF")
		}
		var prevEnd uint32
		for _, tok := range tokens {
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(input) {
				t.Fatalf("bad token span %v after %d (len %d)", tok.Span, prevEnd, len(input))
			}
			prevEnd = tok.Span.End
		}
	})
}
