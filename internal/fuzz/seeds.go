package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса

var inlineSeeds = []string{
	"",
	"APPROX int x;\n",
	"int f(APPROX int v) { return ENDORSE(v); }\n",
	"void g(void) { APPROX int buf[8]; int *p = DEDORSE(buf); }\n",
	"struct s { APPROX float f; int n; }; struct s v;\n",
	"void h(APPROX int a) { if (a) {} while (ENDORSE(a)) {} }\n",
	"void k(void) { APPROX int *ap; int *p = (int *)ap; p = ap; }\n",
	"int main() { return ENDORSE(ENDORSE(1)) ? 1 : 0; }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.c файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".c" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
