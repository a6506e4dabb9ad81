package sema

import (
	"approxc/internal/qual"
	"approxc/internal/types"
)

// preludeFn is a libc declaration in a compact form: result and parameter
// codes are v void, i int, u unsigned long, l long, d double, f float,
// c char, with '*' suffixes for pointers.
type preludeFn struct {
	name     string
	result   string
	params   []string
	variadic bool
}

var prelude = []preludeFn{
	{"printf", "i", []string{"c*"}, true},
	{"fprintf", "i", []string{"v*", "c*"}, true},
	{"sprintf", "i", []string{"c*", "c*"}, true},
	{"snprintf", "i", []string{"c*", "u", "c*"}, true},
	{"scanf", "i", []string{"c*"}, true},
	{"sscanf", "i", []string{"c*", "c*"}, true},
	{"puts", "i", []string{"c*"}, false},
	{"putchar", "i", []string{"i"}, false},
	{"getchar", "i", nil, false},
	{"fopen", "v*", []string{"c*", "c*"}, false},
	{"fclose", "i", []string{"v*"}, false},
	{"fread", "u", []string{"v*", "u", "u", "v*"}, false},
	{"fwrite", "u", []string{"v*", "u", "u", "v*"}, false},
	{"fflush", "i", []string{"v*"}, false},
	{"sqrt", "d", []string{"d"}, false},
	{"sqrtf", "f", []string{"f"}, false},
	{"fabs", "d", []string{"d"}, false},
	{"fabsf", "f", []string{"f"}, false},
	{"exp", "d", []string{"d"}, false},
	{"log", "d", []string{"d"}, false},
	{"log2", "d", []string{"d"}, false},
	{"log10", "d", []string{"d"}, false},
	{"pow", "d", []string{"d", "d"}, false},
	{"sin", "d", []string{"d"}, false},
	{"cos", "d", []string{"d"}, false},
	{"tan", "d", []string{"d"}, false},
	{"atan", "d", []string{"d"}, false},
	{"atan2", "d", []string{"d", "d"}, false},
	{"floor", "d", []string{"d"}, false},
	{"ceil", "d", []string{"d"}, false},
	{"round", "d", []string{"d"}, false},
	{"fmod", "d", []string{"d", "d"}, false},
	{"abs", "i", []string{"i"}, false},
	{"labs", "l", []string{"l"}, false},
	{"rand", "i", nil, false},
	{"srand", "v", []string{"i"}, false},
	{"atoi", "i", []string{"c*"}, false},
	{"atof", "d", []string{"c*"}, false},
	{"strtol", "l", []string{"c*", "c**", "i"}, false},
	{"exit", "v", []string{"i"}, false},
	{"abort", "v", nil, false},
	{"assert", "v", []string{"i"}, false},
	{"strlen", "u", []string{"c*"}, false},
	{"strcmp", "i", []string{"c*", "c*"}, false},
	{"strncmp", "i", []string{"c*", "c*", "u"}, false},
	{"strcpy", "c*", []string{"c*", "c*"}, false},
	{"strncpy", "c*", []string{"c*", "c*", "u"}, false},
	{"strcat", "c*", []string{"c*", "c*"}, false},
	{"clock", "l", nil, false},
	{"time", "l", []string{"v*"}, false},
	{"memcpy", "v*", []string{"v*", "v*", "u"}, false},
	{"memmove", "v*", []string{"v*", "v*", "u"}, false},
	{"memset", "v*", []string{"v*", "i", "u"}, false},
	{"memcmp", "i", []string{"v*", "v*", "u"}, false},
	{"bzero", "v", []string{"v*", "u"}, false},
	{"malloc", "v*", []string{"u"}, false},
	{"calloc", "v*", []string{"u", "u"}, false},
	{"realloc", "v*", []string{"v*", "u"}, false},
	{"free", "v", []string{"v*"}, false},
	{"alloca", "v*", []string{"u"}, false},
}

func (tc *typeChecker) declarePrelude() {
	for _, fn := range prelude {
		info := types.FnInfo{Result: tc.preludeType(fn.result), Variadic: fn.variadic}
		for _, p := range fn.params {
			info.Params = append(info.Params, tc.preludeType(p))
		}
		tc.addSymbol(Symbol{
			Name:    fn.name,
			Kind:    SymbolFunc,
			Type:    tc.types.RegisterFn(info),
			Global:  true,
			Prelude: true,
			Order:   -1,
		})
	}
}

func (tc *typeChecker) preludeType(code string) types.TypeID {
	b := tc.types.Builtins()
	var base types.TypeID
	switch code[0] {
	case 'v':
		base = b.Void
	case 'i':
		base = b.Int
	case 'u':
		base = b.ULong
	case 'l':
		base = b.Long
	case 'd':
		base = b.Double
	case 'f':
		base = b.Float
	case 'c':
		base = b.Char
	}
	for range code[1:] {
		base = tc.types.Pointer(base, qual.Precise)
	}
	return base
}
