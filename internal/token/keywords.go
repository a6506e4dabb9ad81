package token

var keywords = map[string]Kind{
	"APPROX":  KwApprox,
	"ENDORSE": KwEndorse,
	"DEDORSE": KwDedorse,

	"void":     KwVoid,
	"char":     KwChar,
	"short":    KwShort,
	"int":      KwInt,
	"long":     KwLong,
	"float":    KwFloat,
	"double":   KwDouble,
	"signed":   KwSigned,
	"unsigned": KwUnsigned,
	"_Bool":    KwBool,
	"struct":   KwStruct,
	"union":    KwUnion,
	"enum":     KwEnum,

	"typedef":  KwTypedef,
	"extern":   KwExtern,
	"static":   KwStatic,
	"auto":     KwAuto,
	"register": KwRegister,
	"inline":   KwInline,
	"const":    KwConst,
	"volatile": KwVolatile,
	"restrict": KwRestrict,

	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"do":       KwDo,
	"for":      KwFor,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"goto":     KwGoto,
	"sizeof":   KwSizeof,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые, как в C.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
