package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// Qualifier extension.

	// KwApprox is the APPROX type qualifier.
	KwApprox // APPROX
	// KwEndorse is the ENDORSE escape operator.
	KwEndorse // ENDORSE
	// KwDedorse is the DEDORSE escape operator.
	KwDedorse // DEDORSE

	// Type specifiers.
	KwVoid     // void
	KwChar     // char
	KwShort    // short
	KwInt      // int
	KwLong     // long
	KwFloat    // float
	KwDouble   // double
	KwSigned   // signed
	KwUnsigned // unsigned
	KwBool     // _Bool
	KwStruct   // struct
	KwUnion    // union
	KwEnum     // enum

	// Storage classes and C qualifiers.
	KwTypedef  // typedef
	KwExtern   // extern
	KwStatic   // static
	KwAuto     // auto
	KwRegister // register
	KwInline   // inline
	KwConst    // const
	KwVolatile // volatile
	KwRestrict // restrict

	// Statements.
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwDo       // do
	KwFor      // for
	KwSwitch   // switch
	KwCase     // case
	KwDefault  // default
	KwBreak    // break
	KwContinue // continue
	KwReturn   // return
	KwGoto     // goto
	KwSizeof   // sizeof

	// Literals.
	IntLit
	FloatLit
	CharLit
	StringLit

	// Operators and punctuation.
	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	Colon         // :
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	Arrow         // ->
	Ellipsis      // ...
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwApprox: "APPROX", KwEndorse: "ENDORSE", KwDedorse: "DEDORSE",
	KwVoid: "void", KwChar: "char", KwShort: "short", KwInt: "int", KwLong: "long",
	KwFloat: "float", KwDouble: "double", KwSigned: "signed", KwUnsigned: "unsigned",
	KwBool: "_Bool", KwStruct: "struct", KwUnion: "union", KwEnum: "enum",
	KwTypedef: "typedef", KwExtern: "extern", KwStatic: "static", KwAuto: "auto",
	KwRegister: "register", KwInline: "inline", KwConst: "const", KwVolatile: "volatile",
	KwRestrict: "restrict",
	KwIf:       "if", KwElse: "else", KwWhile: "while", KwDo: "do", KwFor: "for",
	KwSwitch: "switch", KwCase: "case", KwDefault: "default", KwBreak: "break",
	KwContinue: "continue", KwReturn: "return", KwGoto: "goto", KwSizeof: "sizeof",
	IntLit: "IntLit", FloatLit: "FloatLit", CharLit: "CharLit", StringLit: "StringLit",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=",
	ShlAssign: "<<=", ShrAssign: ">>=", PlusPlus: "++", MinusMinus: "--",
	EqEq: "==", Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	AndAnd: "&&", OrOr: "||", Question: "?", Colon: ":", Semicolon: ";",
	Comma: ",", Dot: ".", Arrow: "->", Ellipsis: "...",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
