package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Синтаксические
	SynUnexpectedToken       Code = 2001
	SynExpectSemicolon       Code = 2002
	SynExpectIdentifier      Code = 2003
	SynExpectExpression      Code = 2004
	SynExpectType            Code = 2005
	SynUnclosedParen         Code = 2006
	SynUnclosedBrace         Code = 2007
	SynUnclosedBracket       Code = 2008
	SynUnexpectedTopLevel    Code = 2009
	SynUnsupportedDeclarator Code = 2010
	SynDuplicateQualifier    Code = 2011
	SynMisplacedLabel        Code = 2012

	// Квалификаторы: 3001-3004 — правила решётки, остальное — окружение
	SemaRedeclMismatch      Code = 3001
	SemaPrecisionFlow       Code = 3002
	SemaPointerQualMismatch Code = 3003
	SemaApproxCondition     Code = 3004
	SemaApproxSubscript     Code = 3005
	SemaUndeclaredIdent     Code = 3006
	SemaImplicitDecl        Code = 3007
	SemaRedundantEscape     Code = 3008
	SemaUnknownField        Code = 3009
	SemaUnknownType         Code = 3010
	SemaArgCount            Code = 3011
	SemaNotCallable         Code = 3012
	SemaCrossUnitMismatch   Code = 3013
	SemaInvalidIndirection  Code = 3014
	SemaUndefinedLabel      Code = 3015
	SemaDuplicateLabel      Code = 3016
	SemaNotAssignable       Code = 3017

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Проектные
	ProjConfigInvalid Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexUnterminatedChar:         "Unterminated character literal",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expect semicolon",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectExpression:         "Expect expression",
	SynExpectType:               "Expect type",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnexpectedTopLevel:       "Unexpected top level",
	SynUnsupportedDeclarator:    "Unsupported declarator",
	SynDuplicateQualifier:       "Duplicate qualifier",
	SynMisplacedLabel:           "Misplaced case label",
	SemaRedeclMismatch:          "redeclaration mismatch",
	SemaPrecisionFlow:           "precision flow violation",
	SemaPointerQualMismatch:     "pointer qualifier mismatch",
	SemaApproxCondition:         "approximate condition",
	SemaApproxSubscript:         "approximate subscript",
	SemaUndeclaredIdent:         "undeclared identifier",
	SemaImplicitDecl:            "implicit declaration",
	SemaRedundantEscape:         "redundant escape",
	SemaUnknownField:            "unknown field",
	SemaUnknownType:             "unknown type",
	SemaArgCount:                "argument count mismatch",
	SemaNotCallable:             "not callable",
	SemaCrossUnitMismatch:       "cross-unit redeclaration mismatch",
	SemaInvalidIndirection:      "invalid indirection",
	SemaUndefinedLabel:          "undefined label",
	SemaDuplicateLabel:          "duplicate label",
	SemaNotAssignable:           "expression is not assignable",
	IOLoadFileError:             "Failed to load file",
	IOCacheError:                "Cache failure",
	ProjConfigInvalid:           "Invalid project config",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
