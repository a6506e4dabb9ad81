package parser

import (
	"approxc/internal/ast"
	"approxc/internal/token"
)

// Таблица приоритетов для бинарных операторов (C).
// Чем больше число, тем выше приоритет. Присваивание, тернарный и запятая
// разбираются отдельно.
const (
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precBitwiseOr      = 3  // |
	precBitwiseXor     = 4  // ^
	precBitwiseAnd     = 5  // &
	precEquality       = 6  // == !=
	precRelational     = 7  // < <= > >=
	precShift          = 8  // << >>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
)

func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precRelational
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return -1 // не бинарный оператор
	}
}

var binaryOps = map[token.Kind]ast.ExprBinaryOp{
	token.Plus:    ast.ExprBinaryAdd,
	token.Minus:   ast.ExprBinarySub,
	token.Star:    ast.ExprBinaryMul,
	token.Slash:   ast.ExprBinaryDiv,
	token.Percent: ast.ExprBinaryMod,
	token.Amp:     ast.ExprBinaryBitAnd,
	token.Pipe:    ast.ExprBinaryBitOr,
	token.Caret:   ast.ExprBinaryBitXor,
	token.Shl:     ast.ExprBinaryShiftLeft,
	token.Shr:     ast.ExprBinaryShiftRight,
	token.AndAnd:  ast.ExprBinaryLogicalAnd,
	token.OrOr:    ast.ExprBinaryLogicalOr,
	token.EqEq:    ast.ExprBinaryEq,
	token.BangEq:  ast.ExprBinaryNotEq,
	token.Lt:      ast.ExprBinaryLess,
	token.LtEq:    ast.ExprBinaryLessEq,
	token.Gt:      ast.ExprBinaryGreater,
	token.GtEq:    ast.ExprBinaryGreaterEq,
}

var assignOps = map[token.Kind]ast.ExprBinaryOp{
	token.Assign:        ast.ExprBinaryNone,
	token.PlusAssign:    ast.ExprBinaryAdd,
	token.MinusAssign:   ast.ExprBinarySub,
	token.StarAssign:    ast.ExprBinaryMul,
	token.SlashAssign:   ast.ExprBinaryDiv,
	token.PercentAssign: ast.ExprBinaryMod,
	token.AmpAssign:     ast.ExprBinaryBitAnd,
	token.PipeAssign:    ast.ExprBinaryBitOr,
	token.CaretAssign:   ast.ExprBinaryBitXor,
	token.ShlAssign:     ast.ExprBinaryShiftLeft,
	token.ShrAssign:     ast.ExprBinaryShiftRight,
}

var prefixOps = map[token.Kind]ast.ExprUnaryOp{
	token.Plus:       ast.ExprUnaryPlus,
	token.Minus:      ast.ExprUnaryMinus,
	token.Bang:       ast.ExprUnaryNot,
	token.Tilde:      ast.ExprUnaryBitNot,
	token.Star:       ast.ExprUnaryDeref,
	token.Amp:        ast.ExprUnaryAddr,
	token.PlusPlus:   ast.ExprUnaryPreInc,
	token.MinusMinus: ast.ExprUnaryPreDec,
}
