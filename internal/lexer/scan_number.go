package lexer

import (
	"approxc/internal/diag"
	"approxc/internal/token"
)

// Поддержка C-литералов: 0, 123, 017, 0x1F, 1.0, .5, 1e-3, 0x1p3,
// суффиксы u/U/l/L/ll/LL (целые) и f/F/l/L (вещественные) входят в Token.Text.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.eatDigits(isDec)
		if !lx.scanExponent('e', 'E') {
			return lx.badNumber(start, "expected digit after exponent")
		}
		return lx.finishNumber(start, kind)
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !isHex(lx.cursor.Peek()) && lx.cursor.Peek() != '.' {
			return lx.badNumber(start, "expected hex digit after 0x")
		}
		lx.eatDigits(isHex)
		if lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
			lx.eatDigits(isHex)
			kind = token.FloatLit
		}
		if p := lx.cursor.Peek(); p == 'p' || p == 'P' {
			kind = token.FloatLit
			if !lx.scanExponent('p', 'P') {
				return lx.badNumber(start, "expected digit after exponent")
			}
		}
		return lx.finishNumber(start, kind)
	}

	lx.eatDigits(isDec)
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.eatDigits(isDec)
	}
	if p := lx.cursor.Peek(); p == 'e' || p == 'E' {
		kind = token.FloatLit
		if !lx.scanExponent('e', 'E') {
			return lx.badNumber(start, "expected digit after exponent")
		}
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) eatDigits(class func(byte) bool) {
	for class(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// scanExponent съедает [eE][+-]?digits; отсутствие экспоненты — не ошибка.
func (lx *Lexer) scanExponent(lo, hi byte) bool {
	if p := lx.cursor.Peek(); p != lo && p != hi {
		return true
	}
	lx.cursor.Bump()
	if p := lx.cursor.Peek(); p == '+' || p == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		return false
	}
	lx.eatDigits(isDec)
	return true
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	for {
		b := lx.cursor.Peek()
		switch {
		case b == 'u' || b == 'U' || b == 'l' || b == 'L':
			lx.cursor.Bump()
		case (b == 'f' || b == 'F') && kind == token.FloatLit:
			lx.cursor.Bump()
		case isIdentContinueByte(b):
			lx.eatDigits(isIdentContinueByte)
			return lx.badNumber(start, "invalid suffix on numeric literal")
		default:
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		}
	}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
