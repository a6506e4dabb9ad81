package parser

import (
	"fmt"
	"strings"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/source"
	"approxc/internal/token"
)

// parseExpr - главная точка входа: выражение с оператором запятая.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	left, ok := p.parseAssignExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.Comma) {
		p.advance()
		right, ok := p.parseAssignExpr()
		if !ok {
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewBinary(p.span(left).Cover(p.span(right)), ast.ExprBinaryComma, left, right)
	}
	return left, true
}

// parseAssignExpr — присваивание правоассоциативно.
func (p *Parser) parseAssignExpr() (ast.ExprID, bool) {
	left, ok := p.parseConditional()
	if !ok {
		return ast.NoExprID, false
	}
	op, isAssign := assignOps[p.peek().Kind]
	if !isAssign {
		return left, true
	}
	p.advance()
	right, ok := p.parseAssignExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewAssign(p.span(left).Cover(p.span(right)), op, left, right), true
}

func (p *Parser) parseConditional() (ast.ExprID, bool) {
	cond, ok := p.parseBinaryExpr(precLogicalOr)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseConditional()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewTernary(p.span(cond).Cover(p.span(els)), cond, then, els), true
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.peek()
		prec := binaryPrec(tok.Kind)
		if prec < minPrec {
			break
		}
		p.advance()
		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewBinary(p.span(left).Cover(p.span(right)), binaryOps[tok.Kind], left, right)
	}
	return left, true
}

// parseUnaryExpr: префиксы, sizeof и касты.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	if op, ok := prefixOps[tok.Kind]; ok {
		p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.span(operand)), op, operand), true
	}

	switch tok.Kind {
	case token.KwSizeof:
		p.advance()
		if p.at(token.LParen) && p.startsTypeName(p.peekN(1)) {
			p.advance()
			typ, ok := p.parseTypeName()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after type name"); !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewSizeofType(tok.Span.Cover(p.lastSpan), typ), true
		}
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.span(operand)), ast.ExprUnarySizeof, operand), true

	case token.LParen:
		if !p.startsTypeName(p.peekN(1)) {
			break
		}
		p.advance()
		typ, ok := p.parseTypeName()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after cast type"); !ok {
			return ast.NoExprID, false
		}
		if p.at(token.LBrace) {
			p.err(diag.SynUnexpectedToken, "compound literals are not supported")
			return ast.NoExprID, false
		}
		value, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewCast(tok.Span.Cover(p.span(value)), typ, value), true
	}

	return p.parsePostfixExpr()
}

// parsePostfixExpr обрабатывает постфиксные операторы
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.LParen:
			if expr, ok = p.parseCallExpr(expr); !ok {
				return ast.NoExprID, false
			}
		case token.LBracket:
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index"); !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewIndex(p.span(expr).Cover(p.lastSpan), expr, index)
		case token.Dot, token.Arrow:
			p.advance()
			field, _, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewMember(p.span(expr).Cover(p.lastSpan), expr, field, tok.Kind == token.Arrow)
		case token.PlusPlus, token.MinusMinus:
			p.advance()
			op := ast.ExprUnaryPostInc
			if tok.Kind == token.MinusMinus {
				op = ast.ExprUnaryPostDec
			}
			expr = p.arenas.Exprs.NewUnary(p.span(expr).Cover(tok.Span), op, expr)
		default:
			return expr, true
		}
	}
}

func (p *Parser) parseCallExpr(target ast.ExprID) (ast.ExprID, bool) {
	p.advance() // (
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseAssignExpr()
			if !ok {
				return ast.NoExprID, false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after call arguments"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewCall(p.span(target).Cover(p.lastSpan), target, args), true
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text)), true
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitInt, tok.Text), true
	case token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitFloat, tok.Text), true
	case token.CharLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitChar, tok.Text), true
	case token.StringLit:
		// соседние строковые литералы склеиваются
		var sb strings.Builder
		span := tok.Span
		for p.at(token.StringLit) {
			t := p.advance()
			sb.WriteString(t.Text)
			span = span.Cover(t.Span)
		}
		return p.arenas.Exprs.NewLiteral(span, ast.ExprLitString, sb.String()), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(tok.Span.Cover(p.lastSpan), inner), true
	case token.KwEndorse, token.KwDedorse:
		return p.parseEscapeExpr()
	case token.Invalid:
		// лексер уже сообщил об ошибке
		p.advance()
		return ast.NoExprID, false
	}
	text := tok.Text
	if tok.Kind == token.EOF {
		text = "end of file"
	}
	p.err(diag.SynExpectExpression, fmt.Sprintf("expected expression, got %q", text))
	return ast.NoExprID, false
}

// parseEscapeExpr: ENDORSE(expr) | DEDORSE(expr)
func (p *Parser) parseEscapeExpr() (ast.ExprID, bool) {
	kw := p.advance()
	kind := ast.EscapeEndorse
	if kw.Kind == token.KwDedorse {
		kind = ast.EscapeDedorse
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+kw.Text); !ok {
		return ast.NoExprID, false
	}
	inner, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close "+kw.Text); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewEscape(kw.Span.Cover(p.lastSpan), kind, inner), true
}

func (p *Parser) span(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
