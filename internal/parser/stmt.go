package parser

import (
	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/token"
)

// parseBlock разбирает { ... } в новой области видимости typedef-имён.
// Ошибки внутри блока восстанавливаются по ';', сам блок при этом считается разобранным.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID, false
	}
	p.pushScope()
	defer p.popScope()

	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.consumed
		st, ok := p.parseBlockItem()
		if ok {
			stmts = append(stmts, st)
			continue
		}
		p.resyncStmt()
		if p.consumed == before {
			p.advance()
		}
	}
	_, ok = p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	return p.arenas.Stmts.NewBlock(open.Span.Cover(p.lastSpan), stmts), ok
}

func (p *Parser) parseBlockItem() (ast.StmtID, bool) {
	tok := p.peek()
	if tok.Kind == token.Ident && p.peekN(1).Kind == token.Colon {
		return p.parseStmt()
	}
	if p.startsDeclSpecs(tok) {
		return p.parseDeclStmt()
	}
	return p.parseStmt()
}

func (p *Parser) parseDeclStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	ds, ok := p.parseDeclSpecs(true)
	if !ok {
		return ast.NoStmtID, false
	}
	if p.at(token.Semicolon) {
		p.advance()
		return p.arenas.Stmts.NewDecl(start.Cover(p.lastSpan), ds.base, nil), true
	}
	first, ok := p.parseDeclarator(ds.base, declNamed)
	if !ok {
		return ast.NoStmtID, false
	}
	if _, isFn := p.arenas.Types.Func(first.typ); isFn && p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "nested function definitions are not supported")
		return ast.NoStmtID, false
	}
	decls, ok := p.parseInitDeclaratorsRest(ds, first)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewDecl(start.Cover(p.lastSpan), ds.base, decls), true
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtEmpty, tok.Span), true
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwDo:
		return p.parseDoWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwSwitch:
		return p.parseSwitchStmt()
	case token.KwCase, token.KwDefault:
		return p.parseCaseStmt()
	case token.KwBreak, token.KwContinue:
		p.advance()
		kind := ast.StmtBreak
		if tok.Kind == token.KwContinue {
			kind = ast.StmtContinue
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+tok.Text); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewSimple(kind, tok.Span.Cover(p.lastSpan)), true
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwGoto:
		p.advance()
		label, _, ok := p.parseIdent()
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after goto"); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewGoto(tok.Span.Cover(p.lastSpan), label), true
	case token.Ident:
		if p.peekN(1).Kind == token.Colon {
			p.advance()
			p.advance()
			body, ok := p.parseLabelBody()
			data := ast.LabeledStmt{Label: p.intern(tok.Text), Body: body}
			return p.arenas.Stmts.NewLabeled(ast.StmtLabel, tok.Span.Cover(p.lastSpan), data), ok
		}
	}

	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(tok.Span.Cover(p.lastSpan), expr), true
}

// parseParenCond: '(' expr ')'
func (p *Parser) parseParenCond(what string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+what); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after "+what+" condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenCond("if")
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		if els, ok = p.parseStmt(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(kw.Span.Cover(p.lastSpan), cond, then, els), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenCond("while")
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLoop(ast.StmtWhile, kw.Span.Cover(p.lastSpan), ast.LoopStmt{Cond: cond, Body: body}), true
}

func (p *Parser) parseDoWhileStmt() (ast.StmtID, bool) {
	kw := p.advance()
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseParenCond("while")
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after do/while"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLoop(ast.StmtDoWhile, kw.Span.Cover(p.lastSpan), ast.LoopStmt{Cond: cond, Body: body}), true
}

func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for"); !ok {
		return ast.NoStmtID, false
	}
	p.pushScope()
	defer p.popScope()

	var (
		loop ast.LoopStmt
		ok   bool
	)
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.startsDeclSpecs(p.peek()):
		if loop.Init, ok = p.parseDeclStmt(); !ok {
			return ast.NoStmtID, false
		}
	default:
		start := p.peek().Span
		init, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for initializer"); !ok {
			return ast.NoStmtID, false
		}
		loop.Init = p.arenas.Stmts.NewExpr(start.Cover(p.lastSpan), init)
	}
	if !p.at(token.Semicolon) {
		if loop.Cond, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for condition"); !ok {
		return ast.NoStmtID, false
	}
	if !p.at(token.RParen) {
		if loop.Post, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for clauses"); !ok {
		return ast.NoStmtID, false
	}
	if loop.Body, ok = p.parseStmt(); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLoop(ast.StmtFor, kw.Span.Cover(p.lastSpan), loop), true
}

func (p *Parser) parseSwitchStmt() (ast.StmtID, bool) {
	kw := p.advance()
	tag, ok := p.parseParenCond("switch")
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewSwitch(kw.Span.Cover(p.lastSpan), tag, body), true
}

func (p *Parser) parseCaseStmt() (ast.StmtID, bool) {
	kw := p.advance()
	kind := ast.StmtDefault
	var data ast.LabeledStmt
	if kw.Kind == token.KwCase {
		kind = ast.StmtCase
		var ok bool
		if data.Value, ok = p.parseConditional(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after "+kw.Text); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseLabelBody()
	data.Body = body
	return p.arenas.Stmts.NewLabeled(kind, kw.Span.Cover(p.lastSpan), data), ok
}

// parseLabelBody: после метки разрешаем и '}' (пустое тело), как делают gcc/clang.
func (p *Parser) parseLabelBody() (ast.StmtID, bool) {
	if p.at(token.RBrace) {
		return p.arenas.Stmts.NewSimple(ast.StmtEmpty, p.lastSpan.Point()), true
	}
	if p.startsDeclSpecs(p.peek()) {
		return p.parseDeclStmt()
	}
	return p.parseStmt()
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(p.lastSpan), value), true
}
