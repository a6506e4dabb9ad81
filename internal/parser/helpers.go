package parser

import (
	"approxc/internal/diag"
	"approxc/internal/source"
	"approxc/internal/token"
)

// peekN смотрит на n токенов вперёд, не потребляя их.
func (p *Parser) peekN(n int) token.Token {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[n]
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.buf = p.buf[1:]
	p.consumed++
	if tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan — на EOF указываем сразу за последним токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.Point()
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil || p.opts.Enough() {
		return false
	}
	diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg).Emit()
	return true
}

func (p *Parser) intern(text string) source.StringID {
	return p.arenas.Strings.Intern(text)
}

// resyncStmt — до ';' (съедаем) или '}' текущего блока (не съедаем).
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// resyncUntil прокручивает токены до одного из kinds (не съедая его) или EOF.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(kinds...) {
		p.advance()
	}
}

// skipGroup съедает скобочную группу, начинающуюся на текущем токене,
// вместе с вложенными группами. На ';' и фигурных скобках останавливается,
// не съедая их: незакрытую группу добирает resync.
func (p *Parser) skipGroup() {
	depth := 0
	for !p.at(token.EOF) && !p.atOr(token.Semicolon, token.LBrace, token.RBrace) {
		switch p.advance().Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}
