package parser

import (
	"fmt"
	"slices"

	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/source"
	"approxc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Bag    *diag.Bag
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	buf      []token.Token // lookahead поверх лексера
	consumed uint          // сколько токенов съедено; для гарантии прогресса
	lastSpan source.Span   // span последнего съеденного токена для лучшей диагностики
	// typedefs — стек областей видимости: имя -> является ли typedef.
	// Нужен, чтобы отличить `T * x;` (объявление) от `a * b;` (выражение).
	typedefs []map[source.StringID]bool
}

// ParseFile — входная точка для разбора одного файла.
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		fs:       fs,
		opts:     opts,
		typedefs: []map[source.StringID]bool{{}},
	}
	p.file = arenas.Files.New(p.peek().Span)

	p.parseItems()
	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File:   p.file,
		Bag:    bag,
		Errors: p.opts.CurrentErrors,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseItems — основной цикл верхнего уровня: пока не EOF — parseItem.
func (p *Parser) parseItems() {
	startSpan := p.peek().Span
	for !p.at(token.EOF) {
		before := p.consumed
		itemID, ok := p.parseItem()
		if ok {
			p.arenas.PushItem(p.file, itemID)
			continue
		}
		p.resyncTop()
		if p.consumed == before {
			p.advance()
		}
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.peek().Span)
}

// parseItem разбирает внешнее объявление: переменные, прототипы, typedef,
// определения struct/union/enum и определения функций.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	start := p.peek().Span
	ds, ok := p.parseDeclSpecs(true)
	if !ok {
		return ast.NoItemID, false
	}
	if !ds.present {
		tok := p.peek()
		if tok.Kind != token.Invalid {
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, tok.Span,
				fmt.Sprintf("unexpected %q at top level", tok.Text))
		}
		return ast.NoItemID, false
	}
	if p.at(token.Semicolon) {
		semi := p.advance()
		return p.arenas.Items.NewDecl(start.Cover(semi.Span), ds.base, nil), true
	}

	first, ok := p.parseDeclarator(ds.base, declNamed)
	if !ok {
		return ast.NoItemID, false
	}
	if fn, isFn := p.arenas.Types.Func(first.typ); isFn && p.at(token.LBrace) {
		decl := p.newDecl(first, ds, ast.NoExprID)
		body, ok := p.parseFuncBody(fn)
		return p.arenas.Items.NewFunc(start.Cover(p.lastSpan), decl, body), ok
	}

	decls, ok := p.parseInitDeclaratorsRest(ds, first)
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewDecl(start.Cover(p.lastSpan), ds.base, decls), true
}

// parseFuncBody открывает область параметров и разбирает тело.
func (p *Parser) parseFuncBody(fn *ast.TypeFuncData) (ast.StmtID, bool) {
	p.pushScope()
	defer p.popScope()
	for _, pid := range fn.Params {
		p.declareName(p.arenas.Decls.Param(pid).Name, false)
	}
	return p.parseBlock()
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' или до закрывающей '}' верхнего уровня, либо до
// начала следующего объявления, либо до EOF.
func (p *Parser) resyncTop() {
	depth := 0
	start := p.consumed
	for !p.at(token.EOF) {
		if depth == 0 && p.consumed > start && p.startsDeclSpecs(p.peek()) {
			return
		}
		switch p.peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
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

// parseIdent — ожидает Ident и интернирует его.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return source.NoStringID, p.getDiagnosticSpan(), false
}
