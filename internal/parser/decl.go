package parser

import (
	"approxc/internal/ast"
	"approxc/internal/diag"
	"approxc/internal/source"
	"approxc/internal/token"
)

// declSpecs — результат разбора списка спецификаторов объявления.
type declSpecs struct {
	span    source.Span
	storage ast.StorageClass
	approx  bool
	base    ast.TypeID
	present bool // был хотя бы один спецификатор
}

type declaratorMode uint8

const (
	declNamed declaratorMode = iota
	declAbstract
	declMaybeAbstract
)

type declarator struct {
	name     source.StringID
	nameSpan source.Span
	span     source.Span
	typ      ast.TypeID
}

func storageOf(k token.Kind) ast.StorageClass {
	switch k {
	case token.KwTypedef:
		return ast.StorageTypedef
	case token.KwExtern:
		return ast.StorageExtern
	case token.KwStatic:
		return ast.StorageStatic
	case token.KwAuto:
		return ast.StorageAuto
	case token.KwRegister:
		return ast.StorageRegister
	case token.KwInline:
		return ast.StorageInline
	}
	return 0
}

// startsDeclSpecs — может ли tok начинать объявление.
func (p *Parser) startsDeclSpecs(tok token.Token) bool {
	if tok.IsTypeSpecifier() || tok.IsDeclQualifier() {
		return true
	}
	return tok.Kind == token.Ident && p.isTypedefName(tok.Text)
}

// startsTypeName — начало имени типа в касте или sizeof (без storage class).
func (p *Parser) startsTypeName(tok token.Token) bool {
	switch tok.Kind {
	case token.KwApprox, token.KwConst, token.KwVolatile, token.KwRestrict:
		return true
	}
	if tok.IsTypeSpecifier() {
		return true
	}
	return tok.Kind == token.Ident && p.isTypedefName(tok.Text)
}

// parseDeclSpecs разбирает спецификаторы. APPROX в этом списке квалифицирует
// базовый тип; const/volatile/restrict принимаются и игнорируются.
func (p *Parser) parseDeclSpecs(allowStorage bool) (declSpecs, bool) {
	var (
		ds      declSpecs
		counts  [token.KwEnum + 1]int
		named   *ast.TypeBaseData
		builtin bool
	)
	start := p.peek().Span
	ds.span = start

loop:
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.KwApprox:
			p.advance()
			if ds.approx {
				p.report(diag.SynDuplicateQualifier, diag.SevWarning, tok.Span, "duplicate APPROX qualifier")
			}
			ds.approx = true
		case tok.Kind >= token.KwTypedef && tok.Kind <= token.KwInline:
			p.advance()
			if !allowStorage {
				p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "storage class '"+tok.Text+"' is not allowed here")
			}
			ds.storage |= storageOf(tok.Kind)
		case tok.Kind == token.KwConst || tok.Kind == token.KwVolatile || tok.Kind == token.KwRestrict:
			p.advance()
		case tok.Kind == token.KwStruct || tok.Kind == token.KwUnion || tok.Kind == token.KwEnum:
			if named != nil || builtin {
				p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "conflicting type specifiers")
			}
			var (
				data ast.TypeBaseData
				ok   bool
			)
			if tok.Kind == token.KwEnum {
				data, ok = p.parseEnumSpec()
			} else {
				data, ok = p.parseRecordSpec()
			}
			if !ok {
				return ds, false
			}
			named = &data
		case tok.IsTypeSpecifier():
			p.advance()
			if named != nil {
				p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "conflicting type specifiers")
			}
			counts[tok.Kind]++
			builtin = true
		case tok.Kind == token.Ident && named == nil && !builtin && p.isTypedefName(tok.Text):
			p.advance()
			named = &ast.TypeBaseData{Base: ast.BaseTypedefName, Name: p.intern(tok.Text)}
		default:
			break loop
		}
		ds.present = true
		ds.span = start.Cover(p.lastSpan)
	}
	if !ds.present {
		return ds, true
	}

	var data ast.TypeBaseData
	switch {
	case named != nil:
		data = *named
	case counts[token.KwVoid] > 0:
		data.Base = ast.BaseVoid
	case counts[token.KwBool] > 0:
		data.Base = ast.BaseBool
	case counts[token.KwChar] > 0:
		data.Base = ast.BaseChar
	case counts[token.KwShort] > 0:
		data.Base = ast.BaseShort
	case counts[token.KwFloat] > 0:
		data.Base = ast.BaseFloat
	case counts[token.KwDouble] > 0:
		data.Base = ast.BaseDouble
		if counts[token.KwLong] > 0 {
			data.Base = ast.BaseLongDouble
		}
	case counts[token.KwLong] >= 2:
		data.Base = ast.BaseLongLong
	case counts[token.KwLong] == 1:
		data.Base = ast.BaseLong
	default:
		// int, signed, unsigned, или неявный int при одних storage class
		data.Base = ast.BaseInt
	}
	data.Unsigned = counts[token.KwUnsigned] > 0
	ds.base = p.arenas.Types.NewBase(ds.span, ds.approx, data)
	return ds, true
}

// parseRecordSpec: struct/union Tag? { fields }?
func (p *Parser) parseRecordSpec() (ast.TypeBaseData, bool) {
	kw := p.advance()
	data := ast.TypeBaseData{Base: ast.BaseStruct}
	if kw.Kind == token.KwUnion {
		data.Base = ast.BaseUnion
	}
	if p.at(token.Ident) {
		data.Name = p.intern(p.advance().Text)
	}
	if !p.at(token.LBrace) {
		if data.Name == source.NoStringID {
			p.err(diag.SynExpectIdentifier, "expected "+kw.Text+" tag or '{'")
			return data, false
		}
		return data, true
	}
	p.advance()
	rec := ast.Record{Union: kw.Kind == token.KwUnion, Tag: data.Name}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.consumed
		if !p.parseFieldDecl(&rec) {
			p.resyncUntil(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) || p.consumed == before {
				p.advance()
			}
		}
	}
	_, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close "+kw.Text+" body")
	rec.Span = kw.Span.Cover(p.lastSpan)
	data.Record = p.arenas.Decls.NewRecord(rec)
	return data, ok
}

func (p *Parser) parseFieldDecl(rec *ast.Record) bool {
	ds, ok := p.parseDeclSpecs(false)
	if !ok {
		return false
	}
	if !ds.present {
		p.err(diag.SynExpectType, "expected field type")
		return false
	}
	if p.at(token.Semicolon) {
		// анонимный вложенный struct/union: поля не поднимаются наверх
		p.advance()
		return true
	}
	for {
		d, ok := p.parseDeclarator(ds.base, declNamed)
		if !ok {
			return false
		}
		if p.at(token.Colon) {
			p.advance()
			if _, ok := p.parseConditional(); !ok {
				return false
			}
		}
		rec.Fields = append(rec.Fields, ast.Field{Name: d.name, Span: d.nameSpan, Type: d.typ})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	_, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after field declaration")
	return ok
}

// parseEnumSpec: enum Tag? { A, B = expr, ... }?
func (p *Parser) parseEnumSpec() (ast.TypeBaseData, bool) {
	kw := p.advance()
	data := ast.TypeBaseData{Base: ast.BaseEnum}
	if p.at(token.Ident) {
		data.Name = p.intern(p.advance().Text)
	}
	if !p.at(token.LBrace) {
		if data.Name == source.NoStringID {
			p.err(diag.SynExpectIdentifier, "expected enum tag or '{'")
			return data, false
		}
		return data, true
	}
	p.advance()
	en := ast.Enum{Tag: data.Name}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name, sp, ok := p.parseIdent()
		if !ok {
			p.resyncUntil(token.RBrace)
			break
		}
		e := ast.Enumerator{Name: name, Span: sp}
		if p.at(token.Assign) {
			p.advance()
			if e.Value, ok = p.parseConditional(); !ok {
				p.resyncUntil(token.Comma, token.RBrace)
			}
		}
		p.declareName(name, false)
		en.Enumerators = append(en.Enumerators, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	_, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close enum body")
	en.Span = kw.Span.Cover(p.lastSpan)
	data.Enum = p.arenas.Decls.NewEnum(en)
	return data, ok
}

// parseDeclarator разбирает '*' (с квалификаторами уровня), имя и суффиксы
// [] и (). APPROX после '*' квалифицирует этот уровень указателя.
func (p *Parser) parseDeclarator(base ast.TypeID, mode declaratorMode) (declarator, bool) {
	var d declarator
	start := p.peek().Span
	typ := base

	for p.at(token.Star) {
		star := p.advance()
		approx := false
		for p.atOr(token.KwApprox, token.KwConst, token.KwVolatile, token.KwRestrict) {
			q := p.advance()
			if q.Kind != token.KwApprox {
				continue
			}
			if approx {
				p.report(diag.SynDuplicateQualifier, diag.SevWarning, q.Span, "duplicate APPROX qualifier")
			}
			approx = true
		}
		typ = p.arenas.Types.NewPointer(star.Span.Cover(p.lastSpan), approx, typ)
	}

	if p.at(token.LParen) {
		next := p.peekN(1).Kind
		if mode == declNamed || next == token.Star || next == token.LParen {
			p.err(diag.SynUnsupportedDeclarator, "parenthesized declarators (function pointers) are not supported")
			// весь декларатор целиком: (*fp)(int)[2]
			for p.atOr(token.LParen, token.LBracket) {
				p.skipGroup()
			}
			return d, false
		}
	}

	switch {
	case p.at(token.Ident) && mode != declAbstract:
		tok := p.advance()
		d.name = p.intern(tok.Text)
		d.nameSpan = tok.Span
	case mode == declNamed:
		p.err(diag.SynExpectIdentifier, "expected identifier in declarator, got \""+p.peek().Text+"\"")
		return d, false
	}

	type suffix struct {
		fn     *ast.TypeFuncData
		length ast.ExprID
		span   source.Span
	}
	var sfx []suffix
suffixes:
	for {
		switch {
		case p.at(token.LBracket):
			open := p.advance()
			length := ast.NoExprID
			if !p.at(token.RBracket) {
				var ok bool
				if length, ok = p.parseAssignExpr(); !ok {
					return d, false
				}
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' in array declarator"); !ok {
				return d, false
			}
			sfx = append(sfx, suffix{length: length, span: open.Span.Cover(p.lastSpan)})
		case p.at(token.LParen):
			open := p.peek()
			fn, ok := p.parseParamList()
			if !ok {
				return d, false
			}
			sfx = append(sfx, suffix{fn: &fn, span: open.Span.Cover(p.lastSpan)})
		default:
			break suffixes
		}
	}

	// a[2][3]: массив из 2 массивов по 3 — суффиксы применяются справа налево
	for i := len(sfx) - 1; i >= 0; i-- {
		sp := start.Cover(sfx[i].span)
		if sfx[i].fn != nil {
			fn := *sfx[i].fn
			fn.Result = typ
			typ = p.arenas.Types.NewFunc(sp, fn)
			continue
		}
		typ = p.arenas.Types.NewArray(sp, typ, sfx[i].length)
	}
	d.typ = typ
	d.span = start.Cover(p.lastSpan)
	if d.nameSpan.Empty() {
		d.nameSpan = d.span
	}
	return d, true
}

func (p *Parser) parseParamList() (ast.TypeFuncData, bool) {
	var fn ast.TypeFuncData
	p.advance() // (
	if p.at(token.RParen) {
		p.advance()
		fn.Unspecified = true
		return fn, true
	}
	if p.at(token.KwVoid) && p.peekN(1).Kind == token.RParen {
		p.advance()
		p.advance()
		return fn, true
	}
	for {
		if p.at(token.Ellipsis) {
			p.advance()
			fn.Variadic = true
			break
		}
		ds, ok := p.parseDeclSpecs(true)
		if !ok {
			return fn, false
		}
		if !ds.present {
			p.err(diag.SynExpectType, "expected parameter type, got \""+p.peek().Text+"\"")
			return fn, false
		}
		d, ok := p.parseDeclarator(ds.base, declMaybeAbstract)
		if !ok {
			return fn, false
		}
		pid := p.arenas.Decls.NewParam(ast.Param{Name: d.name, Span: ds.span.Cover(d.span), Type: d.typ})
		fn.Params = append(fn.Params, pid)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters")
	return fn, ok
}

// parseTypeName — имя типа для каста и sizeof.
func (p *Parser) parseTypeName() (ast.TypeID, bool) {
	ds, ok := p.parseDeclSpecs(false)
	if !ok {
		return ast.NoTypeID, false
	}
	if !ds.present {
		p.err(diag.SynExpectType, "expected type name")
		return ast.NoTypeID, false
	}
	d, ok := p.parseDeclarator(ds.base, declAbstract)
	if !ok {
		return ast.NoTypeID, false
	}
	return d.typ, true
}

func (p *Parser) newDecl(d declarator, ds declSpecs, init ast.ExprID) ast.DeclID {
	p.declareName(d.name, ds.storage.Has(ast.StorageTypedef))
	return p.arenas.Decls.New(ast.Decl{
		Name:     d.name,
		NameSpan: d.nameSpan,
		Span:     ds.span.Cover(p.lastSpan),
		Type:     d.typ,
		Storage:  ds.storage,
		Init:     init,
	})
}

// parseInitDeclaratorsRest дочитывает `= init`, `, declarator ...` и ';'.
func (p *Parser) parseInitDeclaratorsRest(ds declSpecs, first declarator) ([]ast.DeclID, bool) {
	var out []ast.DeclID
	d := first
	for {
		init := ast.NoExprID
		if p.at(token.Assign) {
			p.advance()
			var ok bool
			if init, ok = p.parseInitializer(); !ok {
				return out, false
			}
		}
		out = append(out, p.newDecl(d, ds, init))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		var ok bool
		if d, ok = p.parseDeclarator(ds.base, declNamed); !ok {
			return out, false
		}
	}
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration")
	return out, ok
}

// parseInitializer: выражение присваивания или список в фигурных скобках.
func (p *Parser) parseInitializer() (ast.ExprID, bool) {
	if !p.at(token.LBrace) {
		return p.parseAssignExpr()
	}
	open := p.advance()
	var elems []ast.ExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.atOr(token.Dot, token.LBracket) {
			p.err(diag.SynUnexpectedToken, "designated initializers are not supported")
			return ast.NoExprID, false
		}
		e, ok := p.parseInitializer()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close initializer list"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewInitList(open.Span.Cover(p.lastSpan), elems), true
}
