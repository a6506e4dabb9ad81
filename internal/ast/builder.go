package ast

import (
	"approxc/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns every arena of one compilation unit.
type Builder struct {
	Files   *Files
	Items   *Items
	Decls   *Decls
	Types   *TypeExprs
	Stmts   *Stmts
	Exprs   *Exprs
	Strings *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Decls:   NewDecls(hints.Items),
		Types:   NewTypeExprs(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Strings: strings,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Name returns the text of an interned identifier ("" for NoStringID).
func (b *Builder) Name(id source.StringID) string {
	if b.Strings == nil {
		return ""
	}
	s, _ := b.Strings.Lookup(id)
	return s
}
