package ast

import (
	"approxc/internal/source"
)

type ItemKind uint8

const (
	// ItemDecl — объявление верхнего уровня: переменные, прототипы, typedef,
	// а также одиночные `struct S {...};`.
	ItemDecl ItemKind = iota
	// ItemFunc — определение функции с телом.
	ItemFunc
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// DeclItem groups declarators sharing one specifier list.
type DeclItem struct {
	Decls []DeclID
	// Base is the specifier type; kept for declarations without declarators.
	Base TypeID
}

type FuncItem struct {
	Decl DeclID
	Body StmtID
}

type Items struct {
	Arena *Arena[Item]
	Decls *Arena[DeclItem]
	Funcs *Arena[FuncItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Decls: NewArena[DeclItem](capHint),
		Funcs: NewArena[FuncItem](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewDecl(sp source.Span, base TypeID, decls []DeclID) ItemID {
	payload := i.Decls.Allocate(DeclItem{Decls: decls, Base: base})
	return ItemID(i.Arena.Allocate(Item{Kind: ItemDecl, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Decl(id ItemID) (*DeclItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemDecl {
		return nil, false
	}
	return i.Decls.Get(uint32(item.Payload)), true
}

func (i *Items) NewFunc(sp source.Span, decl DeclID, body StmtID) ItemID {
	payload := i.Funcs.Allocate(FuncItem{Decl: decl, Body: body})
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFunc, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Func(id ItemID) (*FuncItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFunc {
		return nil, false
	}
	return i.Funcs.Get(uint32(item.Payload)), true
}
