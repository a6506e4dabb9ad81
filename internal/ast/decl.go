package ast

import (
	"approxc/internal/source"
)

// StorageClass is a bitmask of C storage-class and function specifiers.
type StorageClass uint8

const (
	StorageTypedef StorageClass = 1 << iota
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
	StorageInline
)

func (s StorageClass) Has(f StorageClass) bool { return s&f != 0 }

// Decl is one declarator with its complete type syntax.
type Decl struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Type     TypeID
	Storage  StorageClass
	Init     ExprID
}

// Param is a function parameter; Name is NoStringID for abstract parameters.
type Param struct {
	Name source.StringID
	Span source.Span
	Type TypeID
}

// Field is a struct/union member.
type Field struct {
	Name source.StringID
	Span source.Span
	Type TypeID
}

// Record is a struct or union body.
type Record struct {
	Union  bool
	Tag    source.StringID
	Span   source.Span
	Fields []Field
}

type Enumerator struct {
	Name  source.StringID
	Span  source.Span
	Value ExprID
}

type Enum struct {
	Tag         source.StringID
	Span        source.Span
	Enumerators []Enumerator
}

type Decls struct {
	Arena   *Arena[Decl]
	Params  *Arena[Param]
	Records *Arena[Record]
	Enums   *Arena[Enum]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Decls{
		Arena:   NewArena[Decl](capHint),
		Params:  NewArena[Param](capHint),
		Records: NewArena[Record](capHint >> 2),
		Enums:   NewArena[Enum](capHint >> 3),
	}
}

func (d *Decls) New(decl Decl) DeclID {
	return DeclID(d.Arena.Allocate(decl))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) NewParam(p Param) ParamID {
	return ParamID(d.Params.Allocate(p))
}

func (d *Decls) Param(id ParamID) *Param {
	return d.Params.Get(uint32(id))
}

func (d *Decls) NewRecord(r Record) RecordID {
	return RecordID(d.Records.Allocate(r))
}

func (d *Decls) Record(id RecordID) *Record {
	return d.Records.Get(uint32(id))
}

func (d *Decls) NewEnum(e Enum) EnumID {
	return EnumID(d.Enums.Allocate(e))
}

func (d *Decls) Enum(id EnumID) *Enum {
	return d.Enums.Get(uint32(id))
}
