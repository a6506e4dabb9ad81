package ast

import (
	"approxc/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtDecl
	StmtExpr
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtSwitch
	StmtCase
	StmtDefault
	StmtBreak
	StmtContinue
	StmtReturn
	StmtGoto
	StmtLabel
	StmtEmpty
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
}

// DeclStmt — локальное объявление; Base сохраняется для `struct S {...};`.
type DeclStmt struct {
	Base  TypeID
	Decls []DeclID
}

type ExprStmt struct {
	Expr ExprID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// LoopStmt covers while, do/while and for. For `for`, Init is a StmtDecl or
// StmtExpr (or NoStmtID); Cond and Post may be absent.
type LoopStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

type SwitchStmt struct {
	Tag  ExprID
	Body StmtID
}

// LabeledStmt covers `case v:`, `default:` and `name:`.
type LabeledStmt struct {
	Value ExprID
	Label source.StringID
	Body  StmtID
}

type ReturnStmt struct {
	Value ExprID
}

type GotoStmt struct {
	Label source.StringID
}

type Stmts struct {
	Arena    *Arena[Stmt]
	Blocks   *Arena[BlockStmt]
	Decls    *Arena[DeclStmt]
	Exprs    *Arena[ExprStmt]
	Ifs      *Arena[IfStmt]
	Loops    *Arena[LoopStmt]
	Switches *Arena[SwitchStmt]
	Labels   *Arena[LabeledStmt]
	Returns  *Arena[ReturnStmt]
	Gotos    *Arena[GotoStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint >> 3
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Blocks:   NewArena[BlockStmt](small),
		Decls:    NewArena[DeclStmt](small),
		Exprs:    NewArena[ExprStmt](capHint),
		Ifs:      NewArena[IfStmt](small),
		Loops:    NewArena[LoopStmt](small),
		Switches: NewArena[SwitchStmt](small),
		Labels:   NewArena[LabeledStmt](small),
		Returns:  NewArena[ReturnStmt](small),
		Gotos:    NewArena[GotoStmt](small),
	}
}

func (s *Stmts) new(kind StmtKind, sp source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil {
		return 0, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return uint32(st.Payload), true
		}
	}
	return 0, false
}

func (s *Stmts) NewBlock(sp source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, sp, s.Blocks.Allocate(BlockStmt{Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(p), true
}

func (s *Stmts) NewDecl(sp source.Span, base TypeID, decls []DeclID) StmtID {
	return s.new(StmtDecl, sp, s.Decls.Allocate(DeclStmt{Base: base, Decls: decls}))
}

func (s *Stmts) Decl(id StmtID) (*DeclStmt, bool) {
	p, ok := s.payload(id, StmtDecl)
	if !ok {
		return nil, false
	}
	return s.Decls.Get(p), true
}

func (s *Stmts) NewExpr(sp source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, sp, s.Exprs.Allocate(ExprStmt{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(p), true
}

func (s *Stmts) NewIf(sp source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, sp, s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

// NewLoop creates a while, do/while or for statement.
func (s *Stmts) NewLoop(kind StmtKind, sp source.Span, data LoopStmt) StmtID {
	return s.new(kind, sp, s.Loops.Allocate(data))
}

func (s *Stmts) Loop(id StmtID) (*LoopStmt, bool) {
	p, ok := s.payload(id, StmtWhile, StmtDoWhile, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Loops.Get(p), true
}

func (s *Stmts) NewSwitch(sp source.Span, tag ExprID, body StmtID) StmtID {
	return s.new(StmtSwitch, sp, s.Switches.Allocate(SwitchStmt{Tag: tag, Body: body}))
}

func (s *Stmts) Switch(id StmtID) (*SwitchStmt, bool) {
	p, ok := s.payload(id, StmtSwitch)
	if !ok {
		return nil, false
	}
	return s.Switches.Get(p), true
}

// NewLabeled creates a case, default or named label statement.
func (s *Stmts) NewLabeled(kind StmtKind, sp source.Span, data LabeledStmt) StmtID {
	return s.new(kind, sp, s.Labels.Allocate(data))
}

func (s *Stmts) Labeled(id StmtID) (*LabeledStmt, bool) {
	p, ok := s.payload(id, StmtCase, StmtDefault, StmtLabel)
	if !ok {
		return nil, false
	}
	return s.Labels.Get(p), true
}

func (s *Stmts) NewReturn(sp source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, sp, s.Returns.Allocate(ReturnStmt{Value: value}))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(p), true
}

func (s *Stmts) NewGoto(sp source.Span, label source.StringID) StmtID {
	return s.new(StmtGoto, sp, s.Gotos.Allocate(GotoStmt{Label: label}))
}

func (s *Stmts) Goto(id StmtID) (*GotoStmt, bool) {
	p, ok := s.payload(id, StmtGoto)
	if !ok {
		return nil, false
	}
	return s.Gotos.Get(p), true
}

// NewSimple creates break, continue and empty statements.
func (s *Stmts) NewSimple(kind StmtKind, sp source.Span) StmtID {
	return s.new(kind, sp, 0)
}
