package mir

import (
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

type FuncID int32
type LocalID int32
type GlobalID int32
type ValueID int32
type LabelID int32

const (
	NoLocalID  LocalID  = -1
	NoGlobalID GlobalID = -1
	NoValueID  ValueID  = -1
	NoLabelID  LabelID  = -1
)

// Module is the lowered form of one accepted unit.
type Module struct {
	Globals []Global
	Funcs   []*Func
	// Markers indexes every escape marker instruction in source order.
	Markers []MarkerRef
}

type Global struct {
	Name string
	Type types.TypeID
	Tag  qual.Tag
	Span source.Span
	// Init is the literal text of a constant initializer, if any.
	Init   string
	Static bool
}

type Local struct {
	Name  string
	Type  types.TypeID
	Tag   qual.Tag
	Span  source.Span
	Param bool
}

type Func struct {
	ID     FuncID
	Name   string
	Span   source.Span
	Result types.TypeID
	Tag    qual.Tag

	Params []LocalID
	Locals []Local
	Instrs []Instr

	nextValue ValueID
	nextLabel LabelID
}

// MarkerRef locates a marker instruction.
type MarkerRef struct {
	Func  string
	Instr int
	Marker
	Span source.Span
}

// FuncByName returns the function with the given name or nil.
func (m *Module) FuncByName(name string) *Func {
	for _, f := range m.Funcs {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}
