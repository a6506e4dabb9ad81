package mir

import (
	"approxc/internal/qual"
	"approxc/internal/source"
	"approxc/internal/types"
)

// InstrKind enumerates instruction kinds in MIR.
type InstrKind uint8

const (
	// InstrParam binds an incoming argument to its parameter local.
	InstrParam InstrKind = iota
	// InstrAlloca reserves storage for a local.
	InstrAlloca
	InstrLoad
	InstrStore
	InstrBinOp
	InstrUnOp
	InstrCall
	InstrRet
	InstrCast
	// InstrAddr takes the address of a local, global or function.
	InstrAddr
	// InstrElem computes an element (index) or field address.
	InstrElem
	// InstrMarker is a side-effect-free ENDORSE/DEDORSE marker; its value is
	// the operand.
	InstrMarker
	InstrBr
	InstrCondBr
	InstrLabel
	InstrConst
)

var instrNames = [...]string{
	InstrParam:  "param",
	InstrAlloca: "alloca",
	InstrLoad:   "load",
	InstrStore:  "store",
	InstrBinOp:  "binop",
	InstrUnOp:   "unop",
	InstrCall:   "call",
	InstrRet:    "ret",
	InstrCast:   "cast",
	InstrAddr:   "addr",
	InstrElem:   "elem",
	InstrMarker: "marker",
	InstrBr:     "br",
	InstrCondBr: "condbr",
	InstrLabel:  "label",
	InstrConst:  "const",
}

func (k InstrKind) String() string {
	if int(k) < len(instrNames) {
		return instrNames[k]
	}
	return "?"
}

// Marker is the payload of InstrMarker.
type Marker struct {
	ID        uint32
	Direction qual.Direction
	Sentinel  uint32
}

// Instr is one linear MIR instruction. Tag is the qualifier tag of Type:
// the loaded/stored slot, the returned value, the bound parameter or the
// produced value.
type Instr struct {
	Kind InstrKind
	Tag  qual.Tag
	Type types.TypeID
	Dst  ValueID
	Args []ValueID
	Span source.Span

	Op     string // binop/unop operator
	Local  LocalID
	Global GlobalID
	Callee string // call target or addr of function; "" for indirect calls
	Field  string // elem .field
	Text   string // const text
	Label  LabelID
	Else   LabelID
	Marker Marker
}

func (f *Func) newValue() ValueID {
	v := f.nextValue
	f.nextValue++
	return v
}

func (f *Func) newLabel() LabelID {
	l := f.nextLabel
	f.nextLabel++
	return l
}

func (f *Func) emit(in Instr) int {
	f.Instrs = append(f.Instrs, in)
	return len(f.Instrs) - 1
}

// Terminated reports whether the last instruction ends control flow.
func (f *Func) Terminated() bool {
	if len(f.Instrs) == 0 {
		return false
	}
	switch f.Instrs[len(f.Instrs)-1].Kind {
	case InstrRet, InstrBr, InstrCondBr:
		return true
	}
	return false
}

// trimUnusedLabels drops labels no branch refers to.
func (f *Func) trimUnusedLabels() {
	used := make(map[LabelID]bool)
	for i := range f.Instrs {
		switch in := &f.Instrs[i]; in.Kind {
		case InstrBr:
			used[in.Label] = true
		case InstrCondBr:
			used[in.Label] = true
			used[in.Else] = true
		}
	}
	out := f.Instrs[:0]
	for _, in := range f.Instrs {
		if in.Kind == InstrLabel && !used[in.Label] {
			continue
		}
		out = append(out, in)
	}
	f.Instrs = out
}
