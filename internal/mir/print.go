package mir

import (
	"fmt"
	"io"
	"strings"

	"approxc/internal/types"
)

// DumpOptions configures MIR module dumping.
type DumpOptions struct {
	// Spans appends source offsets to instructions.
	Spans bool
}

// DumpModule writes a human-readable representation of a MIR module. The
// format is stable: every tagged instruction ends with "!tag=N".
func DumpModule(w io.Writer, m *Module, typesIn *types.Interner, opts DumpOptions) error {
	if w == nil || m == nil {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "globals=%d\n", len(m.Globals))
	for i := range m.Globals {
		g := &m.Globals[i]
		flags := ""
		if g.Static {
			flags = " static"
		}
		init := ""
		if g.Init != "" {
			init = " = " + g.Init
		}
		fmt.Fprintf(&sb, "  G%d: %s%s name=%s%s !tag=%d\n", i, typeStr(typesIn, g.Type), flags, g.Name, init, g.Tag)
	}
	fmt.Fprintf(&sb, "funcs=%d\n", len(m.Funcs))
	for _, f := range m.Funcs {
		dumpFunc(&sb, f, typesIn, opts)
	}
	if len(m.Markers) > 0 {
		fmt.Fprintf(&sb, "\nmarkers=%d\n", len(m.Markers))
		for _, mr := range m.Markers {
			fmt.Fprintf(&sb, "  #%d %s sentinel=%#x fn=%s instr=%d\n", mr.ID, mr.Direction, mr.Sentinel, mr.Func, mr.Instr)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpFunc(sb *strings.Builder, f *Func, typesIn *types.Interner, opts DumpOptions) {
	if f == nil {
		return
	}
	fmt.Fprintf(sb, "\nfn %s -> %s !tag=%d:\n", f.Name, typeStr(typesIn, f.Result), f.Tag)
	sb.WriteString("  locals:\n")
	for i := range f.Locals {
		l := &f.Locals[i]
		flags := ""
		if l.Param {
			flags = " [param]"
		}
		fmt.Fprintf(sb, "    L%d: %s%s name=%s !tag=%d\n", i, typeStr(typesIn, l.Type), flags, l.Name, l.Tag)
	}
	sb.WriteString("  body:\n")
	for i := range f.Instrs {
		in := &f.Instrs[i]
		line := FormatInstr(typesIn, in)
		if in.Kind == InstrLabel {
			fmt.Fprintf(sb, "  %s\n", line)
			continue
		}
		if opts.Spans && !in.Span.Empty() {
			line += fmt.Sprintf(" @%d..%d", in.Span.Start, in.Span.End)
		}
		fmt.Fprintf(sb, "    %s\n", line)
	}
}

func formatValues(vs []ValueID) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%%%d", v)
	}
	return strings.Join(parts, ", ")
}

// FormatInstr renders one instruction.
func FormatInstr(typesIn *types.Interner, in *Instr) string {
	if in == nil {
		return "<instr?>"
	}
	dst := ""
	if in.Dst != NoValueID {
		dst = fmt.Sprintf("%%%d = ", in.Dst)
	}
	tag := fmt.Sprintf(" !tag=%d", in.Tag)
	switch in.Kind {
	case InstrParam:
		return fmt.Sprintf("param L%d%s", in.Local, tag)
	case InstrAlloca:
		return fmt.Sprintf("alloca L%d %s%s", in.Local, typeStr(typesIn, in.Type), tag)
	case InstrLoad:
		return fmt.Sprintf("%sload %s%s", dst, formatValues(in.Args), tag)
	case InstrStore:
		return fmt.Sprintf("store %s%s", formatValues(in.Args), tag)
	case InstrBinOp:
		return fmt.Sprintf("%sbinop %s %s%s", dst, in.Op, formatValues(in.Args), tag)
	case InstrUnOp:
		return fmt.Sprintf("%sunop %s %s%s", dst, in.Op, formatValues(in.Args), tag)
	case InstrCall:
		callee := "@" + in.Callee
		args := in.Args
		if in.Callee == "" && len(args) > 0 {
			callee = fmt.Sprintf("%%%d", args[0])
			args = args[1:]
		}
		return fmt.Sprintf("%scall %s(%s)%s", dst, callee, formatValues(args), tag)
	case InstrRet:
		if len(in.Args) == 0 {
			return "ret" + tag
		}
		return fmt.Sprintf("ret %s%s", formatValues(in.Args), tag)
	case InstrCast:
		return fmt.Sprintf("%scast %s to %s%s", dst, formatValues(in.Args), typeStr(typesIn, in.Type), tag)
	case InstrAddr:
		switch {
		case in.Callee != "":
			return fmt.Sprintf("%saddr @%s%s", dst, in.Callee, tag)
		case in.Global != NoGlobalID:
			return fmt.Sprintf("%saddr G%d%s", dst, in.Global, tag)
		default:
			return fmt.Sprintf("%saddr L%d%s", dst, in.Local, tag)
		}
	case InstrElem:
		if in.Field != "" {
			return fmt.Sprintf("%selem %s .%s%s", dst, formatValues(in.Args), in.Field, tag)
		}
		return fmt.Sprintf("%selem %s%s", dst, formatValues(in.Args), tag)
	case InstrMarker:
		return fmt.Sprintf("%smarker %s #%d sentinel=%#x %s%s",
			dst, in.Marker.Direction, in.Marker.ID, in.Marker.Sentinel, formatValues(in.Args), tag)
	case InstrBr:
		return fmt.Sprintf("br .L%d", in.Label)
	case InstrCondBr:
		return fmt.Sprintf("condbr %s, .L%d, .L%d", formatValues(in.Args), in.Label, in.Else)
	case InstrLabel:
		return fmt.Sprintf(".L%d:", in.Label)
	case InstrConst:
		return fmt.Sprintf("%sconst %s%s", dst, in.Text, tag)
	}
	return "<instr?>"
}

func typeStr(typesIn *types.Interner, id types.TypeID) string {
	if id == types.NoTypeID {
		return "?"
	}
	if typesIn == nil {
		return fmt.Sprintf("type#%d", id)
	}
	return typesIn.Format(id)
}
