package types

import (
	"strconv"
	"strings"

	"approxc/internal/qual"
)

// Format renders id in C declaration order with qualifiers:
// "APPROX int *", "int *APPROX", "APPROX float [4]".
func (in *Interner) Format(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	prefix := ""
	if tt.Qual == qual.Approx {
		prefix = "APPROX "
	}
	switch tt.Kind {
	case KindVoid:
		return prefix + "void"
	case KindBool:
		return prefix + "_Bool"
	case KindInt, KindUint:
		return prefix + intName(tt)
	case KindFloat:
		switch tt.Width {
		case Width32:
			return prefix + "float"
		case Width128:
			return prefix + "long double"
		default:
			return prefix + "double"
		}
	case KindEnum:
		return prefix + "enum " + in.enums[tt.Payload]
	case KindStruct, KindUnion:
		kw := "struct "
		if tt.Kind == KindUnion {
			kw = "union "
		}
		name := "<anonymous>"
		if info, ok := in.RecordInfo(id); ok && info.Name != "" {
			name = info.Name
		}
		return prefix + kw + name
	case KindPointer:
		elem := in.Format(tt.Elem)
		if !strings.HasSuffix(elem, "*") {
			elem += " "
		}
		elem += "*"
		if tt.Qual == qual.Approx {
			elem += "APPROX"
		}
		return elem
	case KindArray:
		n := ""
		if tt.Count != ArrayUnknownLength {
			n = strconv.FormatUint(uint64(tt.Count), 10)
		}
		return in.Format(tt.Elem) + " [" + n + "]"
	case KindFn:
		info, _ := in.FnInfo(id)
		parts := make([]string, 0, len(info.Params)+1)
		for _, p := range info.Params {
			parts = append(parts, in.Format(p))
		}
		if info.Variadic {
			parts = append(parts, "...")
		}
		return in.Format(info.Result) + " (" + strings.Join(parts, ", ") + ")"
	}
	return tt.Kind.String()
}

func intName(tt Type) string {
	u := ""
	if tt.Kind == KindUint {
		u = "unsigned "
	}
	switch tt.Width {
	case Width8:
		return u + "char"
	case Width16:
		return u + "short"
	case Width32:
		return u + "int"
	case Width64:
		return u + "long"
	default:
		return u + "long long"
	}
}
