package qual

// Direction of an escape marker.
type Direction uint8

const (
	// Endorse: APPROX value accepted where PRECISE is required.
	Endorse Direction = iota
	// Dedorse: APPROX-backed storage handed to a PRECISE-typed pointer or API.
	Dedorse
)

func (d Direction) String() string {
	if d == Dedorse {
		return "DEDORSE"
	}
	return "ENDORSE"
}

// Tag is the qualifier bitmask attached to lowered instructions.
type Tag uint8

const (
	TagPrecise       Tag = 0
	TagApprox        Tag = 1
	TagPointeeApprox Tag = 2
)

func (t Tag) String() string {
	switch t {
	case TagPrecise:
		return "precise"
	case TagApprox:
		return "approx"
	case TagPointeeApprox:
		return "approx*"
	case TagApprox | TagPointeeApprox:
		return "approx,approx*"
	default:
		return "?"
	}
}

// Lattice is the immutable qualifier configuration shared by the checker and
// the lowering stage.
type Lattice struct {
	// Default is the qualifier of an unannotated declaration.
	Default Qualifier
	// Sentinels of the escape markers in lowered output.
	EndorseSentinel uint32
	DedorseSentinel uint32
}

var standard = Lattice{
	Default:         Precise,
	EndorseSentinel: 0xE5D0,
	DedorseSentinel: 0xDED0,
}

// Standard returns the lattice used by approxc.
func Standard() *Lattice {
	l := standard
	return &l
}

// Flows reports whether a value qualified src may reach a slot qualified dst
// under op.
func (l *Lattice) Flows(src, dst Qualifier, op OpClass) bool {
	return l.Check(src, dst, op) == NoViolation
}

// Check returns the violation, if any, of moving src into dst under op.
func (l *Lattice) Check(src, dst Qualifier, op OpClass) Violation {
	switch op {
	case OpCondition:
		if src == Approx {
			return ApproxCondition
		}
		return NoViolation
	case OpPointerAlias:
		if src != dst {
			return PointeeMismatch
		}
		return NoViolation
	}
	if dst == Approx || src == Precise || src == dst {
		return NoViolation
	}
	return PrecisionFlow
}

// PointerCompatible applies the exact-match rule to pointee qualifiers.
func (l *Lattice) PointerCompatible(src, dst Qualifier) bool {
	return l.Check(src, dst, OpPointerAlias) == NoViolation
}

// Sentinel returns the marker value for d.
func (l *Lattice) Sentinel(d Direction) uint32 {
	if d == Dedorse {
		return l.DedorseSentinel
	}
	return l.EndorseSentinel
}

// TagOf encodes a value qualifier and, for pointers and arrays, the qualifier
// of the first pointee level.
func (l *Lattice) TagOf(value Qualifier, pointee Qualifier, indirect bool) Tag {
	var t Tag
	if value == Approx {
		t |= TagApprox
	}
	if indirect && pointee == Approx {
		t |= TagPointeeApprox
	}
	return t
}
