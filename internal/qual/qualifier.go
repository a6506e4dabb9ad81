package qual

// Qualifier is a point of the precision lattice.
type Qualifier uint8

const (
	// Precise is the default: the value must be computed exactly.
	Precise Qualifier = iota
	// Approx marks data whose precision may be relaxed.
	Approx
)

func (q Qualifier) String() string {
	switch q {
	case Precise:
		return "PRECISE"
	case Approx:
		return "APPROX"
	default:
		return "?"
	}
}

// Join returns the least upper bound: APPROX if either side is APPROX.
func Join(a, b Qualifier) Qualifier {
	if a == Approx || b == Approx {
		return Approx
	}
	return Precise
}

// JoinAll folds Join over qs; the empty join is Precise.
func JoinAll(qs ...Qualifier) Qualifier {
	out := Precise
	for _, q := range qs {
		out = Join(out, q)
	}
	return out
}
