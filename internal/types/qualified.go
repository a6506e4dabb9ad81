package types

import "approxc/internal/qual"

// Qual returns the top-level qualifier of id (PRECISE for unknown ids).
func (in *Interner) Qual(id TypeID) qual.Qualifier {
	tt, ok := in.Lookup(id)
	if !ok {
		return qual.Precise
	}
	return tt.Qual
}

// WithQual returns id with its top-level qualifier replaced. For arrays the
// qualifier belongs to the element, so the element is requalified.
func (in *Interner) WithQual(id TypeID, q qual.Qualifier) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Qual == q || tt.Kind == KindFn {
		return id
	}
	if tt.Kind == KindArray {
		return in.MakeArray(in.WithQual(tt.Elem, q), tt.Count)
	}
	tt.Qual = q
	return in.Intern(tt)
}

// Pointer interns a pointer to elem.
func (in *Interner) Pointer(elem TypeID, q qual.Qualifier) TypeID {
	return in.Intern(MakePointer(elem, q))
}

// MakeArray interns an array; its qualifier mirrors the element.
func (in *Interner) MakeArray(elem TypeID, count uint32) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Count: count, Qual: in.Qual(elem)})
}

// Pointee returns the element of a pointer or array.
func (in *Interner) Pointee(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || !tt.IsIndirect() {
		return NoTypeID, false
	}
	return tt.Elem, true
}

// PointeeQual returns the qualifier of the first pointee level.
func (in *Interner) PointeeQual(id TypeID) (qual.Qualifier, bool) {
	elem, ok := in.Pointee(id)
	if !ok {
		return qual.Precise, false
	}
	return in.Qual(elem), true
}

// Decay converts an array to a PRECISE pointer to its element; the element
// keeps its qualifier. Other types are returned unchanged.
func (in *Interner) Decay(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return id
	}
	return in.Pointer(tt.Elem, qual.Precise)
}

// QualShape lists qualifiers along the indirection chain: the value itself,
// then each pointee level. int *APPROX * gives [PRECISE, APPROX, PRECISE].
func (in *Interner) QualShape(id TypeID) []qual.Qualifier {
	var out []qual.Qualifier
	for {
		tt, ok := in.Lookup(id)
		if !ok {
			return out
		}
		out = append(out, tt.Qual)
		if !tt.IsIndirect() {
			return out
		}
		id = tt.Elem
	}
}
