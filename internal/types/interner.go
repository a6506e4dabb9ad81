package types

import (
	"fmt"

	"fortio.org/safecast"

	"approxc/internal/qual"
)

// Builtins stores TypeIDs for PRECISE primitive types.
type Builtins struct {
	Invalid    TypeID
	Void       TypeID
	Bool       TypeID
	Char       TypeID
	UChar      TypeID
	Short      TypeID
	UShort     TypeID
	Int        TypeID
	Uint       TypeID
	Long       TypeID
	ULong      TypeID
	LongLong   TypeID
	ULongLong  TypeID
	Float      TypeID
	Double     TypeID
	LongDouble TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Qualifier is part of the key: APPROX int and int are distinct types.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	records  []RecordInfo
	fns      []FnInfo
	enums    []string
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.records = append(in.records, RecordInfo{}) // reserve 0 as invalid sentinel
	in.fns = append(in.fns, FnInfo{})
	in.enums = append(in.enums, "")
	p := qual.Precise
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool, Width: Width8})
	in.builtins.Char = in.Intern(MakeInt(Width8, p))
	in.builtins.UChar = in.Intern(MakeUint(Width8, p))
	in.builtins.Short = in.Intern(MakeInt(Width16, p))
	in.builtins.UShort = in.Intern(MakeUint(Width16, p))
	in.builtins.Int = in.Intern(MakeInt(Width32, p))
	in.builtins.Uint = in.Intern(MakeUint(Width32, p))
	in.builtins.Long = in.Intern(MakeInt(Width64, p))
	in.builtins.ULong = in.Intern(MakeUint(Width64, p))
	in.builtins.LongLong = in.Intern(MakeInt(WidthAny, p))
	in.builtins.ULongLong = in.Intern(MakeUint(WidthAny, p))
	in.builtins.Float = in.Intern(MakeFloat(Width32, p))
	in.builtins.Double = in.Intern(MakeFloat(Width64, p))
	in.builtins.LongDouble = in.Intern(MakeFloat(Width128, p))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

type typeKey struct {
	Kind    Kind
	Qual    qual.Qualifier
	Elem    TypeID
	Count   uint32
	Width   Width
	Payload uint32
}
