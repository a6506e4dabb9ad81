package types

import (
	"fmt"

	"fortio.org/safecast"

	"approxc/internal/qual"
)

// Field is a struct/union member with its own qualified type.
type Field struct {
	Name string
	Type TypeID
}

// RecordInfo describes a struct or union. Field qualifiers are independent of
// the qualifier of a variable of this record type.
type RecordInfo struct {
	Name     string
	Union    bool
	Fields   []Field
	Complete bool
}

// RegisterRecord reserves a new nominal struct/union and returns its PRECISE TypeID.
func (in *Interner) RegisterRecord(name string, union bool) TypeID {
	in.records = append(in.records, RecordInfo{Name: name, Union: union})
	slot, err := safecast.Conv[uint32](len(in.records) - 1)
	if err != nil {
		panic(fmt.Errorf("record info overflow: %w", err))
	}
	kind := KindStruct
	if union {
		kind = KindUnion
	}
	return in.Intern(Type{Kind: kind, Payload: slot, Qual: qual.Precise})
}

// SetRecordFields completes the record behind id.
func (in *Interner) SetRecordFields(id TypeID, fields []Field) {
	info, ok := in.RecordInfo(id)
	if !ok {
		return
	}
	info.Fields = append([]Field(nil), fields...)
	info.Complete = true
}

// RecordInfo returns the record behind id regardless of its qualifier.
func (in *Interner) RecordInfo(id TypeID) (*RecordInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || !tt.IsAggregate() || tt.Payload == 0 || int(tt.Payload) >= len(in.records) {
		return nil, false
	}
	return &in.records[tt.Payload], true
}

// Field looks up a member by name.
func (in *Interner) Field(id TypeID, name string) (Field, bool) {
	info, ok := in.RecordInfo(id)
	if !ok {
		return Field{}, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RegisterEnum reserves a nominal enum type; enumerators are PRECISE int constants.
func (in *Interner) RegisterEnum(name string) TypeID {
	in.enums = append(in.enums, name)
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("enum overflow: %w", err))
	}
	return in.Intern(Type{Kind: KindEnum, Width: Width32, Payload: slot})
}
