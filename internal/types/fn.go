package types //nolint:revive

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params   []TypeID // Parameter types (in order)
	Result   TypeID   // Return type
	Variadic bool
	// Unspecified: old-style `f()`; arguments are not counted.
	Unspecified bool
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
			continue
		}
		got := in.fns[tt.Payload]
		if got.Result == info.Result && got.Variadic == info.Variadic &&
			got.Unspecified == info.Unspecified && slices.Equal(got.Params, info.Params) {
			return id
		}
	}
	in.fns = append(in.fns, FnInfo{
		Params:      slices.Clone(info.Params),
		Result:      info.Result,
		Variadic:    info.Variadic,
		Unspecified: info.Unspecified,
	})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindFn, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}
