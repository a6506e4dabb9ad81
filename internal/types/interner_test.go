package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"approxc/internal/qual"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Int == NoTypeID || b.Void == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if in.Qual(b.Float) != qual.Precise {
		t.Fatalf("builtins must be PRECISE")
	}
}

func TestQualifierAffectsIdentity(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	approx := in.WithQual(b.Int, qual.Approx)
	if approx == b.Int {
		t.Fatalf("APPROX int and int must differ")
	}
	if in.WithQual(b.Int, qual.Approx) != approx {
		t.Fatalf("qualified types must be deduplicated")
	}
	if in.WithQual(approx, qual.Precise) != b.Int {
		t.Fatalf("dropping the qualifier must give back int")
	}
}

func TestPointerShapes(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	approxInt := in.WithQual(b.Int, qual.Approx)
	xp := in.Pointer(approxInt, qual.Precise) // APPROX int *
	yp := in.Pointer(b.Int, qual.Precise)     // int *
	q := in.Pointer(b.Int, qual.Approx)       // int *APPROX
	pp := in.Pointer(q, qual.Precise)         // int *APPROX *
	if xp == yp {
		t.Fatalf("pointee qualifier must be part of identity")
	}
	if pq, _ := in.PointeeQual(xp); pq != qual.Approx {
		t.Fatalf("pointee of xp must be APPROX")
	}
	want := []qual.Qualifier{qual.Precise, qual.Approx, qual.Precise}
	if diff := cmp.Diff(want, in.QualShape(pp)); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}
	cases := map[TypeID]string{
		xp: "APPROX int *",
		q:  "int *APPROX",
		pp: "int *APPROX *",
	}
	for id, w := range cases {
		if got := in.Format(id); got != w {
			t.Errorf("Format = %q, want %q", got, w)
		}
	}
}

func TestArrayQualifierDistributes(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	arr := in.MakeArray(in.WithQual(b.Float, qual.Approx), 4)
	if in.Qual(arr) != qual.Approx {
		t.Fatalf("array must mirror element qualifier")
	}
	dec := in.Decay(arr)
	if pq, ok := in.PointeeQual(dec); !ok || pq != qual.Approx || in.Qual(dec) != qual.Precise {
		t.Fatalf("decayed pointer must point to APPROX float")
	}
	if in.WithQual(in.MakeArray(b.Float, 4), qual.Approx) != arr {
		t.Fatalf("requalifying an array must requalify its element")
	}
	if got := in.Format(arr); got != "APPROX float [4]" {
		t.Fatalf("Format = %q", got)
	}
}

func TestRecordsAreNominalAndFieldsIndependent(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s1 := in.RegisterRecord("pixel", false)
	s2 := in.RegisterRecord("pixel", false)
	if s1 == s2 {
		t.Fatalf("each registration is a new nominal type")
	}
	in.SetRecordFields(s1, []Field{{Name: "r", Type: in.WithQual(b.Int, qual.Approx)}, {Name: "a", Type: b.Int}})
	approxS := in.WithQual(s1, qual.Approx)
	f, ok := in.Field(approxS, "a")
	if !ok || in.Qual(f.Type) != qual.Precise {
		t.Fatalf("field qualifier must not inherit the aggregate qualifier")
	}
	if got := in.Format(approxS); got != "APPROX struct pixel" {
		t.Fatalf("Format = %q", got)
	}
}

func TestRegisterFnDedup(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.RegisterFn(FnInfo{Params: []TypeID{b.Int}, Result: b.Void})
	f2 := in.RegisterFn(FnInfo{Params: []TypeID{b.Int}, Result: b.Void})
	f3 := in.RegisterFn(FnInfo{Params: []TypeID{in.WithQual(b.Int, qual.Approx)}, Result: b.Void})
	if f1 != f2 || f1 == f3 {
		t.Fatalf("fn types must dedup structurally including qualifiers")
	}
	if got := in.Format(f3); got != "void (APPROX int)" {
		t.Fatalf("Format = %q", got)
	}
}
