package qual

import "testing"

var all = []Qualifier{Precise, Approx}

func TestFlowsAssignmentClasses(t *testing.T) {
	l := Standard()
	for _, op := range []OpClass{OpAssign, OpInit, OpArg, OpReturn, OpCast} {
		for _, src := range all {
			for _, dst := range all {
				want := dst == Approx || src == dst || src == Precise
				if got := l.Flows(src, dst, op); got != want {
					t.Errorf("%s: %s -> %s = %v, want %v", op, src, dst, got, want)
				}
			}
		}
		if l.Check(Approx, Precise, op) != PrecisionFlow {
			t.Errorf("%s: APPROX -> PRECISE must be a precision flow violation", op)
		}
	}
}

func TestConditionStricterThanAssignment(t *testing.T) {
	l := Standard()
	for _, dst := range all {
		if l.Flows(Approx, dst, OpCondition) {
			t.Fatalf("APPROX condition accepted with dst %s", dst)
		}
	}
	if !l.Flows(Approx, Approx, OpAssign) {
		t.Fatalf("APPROX -> APPROX assignment must be accepted")
	}
	if l.Check(Approx, Precise, OpCondition) != ApproxCondition {
		t.Fatalf("expected ApproxCondition")
	}
	if !l.Flows(Precise, Precise, OpCondition) {
		t.Fatalf("PRECISE condition rejected")
	}
}

func TestPointerExactMatch(t *testing.T) {
	l := Standard()
	for _, src := range all {
		for _, dst := range all {
			if got := l.PointerCompatible(src, dst); got != (src == dst) {
				t.Errorf("%s* -> %s* = %v", src, dst, got)
			}
		}
	}
	if l.Check(Precise, Approx, OpPointerAlias) != PointeeMismatch {
		t.Fatalf("PRECISE* -> APPROX* must mismatch")
	}
}

func TestJoin(t *testing.T) {
	if Join(Precise, Precise) != Precise || Join(Precise, Approx) != Approx || Join(Approx, Precise) != Approx {
		t.Fatalf("join is not the lattice lub")
	}
	if JoinAll() != Precise || JoinAll(Precise, Approx, Precise) != Approx {
		t.Fatalf("JoinAll mismatch")
	}
}

func TestTagsAndSentinels(t *testing.T) {
	l := Standard()
	cases := []struct {
		value, pointee Qualifier
		indirect       bool
		want           Tag
	}{
		{Precise, Precise, false, TagPrecise},
		{Approx, Precise, false, TagApprox},
		{Precise, Approx, true, TagPointeeApprox},
		{Approx, Approx, true, TagApprox | TagPointeeApprox},
		{Precise, Approx, false, TagPrecise},
	}
	for _, tc := range cases {
		if got := l.TagOf(tc.value, tc.pointee, tc.indirect); got != tc.want {
			t.Errorf("TagOf(%s, %s, %v) = %d, want %d", tc.value, tc.pointee, tc.indirect, got, tc.want)
		}
	}
	if l.Sentinel(Endorse) == l.Sentinel(Dedorse) {
		t.Fatalf("sentinels must differ")
	}
	// Standard returns a copy; callers cannot mutate the shared config.
	l.EndorseSentinel = 1
	if Standard().EndorseSentinel == 1 {
		t.Fatalf("Standard lattice was mutated")
	}
}
