package mir

import (
	"errors"
	"fmt"

	"approxc/internal/qual"
	"approxc/internal/types"
)

// Validate checks MIR module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module, typesIn *types.Interner, lattice *qual.Lattice) error {
	if m == nil {
		return nil
	}
	if lattice == nil {
		lattice = qual.Standard()
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(f, typesIn, lattice); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *Func, typesIn *types.Interner, lattice *qual.Lattice) error {
	var errs []error

	// 1. Labels: every branch target is defined exactly once
	defined := make(map[LabelID]int)
	for i := range f.Instrs {
		if f.Instrs[i].Kind == InstrLabel {
			defined[f.Instrs[i].Label]++
		}
	}
	for l, n := range defined {
		if n > 1 {
			errs = append(errs, fmt.Errorf(".L%d defined %d times", l, n))
		}
	}

	seen := make(map[ValueID]bool)
	for i := range f.Instrs {
		in := &f.Instrs[i]
		switch in.Kind {
		case InstrBr:
			if defined[in.Label] == 0 {
				errs = append(errs, fmt.Errorf("instr %d: branch to undefined .L%d", i, in.Label))
			}
		case InstrCondBr:
			if defined[in.Label] == 0 || defined[in.Else] == 0 {
				errs = append(errs, fmt.Errorf("instr %d: branch to undefined label", i))
			}
		case InstrParam, InstrAlloca:
			if in.Local < 0 || int(in.Local) >= len(f.Locals) {
				errs = append(errs, fmt.Errorf("instr %d: unknown local L%d", i, in.Local))
			}
		}

		// 2. Values are defined before use
		for _, a := range in.Args {
			if a != NoValueID && !seen[a] {
				errs = append(errs, fmt.Errorf("instr %d: use of undefined %%%d", i, a))
			}
		}
		if in.Dst != NoValueID {
			seen[in.Dst] = true
		}

		// 3. Tags agree with the qualified type
		if typesIn != nil && in.Type != types.NoTypeID {
			pq, indirect := typesIn.PointeeQual(in.Type)
			want := lattice.TagOf(typesIn.Qual(in.Type), pq, indirect)
			if in.Tag != want {
				errs = append(errs, fmt.Errorf("instr %d (%s): tag %d does not match %s", i, in.Kind, in.Tag, typesIn.Format(in.Type)))
			}
		}
	}
	return errors.Join(errs...)
}
