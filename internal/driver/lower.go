package driver

import (
	"context"
	"fmt"

	"approxc/internal/mir"
)

// LowerFile checks path and returns its lowered module. A rejected unit
// yields an error wrapping mir.ErrRejected together with the verdict, so
// callers can still print the diagnostics.
func LowerFile(ctx context.Context, path string, opts Options) (*UnitResult, *CheckResult, error) {
	opts.Lower = true
	opts.Link = false
	res, err := CheckFile(ctx, path, opts)
	if err != nil {
		return nil, nil, err
	}
	u := res.Units[0]
	if !u.Accepted() || u.Module == nil {
		return u, res, fmt.Errorf("%s: %w (%d errors)", path, mir.ErrRejected, u.Bag.ErrorCount())
	}
	return u, res, nil
}
