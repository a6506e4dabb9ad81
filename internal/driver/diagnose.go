package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"approxc/internal/buildpipeline"
	"approxc/internal/diag"
	"approxc/internal/sema"
	"approxc/internal/source"
	"approxc/internal/trace"
)

// CheckResult collects the verdicts of every unit of a run.
type CheckResult struct {
	FileSet *source.FileSet
	Units   []*UnitResult
	// LinkBag holds cross-unit diagnostics (--link).
	LinkBag    *diag.Bag
	LinkErrors int
}

// Bag merges all unit diagnostics and link diagnostics, sorted.
func (r *CheckResult) Bag() *diag.Bag {
	out := diag.NewBag(0)
	for _, u := range r.Units {
		out.Merge(u.Bag)
	}
	if r.LinkBag != nil {
		out.Merge(r.LinkBag)
	}
	out.Sort()
	return out
}

// HasErrors reports whether any unit or the link check failed.
func (r *CheckResult) HasErrors() bool {
	if r.LinkErrors > 0 {
		return true
	}
	for _, u := range r.Units {
		if !u.Accepted() {
			return true
		}
	}
	return false
}

// Rejected counts units with errors.
func (r *CheckResult) Rejected() int {
	n := 0
	for _, u := range r.Units {
		if !u.Accepted() {
			n++
		}
	}
	return n
}

// Check dispatches to CheckDir or CheckFile depending on path.
func Check(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return CheckDir(ctx, path, opts)
	}
	return CheckFile(ctx, path, opts)
}

// CheckFile checks a single translation unit.
func CheckFile(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return CheckPaths(ctx, []string{path}, opts)
}

// CheckPaths checks the given files in parallel; results keep input order.
func CheckPaths(ctx context.Context, paths []string, opts Options) (*CheckResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "check")
	defer span.End(fmt.Sprintf("units=%d", len(paths)))

	fs := source.NewFileSetWithBase(opts.BaseDir)
	ids := make([]source.FileID, len(paths))
	units := make([]*UnitResult, len(paths))
	for i, p := range paths {
		id, err := fs.Load(p)
		if err != nil {
			units[i] = loadError(fs, p, err, opts.MaxDiagnostics)
			continue
		}
		ids[i] = id
	}

	display := make([]string, len(paths))
	for i, p := range paths {
		display[i] = buildpipeline.DisplayPath(p, opts.BaseDir)
	}
	buildpipeline.EmitQueued(opts.Progress, display)

	err := forEachUnit(ctx, len(paths), opts.Jobs, func(ctx context.Context, i int) error {
		r := &unitRunner{fs: fs, opts: opts, display: display[i]}
		if units[i] != nil {
			r.finish(units[i])
			return nil
		}
		units[i] = r.checkCached(ctx, ids[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &CheckResult{FileSet: fs, Units: units}
	if opts.Link {
		runLink(ctx, res, opts)
	}
	return res, nil
}

// checkCached consults the disk cache before running the unit. Lowering
// needs the AST, so Options.Lower bypasses the cache.
func (r *unitRunner) checkCached(ctx context.Context, id source.FileID) *UnitResult {
	cache := r.opts.Cache
	if cache == nil || r.opts.Lower {
		return r.check(ctx, id)
	}
	file := r.fs.Get(id)
	key := UnitKey(file, r.opts.Config)

	var payload UnitPayload
	hit, err := cache.Get(key, &payload)
	if err == nil && hit {
		u := fromPayload(&payload, id, r.opts.MaxDiagnostics)
		u.Path = file.Path
		trace.Point(trace.FromContext(ctx), trace.ScopeUnit, "cache-hit", r.display, trace.CurrentSpan(ctx))
		r.finish(u)
		return u
	}

	u := r.check(ctx, id)
	if err == nil {
		err = cache.Put(key, toPayload(u))
	}
	if err != nil {
		u.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "disk cache: "+err.Error()))
	}
	return u
}

func runLink(ctx context.Context, res *CheckResult, opts Options) {
	span, _ := trace.StartSpan(ctx, trace.ScopePass, string(buildpipeline.StageLink))
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageLink, Status: buildpipeline.StatusWorking})

	link := make([]sema.LinkUnit, 0, len(res.Units))
	for _, u := range res.Units {
		link = append(link, sema.LinkUnit{Signatures: u.Signatures})
	}
	res.LinkBag = diag.NewBag(opts.MaxDiagnostics)
	res.LinkErrors = sema.LinkCheck(link, &diag.BagReporter{Bag: res.LinkBag})
	res.LinkBag.Sort()

	status := buildpipeline.StatusDone
	if res.LinkErrors > 0 {
		status = buildpipeline.StatusError
	}
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageLink, Status: status, Errors: res.LinkErrors})
	span.End(fmt.Sprintf("mismatches=%d", res.LinkErrors))
}
