package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"approxc/internal/ast"
	"approxc/internal/buildpipeline"
	"approxc/internal/diag"
	"approxc/internal/lexer"
	"approxc/internal/mir"
	"approxc/internal/parser"
	"approxc/internal/sema"
	"approxc/internal/source"
	"approxc/internal/trace"
)

// UnitResult is the verdict for one translation unit.
type UnitResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Builder *ast.Builder
	ASTFile ast.FileID
	// Sema is nil when the unit had syntax errors or came from the cache.
	Sema *sema.Result
	// Module is set when Options.Lower was requested and the unit is accepted.
	Module     *mir.Module
	Signatures []sema.Signature
	Markers    int
	Cached     bool
}

// Accepted reports whether the unit produced no error diagnostics.
func (u *UnitResult) Accepted() bool {
	return u != nil && !u.Bag.HasErrors()
}

type unitRunner struct {
	fs      *source.FileSet
	opts    Options
	display string
}

func (r *unitRunner) emit(stage buildpipeline.Stage, status buildpipeline.Status, bag *diag.Bag, elapsed time.Duration) {
	ev := buildpipeline.Event{File: r.display, Stage: stage, Status: status, Elapsed: elapsed}
	if bag != nil {
		ev.Errors = bag.ErrorCount()
		for _, d := range bag.Items() {
			if d.Severity == diag.SevWarning {
				ev.Warnings++
			}
		}
	}
	buildpipeline.Emit(r.opts.Progress, ev)
}

// phase runs fn as a traced, timed pipeline stage.
func (r *unitRunner) phase(ctx context.Context, stage buildpipeline.Stage, bag *diag.Bag, fn func()) {
	r.emit(stage, buildpipeline.StatusWorking, bag, 0)
	span, _ := trace.StartSpan(ctx, trace.ScopePass, string(stage))
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	span.WithExtra("unit", r.display).End("")
	r.opts.Timer.Add(string(stage), elapsed)
}

// check runs lex+parse, qualification/flow and optional lowering for one
// loaded file. Syntax errors stop the unit before the checker.
func (r *unitRunner) check(ctx context.Context, fileID source.FileID) *UnitResult {
	file := r.fs.Get(fileID)
	bag := diag.NewBag(r.opts.MaxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	res := &UnitResult{Path: file.Path, FileID: fileID, Bag: bag}

	span, ctx := trace.StartSpan(ctx, trace.ScopeUnit, "unit:"+r.display)
	defer func() {
		span.WithExtra("errors", fmt.Sprint(bag.ErrorCount())).End("")
	}()

	builder := ast.NewBuilder(ast.Hints{}, nil)
	var pres parser.Result
	r.phase(ctx, buildpipeline.StageParse, bag, func() {
		lx := lexer.New(file, lexer.Options{Reporter: reporter})
		pres = parser.ParseFile(r.fs, lx, builder, parser.Options{
			Reporter:  reporter,
			MaxErrors: r.opts.maxErrors(),
		})
	})
	res.Builder, res.ASTFile = builder, pres.File
	if bag.HasErrors() {
		r.finish(res)
		return res
	}

	var sres sema.Result
	r.phase(ctx, buildpipeline.StageFlow, bag, func() {
		sres = sema.Check(builder, pres.File, sema.Options{
			Reporter: reporter,
			Config:   r.opts.Config.Sema(),
		})
	})
	res.Sema = &sres
	res.Signatures = sres.Signatures
	res.Markers = len(sres.Markers)

	if r.opts.Lower && !bag.HasErrors() {
		r.phase(ctx, buildpipeline.StageLower, bag, func() {
			mod, err := mir.LowerUnit(builder, pres.File, &sres)
			if err != nil && !errors.Is(err, mir.ErrRejected) {
				diag.ReportError(reporter, diag.UnknownCode, source.Span{File: fileID}, err.Error()).Emit()
				return
			}
			res.Module = mod
		})
	}
	r.finish(res)
	return res
}

func (r *unitRunner) finish(res *UnitResult) {
	res.Bag.Sort()
	status := buildpipeline.StatusDone
	if res.Cached {
		status = buildpipeline.StatusCached
	} else if res.Bag.HasErrors() {
		status = buildpipeline.StatusError
	}
	r.emit(buildpipeline.StageFlow, status, res.Bag, 0)
}

// loadError turns a failed read into an I/O diagnostic on an empty virtual file.
func loadError(fs *source.FileSet, path string, err error, maxDiag int) *UnitResult {
	id := fs.AddVirtual(path, nil)
	bag := diag.NewBag(maxDiag)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
	return &UnitResult{Path: path, FileID: id, Bag: bag}
}
