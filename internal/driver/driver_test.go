package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"approxc/internal/buildpipeline"
	"approxc/internal/diag"
	"approxc/internal/mir"
	"approxc/internal/observ"
	"approxc/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultOptions() Options {
	return Options{MaxDiagnostics: 100, Config: project.Default()}
}

func codesOf(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestCheckFileReportsPrecisionFlow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flow.c", "void g(void) { APPROX int x; int y; y = x; }\n")

	res, err := CheckFile(context.Background(), path, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(res.Units))
	}
	if res.Units[0].Accepted() || !res.HasErrors() || res.Rejected() != 1 {
		t.Fatalf("unit should be rejected")
	}
	if diff := cmp.Diff([]string{"SEM3002"}, codesOf(res.Bag())); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckFileAcceptsEndorsed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.c", "void g(void) { APPROX int x; int y; y = ENDORSE(x); }\n")
	timer := observ.NewTimer()
	opts := defaultOptions()
	opts.Timer = timer

	res, err := CheckFile(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	u := res.Units[0]
	if !u.Accepted() || u.Markers != 1 {
		t.Fatalf("expected accepted unit with one marker, got %v markers=%d", codesOf(u.Bag), u.Markers)
	}
	if len(timer.Report().Phases) == 0 {
		t.Fatalf("timer recorded nothing")
	}
}

func TestSyntaxErrorStopsBeforeChecker(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.c", "void g(void) { int y = ; APPROX int x; y = x; }\n")

	res, err := CheckFile(context.Background(), path, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	u := res.Units[0]
	if u.Sema != nil {
		t.Fatalf("checker must not run after syntax errors")
	}
	for _, d := range u.Bag.Items() {
		if d.Code == diag.SemaPrecisionFlow {
			t.Fatalf("unexpected flow diagnostic after syntax error")
		}
	}
	if u.Accepted() {
		t.Fatalf("unit with syntax error must be rejected")
	}
}

func TestCheckPathsLoadError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.c")
	opts := defaultOptions()
	opts.BaseDir = dir

	res, err := CheckPaths(context.Background(), []string{missing}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"IO4001"}, codesOf(res.Bag())); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckDirParallelKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.c", "void g(void) { APPROX int x; if (x) {} }\n")
	writeFile(t, dir, "a.c", "int f(int v) { return v; }\n")
	writeFile(t, dir, "sub/c.c", "void h(void) { APPROX int a; int b; b = a; }\n")
	writeFile(t, dir, "notes.txt", "not a source")
	writeFile(t, dir, ".hidden/d.c", "void broken(")

	sink := &buildpipeline.RecordingSink{}
	opts := defaultOptions()
	opts.Jobs = 2
	opts.Progress = sink

	res, err := CheckDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, u := range res.Units {
		rel, _ := filepath.Rel(dir, u.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	if diff := cmp.Diff([]string{"a.c", "b.c", "sub/c.c"}, got); diff != "" {
		t.Fatalf("unit order mismatch (-want +got):\n%s", diff)
	}
	if res.Rejected() != 2 {
		t.Fatalf("expected 2 rejected units, got %d", res.Rejected())
	}

	terminal := map[string]buildpipeline.Status{}
	for _, ev := range sink.Events() {
		if ev.Terminal() {
			terminal[ev.File] = ev.Status
		}
	}
	want := map[string]buildpipeline.Status{
		"a.c":     buildpipeline.StatusDone,
		"b.c":     buildpipeline.StatusError,
		"sub/c.c": buildpipeline.StatusError,
	}
	if diff := cmp.Diff(want, terminal); diff != "" {
		t.Fatalf("terminal statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkReportsCrossUnitMismatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.c", "int f(APPROX int v);\n")
	b := writeFile(t, dir, "b.c", "int f(int v);\n")
	opts := defaultOptions()
	opts.Link = true
	opts.BaseDir = dir

	res, err := CheckPaths(context.Background(), []string{a, b}, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range res.Units {
		if !u.Accepted() {
			t.Fatalf("unit %s rejected: %v", u.Path, codesOf(u.Bag))
		}
	}
	if res.LinkErrors != 1 || !res.HasErrors() {
		t.Fatalf("expected one link mismatch, got %d", res.LinkErrors)
	}
	if diff := cmp.Diff([]string{"SEM3013"}, codesOf(res.LinkBag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flow.c", "void g(void) { APPROX int x; int y; y = x; }\nint f(APPROX int v);\n")
	cache, err := NewDiskCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := defaultOptions()
	opts.Cache = cache

	first, err := CheckFile(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Units[0].Cached {
		t.Fatalf("first run must not be cached")
	}
	second, err := CheckFile(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	u := second.Units[0]
	if !u.Cached {
		t.Fatalf("second run should hit the cache")
	}
	messages := func(bag *diag.Bag) []string {
		var out []string
		for _, d := range bag.Items() {
			out = append(out, d.Code.ID()+" "+d.Message)
		}
		return out
	}
	if diff := cmp.Diff(messages(first.Bag()), messages(second.Bag())); diff != "" {
		t.Fatalf("cached verdict differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Units[0].Signatures, u.Signatures); diff != "" {
		t.Fatalf("cached signatures differ (-first +second):\n%s", diff)
	}

	// Другая конфигурация даёт другой ключ.
	opts.Config.Check.RedundantEscape = "warn"
	third, err := CheckFile(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Units[0].Cached {
		t.Fatalf("config change must invalidate the cache")
	}
}

func TestLowerFile(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.c", "int f(APPROX int v) { return ENDORSE(v); }\n")
	bad := writeFile(t, dir, "bad.c", "int f(APPROX int v) { return v; }\n")

	u, _, err := LowerFile(context.Background(), ok, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if u.Module == nil {
		t.Fatalf("expected lowered module")
	}
	if err := mir.Validate(u.Module, u.Sema.TypeInterner, u.Sema.Lattice); err != nil {
		t.Fatalf("invalid module: %v", err)
	}

	u, res, err := LowerFile(context.Background(), bad, defaultOptions())
	if !errors.Is(err, mir.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if u == nil || res == nil || u.Bag.ErrorCount() == 0 {
		t.Fatalf("rejected lowering should still return diagnostics")
	}
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "t.c", "APPROX int x;\n")
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tokens) != 5 {
		t.Fatalf("expected 5 tokens (with EOF), got %d", len(res.Tokens))
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codesOf(res.Bag))
	}
}
