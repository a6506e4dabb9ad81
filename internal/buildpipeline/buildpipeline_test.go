package buildpipeline

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeProgressFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "src", "b.c"),
		filepath.Join(base, "a.c"),
		filepath.Join(base, "src", "..", "a.c"),
		"",
	}
	got := NormalizeProgressFiles(files, base)
	want := []string{"a.c", "src/b.c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NormalizeProgressFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayPathOutsideBase(t *testing.T) {
	base := t.TempDir()
	outside := filepath.Join(filepath.Dir(base), "other.c")
	if got := DisplayPath(outside, base); got != filepath.ToSlash(outside) {
		t.Fatalf("DisplayPath = %q, want absolute path", got)
	}
}

func TestRecordingSinkAndTerminal(t *testing.T) {
	var rec RecordingSink
	EmitQueued(&rec, []string{"a.c", "b.c"})
	Emit(&rec, Event{File: "a.c", Stage: StageFlow, Status: StatusDone})
	Emit(nil, Event{File: "ignored"})

	evs := rec.Events()
	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	if evs[0].Terminal() || !evs[2].Terminal() {
		t.Fatalf("unexpected terminal flags: %+v", evs)
	}
	if !(Event{Status: StatusCached}).Terminal() {
		t.Fatal("cached is terminal")
	}
}
