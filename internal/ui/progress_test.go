package ui

import (
	"strings"
	"testing"

	"approxc/internal/buildpipeline"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("approxc check", files, nil).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newTestModel("a.c", "b.c")

	m.applyEvent(buildpipeline.Event{File: "a.c", Stage: buildpipeline.StageFlow, Status: buildpipeline.StatusWorking})
	if got := m.items[0].status; got != "checking" {
		t.Fatalf("status = %q, want checking", got)
	}
	if got := m.percent(); got != 0.3 {
		t.Fatalf("percent = %v, want 0.3", got)
	}

	m.applyEvent(buildpipeline.Event{File: "a.c", Stage: buildpipeline.StageFlow, Status: buildpipeline.StatusError, Errors: 2, Warnings: 1})
	m.applyEvent(buildpipeline.Event{File: "b.c", Stage: buildpipeline.StageFlow, Status: buildpipeline.StatusCached})
	if m.items[0].status != "rejected" || m.items[1].status != "cached" {
		t.Fatalf("unexpected statuses: %+v", m.items)
	}
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want 1", got)
	}

	// неизвестный файл игнорируется
	m.applyEvent(buildpipeline.Event{File: "zzz.c", Status: buildpipeline.StatusDone})

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageLink, Status: buildpipeline.StatusWorking})
	if m.stageLabel != "linking" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
}

func TestViewShowsCounts(t *testing.T) {
	m := newTestModel("src/flow.c")
	m.applyEvent(buildpipeline.Event{File: "src/flow.c", Stage: buildpipeline.StageFlow, Status: buildpipeline.StatusError, Errors: 3})
	m.done = true
	view := m.View()
	for _, want := range []string{"done: approxc check", "rejected", "src/flow.c", "3E"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.c", 20); got != "short.c" {
		t.Fatalf("got %q", got)
	}
	got := truncate("a/very/long/path/to/file.c", 10)
	if got != "a/very/..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("世界世界", 7); got != "世界..." {
		t.Fatalf("wide truncate got %q", got)
	}
}
