package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"PHASE", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeUnit) {
		t.Fatal("phase level must stop at passes")
	}
	if !LevelDetail.ShouldEmit(ScopeUnit) || LevelDetail.ShouldEmit(ScopeFunc) {
		t.Fatal("detail level must stop at units")
	}
	if !LevelDebug.ShouldEmit(ScopeFunc) {
		t.Fatal("debug level must emit functions")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() || tr.Session() != "" {
		t.Fatalf("expected nop tracer, got %#v", tr)
	}
}

func TestStreamNDJSONSession(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(tr.Session()); err != nil {
		t.Fatalf("session is not a UUID: %q", tr.Session())
	}

	ctx := WithTracer(context.Background(), tr)
	outer, ctx := StartSpan(ctx, ScopeDriver, "check")
	inner, _ := StartSpan(ctx, ScopePass, "flow")
	inner.WithExtra("unit", "kernel.c").End("ok")
	unit, _ := StartSpan(ctx, ScopeUnit, "unit:kernel.c") // отфильтровано уровнем
	unit.End("")
	outer.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "flow" || ev.Session != tr.Session() || ev.Extra["unit"] != "kernel.c" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.ParentID != outer.ID() {
		t.Fatalf("parent = %d, want %d", ev.ParentID, outer.ID())
	}
}

func TestInvalidSession(t *testing.T) {
	if _, err := New(Config{Level: LevelPhase, Output: &bytes.Buffer{}, Session: "nope"}); err == nil {
		t.Fatal("expected error for malformed session id")
	}
}

func TestRingKeepsPhasesAtErrorLevel(t *testing.T) {
	r := NewRingTracer(2, LevelError, "s")
	Begin(r, ScopePass, "lex", 0).End("")
	Begin(r, ScopePass, "parse", 0).End("")
	Point(r, ScopeFunc, "ignored", "", 0)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected wrapped ring of 2, got %d", len(snap))
	}
	if snap[0].Name != "parse" || snap[0].Kind != KindSpanBegin || snap[1].Kind != KindSpanEnd {
		t.Fatalf("unexpected ring order: %+v", snap)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "→ parse") || !strings.Contains(buf.String(), "← parse") {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestRingFromMulti(t *testing.T) {
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatal("expected ring inside multi tracer")
	}
	if Ring(Nop) != nil {
		t.Fatal("nop has no ring")
	}
}
