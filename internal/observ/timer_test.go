package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAddMerges(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("flow", time.Millisecond)
		}()
	}
	wg.Wait()
	tm.Add("lower", 2*time.Millisecond)

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", r.Phases)
	}
	if r.Phases[0].Name != "flow" || r.Phases[0].Runs != 8 || r.Phases[0].DurationMS != 8 {
		t.Fatalf("unexpected flow phase: %+v", r.Phases[0])
	}
	if r.TotalMS != 10 {
		t.Fatalf("total = %v, want 10", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "x8") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "3 units")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Note != "3 units" {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestTimerNilAdd(t *testing.T) {
	var tm *Timer
	tm.Add("x", time.Second)
}
