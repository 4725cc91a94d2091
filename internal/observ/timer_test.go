package observ

import (
	"strings"
	"testing"
)

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("parse")
	tm.End(idx, "skipped")
	if idx != -1 {
		t.Fatalf("nil timer returned index %d", idx)
	}
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("nil timer report: %+v", r)
	}
}

func TestReportAndText(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("parse"), "")
	tm.End(tm.Begin("expand"), "42 scopes")
	tm.End(7, "out of range")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("want 2 phases, got %d", len(r.Phases))
	}
	p, ok := r.Phase("expand")
	if !ok || p.Note != "42 scopes" {
		t.Fatalf("expand phase: %+v ok=%v", p, ok)
	}
	if _, ok := r.Phase("verify"); ok {
		t.Fatalf("verify was never timed")
	}
	if p.Duration() < 0 {
		t.Fatalf("negative duration %v", p.Duration())
	}

	var buf strings.Builder
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	sum := buf.String()
	for _, want := range []string{"parse", "expand", "  42 scopes", "total"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary lacks %q:\n%s", want, sum)
		}
	}
}
