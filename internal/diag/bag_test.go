package diag

import (
	"testing"

	"scopetree/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(3)
	r := BagReporter{Bag: b}
	r.Report(SynUnexpectedToken, SevError, source.Span{File: 0, Start: 9, End: 10}, "late", nil, nil)
	r.Report(LexUnknownChar, SevWarning, source.Span{File: 0, Start: 2, End: 3}, "early", nil, nil)
	r.Report(SynUnclosedBrace, SevError, source.Span{File: 0, Start: 2, End: 3}, "early error", nil, nil)
	r.Report(SynExpectBody, SevError, source.Span{File: 0, Start: 0, End: 1}, "dropped", nil, nil)

	if b.Len() != 3 {
		t.Fatalf("bag should stop at its limit, got %d items", b.Len())
	}
	b.Sort()
	items := b.Items()
	if items[0].Code != SynUnclosedBrace || items[1].Code != LexUnknownChar || items[2].Code != SynUnexpectedToken {
		t.Fatalf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
}

func TestNewBagSaturates(t *testing.T) {
	if got := NewBag(1 << 20).Cap(); got != 65535 {
		t.Fatalf("cap = %d, want 65535", got)
	}
	if got := NewBag(-1).Cap(); got != 0 {
		t.Fatalf("cap = %d, want 0", got)
	}
}

func TestBagAddForcedAndDedup(t *testing.T) {
	b := NewBag(1)
	sp := source.Span{Start: 4, End: 5}
	b.Add(New(SevError, SynUnexpectedToken, sp, "first"))
	if b.Add(New(SevInfo, ObsTimings, source.Span{}, "timings")) {
		t.Fatalf("full bag accepted a diagnostic")
	}
	b.AddForced(New(SevInfo, ObsTimings, source.Span{}, "timings"))
	b.AddForced(New(SevError, SynUnexpectedToken, sp, "again"))
	if b.Len() != 3 || b.Cap() != 3 {
		t.Fatalf("len=%d cap=%d", b.Len(), b.Cap())
	}
	if b.Count(SevError) != 2 || b.Count(SevInfo) != 3 {
		t.Fatalf("counts errors=%d all=%d", b.Count(SevError), b.Count(SevInfo))
	}
	b.Dedup()
	if b.Len() != 2 || b.Items()[0].Message != "first" {
		t.Fatalf("dedup kept %+v", b.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{Start: 1, End: 2}
	r.Report(SynUnexpectedToken, SevError, sp, "x", nil, nil)
	r.Report(SynUnexpectedToken, SevError, sp, "x", nil, nil)
	r.Report(SynUnexpectedToken, SevError, sp, "y", nil, nil)
	r.Report(SynUnexpectedToken, SevWarning, sp, "x", nil, nil)
	if b.Len() != 3 {
		t.Fatalf("expected 3 unique diagnostics, got %d", b.Len())
	}
	if r.Suppressed() != 1 {
		t.Fatalf("suppressed = %d, want 1", r.Suppressed())
	}
	var nilReporter *DedupReporter
	nilReporter.Report(SynUnexpectedToken, SevError, sp, "x", nil, nil)
	if nilReporter.Suppressed() != 0 {
		t.Fatalf("nil reporter must be inert")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(10)
	rb := ReportError(BagReporter{Bag: b}, SynUnclosedBrace, source.Span{Start: 0, End: 1}, "missing '}'").
		WithNote(source.Span{Start: 0, End: 1}, "opened here")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("expected single emission, got %d", b.Len())
	}
	if len(b.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	userFile := fs.Add("/workspace/testdata/sample.swift", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     ScopeChildOrder,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "error SYN2001 testdata/sample.swift:1:1 first line second\n" +
		"note SYN2001 testdata/sample.swift:2:1 note line\n" +
		"warning SCP3002 testdata/sample.swift:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
