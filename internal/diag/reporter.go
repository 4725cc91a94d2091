package diag

import "scopetree/internal/source"

// Reporter принимает диагностики от лексера, парсера и драйвера.
// BagReporter складывает их в Bag, MultiReporter раздаёт нескольким.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// ReportBuilder collects notes and fixes for one diagnostic. Emit hands it
// to the reporter; later calls are no-ops.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// ReportAt starts a diagnostic of the given severity.
func ReportAt(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return ReportAt(r, SevError, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d.Notes = append(b.d.Notes, Note{Span: sp, Msg: msg})
	}
	return b
}

// WithFix добавляет готовый fix из набора правок
func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithFix(title, edits...)
	}
	return b
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		b.to.Report(b.d.Code, b.d.Severity, b.d.Primary, b.d.Message, b.d.Notes, b.d.Fixes)
	}
}

// BagReporter пишет в *Bag; nil Bag молча отбрасывает.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
	}
}

type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note, []Fix) {}

// MultiReporter fans a diagnostic out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, primary, msg, notes, fixes)
		}
	}
}
