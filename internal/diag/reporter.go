package diag

import "cobolfront/internal/source"

// Reporter: минимальный контракт получения диагностик от фаз.
// Dialects report through it so they never see the Bag or its limit.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Location, msg string, notes []Note)
}

// ReportBuilder collects notes for one diagnostic before it is sent.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// NewReportBuilder starts a diagnostic for r.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Location, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(loc source.Location, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(loc, msg)
	}
	return b
}

// Emit sends the diagnostic; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	Emit(b.to, b.d)
}

// Diagnostic returns what Emit would send.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.d
}

// SliceReporter собирает диагностики в срез, без лимита.
type SliceReporter struct{ Items *[]Diagnostic }

func (r SliceReporter) Report(code Code, sev Severity, primary source.Location, msg string, notes []Note) {
	if r.Items != nil {
		*r.Items = append(*r.Items, Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}
