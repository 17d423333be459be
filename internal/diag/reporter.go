package diag

import "moonwave/internal/source"

// Reporter receives diagnostics from producers that should not know where
// they are stored.
type Reporter interface {
	Report(d Diagnostic)
}

// SliceReporter keeps every report, in order, without a limit.
type SliceReporter struct {
	Items []Diagnostic
}

func (r *SliceReporter) Report(d Diagnostic) {
	r.Items = append(r.Items, d)
}

// ReportBuilder assembles one diagnostic and hands it to a Reporter on Emit.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// ReportError starts an error-level report.
//
//	diag.ReportError(r, diag.StrUnknownTag, sp, "unknown tag @fied").Emit()
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: NewError(code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	b.d = b.d.WithNote(sp, msg)
	return b
}

func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	b.d = b.d.WithFix(title, edits...)
	return b
}

// Emit delivers the diagnostic. Later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		b.to.Report(b.d)
	}
}
