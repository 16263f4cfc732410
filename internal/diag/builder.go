package diag

import "mycompiler/internal/source"

// ReportBuilder дособирает диагностику перед отправкой в Reporter.
// Emit срабатывает один раз; nil builder безопасен.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// WithArgs sets the values substituted into the localized template.
func (b *ReportBuilder) WithArgs(args ...string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithArgs(args...)
	}
	return b
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		b.to.Report(b.d)
	}
}
