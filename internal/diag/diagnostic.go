package diag

import (
	"mycompiler/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a finding attached to original source.
// Args are the positional values the localized template for Code expects;
// Message is the default English text used when no template exists.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Args     []string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithArgs(args ...string) Diagnostic {
	d.Args = append(d.Args, args...)
	return d
}
