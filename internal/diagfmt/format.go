package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mycompiler/internal/backend"
	"mycompiler/internal/diag"
	"mycompiler/internal/locmap"
	"mycompiler/internal/source"
)

// Item is one diagnostic ready for display. Front-end findings and
// backend findings both end up here; Located is false when no position
// in the original source is known.
type Item struct {
	Severity diag.Severity
	Code     diag.Code
	Args     []string
	Message  string
	Span     source.Span
	Located  bool
	Notes    []diag.Note
}

// FromDiagnostic wraps a front-end diagnostic. Its span is always located.
func FromDiagnostic(d diag.Diagnostic) Item {
	return Item{
		Severity: d.Severity,
		Code:     d.Code,
		Args:     d.Args,
		Message:  d.Message,
		Span:     d.Primary,
		Located:  true,
		Notes:    d.Notes,
	}
}

// Locator maps a range of generated text back to original source.
// *locmap.Map implements it.
type Locator interface {
	Resolve(r locmap.Range) (source.Span, bool)
}

// FromBackend converts a backend diagnostic, resolving its generated
// range through loc. loc may be nil; the item then stays unlocated.
func FromBackend(d backend.Diagnostic, loc Locator) Item {
	it := Item{
		Severity: d.Severity,
		Code:     d.Code,
		Args:     d.Args,
		Message:  d.Message,
	}
	if d.Located && loc != nil {
		it.Span, it.Located = loc.Resolve(d.Range)
	}
	return it
}

// Formatter renders items as single diagnostic lines:
//
//	path:line:col-line:col Severity Code: message
//
// Columns are 1-based and count grapheme clusters.
type Formatter struct {
	fs       *source.FileSet
	cat      *Catalog
	printer  *message.Printer
	pathMode PathMode
}

// New builds a formatter. fs resolves item spans and may be nil when
// no item is located.
func New(fs *source.FileSet, opts Options) *Formatter {
	cat := opts.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}
	tag := opts.Locale
	if tag == language.Und {
		tag = language.English
	}
	return &Formatter{
		fs:       fs,
		cat:      cat,
		printer:  cat.Printer(tag),
		pathMode: opts.PathMode,
	}
}

// Message returns the localized text of it. The template for the code is
// used when it exists and enough arguments are present, otherwise the
// item's own message.
func (f *Formatter) Message(it Item) string {
	if msg, ok := f.cat.Render(f.printer, it.Code, it.Args); ok {
		return msg
	}
	return it.Message
}

// Location renders the "path:sl:sc-el:ec" prefix. It reports false for
// unlocated items or spans outside the file set.
func (f *Formatter) Location(it Item) (string, bool) {
	if !it.Located || f.fs == nil || int(it.Span.File) >= f.fs.Len() {
		return "", false
	}
	file := f.fs.Get(it.Span.File)
	if int(it.Span.End) > len(file.Content) || it.Span.Start > it.Span.End {
		return "", false
	}
	loc := f.fs.Locate(it.Span)
	path := file.FormatPath(f.pathMode.String(), f.fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d-%d:%d", path, loc.Start.Line, loc.Start.Col, loc.End.Line, loc.End.Col), true
}

// Line renders it as one line without a trailing newline.
func (f *Formatter) Line(it Item) string {
	var sb strings.Builder
	if loc, ok := f.Location(it); ok {
		sb.WriteString(loc)
		sb.WriteByte(' ')
	}
	sb.WriteString(it.Severity.String())
	sb.WriteByte(' ')
	sb.WriteString(it.Code.String())
	if msg := f.Message(it); msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	}
	return sb.String()
}

// Lines renders every item.
func (f *Formatter) Lines(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = f.Line(it)
	}
	return out
}

// Write prints one line per item.
func (f *Formatter) Write(w io.Writer, items []Item) error {
	for _, it := range items {
		if _, err := fmt.Fprintln(w, f.Line(it)); err != nil {
			return err
		}
	}
	return nil
}

// Surface keeps the items at or above min, preserving order.
func Surface(items []Item, min diag.Severity) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Severity >= min {
			out = append(out, it)
		}
	}
	return out
}

// Failed reports whether any item is an error.
func Failed(items []Item) bool {
	for _, it := range items {
		if it.Severity >= diag.SevError {
			return true
		}
	}
	return false
}
