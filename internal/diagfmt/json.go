package diagfmt

import (
	"encoding/json"
	"io"

	"mycompiler/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     uint16        `json:"code"`
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Line     string        `json:"line"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Failed      bool             `json:"failed"`
}

func (f *Formatter) makeLocation(span source.Span, includePositions bool) LocationJSON {
	file := f.fs.Get(span.File)
	loc := LocationJSON{
		File:      file.FormatPath(f.pathMode.String(), f.fs.BaseDir()),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		l := f.fs.Locate(span)
		loc.StartLine = l.Start.Line
		loc.StartCol = l.Start.Col
		loc.EndLine = l.End.Line
		loc.EndCol = l.End.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Failed учитывает все items, даже скрытые по MinSeverity или Max.
func BuildDiagnosticsOutput(items []Item, f *Formatter, opts JSONOpts) DiagnosticsOutput {
	shown := Surface(items, opts.MinSeverity)
	if opts.Max > 0 && opts.Max < len(shown) {
		shown = shown[:opts.Max]
	}
	diagnostics := make([]DiagnosticJSON, 0, len(shown))
	for _, it := range shown {
		dj := DiagnosticJSON{
			Severity: it.Severity.String(),
			Code:     uint16(it.Code),
			ID:       it.Code.ID(),
			Message:  f.Message(it),
			Line:     f.Line(it),
		}
		if _, ok := f.Location(it); ok {
			loc := f.makeLocation(it.Span, opts.IncludePositions)
			dj.Location = &loc
		}
		if opts.IncludeNotes && len(it.Notes) > 0 {
			dj.Notes = make([]NoteJSON, 0, len(it.Notes))
			for _, n := range it.Notes {
				nj := NoteJSON{Message: n.Msg}
				if _, ok := f.Location(Item{Span: n.Span, Located: true}); ok {
					nj.Location = f.makeLocation(n.Span, opts.IncludePositions)
				}
				dj.Notes = append(dj.Notes, nj)
			}
		}
		diagnostics = append(diagnostics, dj)
	}
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Failed:      Failed(items),
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, items []Item, f *Formatter, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(items, f, opts))
}
