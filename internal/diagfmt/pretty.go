package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mycompiler/internal/diag"
	"mycompiler/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает строку формата Line с подсвеченной серьёзностью,
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, items []Item, f *Formatter, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, it := range Surface(items, opts.MinSeverity) {
		var sb strings.Builder
		if loc, ok := f.Location(it); ok {
			sb.WriteString(loc)
			sb.WriteByte(' ')
		}
		sb.WriteString(pal.severity(it.Severity).Sprint(it.Severity.String()))
		sb.WriteByte(' ')
		sb.WriteString(it.Code.String())
		if msg := f.Message(it); msg != "" {
			sb.WriteString(": ")
			sb.WriteString(msg)
		}
		sb.WriteByte('\n')
		if _, ok := f.Location(it); ok {
			writeSnippet(&sb, f.fs, it.Span, pal)
		}
		if opts.ShowNotes {
			for _, n := range it.Notes {
				sb.WriteString("  ")
				sb.WriteString(pal.note.Sprint("= note:"))
				sb.WriteByte(' ')
				sb.WriteString(n.Msg)
				sb.WriteByte('\n')
			}
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// writeSnippet prints the first line of span with a caret underline.
// Multi-line spans are underlined to the end of their first line.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, span source.Span, pal palette) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	from := min(int(start.Col-1), len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col-1), len(line))
	}
	pad := displayWidth(line[:from])
	width := max(displayWidth(line[from:to]), 1)

	num := strconv.FormatUint(uint64(start.Line), 10)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(sb, "%s %s\n", gutter, pal.gutter.Sprint("|"))
	fmt.Fprintf(sb, "%s %s %s\n", pal.gutter.Sprint(num), pal.gutter.Sprint("|"), expandTabs(line))
	fmt.Fprintf(sb, "%s %s %s%s\n", gutter, pal.gutter.Sprint("|"),
		strings.Repeat(" ", pad), pal.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}
