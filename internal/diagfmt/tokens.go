package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mycompiler/internal/source"
	"mycompiler/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Line    uint32      `json:"line"`
	Col     uint32      `json:"col"`
	Leading []string    `json:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, 0, len(tok.Leading))
	for _, tr := range tok.Leading {
		out = append(out, tr.Kind.String())
	}
	return out
}

// FormatTokensPretty выводит токены по одному на строку до EOF включительно.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		loc := fs.Locate(tok.Span)
		line := fmt.Sprintf("%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", loc.Start.Line, loc.Start.Col, loc.End.Line, loc.End.Col)
		if leading := leadingKinds(tok); leading != nil {
			line += " (leading: " + strings.Join(leading, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены JSON-массивом.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		loc := fs.Locate(tok.Span)
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Line:    loc.Start.Line,
			Col:     loc.Start.Col,
			Leading: leadingKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
