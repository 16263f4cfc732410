package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"mycompiler/internal/source"
)

// Dump writes an indented tree of node to w, one node per line with its
// resolved position when fs is not nil.
func Dump(w io.Writer, node Node, fs *source.FileSet) error {
	d := &dumper{w: w, fs: fs}
	Inspect(node, d.visit)
	return d.err
}

type dumper struct {
	w     io.Writer
	fs    *source.FileSet
	depth int
	err   error
}

func (d *dumper) visit(n Node) bool {
	if n == nil {
		d.depth--
		return false
	}
	if d.err != nil {
		return false
	}
	line := strings.Repeat("  ", d.depth) + n.Kind().String()
	if detail := describe(n); detail != "" {
		line += " " + detail
	}
	if d.fs != nil {
		loc := d.fs.Locate(n.Span())
		line += fmt.Sprintf(" @%d:%d-%d:%d", loc.Start.Line, loc.Start.Col, loc.End.Line, loc.End.Col)
	}
	_, d.err = fmt.Fprintln(d.w, line)
	d.depth++
	return true
}

func describe(n Node) string {
	switch n := n.(type) {
	case *IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *RealLiteral:
		return n.Text
	case *StringLiteral:
		return strconv.Quote(n.Text)
	case *Identifier:
		return n.Name
	case *BinaryExpr:
		if n.Parenthesized {
			return "(" + n.Op.String() + ")"
		}
		return n.Op.String()
	case *TypeRef:
		return n.String()
	case *Block:
		if n.IsEntry {
			return "entry"
		}
	case *ForLoop:
		return fmt.Sprintf("%d..%d", n.From, n.To)
	}
	return ""
}
