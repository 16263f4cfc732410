package locmap

import (
	"bytes"
	goast "go/ast"
	"go/printer"
	"go/token"
)

// gofmt settings.
var printConfig = printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}

// Print renders a generated unit the way gofmt would lay it out.
func Print(file *goast.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := printConfig.Fprint(&buf, token.NewFileSet(), file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
