package lower

import (
	goast "go/ast"
	"go/token"
	"path"
	"strconv"

	"mycompiler/internal/ast"
	"mycompiler/internal/source"
)

// addImport records p once. explicit marks an import written in the
// program; only those make their last segment a package qualifier.
func (l *lowerer) addImport(p string, sp source.Span, explicit bool) {
	for i := range l.imports {
		if l.imports[i].path == p {
			l.imports[i].explicit = l.imports[i].explicit || explicit
			return
		}
	}
	l.imports = append(l.imports, importRef{path: p, name: path.Base(p), span: sp, explicit: explicit})
}

// isPackage reports whether name qualifies a program-level import.
func (l *lowerer) isPackage(name string) bool {
	for _, imp := range l.imports {
		if imp.explicit && imp.name == name {
			return true
		}
	}
	return false
}

func (l *lowerer) importPaths() []string {
	out := make([]string, len(l.imports))
	for i, imp := range l.imports {
		out[i] = imp.path
	}
	return out
}

// lowerEntry lowers the program block and assembles the unit:
// package clause, imports, main (or init), then functions in source order.
func (l *lowerer) lowerEntry(root *ast.Block) {
	if !root.IsEntry {
		fault(root.Span(), "program root is not an entry block")
	}
	l.pushFrame(frameEntry, root.Span())
	for _, st := range root.Stmts {
		l.lowerStmt(st)
	}
	entry := l.popFrame(frameEntry)

	file := &goast.File{Name: l.ident(l.opts.Package, root.Span())}
	if len(l.imports) > 0 {
		file.Decls = append(file.Decls, l.importDecl(root.Span()))
	}

	entryName := "main"
	if l.opts.Mode == ModeLibrary {
		entryName = "init"
	}
	if l.opts.Mode == ModeProgram || len(entry.stmts) > 0 {
		fn := &goast.FuncDecl{
			Name: l.ident(entryName, root.Span()),
			Type: annotate(l, &goast.FuncType{Params: annotate(l, &goast.FieldList{}, root.Span())}, root.Span()),
			Body: annotate(l, &goast.BlockStmt{List: entry.stmts}, root.Span()),
		}
		file.Decls = append(file.Decls, annotate(l, fn, root.Span()))
	}
	for _, fn := range l.funcs {
		file.Decls = append(file.Decls, fn)
	}
	l.file = annotate(l, file, root.Span())
}

// importDecl builds the import block. A namespace never used as a qualifier
// is imported for side effects only, so Go does not reject it as unused.
func (l *lowerer) importDecl(sp source.Span) *goast.GenDecl {
	decl := &goast.GenDecl{Tok: token.IMPORT}
	for _, imp := range l.imports {
		spec := &goast.ImportSpec{
			Path: annotate(l, &goast.BasicLit{Kind: token.STRING, Value: strconv.Quote(imp.path)}, imp.span),
		}
		if _, used := l.usedPkgs[imp.name]; !used {
			spec.Name = l.ident("_", imp.span)
		}
		decl.Specs = append(decl.Specs, annotate(l, spec, imp.span))
	}
	return annotate(l, decl, sp)
}
