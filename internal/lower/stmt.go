package lower

import (
	"fmt"
	goast "go/ast"
	"go/token"
	"strconv"
	"strings"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/source"
)

func (l *lowerer) lowerStmt(s ast.Stmt) {
	if s == nil {
		fault(source.Span{}, "nil statement")
	}
	l.node(s)
	depth := len(l.values)

	switch s := s.(type) {
	case *ast.Block:
		l.pushFrame(frameBlock, s.Span())
		for _, st := range s.Stmts {
			l.lowerStmt(st)
		}
		fr := l.popFrame(frameBlock)
		l.emit(annotate(l, &goast.BlockStmt{List: fr.stmts}, s.Span()), s.Span())

	case *ast.Print:
		fun := l.fmtCall("Println", s.Span())
		l.lowerExpr(s.X)
		x := l.pop(s.Span())
		call := annotate(l, &goast.CallExpr{Fun: fun, Args: []goast.Expr{x}}, s.Span())
		l.emit(annotate(l, &goast.ExprStmt{X: call}, s.Span()), s.Span())

	case *ast.VarDecl:
		l.varDecl(s)

	case *ast.Assign:
		lhs := l.ident(goName(s.Target.Name), s.Target.Span())
		l.lowerExpr(s.Value)
		rhs := l.pop(s.Span())
		l.emit(annotate(l, &goast.AssignStmt{
			Lhs: []goast.Expr{lhs},
			Tok: token.ASSIGN,
			Rhs: []goast.Expr{rhs},
		}, s.Span()), s.Span())

	case *ast.FunctionDecl:
		l.function(s)

	case *ast.CallStmt:
		l.lowerExpr(s.Call)
		call := l.pop(s.Span())
		l.emit(annotate(l, &goast.ExprStmt{X: call}, s.Span()), s.Span())

	case *ast.Return:
		ret := &goast.ReturnStmt{}
		if s.X != nil {
			l.lowerExpr(s.X)
			ret.Results = []goast.Expr{l.pop(s.Span())}
		}
		l.emit(annotate(l, ret, s.Span()), s.Span())

	case *ast.RepeatLoop:
		l.repeat(s)

	case *ast.ForLoop:
		l.forLoop(s)

	case *ast.ImportDirective:
		l.addImport(strings.ReplaceAll(s.Namespace.String(), ".", "/"), s.Span(), true)

	case *ast.TupleDestructureDecl:
		l.destructure(s)

	case *ast.TupleAssign:
		l.tupleAssign(s)

	default:
		fault(s.Span(), "unexpected statement %T", s)
	}

	if len(l.values) != depth {
		fault(s.Span(), "%s left %d values on stack", s.Kind(), len(l.values)-depth)
	}
}

// lowerBody inlines a Block body into the current frame.
func (l *lowerer) lowerBody(body ast.Stmt) {
	if b, ok := body.(*ast.Block); ok {
		for _, st := range b.Stmts {
			l.lowerStmt(st)
		}
		return
	}
	l.lowerStmt(body)
}

func (l *lowerer) fmtCall(fn string, sp source.Span) goast.Expr {
	l.addImport("fmt", sp, false)
	l.usedPkgs["fmt"] = struct{}{}
	return annotate(l, &goast.SelectorExpr{X: l.ident("fmt", sp), Sel: l.ident(fn, sp)}, sp)
}

// varDecl emits `var (a T = v; b T)` followed by `_ = a` for every name, so
// that a declared but unread variable is not a compile error.
func (l *lowerer) varDecl(s *ast.VarDecl) {
	decl := &goast.GenDecl{Tok: token.VAR}
	for _, b := range s.Bindings {
		spec := &goast.ValueSpec{Names: []*goast.Ident{l.ident(goName(b.Name.Name), b.Name.Span())}}
		spec.Type = l.typeExpr(s.Type)
		if b.Value != nil {
			l.lowerExpr(b.Value)
			spec.Values = []goast.Expr{l.pop(b.Span())}
		}
		decl.Specs = append(decl.Specs, annotate(l, spec, b.Span()))
	}
	annotate(l, decl, s.Span())
	l.emit(annotate(l, &goast.DeclStmt{Decl: decl}, s.Span()), s.Span())
	for _, b := range s.Bindings {
		l.useMarker(b.Name)
	}
}

func (l *lowerer) useMarker(name *ast.Identifier) {
	st := &goast.AssignStmt{
		Lhs: []goast.Expr{l.ident("_", name.Span())},
		Tok: token.ASSIGN,
		Rhs: []goast.Expr{l.ident(goName(name.Name), name.Span())},
	}
	l.emit(annotate(l, st, name.Span()), name.Span())
}

func (l *lowerer) function(s *ast.FunctionDecl) {
	if top := l.current(); top == nil || top.kind != frameEntry {
		fault(s.Span(), "function %s declared outside the program top level", s.Name.Name)
	}
	name := l.ident(goName(s.Name.Name), s.Name.Span())
	params := &goast.FieldList{}
	for _, p := range s.Params {
		field := &goast.Field{
			Names: []*goast.Ident{l.ident(goName(p.Name.Name), p.Name.Span())},
			Type:  l.typeExpr(p.Type),
		}
		params.List = append(params.List, annotate(l, field, p.Span()))
	}
	ftype := &goast.FuncType{Params: annotate(l, params, s.Span())}
	if res := l.typeExpr(s.Result); res != nil {
		field := annotate(l, &goast.Field{Type: res}, s.Result.Span())
		ftype.Results = annotate(l, &goast.FieldList{List: []*goast.Field{field}}, s.Result.Span())
	}
	annotate(l, ftype, s.Span())

	l.pushFrame(frameFunc, s.Body.Span())
	for _, st := range s.Body.Stmts {
		l.lowerStmt(st)
	}
	fr := l.popFrame(frameFunc)
	body := annotate(l, &goast.BlockStmt{List: fr.stmts}, s.Body.Span())
	l.funcs = append(l.funcs, annotate(l, &goast.FuncDecl{Name: name, Type: ftype, Body: body}, s.Span()))
}

// repeat lowers `repeat n body` to a counted for loop:
//
//	__limN := n
//	__repN := 0
//	for __repN < __limN { body; __repN++ }
//
// An integer literal count is used directly and __limN is not declared.
func (l *lowerer) repeat(s *ast.RepeatLoop) {
	n := l.synthetic()
	rep := "__rep" + strconv.Itoa(n)

	var limit goast.Expr
	if lit, ok := s.Count.(*ast.IntLiteral); ok {
		limit = l.intLit(lit.Value, lit.Span())
	} else {
		lim := "__lim" + strconv.Itoa(n)
		lhs := l.ident(lim, s.Count.Span())
		l.lowerExpr(s.Count)
		count := l.pop(s.Span())
		l.emit(annotate(l, &goast.AssignStmt{
			Lhs: []goast.Expr{lhs},
			Tok: token.DEFINE,
			Rhs: []goast.Expr{count},
		}, s.Count.Span()), s.Count.Span())
		limit = l.ident(lim, s.Count.Span())
	}

	l.emit(annotate(l, &goast.AssignStmt{
		Lhs: []goast.Expr{l.ident(rep, s.Span())},
		Tok: token.DEFINE,
		Rhs: []goast.Expr{l.intLit(0, s.Span())},
	}, s.Span()), s.Span())

	cond := annotate(l, &goast.BinaryExpr{X: l.ident(rep, s.Span()), Op: token.LSS, Y: limit}, s.Span())

	l.pushFrame(frameBlock, s.Body.Span())
	l.lowerBody(s.Body)
	l.emit(annotate(l, &goast.IncDecStmt{X: l.ident(rep, s.Span()), Tok: token.INC}, s.Span()), s.Span())
	fr := l.popFrame(frameBlock)

	body := annotate(l, &goast.BlockStmt{List: fr.stmts}, s.Body.Span())
	l.emit(annotate(l, &goast.ForStmt{Cond: cond, Body: body}, s.Span()), s.Span())
}

// forLoop lowers `for [T] i = a to b` to an inclusive Go for clause. With a
// type the loop declares i, otherwise it assigns an existing variable.
func (l *lowerer) forLoop(s *ast.ForLoop) {
	name := goName(s.Var.Name)
	v := l.ident(name, s.Var.Span())

	from := l.intLit(s.From, s.Span())
	tok := token.ASSIGN
	if s.Type != nil {
		tok = token.DEFINE
		if !isIntType(s.Type) {
			from = annotate(l, &goast.CallExpr{Fun: l.typeExpr(s.Type), Args: []goast.Expr{from}}, s.Type.Span())
		}
	}
	init := annotate(l, &goast.AssignStmt{Lhs: []goast.Expr{v}, Tok: tok, Rhs: []goast.Expr{from}}, s.Span())
	cond := annotate(l, &goast.BinaryExpr{
		X:  l.ident(name, s.Var.Span()),
		Op: token.LEQ,
		Y:  l.intLit(s.To, s.Span()),
	}, s.Span())
	post := annotate(l, &goast.IncDecStmt{X: l.ident(name, s.Var.Span()), Tok: token.INC}, s.Span())

	l.pushFrame(frameBlock, s.Body.Span())
	l.lowerBody(s.Body)
	fr := l.popFrame(frameBlock)

	body := annotate(l, &goast.BlockStmt{List: fr.stmts}, s.Body.Span())
	l.emit(annotate(l, &goast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, s.Span()), s.Span())
}

// knownComponents returns the statically known components of a tuple or
// array literal value.
func knownComponents(v ast.Expr) ([]ast.Expr, bool) {
	switch v := v.(type) {
	case *ast.TupleLiteral:
		return v.Elems, true
	case *ast.ArrayLiteral:
		return v.Elems, true
	}
	return nil, false
}

func (l *lowerer) checkArity(sp source.Span, names, components int) bool {
	if names == components {
		return true
	}
	err := &ArityError{Code: diag.LowerArityMismatch, Span: sp, Want: names, Got: components}
	diag.ReportError(l.opts.Reporter, err.Code, sp,
		fmt.Sprintf("Tuple and array sizes do not match: %d names, %d values", names, components)).
		WithArgs(strconv.Itoa(names), strconv.Itoa(components)).
		Emit()
	l.arityErrs = append(l.arityErrs, err)
	return false
}

// destructure lowers `(T1 a, T2 b) = value`. The value is evaluated before
// any binding exists, so it still sees outer variables of the same names:
//
//	var (a T1 = e1; b T2 = e2)
//
// When a component mentions a name bound earlier in the same tuple, or the
// value is not a literal, the components go through __tupN_i first.
func (l *lowerer) destructure(s *ast.TupleDestructureDecl) {
	elems, known := knownComponents(s.Value)
	if known && !l.checkArity(s.Span(), len(s.Bindings), len(elems)) {
		return
	}

	var values []goast.Expr
	if known && !mentionsEarlierBinding(s.Bindings, elems) {
		for _, e := range elems {
			l.lowerExpr(e)
		}
		values = l.popN(len(elems), s.Span())
	} else {
		values = l.stageComponents(s, elems, known)
	}

	decl := &goast.GenDecl{Tok: token.VAR}
	for i, p := range s.Bindings {
		spec := &goast.ValueSpec{
			Names:  []*goast.Ident{l.ident(goName(p.Name.Name), p.Name.Span())},
			Type:   l.typeExpr(p.Type),
			Values: []goast.Expr{values[i]},
		}
		decl.Specs = append(decl.Specs, annotate(l, spec, p.Span()))
	}
	annotate(l, decl, s.Span())
	l.emit(annotate(l, &goast.DeclStmt{Decl: decl}, s.Span()), s.Span())
	for _, p := range s.Bindings {
		l.useMarker(p.Name)
	}
}

// stageComponents declares one typed temporary per binding, fills them
// from the literal components or through Unpack, and returns references
// to the temporaries.
func (l *lowerer) stageComponents(s *ast.TupleDestructureDecl, elems []ast.Expr, known bool) []goast.Expr {
	prefix := "__tup" + strconv.Itoa(l.synthetic()) + "_"
	temp := func(i int) string { return prefix + strconv.Itoa(i) }

	var inits []goast.Expr
	if known {
		for _, e := range elems {
			l.lowerExpr(e)
		}
		inits = l.popN(len(elems), s.Span())
	}
	decl := &goast.GenDecl{Tok: token.VAR}
	for i, p := range s.Bindings {
		spec := &goast.ValueSpec{
			Names: []*goast.Ident{l.ident(temp(i), p.Span())},
			Type:  l.typeExpr(p.Type),
		}
		if known {
			spec.Values = []goast.Expr{inits[i]}
		}
		decl.Specs = append(decl.Specs, annotate(l, spec, p.Span()))
	}
	annotate(l, decl, s.Span())
	l.emit(annotate(l, &goast.DeclStmt{Decl: decl}, s.Span()), s.Span())

	if !known {
		fun := l.ident(UnpackFunc, s.Span())
		l.lowerExpr(s.Value)
		args := []goast.Expr{l.pop(s.Span())}
		for i, p := range s.Bindings {
			args = append(args, annotate(l, &goast.UnaryExpr{Op: token.AND, X: l.ident(temp(i), p.Span())}, p.Span()))
		}
		call := annotate(l, &goast.CallExpr{Fun: fun, Args: args}, s.Span())
		l.emit(annotate(l, &goast.ExprStmt{X: call}, s.Span()), s.Span())
	}

	refs := make([]goast.Expr, len(s.Bindings))
	for i, p := range s.Bindings {
		refs[i] = l.ident(temp(i), p.Span())
	}
	return refs
}

// mentionsEarlierBinding reports whether component i uses a name bound by
// bindings[j] with j < i.
func mentionsEarlierBinding(bindings []*ast.Param, elems []ast.Expr) bool {
	bound := make(map[string]bool, len(bindings))
	for i, e := range elems {
		found := false
		ast.Inspect(e, func(n ast.Node) bool {
			if id, ok := n.(*ast.Identifier); ok && bound[id.Name] {
				found = true
			}
			return !found
		})
		if found {
			return true
		}
		if i < len(bindings) {
			bound[bindings[i].Name.Name] = true
		}
	}
	return false
}

// tupleAssign lowers `(a, b) = value`.
func (l *lowerer) tupleAssign(s *ast.TupleAssign) {
	elems, known := knownComponents(s.Value)
	if known && !l.checkArity(s.Span(), len(s.Target.Names), len(elems)) {
		return
	}
	l.assignComponents(s.Target.Names, s.Value, elems, known, s.Span())
}

// assignComponents emits `a, b = e1, e2` for a literal value and
// `Unpack(value, &a, &b)` otherwise.
func (l *lowerer) assignComponents(names []*ast.Identifier, value ast.Expr, elems []ast.Expr, known bool, sp source.Span) {
	if known {
		lhs := make([]goast.Expr, len(names))
		for i, n := range names {
			lhs[i] = l.ident(goName(n.Name), n.Span())
		}
		for _, e := range elems {
			l.lowerExpr(e)
		}
		rhs := l.popN(len(elems), sp)
		l.emit(annotate(l, &goast.AssignStmt{Lhs: lhs, Tok: token.ASSIGN, Rhs: rhs}, sp), sp)
		return
	}

	fun := l.ident(UnpackFunc, sp)
	l.lowerExpr(value)
	args := []goast.Expr{l.pop(sp)}
	for _, n := range names {
		ref := annotate(l, &goast.UnaryExpr{Op: token.AND, X: l.ident(goName(n.Name), n.Span())}, n.Span())
		args = append(args, ref)
	}
	call := annotate(l, &goast.CallExpr{Fun: fun, Args: args}, sp)
	l.emit(annotate(l, &goast.ExprStmt{X: call}, sp), sp)
}
