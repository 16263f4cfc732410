package parser

import (
	"strconv"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

// parseStmt выбирает распознаватель по первому токену (и при необходимости по второму).
// На ошибке возвращает nil после восстановления.
func (p *Parser) parseStmt() ast.Stmt {
	var st ast.Stmt
	var ok bool
	switch p.peek().Kind {
	case token.KwPrint:
		st, ok = p.parsePrint()
	case token.KwReturn:
		st, ok = p.parseReturn()
	case token.KwRepeat:
		st, ok = p.parseRepeat()
	case token.KwFor:
		st, ok = p.parseFor()
	case token.KwImport:
		st, ok = p.parseImport()
	case token.KwFunc:
		st, ok = p.parseFunction()
	case token.LBrace:
		st, ok = p.parseBlock()
	case token.LParen:
		st, ok = p.parseTupleStmt()
	case token.Ident:
		st, ok = p.parseIdentStmt()
	default:
		p.err(diag.SynUnexpectedToken, "unexpected "+describe(p.peek())+" at start of statement", describe(p.peek()))
		p.advance()
	}
	if !ok {
		p.resync()
		return nil
	}
	return st
}

func (p *Parser) semicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
	return ok
}

// print expr ;
func (p *Parser) parsePrint() (ast.Stmt, bool) {
	start := p.advance().Span
	x, ok := p.parseExpr()
	if !ok || !p.semicolon() {
		return nil, false
	}
	return &ast.Print{Base: ast.At(p.spanFrom(start)), X: x}, true
}

// return [expr] ;
func (p *Parser) parseReturn() (ast.Stmt, bool) {
	start := p.advance().Span
	var x ast.Expr
	if !p.at(token.Semicolon) {
		var ok bool
		if x, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	if !p.semicolon() {
		return nil, false
	}
	return &ast.Return{Base: ast.At(p.spanFrom(start)), X: x}, true
}

// repeat expr stmt
func (p *Parser) parseRepeat() (ast.Stmt, bool) {
	start := p.advance().Span
	count, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	return &ast.RepeatLoop{Base: ast.At(p.spanFrom(start)), Count: count, Body: body}, true
}

// for [type] ident = int to int stmt
func (p *Parser) parseFor() (ast.Stmt, bool) {
	start := p.advance().Span
	var typ *ast.TypeRef
	if p.startsTypedDecl() {
		var ok bool
		if typ, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok = p.expect(token.Assign, diag.SynForBadHeader, "expected '=' in for loop header"); !ok {
		return nil, false
	}
	from, ok := p.parseSignedInt()
	if !ok {
		return nil, false
	}
	if _, ok = p.expect(token.KwTo, diag.SynForBadHeader, "expected 'to' in for loop header"); !ok {
		return nil, false
	}
	to, ok := p.parseSignedInt()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	return &ast.ForLoop{
		Base: ast.At(p.spanFrom(start)),
		Var:  name,
		Type: typ,
		From: from,
		To:   to,
		Body: body,
	}, true
}

func (p *Parser) parseSignedInt() (int64, bool) {
	neg := false
	if p.at(token.Minus) {
		p.advance()
		neg = true
	}
	tok, ok := p.expect(token.IntLit, diag.SynForBadHeader, "expected integer bound")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		p.report(diag.SynIntegerOutOfRange, tok.Span, "integer literal "+tok.Text+" out of range", tok.Text)
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// parseBody разбирает тело цикла: любой оператор, кроме объявления функции.
func (p *Parser) parseBody() (ast.Stmt, bool) {
	if p.at(token.EOF) {
		p.err(diag.SynUnexpectedToken, "expected loop body, got end of file", "end of file")
		return nil, false
	}
	p.depth++
	defer func() { p.depth-- }()
	st := p.parseStmt()
	return st, st != nil
}

// import a.b ;
func (p *Parser) parseImport() (ast.Stmt, bool) {
	start := p.advance().Span
	ns, ok := p.parseQualified()
	if !ok || !p.semicolon() {
		return nil, false
	}
	return &ast.ImportDirective{Base: ast.At(p.spanFrom(start)), Namespace: ns}, true
}

// func type name(type a, type b) { ... }
func (p *Parser) parseFunction() (ast.Stmt, bool) {
	start := p.advance().Span
	nested := p.depth > 0
	result, ok := p.parseType()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	var params []*ast.Param
	for !p.at(token.RParen) {
		if len(params) > 0 {
			if _, ok = p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ')' in parameter list"); !ok {
				return nil, false
			}
		}
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		params = append(params, param)
	}
	p.advance() // ')'
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to open function body, got "+describe(p.peek()), describe(p.peek()))
		return nil, false
	}
	bodyStmt, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	fn := &ast.FunctionDecl{
		Base:   ast.At(p.spanFrom(start)),
		Result: result,
		Name:   name,
		Params: params,
		Body:   bodyStmt.(*ast.Block),
	}
	if nested {
		p.report(diag.SynNestedFunction, fn.Span(), "function '"+name.Name+"' must be declared at top level", name.Name)
		return nil, false
	}
	return fn, true
}

func (p *Parser) parseParam() (*ast.Param, bool) {
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	return &ast.Param{Base: ast.At(typ.Span().Cover(name.Span())), Type: typ, Name: name}, true
}

// { stmt* }
func (p *Parser) parseBlock() (ast.Stmt, bool) {
	open := p.advance()
	p.depth++
	defer func() { p.depth-- }()
	var stmts []ast.Stmt
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedBrace, open.Span, "unclosed '{'")
			return nil, false
		}
		if p.enough() {
			return nil, false
		}
		if st := p.parseStmt(); st != nil {
			stmts = append(stmts, st)
		}
	}
	p.advance() // '}'
	return &ast.Block{Base: ast.At(p.spanFrom(open.Span)), Stmts: stmts}, true
}

// (type a, type b) = e;   или   (a, b) = e;
func (p *Parser) parseTupleStmt() (ast.Stmt, bool) {
	open := p.advance()
	if p.startsTypedDecl() {
		var bindings []*ast.Param
		for !p.at(token.RParen) {
			if len(bindings) > 0 {
				if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ')'"); !ok {
					return nil, false
				}
			}
			param, ok := p.parseParam()
			if !ok {
				return nil, false
			}
			bindings = append(bindings, param)
		}
		p.advance() // ')'
		if len(bindings) < 2 {
			p.report(diag.SynUnexpectedToken, p.spanFrom(open.Span), "tuple declaration needs at least two bindings")
			return nil, false
		}
		value, ok := p.parseAssignedValue()
		if !ok {
			return nil, false
		}
		return &ast.TupleDestructureDecl{Base: ast.At(p.spanFrom(open.Span)), Bindings: bindings, Value: value}, true
	}

	var names []*ast.Identifier
	for !p.at(token.RParen) {
		if len(names) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ')'"); !ok {
				return nil, false
			}
		}
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		names = append(names, name)
	}
	p.advance() // ')'
	if len(names) < 2 {
		p.report(diag.SynUnexpectedToken, p.spanFrom(open.Span), "tuple assignment needs at least two targets")
		return nil, false
	}
	target := &ast.TupleAssignTarget{Base: ast.At(p.spanFrom(open.Span)), Names: names}
	value, ok := p.parseAssignedValue()
	if !ok {
		return nil, false
	}
	return &ast.TupleAssign{Base: ast.At(p.spanFrom(open.Span)), Target: target, Value: value}, true
}

// = expr ;
func (p *Parser) parseAssignedValue() (ast.Expr, bool) {
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '='"); !ok {
		return nil, false
	}
	value, ok := p.parseExpr()
	if !ok || !p.semicolon() {
		return nil, false
	}
	return value, true
}

// Операторы, начинающиеся с идентификатора:
//
//	int a = 1, b;   int[] xs;    объявление
//	a = 1;                       присваивание
//	f(1);  math.Max(1, 2);       вызов
func (p *Parser) parseIdentStmt() (ast.Stmt, bool) {
	if p.startsTypedDecl() {
		return p.parseVarDecl()
	}
	if p.peekN(1).Kind == token.Assign {
		target, _ := p.parseIdent()
		value, ok := p.parseAssignedValue()
		if !ok {
			return nil, false
		}
		return &ast.Assign{Base: ast.At(p.spanFrom(target.Span())), Target: target, Value: value}, true
	}
	callee, ok := p.parseQualified()
	if !ok {
		return nil, false
	}
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected '(', '=' or a declaration after '"+callee.String()+"'", callee.String())
		return nil, false
	}
	call, ok := p.parseCall(callee)
	if !ok || !p.semicolon() {
		return nil, false
	}
	return &ast.CallStmt{Base: ast.At(p.spanFrom(callee.Span())), Call: call}, true
}

func (p *Parser) parseVarDecl() (ast.Stmt, bool) {
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	var bindings []*ast.Binding
	for {
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		b := &ast.Binding{Base: ast.At(name.Span()), Name: name}
		if p.at(token.Assign) {
			p.advance()
			value, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			b = &ast.Binding{Base: ast.At(p.spanFrom(name.Span())), Name: name, Value: value}
		}
		bindings = append(bindings, b)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if !p.semicolon() {
		return nil, false
	}
	return &ast.VarDecl{Base: ast.At(p.spanFrom(typ.Span())), Type: typ, Bindings: bindings}, true
}
