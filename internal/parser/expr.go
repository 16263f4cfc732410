package parser

import (
	"strconv"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/source"
	"mycompiler/internal/token"
)

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:    ast.OpAdd,
	token.Minus:   ast.OpSub,
	token.Star:    ast.OpMul,
	token.Slash:   ast.OpDiv,
	token.Percent: ast.OpRem,
}

// parseExpr: precedence climbing над + - (1) и * / % (2), левоассоциативно.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op, isOp := binaryOps[p.peek().Kind]
		if !isOp || op.Precedence() < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(op.Precedence() + 1)
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{
			Base:  ast.At(left.Span().Cover(right.Span())),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	if !p.at(token.Minus) {
		return p.parsePostfix()
	}
	start := p.advance().Span
	x, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.NegExpr{Base: ast.At(start.Cover(x.Span())), X: x}, true
}

// postfix := primary { '[' expr ']' }
func (p *Parser) parsePostfix() (ast.Expr, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for p.at(token.LBracket) {
		p.advance()
		index, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return nil, false
		}
		x = &ast.IndexExpr{Base: ast.At(p.spanFrom(x.Span())), X: x, Index: index}
	}
	return x, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.report(diag.SynIntegerOutOfRange, tok.Span, "integer literal "+tok.Text+" out of range", tok.Text)
			return nil, false
		}
		return &ast.IntLiteral{Base: ast.At(tok.Span), Value: v}, true

	case token.RealLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.report(diag.SynIntegerOutOfRange, tok.Span, "real literal "+tok.Text+" out of range", tok.Text)
			return nil, false
		}
		return &ast.RealLiteral{Base: ast.At(tok.Span), Value: v, Text: tok.Text}, true

	case token.StringLit:
		p.advance()
		text, err := strconv.Unquote(tok.Text)
		if err != nil {
			p.report(diag.SynUnexpectedToken, tok.Span, "invalid escape in string literal "+tok.Text, tok.Text)
			return nil, false
		}
		return &ast.StringLiteral{Base: ast.At(tok.Span), Text: text}, true

	case token.Ident:
		if p.peekN(1).Kind == token.LBracket && p.peekN(2).Kind == token.RBracket {
			return p.parseArrayLiteral()
		}
		q, ok := p.parseQualified()
		if !ok {
			return nil, false
		}
		if p.at(token.LParen) {
			return p.parseCall(q)
		}
		return q, true

	case token.LParen:
		return p.parseParenOrTuple()
	}

	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok), describe(tok))
	return nil, false
}

// callee '(' [expr {',' expr}] ')'
func (p *Parser) parseCall(callee *ast.QualifiedIdentifier) (*ast.CallExpr, bool) {
	open := p.advance()
	args, ok := p.parseExprList(token.RParen, open.Span, diag.SynUnclosedParen)
	if !ok {
		return nil, false
	}
	return &ast.CallExpr{Base: ast.At(p.spanFrom(callee.Span())), Callee: callee, Args: args}, true
}

// T '[' ']' '{' [expr {',' expr}] '}'
func (p *Parser) parseArrayLiteral() (ast.Expr, bool) {
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after array type")
	if !ok {
		return nil, false
	}
	elems, ok := p.parseExprList(token.RBrace, open.Span, diag.SynUnclosedBrace)
	if !ok {
		return nil, false
	}
	elem := &ast.TypeRef{Base: ast.At(typ.Name.Span()), Name: typ.Name}
	return &ast.ArrayLiteral{Base: ast.At(p.spanFrom(typ.Span())), Elem: elem, Elems: elems}, true
}

// '(' expr ')' или '(' expr ',' expr {',' expr} ')'
func (p *Parser) parseParenOrTuple() (ast.Expr, bool) {
	open := p.advance()
	elems, ok := p.parseExprList(token.RParen, open.Span, diag.SynUnclosedParen)
	if !ok {
		return nil, false
	}
	sp := p.spanFrom(open.Span)
	switch len(elems) {
	case 0:
		p.report(diag.SynExpectExpression, sp, "empty parentheses", "()")
		return nil, false
	case 1:
		if bin, isBin := elems[0].(*ast.BinaryExpr); isBin {
			wrapped := *bin
			wrapped.Loc = sp
			wrapped.Parenthesized = true
			return &wrapped, true
		}
		return elems[0], true
	}
	return &ast.TupleLiteral{Base: ast.At(sp), Elems: elems}, true
}

// parseExprList разбирает список до закрывающего токена включительно.
func (p *Parser) parseExprList(closer token.Kind, open source.Span, unclosed diag.Code) ([]ast.Expr, bool) {
	var out []ast.Expr
	for !p.at(closer) {
		if p.at(token.EOF) {
			p.report(unclosed, open, "unclosed '"+string(p.file.Content[open.Start:open.End])+"'")
			return nil, false
		}
		if len(out) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '"+closer.String()+"'"); !ok {
				return nil, false
			}
		}
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, x)
	}
	p.advance()
	return out, true
}
