package parser

import (
	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

// startsTypedDecl: `T name` или `T[] name` впереди.
func (p *Parser) startsTypedDecl() bool {
	if p.peek().Kind != token.Ident {
		return false
	}
	switch p.peekN(1).Kind {
	case token.Ident:
		return true
	case token.LBracket:
		return p.peekN(2).Kind == token.RBracket && p.peekN(3).Kind == token.Ident
	}
	return false
}

// type := Ident ['[' ']']
func (p *Parser) parseType() (*ast.TypeRef, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected type, got "+describe(p.peek()), describe(p.peek()))
		return nil, false
	}
	name, _ := p.parseIdent()
	isArray := false
	if p.at(token.LBracket) && p.peekN(1).Kind == token.RBracket {
		p.advance()
		p.advance()
		isArray = true
	}
	return &ast.TypeRef{Base: ast.At(p.spanFrom(name.Span())), Name: name, IsArray: isArray}, true
}

func (p *Parser) parseIdent() (*ast.Identifier, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.peek()), describe(p.peek()))
		return nil, false
	}
	tok := p.advance()
	return &ast.Identifier{Base: ast.At(tok.Span), Name: tok.Text}, true
}

// qualified := Ident ['.' Ident]
func (p *Parser) parseQualified() (*ast.QualifiedIdentifier, bool) {
	object, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	q := &ast.QualifiedIdentifier{Base: ast.At(object.Span()), Object: object}
	if !p.at(token.Dot) {
		return q, true
	}
	p.advance()
	member, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	return &ast.QualifiedIdentifier{Base: ast.At(object.Span().Cover(member.Span())), Object: object, Member: member}, true
}
