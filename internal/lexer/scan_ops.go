package lexer

import (
	"unicode/utf8"

	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

var punct = [256]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cur.mark()
	b := lx.cur.peek()
	if b < utf8.RuneSelf && punct[b] != token.Invalid {
		lx.cur.bump()
		sp := lx.cur.spanFrom(start)
		return token.Token{Kind: punct[b], Span: sp, Text: lx.text(sp)}
	}
	lx.cur.bumpRune()
	sp := lx.cur.spanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character '"+lx.text(sp)+"'", lx.text(sp))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
