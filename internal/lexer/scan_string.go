package lexer

import (
	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

// "..." с escape \" \\ \n \t \r; содержимое не декодируется, Text остаётся срезом исходника.
func (lx *Lexer) scanString() token.Token {
	start := lx.cur.mark()
	lx.cur.bump() // opening '"'
	for !lx.cur.eof() {
		switch lx.cur.peek() {
		case '"':
			lx.cur.bump()
			sp := lx.cur.spanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.cur.bump()
			if lx.cur.eof() {
				break
			}
			lx.cur.bump()
		case '\n':
			sp := lx.cur.spanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			lx.cur.bump()
		}
	}
	sp := lx.cur.spanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
