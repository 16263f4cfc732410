package lexer

import (
	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

// Поддержка: 123, 1.5, 1e3, 2.5e-3. Знак не входит в литерал, его разбирает парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cur.mark()
	kind := token.IntLit

	lx.digits()

	// дробная часть только если за точкой цифра: "1.x" это 1 и доступ к члену
	if b0, b1, ok := lx.cur.peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cur.bump()
		lx.digits()
		kind = token.RealLit
	}

	if b := lx.cur.peek(); b == 'e' || b == 'E' {
		mark := lx.cur.mark()
		lx.cur.bump()
		if b := lx.cur.peek(); b == '+' || b == '-' {
			lx.cur.bump()
		}
		if !isDec(lx.cur.peek()) {
			lx.cur.reset(mark)
		} else {
			lx.digits()
			kind = token.RealLit
		}
	}

	// 12abc: буквы сразу за числом
	if b := lx.cur.peek(); isLetterByte(b) || b == '_' {
		for isIdentContinueByte(lx.cur.peek()) {
			lx.cur.bump()
		}
		sp := lx.cur.spanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal '"+lx.text(sp)+"'", lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cur.spanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) digits() {
	for isDec(lx.cur.peek()) {
		lx.cur.bump()
	}
}
