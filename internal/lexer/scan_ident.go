package lexer

import (
	"unicode"
	"unicode/utf8"

	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Идентификаторы начинаются с буквы: префикс '_' зарезервирован за
// синтетическими именами, которые порождает понижение.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cur.mark()

	r, sz := lx.cur.peekRune()
	if sz == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.cur.spanFrom(start)}
	}
	reserved := r == '_'
	if !reserved && !unicode.IsLetter(r) {
		return lx.scanOperatorOrPunct()
	}
	lx.cur.bumpRune()
	for {
		if b := lx.cur.peek(); b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cur.bump()
			continue
		}
		r2, sz2 := lx.cur.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.cur.bumpRune()
	}

	sp := lx.cur.spanFrom(start)
	text := lx.text(sp)
	if reserved {
		lx.errLex(diag.LexReservedIdentifier, sp, "identifier '"+text+"' must start with a letter", text)
		return token.Token{Kind: token.Ident, Span: sp, Text: text}
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
