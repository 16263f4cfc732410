package lexer

import (
	"mycompiler/internal/diag"
	"mycompiler/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\r' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment (без вложенности; незакрытый: репорт и обрезаем на EOF)
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cur.eof() {
		start := lx.cur.mark()
		switch b := lx.cur.peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			for c := lx.cur.peek(); c == ' ' || c == '\t' || c == '\r'; c = lx.cur.peek() {
				lx.cur.bump()
			}
			lx.hold = append(lx.hold, lx.trivia(token.TriviaSpace, start))
		case b == '\n':
			for lx.cur.peek() == '\n' {
				lx.cur.bump()
			}
			lx.hold = append(lx.hold, lx.trivia(token.TriviaNewline, start))
		case b == '/':
			b0, b1, ok := lx.cur.peek2()
			if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
				return
			}
			lx.cur.bump()
			lx.cur.bump()
			if b1 == '/' {
				for !lx.cur.eof() && lx.cur.peek() != '\n' {
					lx.cur.bump()
				}
				lx.hold = append(lx.hold, lx.trivia(token.TriviaLineComment, start))
				continue
			}
			closed := false
			for !lx.cur.eof() {
				if c0, c1, ok := lx.cur.peek2(); ok && c0 == '*' && c1 == '/' {
					lx.cur.bump()
					lx.cur.bump()
					closed = true
					break
				}
				lx.cur.bump()
			}
			t := lx.trivia(token.TriviaBlockComment, start)
			if !closed {
				lx.errLex(diag.LexUnterminatedBlockComment, t.Span, "unterminated block comment")
			}
			lx.hold = append(lx.hold, t)
		default:
			return
		}
	}
}

func (lx *Lexer) trivia(kind token.TriviaKind, start offset) token.Trivia {
	sp := lx.cur.spanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)}
}
