package parser

import (
	"slices"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/lexer"
	"mycompiler/internal/source"
	"mycompiler/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Result of parsing one file. Root is nil whenever an error was reported:
// callers never see a partial tree.
type Result struct {
	Root   *ast.Block
	Errors uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	buf      []token.Token // окно предпросмотра
	lastSpan source.Span   // span последнего съеденного токена
	errors   uint
	depth    int // вложенность блоков; функции разрешены только на нулевой
}

// ParseFile: входная точка для разбора одного файла.
// Лексические ошибки тоже считаются: после них дерево не возвращается.
func ParseFile(file *source.File, opts Options) Result {
	p := Parser{
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.lx = lexer.New(file, lexer.Options{Reporter: lexReporter{p: &p}})
	root := p.parseProgram()
	if p.errors > 0 {
		return Result{Errors: p.errors}
	}
	return Result{Root: root}
}

// lexReporter пропускает лексические ошибки через общий счётчик парсера.
type lexReporter struct{ p *Parser }

func (r lexReporter) Report(d diag.Diagnostic) {
	r.p.errors++
	if r.p.opts.Reporter == nil || r.p.overLimit() {
		return
	}
	r.p.opts.Reporter.Report(d)
}

// parseProgram: основной цикл верхнего уровня, parseStmt до EOF.
func (p *Parser) parseProgram() *ast.Block {
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		if p.enough() {
			break
		}
		if st := p.parseStmt(); st != nil {
			stmts = append(stmts, st)
		}
	}
	sp := source.Span{File: p.file.ID, Start: 0, End: uint32(len(p.file.Content))} // #nosec G115 -- checked by FileSet.Add
	return &ast.Block{Base: ast.At(sp), Stmts: stmts, IsEntry: true}
}

// peekN returns the token n positions ahead (0 = next).
func (p *Parser) peekN(n int) token.Token {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[n]
}

func (p *Parser) peek() token.Token { return p.peekN(0) }

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.buf = p.buf[1:]
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan: у EOF пустой span в конце файла; указываем сразу за последним токеном.
func (p *Parser) diagnosticSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

// expect: ожидаем конкретный токен. Иначе репортим и возвращаем (invalid, false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg+", got "+describe(p.peek()), describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string, args ...string) {
	p.report(code, p.diagnosticSpan(), msg, args...)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string, args ...string) {
	p.errors++
	if p.opts.Reporter == nil || p.overLimit() {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).WithArgs(args...).Emit()
}

// enough: достигли ли мы максимального количества ошибок
func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors
}

func (p *Parser) overLimit() bool {
	return p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors
}

// resync прокручивает до ';' (съедая её), '}' или начала следующего оператора.
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.KwPrint, token.KwReturn, token.KwRepeat, token.KwFor,
			token.KwImport, token.KwFunc, token.LBrace:
			return
		}
		p.advance()
	}
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.RealLit, token.StringLit, token.Invalid:
		return "'" + tok.Text + "'"
	}
	return "'" + tok.Kind.String() + "'"
}
