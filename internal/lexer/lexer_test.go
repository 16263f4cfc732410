package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/diag"
	"mycompiler/internal/lexer"
	"mycompiler/internal/source"
	"mycompiler/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mcl", []byte(input))
	bag := diag.NewBag(0)
	return lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestPrintStatements(t *testing.T) {
	lx, bag := makeTestLexer("print 1.5; print 100;")
	toks := lx.All()
	require.Zero(t, bag.Len())
	assert.Equal(t, []token.Kind{
		token.KwPrint, token.RealLit, token.Semicolon,
		token.KwPrint, token.IntLit, token.Semicolon, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "1.5", toks[1].Text)
	assert.Equal(t, "100", toks[4].Text)
}

func TestSpansMatchText(t *testing.T) {
	input := "func int add(int a, int b) { return a + b; }\nint[] xs = int[]{1, 2};"
	lx, bag := makeTestLexer(input)
	for _, tok := range lx.All() {
		assert.Equal(t, input[tok.Span.Start:tok.Span.End], tok.Text, "token %v", tok.Kind)
	}
	require.Zero(t, bag.Len())
}

func TestExponent(t *testing.T) {
	lx, bag := makeTestLexer("2e3 2.5e-3")
	assert.Equal(t, []token.Kind{token.RealLit, token.RealLit, token.EOF}, kinds(lx.All()))
	require.Zero(t, bag.Len())
}

func TestIntegerThenDot(t *testing.T) {
	lx, bag := makeTestLexer("1.x")
	assert.Equal(t, []token.Kind{token.IntLit, token.Dot, token.Ident, token.EOF}, kinds(lx.All()))
	require.Zero(t, bag.Len())
}

func TestCommentsBecomeTrivia(t *testing.T) {
	lx, bag := makeTestLexer("// header\nprint /* inline */ 1;")
	toks := lx.All()
	require.Zero(t, bag.Len())
	require.Equal(t, []token.Kind{token.KwPrint, token.IntLit, token.Semicolon, token.EOF}, kinds(toks))
	require.Len(t, toks[0].Leading, 2)
	assert.Equal(t, token.TriviaLineComment, toks[0].Leading[0].Kind)
	assert.Equal(t, token.TriviaNewline, toks[0].Leading[1].Kind)
	assert.Equal(t, token.TriviaBlockComment, toks[1].Leading[1].Kind)
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		input string
		code  diag.Code
	}{
		{`print "abc`, diag.LexUnterminatedString},
		{"print \"a\nb\";", diag.LexUnterminatedString},
		{"/* never closed", diag.LexUnterminatedBlockComment},
		{"print 12ab;", diag.LexBadNumber},
		{"print 1 # 2;", diag.LexUnknownChar},
		{"int __rep0 = 1;", diag.LexReservedIdentifier},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.input)
		lx.All()
		require.NotZero(t, bag.Len(), "input %q", tc.input)
		assert.Equal(t, tc.code, bag.Items()[0].Code, "input %q", tc.input)
		assert.True(t, bag.HasErrors())
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	lx, bag := makeTestLexer("int счётчик = 1;")
	toks := lx.All()
	require.Zero(t, bag.Len())
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "счётчик", toks[1].Text)
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("repeat 3")
	assert.Equal(t, token.KwRepeat, lx.Peek().Kind)
	assert.Equal(t, token.KwRepeat, lx.Next().Kind)
	assert.Equal(t, token.IntLit, lx.Next().Kind)
	assert.Equal(t, token.EOF, lx.Next().Kind)
	assert.Equal(t, token.EOF, lx.Next().Kind)
}
