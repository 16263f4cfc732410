package token_test

import (
	"testing"

	"mycompiler/internal/token"
)

func TestClassification(t *testing.T) {
	cases := []struct {
		kind             token.Kind
		lit, kw, op, id bool
	}{
		{token.IntLit, true, false, false, false},
		{token.StringLit, true, false, false, false},
		{token.KwRepeat, false, true, false, false},
		{token.KwFunc, false, true, false, false},
		{token.Percent, false, false, true, false},
		{token.RBracket, false, false, true, false},
		{token.Ident, false, false, false, true},
	}
	for _, tc := range cases {
		tok := token.Token{Kind: tc.kind}
		if tok.IsLiteral() != tc.lit || tok.IsKeyword() != tc.kw || tok.IsPunctOrOp() != tc.op || tok.IsIdent() != tc.id {
			t.Errorf("%v: classification mismatch", tc.kind)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	for text, want := range map[string]token.Kind{"print": token.KwPrint, "to": token.KwTo, "import": token.KwImport} {
		got, ok := token.LookupKeyword(text)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v", text, got, ok)
		}
	}
	for _, text := range []string{"Print", "int", "real", "void"} {
		if _, ok := token.LookupKeyword(text); ok {
			t.Errorf("%q must not be a keyword", text)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.LBrace.String() != "{" || token.KwRepeat.String() != "repeat" {
		t.Fatalf("unexpected names %s %s", token.LBrace, token.KwRepeat)
	}
}
