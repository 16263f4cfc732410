package token

var keywords = map[string]Kind{
	"print":  KwPrint,
	"return": KwReturn,
	"repeat": KwRepeat,
	"for":    KwFor,
	"to":     KwTo,
	"import": KwImport,
	"func":   KwFunc,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
