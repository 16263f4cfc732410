package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	RealLit
	StringLit

	KwPrint  // print
	KwReturn // return
	KwRepeat // repeat
	KwFor    // for
	KwTo     // to
	KwImport // import
	KwFunc   // func

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Assign    // =
	Semicolon // ;
	Comma     // ,
	Dot       // .
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	RealLit:   "RealLit",
	StringLit: "StringLit",
	KwPrint:   "print",
	KwReturn:  "return",
	KwRepeat:  "repeat",
	KwFor:     "for",
	KwTo:      "to",
	KwImport:  "import",
	KwFunc:    "func",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Assign:    "=",
	Semicolon: ";",
	Comma:     ",",
	Dot:       ".",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
