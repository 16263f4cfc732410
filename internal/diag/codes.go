package diag

import (
	"fmt"
	"strconv"
)

// Code is a numeric diagnostic identifier. Backend-reported codes keep the
// small numbers of the classic compiler error table (103, 266, ...), front-end
// codes live in the 1000+ ranges.
type Code uint16

const (
	UnknownCode Code = 0

	// Backend (type checker / toolchain)
	BackendInvalidOperation     Code = 19
	BackendRedeclared           Code = 128
	BackendUnknownIdentifier    Code = 103
	BackendMissingReturn        Code = 161
	BackendUnusedVariable       Code = 168
	BackendCannotConvert        Code = 266
	BackendArgumentCount        Code = 1501
	BackendNotCallable          Code = 149
	BackendUnusedImport         Code = 8019
	BackendSyntax               Code = 1002
	BackendToolchain            Code = 9000
	BackendToolchainUnavailable Code = 9001

	// Лексические
	LexUnknownChar              Code = 1101
	LexUnterminatedString       Code = 1102
	LexUnterminatedBlockComment Code = 1103
	LexBadNumber                Code = 1104
	LexReservedIdentifier       Code = 1105

	// Парсерные
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectType         Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynForBadHeader       Code = 2009
	SynIntegerOutOfRange  Code = 2010
	SynNestedFunction     Code = 2011
	SynTooManyDiagnostics Code = 2099

	// Понижение
	LowerArityMismatch Code = 4001
	LowerInternalFault Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown diagnostic",
	BackendInvalidOperation:     "Invalid operation",
	BackendRedeclared:           "Name redeclared in this scope",
	BackendUnknownIdentifier:    "Unknown identifier",
	BackendMissingReturn:        "Missing return",
	BackendUnusedVariable:       "Variable declared but never used",
	BackendCannotConvert:        "Cannot convert type",
	BackendArgumentCount:        "Wrong number of arguments",
	BackendNotCallable:          "Value is not callable",
	BackendUnusedImport:         "Unnecessary import",
	BackendSyntax:               "Generated code does not parse",
	BackendToolchain:            "Toolchain failure",
	BackendToolchainUnavailable: "Toolchain not available",

	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexReservedIdentifier:       "Identifier uses a reserved prefix",

	SynUnexpectedToken:    "Unexpected token",
	SynExpectSemicolon:    "Expected ';'",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectExpression:   "Expected expression",
	SynExpectType:         "Expected type",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SynUnclosedBracket:    "Unclosed bracket",
	SynForBadHeader:       "Malformed for loop header",
	SynIntegerOutOfRange:  "Integer literal out of range",
	SynNestedFunction:     "Functions may only be declared at top level",
	SynTooManyDiagnostics: "Too many diagnostics",

	LowerArityMismatch: "Tuple arity mismatch",
	LowerInternalFault: "Internal lowering fault",
}

// ID returns a prefixed stable identifier for golden output ("LEX1101", "SYN2001", "CS0103").
func (c Code) ID() string {
	switch {
	case c >= 1100 && c < 2000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 4000 && c < 5000:
		return fmt.Sprintf("LOW%04d", uint16(c))
	}
	return fmt.Sprintf("CS%04d", uint16(c))
}

// Title returns the short English description of the code.
func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

// String renders the bare number, the form shown in diagnostic lines.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}
