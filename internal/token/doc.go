// Package token defines lexical token kinds and trivia.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Whitespace and comments never appear in the token stream; they are
//     attached to the following token as Leading trivia.
//   - Type names (int, real, string, ...) are identifiers, not keywords.
package token
