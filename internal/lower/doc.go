// Package lower rewrites a parsed program into a Go syntax tree.
//
// The engine walks the AST once. Expression visits push exactly one
// lowered go/ast expression onto a value stack; statement visits pop their
// operands and append the resulting statements to the innermost open
// container on a frame stack (entry, block or function body). Every go/ast
// node the engine creates is recorded in an ordered annotation list together
// with the span of the source node that produced it, children before their
// parents. internal/locmap turns that list into a position index once the
// tree has been printed.
//
// Faults that can only come from an engine defect or an AST shape the
// parser never builds (unbalanced frames, value stack underflow) abort
// lowering with *InternalError. Tuple arity mismatches are ordinary user
// errors: they are reported as diagnostics and returned as *ArityError.
package lower
