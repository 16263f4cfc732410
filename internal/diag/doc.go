// Package diag defines the diagnostic model shared by the lexer, parser,
// lowering engine and backend adapters.
//
// Diagnostic is the central record: Severity (Info, Warning, Error), a numeric
// Code, a default English Message, positional Args for the localized template
// of that code, the Primary span in original source, and optional Notes.
//
// Phases emit through a Reporter (BagReporter, DedupReporter) so they never
// depend on storage or rendering. Rendering lives in internal/diagfmt.
package diag
