// Package locmap maps byte ranges of generated Go source back to spans of
// the program they were lowered from.
//
// Build prints a lowered unit, parses the printed text again and pairs the
// two trees node by node in pre-order. Every annotated node whose twin is
// found contributes one entry: the twin's [Pos, End) offsets in the printed
// text and the annotated source span. When the trees stop matching, pairing
// stops and later nodes simply have no mapping.
package locmap
