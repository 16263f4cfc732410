// Package stdlib embeds the library units every program is compiled with.
//
// Runtime units are Go sources handed to the backend untouched; source
// units are written in the language itself and lowered in library mode.
// Array and Tuple support is always included because lowered code refers
// to it; the remaining units are selected with glob patterns.
package stdlib
