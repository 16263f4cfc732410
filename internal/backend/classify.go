package backend

import (
	"regexp"
	"strings"

	"mycompiler/internal/diag"
	"mycompiler/internal/locmap"
)

// Class is the outcome of classifying one tool message.
type Class struct {
	Code     diag.Code
	Severity diag.Severity
	Args     []string
}

type rule struct {
	re   *regexp.Regexp
	code diag.Code
	sev  diag.Severity
	args func(m []string) []string
}

func group(i int) func([]string) []string {
	return func(m []string) []string { return []string{m[i]} }
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{re: regexp.MustCompile(`^undefined: (\S+)`), code: diag.BackendUnknownIdentifier, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^(\S+) not declared by package (\S+)`), code: diag.BackendUnknownIdentifier, sev: diag.SevError,
		args: func(m []string) []string { return []string{m[2] + "." + m[1]} }},
	{re: regexp.MustCompile(`^cannot use .+ \((.+)\) as (.+?) value`), code: diag.BackendCannotConvert, sev: diag.SevError,
		args: func(m []string) []string { return []string{typeOf(m[1]), m[2]} }},
	{re: regexp.MustCompile(`^cannot convert .+ \((.+)\) to type (.+)$`), code: diag.BackendCannotConvert, sev: diag.SevError,
		args: func(m []string) []string { return []string{typeOf(m[1]), m[2]} }},
	{re: regexp.MustCompile(`^declared and not used: (\S+)`), code: diag.BackendUnusedVariable, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^(\S+) declared (?:and|but) not used`), code: diag.BackendUnusedVariable, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^"([^"]+)" imported (?:as \S+ )?and not used`), code: diag.BackendUnusedImport, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^missing return`), code: diag.BackendMissingReturn, sev: diag.SevError},
	{re: regexp.MustCompile(`^(?:not enough|too many) arguments in call to (\S+)`), code: diag.BackendArgumentCount, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^(\S+) redeclared in this block`), code: diag.BackendRedeclared, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^invalid operation: cannot call non-function (\S+)`), code: diag.BackendNotCallable, sev: diag.SevError, args: group(1)},
	{re: regexp.MustCompile(`^invalid operation: (.+)$`), code: diag.BackendInvalidOperation, sev: diag.SevError, args: group(1)},
}

// Classify maps a Go type checker or compiler message onto a diagnostic
// code. Unrecognised messages keep UnknownCode and are errors.
func Classify(msg string) Class {
	first, _, _ := strings.Cut(msg, "\n")
	for _, r := range rules {
		m := r.re.FindStringSubmatch(first)
		if m == nil {
			continue
		}
		c := Class{Code: r.code, Severity: r.sev}
		if r.args != nil {
			c.Args = r.args(m)
		}
		return c
	}
	return Class{Code: diag.UnknownCode, Severity: diag.SevError}
}

// typeOf extracts the type from an operand description such as
// "variable of type int" or "untyped string constant".
func typeOf(desc string) string {
	if i := strings.LastIndex(desc, "of type "); i >= 0 {
		return desc[i+len("of type "):]
	}
	desc = strings.TrimSuffix(desc, " constant")
	if i := strings.Index(desc, " constant "); i >= 0 {
		return desc[:i]
	}
	return desc
}

func classified(unit string, r locmap.Range, located bool, msg string) Diagnostic {
	c := Classify(msg)
	return Diagnostic{
		Severity: c.Severity,
		Code:     c.Code,
		Unit:     unit,
		Range:    r,
		Located:  located,
		Args:     c.Args,
		Message:  msg,
	}
}
