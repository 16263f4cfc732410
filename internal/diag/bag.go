package diag

import (
	"cmp"
	"slices"
)

// Bag собирает диагностики одной компиляции, не больше max штук.
type Bag struct {
	items []Diagnostic
	max   int // <= 0: без лимита
}

func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add returns false once the limit is reached; the diagnostic is dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) HasErrors() bool   { return b.has(SevError) }
func (b *Bag) HasWarnings() bool { return b.has(SevWarning) }

func (b *Bag) has(min Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= min })
}

func (b *Bag) Len() int { return len(b.items) }

// Items is the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sort orders by file, span, severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Filter drops diagnostics below min in place.
func (b *Bag) Filter(min Severity) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return d.Severity < min })
}
