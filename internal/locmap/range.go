package locmap

import "fmt"

// Range is a half-open byte range [Start, End) in generated source.
type Range struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
}

// At is the empty range at offset, as reported by tools that only know a
// single position.
func At(offset int) Range { return Range{Start: offset, End: offset} }

func (r Range) Empty() bool { return r.Start == r.End }

func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether offset lies inside r. An empty range contains
// its own offset.
func (r Range) Contains(offset int) bool {
	if r.Empty() {
		return offset == r.Start
	}
	return r.Start <= offset && offset < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
