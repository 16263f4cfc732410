package locmap

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"math"
	"reflect"

	"github.com/tidwall/btree"

	"mycompiler/internal/lower"
	"mycompiler/internal/source"
)

// Entry maps one generated range to the span it was lowered from.
type Entry struct {
	_msgpack struct{} `msgpack:",as_array"`

	ID    lower.NodeID
	Range Range
	Span  source.Span
}

// Stats describe how a map was built.
type Stats struct {
	Annotations int  // annotations offered
	Paired      int  // annotations with a twin in the printed tree
	Shadowed    int  // paired, but their range was already claimed
	Diverged    bool // tree walk stopped early
}

// Map answers generated-range queries for one unit.
type Map struct {
	unit    string
	origin  string // path of the source file the unit was lowered from
	entries []Entry
	exact   map[Range]int

	// Keys are boundary offsets; the first span claiming a boundary keeps it.
	starts btree.Map[int, source.Span]
	ends   btree.Map[int, source.Span]

	// Ordered by start ascending, then end descending.
	nest  *btree.BTreeG[Entry]
	stats Stats
}

func newMap(unit string) *Map {
	return &Map{
		unit:  unit,
		exact: make(map[Range]int),
		nest:  btree.NewBTreeG(byNesting),
	}
}

func byNesting(a, b Entry) bool {
	if a.Range.Start != b.Range.Start {
		return a.Range.Start < b.Range.Start
	}
	return a.Range.End > b.Range.End
}

// Build prints res, re-parses the text and returns the map together with
// the printed source.
func Build(unit string, res *lower.Result) (*Map, []byte, error) {
	if res == nil || res.File == nil {
		return nil, nil, fmt.Errorf("locmap: nothing to build for %s", unit)
	}
	src, err := Print(res.File)
	if err != nil {
		return nil, nil, fmt.Errorf("print %s: %w", unit, err)
	}
	fset := token.NewFileSet()
	twin, err := parser.ParseFile(fset, unit, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, src, fmt.Errorf("reparse %s: %w", unit, err)
	}
	tf := fset.File(twin.Pos())

	pairs, diverged := pairNodes(res.File, twin)
	m := newMap(unit)
	m.stats.Diverged = diverged
	for _, a := range res.Annotations {
		m.stats.Annotations++
		t, ok := pairs[a.Node]
		if !ok || !t.Pos().IsValid() || !t.End().IsValid() {
			continue
		}
		m.stats.Paired++
		r := Range{Start: tf.Offset(t.Pos()), End: tf.Offset(t.End())}
		if !m.add(Entry{ID: a.ID, Range: r, Span: a.Span}) {
			m.stats.Shadowed++
		}
	}
	return m, src, nil
}

// add inserts e unless its range is already claimed.
func (m *Map) add(e Entry) bool {
	if _, dup := m.exact[e.Range]; dup {
		return false
	}
	m.exact[e.Range] = len(m.entries)
	m.entries = append(m.entries, e)
	if _, ok := m.starts.Get(e.Range.Start); !ok {
		m.starts.Set(e.Range.Start, e.Span)
	}
	if _, ok := m.ends.Get(e.Range.End); !ok {
		m.ends.Set(e.Range.End, e.Span)
	}
	m.nest.Set(e)
	return true
}

func preorder(root goast.Node) []goast.Node {
	var out []goast.Node
	goast.Inspect(root, func(n goast.Node) bool {
		if n != nil {
			out = append(out, n)
		}
		return true
	})
	return out
}

// pairNodes walks both trees in pre-order and pairs nodes of equal
// dynamic type until the first mismatch.
func pairNodes(lowered, reparsed goast.Node) (map[goast.Node]goast.Node, bool) {
	a, b := preorder(lowered), preorder(reparsed)
	pairs := make(map[goast.Node]goast.Node, len(a))
	for i := range a {
		if i >= len(b) || reflect.TypeOf(a[i]) != reflect.TypeOf(b[i]) {
			return pairs, true
		}
		pairs[a[i]] = b[i]
	}
	return pairs, len(a) != len(b)
}

// Lookup resolves a generated range. An exact match wins; otherwise the
// span is composed from the spans claiming r's start and end boundaries.
// An empty range resolves through its start boundary alone.
func (m *Map) Lookup(r Range) (source.Span, bool) {
	if m == nil {
		return source.Span{}, false
	}
	if i, ok := m.exact[r]; ok {
		return m.entries[i].Span, true
	}
	first, okStart := m.starts.Get(r.Start)
	if r.Empty() {
		return first, okStart
	}
	last, okEnd := m.ends.Get(r.End)
	if !okStart || !okEnd || first.File != last.File || first.Start > last.End {
		return source.Span{}, false
	}
	return source.Span{File: first.File, Start: first.Start, End: last.End}, true
}

// Enclosing returns the innermost entry whose range contains offset.
func (m *Map) Enclosing(offset int) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	var found Entry
	var ok bool
	pivot := Entry{Range: Range{Start: offset, End: math.MinInt}}
	m.nest.Descend(pivot, func(e Entry) bool {
		if e.Range.Contains(offset) {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// Resolve is Lookup falling back to Enclosing(r.Start).
func (m *Map) Resolve(r Range) (source.Span, bool) {
	if sp, ok := m.Lookup(r); ok {
		return sp, true
	}
	if e, ok := m.Enclosing(r.Start); ok {
		return e.Span, true
	}
	return source.Span{}, false
}

func (m *Map) Unit() string { return m.unit }

// Origin is the source path recorded with SetOrigin.
func (m *Map) Origin() string { return m.origin }

func (m *Map) SetOrigin(path string) { m.origin = path }

func (m *Map) Len() int { return len(m.entries) }

func (m *Map) Stats() Stats { return m.stats }

// Entries returns the entries in annotation order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
