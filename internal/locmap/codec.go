package locmap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// bump when Snapshot changes shape
const snapshotSchema uint16 = 1

// Ext is the file extension of a persisted map.
const Ext = ".locmap"

// Snapshot is the persisted form of a Map.
type Snapshot struct {
	Schema  uint16
	Unit    string
	Origin  string
	Stats   Stats
	Entries []Entry
}

func (m *Map) Snapshot() *Snapshot {
	return &Snapshot{
		Schema:  snapshotSchema,
		Unit:    m.unit,
		Origin:  m.origin,
		Stats:   m.stats,
		Entries: m.Entries(),
	}
}

// FromSnapshot rebuilds the lookup indexes of a persisted map.
func FromSnapshot(s *Snapshot) (*Map, error) {
	if s.Schema != snapshotSchema {
		return nil, fmt.Errorf("locmap: schema %d, want %d", s.Schema, snapshotSchema)
	}
	m := newMap(s.Unit)
	m.origin = s.Origin
	m.stats = s.Stats
	for _, e := range s.Entries {
		m.add(e)
	}
	return m, nil
}

func (m *Map) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(m.Snapshot())
}

func Decode(r io.Reader) (*Map, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("locmap: decode: %w", err)
	}
	return FromSnapshot(&s)
}

// WriteFile stores the map at path, replacing any previous file atomically.
func (m *Map) WriteFile(path string) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = m.Encode(f); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func ReadFile(path string) (*Map, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the build layout
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
