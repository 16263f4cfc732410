package buildpipeline

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mycompiler/internal/driver"
)

// Current schema version - increment when stamp format changes
const stampSchemaVersion uint16 = 1

// Digest is a SHA-256 over everything handed to go build.
type Digest [32]byte

// unitsDigest: H(name || 0 || source || 0 ...) в порядке юнитов.
func unitsDigest(module string, units []driver.GenUnit) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(module))
	_, _ = h.Write([]byte{0})
	for _, u := range units {
		_, _ = h.Write([]byte(u.Name))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(u.Source)
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// BuildCache remembers which inputs produced the current artifact, so an
// unchanged program is not rebuilt. Thread-safe for concurrent access.
type BuildCache struct {
	mu  sync.RWMutex
	dir string
}

// stamp is stored per output name.
type stamp struct {
	Schema uint16
	Digest Digest
	Output string
	Built  time.Time
}

// OpenBuildCache uses dir for stamps; it is created on first write.
func OpenBuildCache(dir string) *BuildCache {
	return &BuildCache{dir: dir}
}

func (c *BuildCache) pathFor(name string) string {
	return filepath.Join(c.dir, name+".stamp")
}

// Fresh reports whether output exists and was built from digest.
func (c *BuildCache) Fresh(name string, digest Digest, output string) bool {
	if c == nil {
		return false
	}
	var s stamp
	ok, err := c.get(name, &s)
	if err != nil || !ok {
		return false
	}
	if s.Schema != stampSchemaVersion || s.Digest != digest || s.Output != output {
		return false
	}
	_, err = os.Stat(output)
	return err == nil
}

// Record stores the stamp for a successful build.
func (c *BuildCache) Record(name string, digest Digest, output string) error {
	if c == nil {
		return nil
	}
	return c.put(name, &stamp{Schema: stampSchemaVersion, Digest: digest, Output: output, Built: time.Now()})
}

func (c *BuildCache) put(name string, payload *stamp) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

func (c *BuildCache) get(name string, out *stamp) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate drops the stamp for name.
func (c *BuildCache) Invalidate(name string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.Remove(c.pathFor(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
