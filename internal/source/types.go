package source

type (
	// FileID identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (tests, stdin, embedded units).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileNormalizedNFC is set when loading rewrote the text into NFC form.
	FileNormalizedNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position, both fields 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Location is a span resolved into line/column coordinates.
type Location struct {
	Path  string
	Start LineCol
	End   LineCol
}
