package source

import (
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out, len(out) != len(content)
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// normalizeNFC переводит текст в NFC, чтобы идентификаторы сравнивались побайтово.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- file size checked in Add
		}
	}
	return out
}

// lineStart returns the byte offset where 0-based line begins.
func lineStart(lineIdx []uint32, line int) uint32 {
	if line == 0 {
		return 0
	}
	return lineIdx[line-1] + 1
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: количество переводов строки строго до off
	line, _ := slices.BinarySearchFunc(lineIdx, off, func(nl, target uint32) int {
		if nl < target {
			return -1
		}
		if nl > target {
			return 1
		}
		return 0
	})
	start := lineStart(lineIdx, line)
	return LineCol{Line: uint32(line + 1), Col: off - start + 1} // #nosec G115
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}

// RelativePath returns path relative to base, if possible.
func RelativePath(path, base string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
