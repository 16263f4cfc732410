package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"mycompiler/internal/source"
)

// offset: сохранённая позиция курсора
type offset uint32

// cursor walks the bytes of one file.
type cursor struct {
	src  []byte
	file source.FileID
	off  uint32
	end  uint32
}

func newCursor(f *source.File) cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s: %w", f.Path, err))
	}
	return cursor{src: f.Content, file: f.ID, end: end}
}

func (c *cursor) eof() bool { return c.off >= c.end }

// peek returns 0 at EOF.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// peek2 returns the current and the next byte; ok is false if either is missing.
func (c *cursor) peek2() (b0, b1 byte, ok bool) {
	if c.off+1 >= c.end {
		return 0, 0, false
	}
	return c.src[c.off], c.src[c.off+1], true
}

func (c *cursor) bump() {
	if !c.eof() {
		c.off++
	}
}

func (c *cursor) mark() offset { return offset(c.off) }

func (c *cursor) reset(m offset) { c.off = uint32(m) }

func (c *cursor) spanFrom(m offset) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}

// peekRune decodes the rune at the cursor; size is 0 at EOF.
func (c *cursor) peekRune() (r rune, size int) {
	if c.eof() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.off:c.end])
}

func (c *cursor) bumpRune() {
	_, size := c.peekRune()
	c.off += uint32(size) // #nosec G115 -- utf8 sizes are 0..4
}

func isLetterByte(b byte) bool { return b|0x20 >= 'a' && b|0x20 <= 'z' }

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isIdentContinueByte(b byte) bool {
	return b == '_' || isLetterByte(b) || isDec(b)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
