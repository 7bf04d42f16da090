// Package parse provides a combinator library for building text-markup
// parsers. Parsers operate on an immutable Cursor into a rune sequence, so
// alternation and repetition backtrack by simply reusing an earlier cursor
// value instead of rewinding a mutable stream.
package parse

import "fmt"

// Position represents a location in source text.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Cursor is an immutable position into a character sequence. Many cursors
// may share the same backing sequence; Consume returns a new value and never
// mutates the receiver.
type Cursor struct {
	src []rune
	off int
}

// NewCursor creates a cursor at the start of the given text.
func NewCursor(text string) Cursor {
	return Cursor{src: []rune(text)}
}

// Offset returns the current offset into the source.
func (c Cursor) Offset() int { return c.off }

// AtEnd reports whether the cursor is past the last character.
func (c Cursor) AtEnd() bool { return c.off >= len(c.src) }

// AtStart reports whether the cursor is at offset zero.
func (c Cursor) AtStart() bool { return c.off == 0 }

// Remaining returns the number of characters left to consume.
func (c Cursor) Remaining() int { return len(c.src) - c.off }

// Char returns the character at the cursor, or 0 at end of input.
func (c Cursor) Char() rune {
	if c.AtEnd() {
		return 0
	}
	return c.src[c.off]
}

// CharAt returns the character at the given offset relative to the cursor,
// or 0 if the offset falls outside the source. Negative offsets look behind.
func (c Cursor) CharAt(k int) rune {
	i := c.off + k
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

// Consume returns a new cursor advanced by n characters. The offset is
// clamped to the valid range, so callers that must not overrun check
// Remaining first. Negative n moves backward, clamped at the start.
func (c Cursor) Consume(n int) Cursor {
	next := c.off + n
	if next < 0 {
		next = 0
	}
	if next > len(c.src) {
		next = len(c.src)
	}
	return Cursor{src: c.src, off: next}
}

// Capture returns the next n characters as a string without advancing.
func (c Cursor) Capture(n int) string {
	end := c.off + n
	if end > len(c.src) {
		end = len(c.src)
	}
	return string(c.src[c.off:end])
}

// Since returns the text between start and c. Both cursors must share the
// same backing source.
func (c Cursor) Since(start Cursor) string {
	if start.off >= c.off {
		return ""
	}
	return string(c.src[start.off:c.off])
}

// Position derives the line and column of the cursor's offset.
func (c Cursor) Position() Position {
	line, col := 1, 1
	for _, r := range c.src[:c.off] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Offset: c.off, Line: line, Column: col}
}
