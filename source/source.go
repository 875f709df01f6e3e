// Package source holds the immutable representation of a single file's
// bytes that flows through the rest of the engine: the lexer, parser, rule
// engine and rewriter all address positions in it as byte offsets.
package source

import "strings"

// Text is an immutable UTF-8 byte sequence plus a precomputed line-start
// table, so that (line, column) pairs needed for Violation reporting can be
// derived without rescanning the buffer.
type Text struct {
	path  string
	bytes []byte
	// lineStarts[i] is the byte offset of the first byte of line i+1
	// (lines are 1-based). lineStarts[0] is always 0.
	lineStarts []int
}

// New builds a Text over the given bytes, recording the offset of every
// line start for later (line, column) lookups.
func New(path string, data []byte) *Text {
	t := &Text{
		path:       path,
		bytes:      data,
		lineStarts: []int{0},
	}
	for i, b := range data {
		if b == '\n' {
			t.lineStarts = append(t.lineStarts, i+1)
		}
	}
	return t
}

// Path returns the file path this text was read from, or "" for
// in-memory/anonymous sources.
func (t *Text) Path() string {
	return t.path
}

// Bytes returns the underlying byte slice. Callers must not mutate it:
// Text is immutable by contract, not by copy.
func (t *Text) Bytes() []byte {
	return t.bytes
}

// Len returns the length of the source in bytes.
func (t *Text) Len() int {
	return len(t.bytes)
}

// String returns the source as a string.
func (t *Text) String() string {
	return string(t.bytes)
}

// LineColumn converts a byte offset into a 1-based (line, column) pair.
// Column is counted in bytes, matching the lexer's own position tracking.
func (t *Text) LineColumn(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.bytes) {
		offset = len(t.bytes)
	}
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(t.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - t.lineStarts[lo] + 1
}

// LineCount returns the number of lines in the source, counting a trailing
// unterminated line as one line.
func (t *Text) LineCount() int {
	if len(t.bytes) == 0 {
		return 1
	}
	n := len(t.lineStarts)
	if t.lineStarts[n-1] == len(t.bytes) && t.bytes[len(t.bytes)-1] == '\n' {
		return n - 1
	}
	return n
}

// LineRange returns the byte offset range [start, end) of the given
// 1-based line, excluding its line terminator.
func (t *Text) LineRange(n int) (start, end int) {
	if n < 1 || n > len(t.lineStarts) {
		return 0, 0
	}
	start = t.lineStarts[n-1]
	if n < len(t.lineStarts) {
		end = t.lineStarts[n] - 1
	} else {
		end = len(t.bytes)
	}
	if end < start {
		end = start
	}
	if end > start && t.bytes[end-1] == '\r' {
		end--
	}
	return start, end
}

// Line returns the content of the given 1-based line, without its line
// terminator.
func (t *Text) Line(n int) string {
	if n < 1 || n > len(t.lineStarts) {
		return ""
	}
	start := t.lineStarts[n-1]
	var end int
	if n < len(t.lineStarts) {
		end = t.lineStarts[n] - 1 // exclude the newline
	} else {
		end = len(t.bytes)
	}
	if end < start {
		end = start
	}
	line := string(t.bytes[start:end])
	return strings.TrimSuffix(line, "\r")
}
