package lalr

import "fmt"

// --- Source locations ------------------------------------------------------

// Location is a position within a source text. Position is the byte offset,
// Line and Column are zero-based.
type Location struct {
	Position int
	Line     int
	Column   int
}

// Advance returns the location after reading rune r.
func (loc Location) Advance(r rune, width int) Location {
	loc.Position += width
	if r == '\n' {
		loc.Line++
		loc.Column = 0
	} else {
		loc.Column++
	}
	return loc
}

// String prints a location in a form suited for error messages, with line and
// column counted from 1.
func (loc Location) String() string {
	return fmt.Sprintf("(%d:%d)", loc.Line+1, loc.Column+1)
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// MakeSpan creates a span starting at position from with a length of n.
func MakeSpan(from, n int) Span {
	return Span{uint64(from), uint64(from + n)}
}

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns a span covering both s and other. A null span does not
// contribute.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
