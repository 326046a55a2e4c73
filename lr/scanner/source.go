package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr"
)

// SourceStream is the input of a scanner. It holds the location of the token
// currently scanned and a preview position, which terminals advance while
// trying to match.
//
// SourceStream implements lr.Source.
type SourceStream struct {
	text          string
	fileName      string
	location      lalr.Location // start of current token
	previewPos    int
	caseSensitive bool
	errorTerm     lr.Terminal
}

var _ lr.Source = (*SourceStream)(nil)

// NewSourceStream creates a source for a text. errorTerm is the terminal for
// error tokens, usually the grammar's SyntaxError terminal.
func NewSourceStream(text, fileName string, caseSensitive bool, errorTerm lr.Terminal) *SourceStream {
	return &SourceStream{
		text:          text,
		fileName:      fileName,
		caseSensitive: caseSensitive,
		errorTerm:     errorTerm,
	}
}

// Text returns the complete input text.
func (src *SourceStream) Text() string {
	return src.text
}

// FileName returns the name of the input, as given by the client.
func (src *SourceStream) FileName() string {
	return src.fileName
}

// Location returns the start location of the current token.
func (src *SourceStream) Location() lalr.Location {
	return src.location
}

// SetLocation moves the token start to loc, resetting the preview position.
func (src *SourceStream) SetLocation(loc lalr.Location) {
	src.location = loc
	src.previewPos = loc.Position
}

// PreviewPosition is the byte offset terminals read at.
func (src *SourceStream) PreviewPosition() int {
	return src.previewPos
}

// SetPreviewPosition sets the byte offset terminals read at.
func (src *SourceStream) SetPreviewPosition(pos int) {
	if pos > len(src.text) {
		pos = len(src.text)
	}
	src.previewPos = pos
}

// PreviewChar returns the character at the preview position, or lr.EOFChar.
func (src *SourceStream) PreviewChar() rune {
	if src.previewPos >= len(src.text) {
		return lr.EOFChar
	}
	r, _ := utf8.DecodeRuneInString(src.text[src.previewPos:])
	return r
}

// NextPreviewChar advances the preview position by one character and returns
// the character there.
func (src *SourceStream) NextPreviewChar() rune {
	if src.previewPos >= len(src.text) {
		return lr.EOFChar
	}
	_, w := utf8.DecodeRuneInString(src.text[src.previewPos:])
	src.previewPos += w
	return src.PreviewChar()
}

// MatchSymbol checks if the text at the preview position starts with symbol. It
// does not move the preview position.
func (src *SourceStream) MatchSymbol(symbol string) bool {
	rest := src.text[src.previewPos:]
	if len(rest) < len(symbol) {
		return false
	}
	if src.caseSensitive {
		return strings.HasPrefix(rest, symbol)
	}
	return strings.EqualFold(rest[:len(symbol)], symbol)
}

// CreateToken creates a token spanning from the current location up to the
// preview position.
func (src *SourceStream) CreateToken(t lr.Terminal) *lr.Token {
	start := src.location.Position
	return &lr.Token{
		Terminal: t,
		Location: src.location,
		Length:   src.previewPos - start,
		Text:     src.text[start:src.previewPos],
	}
}

// CreateTokenWithValue creates a token with a converted value.
func (src *SourceStream) CreateTokenWithValue(t lr.Terminal, v lr.TokenValue) *lr.Token {
	tok := src.CreateToken(t)
	tok.Value = v
	return tok
}

// CreateErrorToken creates a token denoting a scanner error. The message is
// stored as the token's value.
func (src *SourceStream) CreateErrorToken(format string, args ...interface{}) *lr.Token {
	tok := src.CreateToken(src.errorTerm)
	tok.Value = lr.StringVal(fmt.Sprintf(format, args...))
	return tok
}

// EOF is true if the preview position is at the end of input.
func (src *SourceStream) EOF() bool {
	return src.previewPos >= len(src.text)
}

// advanceLocation moves the token start to the preview position, counting lines
// and columns on the way.
func (src *SourceStream) advanceLocation() {
	loc := src.location
	for loc.Position < src.previewPos {
		r, w := utf8.DecodeRuneInString(src.text[loc.Position:])
		loc = loc.Advance(r, w)
	}
	src.location = loc
}
