package lr

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/lalr"
)

// EOFChar is returned by a Source when reading beyond the end of input.
const EOFChar rune = 0

// Source is the view of the input that terminals get while trying to match.
// All reading happens at the preview position, which starts at the location of
// the token to be scanned. Tokens created span from the start location up to the
// preview position.
type Source interface {
	Text() string
	Location() lalr.Location
	PreviewPosition() int
	SetPreviewPosition(int)
	PreviewChar() rune
	NextPreviewChar() rune
	MatchSymbol(symbol string) bool
	CreateToken(t Terminal) *Token
	CreateTokenWithValue(t Terminal, v TokenValue) *Token
	CreateErrorToken(format string, args ...interface{}) *Token
	EOF() bool
}

// --- Token values ----------------------------------------------------------

// ValueKind tags the type of a token value.
type ValueKind uint8

// Kinds of token values.
const (
	NoValue ValueKind = iota
	IntValue
	FloatValue
	StringValue
	RuneValue
	BoolValue
)

// TokenValue is the converted value of a token's text, e.g. the number 42 for
// lexeme "0x2a". It is a tagged value; use the typed getters to access it.
type TokenValue struct {
	Kind ValueKind
	n    int64
	f    float64
	s    string
}

// IntVal creates an integer token value.
func IntVal(n int64) TokenValue { return TokenValue{Kind: IntValue, n: n} }

// FloatVal creates a floating point token value.
func FloatVal(f float64) TokenValue { return TokenValue{Kind: FloatValue, f: f} }

// StringVal creates a string token value.
func StringVal(s string) TokenValue { return TokenValue{Kind: StringValue, s: s} }

// RuneVal creates a character token value.
func RuneVal(r rune) TokenValue { return TokenValue{Kind: RuneValue, n: int64(r)} }

// BoolVal creates a boolean token value.
func BoolVal(b bool) TokenValue {
	v := TokenValue{Kind: BoolValue}
	if b {
		v.n = 1
	}
	return v
}

// Int returns an integer value. Float values are truncated.
func (v TokenValue) Int() (int64, bool) {
	switch v.Kind {
	case IntValue, RuneValue:
		return v.n, true
	case FloatValue:
		return int64(v.f), true
	}
	return 0, false
}

// Float returns a numeric value as a float64.
func (v TokenValue) Float() (float64, bool) {
	switch v.Kind {
	case FloatValue:
		return v.f, true
	case IntValue:
		return float64(v.n), true
	}
	return 0, false
}

// Str returns a string value.
func (v TokenValue) Str() (string, bool) {
	if v.Kind == StringValue {
		return v.s, true
	}
	return "", false
}

// Rune returns a character value.
func (v TokenValue) Rune() (rune, bool) {
	if v.Kind == RuneValue {
		return rune(v.n), true
	}
	return 0, false
}

// Bool returns a boolean value.
func (v TokenValue) Bool() (bool, bool) {
	if v.Kind == BoolValue {
		return v.n != 0, true
	}
	return false, false
}

func (v TokenValue) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.n, 10)
	case FloatValue:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case StringValue:
		return strconv.Quote(v.s)
	case RuneValue:
		return strconv.QuoteRune(rune(v.n))
	case BoolValue:
		return strconv.FormatBool(v.n != 0)
	}
	return "<none>"
}

// --- Tokens ----------------------------------------------------------------

// Token is a unit of input recognized by a terminal.
//
// KeyTerm is set if the token's text equals a key term of the grammar (e.g. an
// identifier "while" for a grammar with keyword "while"). The parser will
// prefer the key term if the current state expects it.
//
// Comments holds out-of-band tokens (comments, directives) the scanner
// encountered immediately before this token.
//
// A token may carry Parts. Such a multi-token will be unpacked by the scanner and
// its parts passed to the parser one by one.
type Token struct {
	Terminal Terminal
	KeyTerm  *KeyTerm
	Location lalr.Location
	Length   int
	Text     string
	Value    TokenValue
	Comments []*Token
	Parts    []*Token
}

// Category returns the category of a token's terminal.
func (tok *Token) Category() TokenCategory {
	if tok.Terminal == nil {
		return ErrorCategory
	}
	return tok.Terminal.Info().Category
}

// IsError is true for tokens denoting a scanner error. The error message is
// stored as the token's value.
func (tok *Token) IsError() bool {
	return tok.Category() == ErrorCategory
}

// IsMultiToken is true if a token consists of parts.
func (tok *Token) IsMultiToken() bool {
	return len(tok.Parts) > 0
}

// Span returns the input positions covered by the token.
func (tok *Token) Span() lalr.Span {
	return lalr.MakeSpan(tok.Location.Position, tok.Length)
}

// SetTerminal re-labels a token, e.g. when an identifier token is recognized as a
// keyword by the parser.
func (tok *Token) SetTerminal(t Terminal) {
	tok.Terminal = t
}

func (tok *Token) String() string {
	if tok == nil {
		return "<nil token>"
	}
	name := "?"
	if tok.Terminal != nil {
		name = tok.Terminal.Name()
	}
	if tok.IsError() {
		return fmt.Sprintf("%s%v %s", name, tok.Location, tok.Value)
	}
	return fmt.Sprintf("%s%v %q", name, tok.Location, tok.Text)
}
