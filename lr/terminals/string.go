package terminals

import (
	"strconv"
	"strings"

	"github.com/npillmayer/lalr/lr"
)

// StringLiteral is a terminal for quoted strings. The token value is the
// string with quotes removed and escape sequences replaced.
//
// Supported escapes are the ones of Go string literals: \n, \t, \", \\, \x41,
// é etc. Strings may not span lines, unless the terminal is flagged as
// IsMultiline.
type StringLiteral struct {
	lr.TerminalBase
	Quotes    string // quote characters; a string ends with the quote it starts with
	NoEscapes bool
}

// NewStringLiteral creates a terminal for strings enclosed in one of the given
// quote characters. If quotes is empty, double quotes are used.
func NewStringLiteral(name string, quotes string, flags ...lr.TermFlags) *StringLiteral {
	if quotes == "" {
		quotes = `"`
	}
	s := &StringLiteral{
		TerminalBase: lr.MakeTerminalBase(name, lr.Content, lr.NormalPriority, flags...),
		Quotes:       quotes,
	}
	s.SetErrorAlias("string")
	return s
}

// Init is part of interface lr.Terminal.
func (s *StringLiteral) Init(gd *lr.GrammarData) {}

// Firsts is part of interface lr.Terminal.
func (s *StringLiteral) Firsts() []string {
	firsts := make([]string, 0, len(s.Quotes))
	for _, q := range s.Quotes {
		firsts = append(firsts, string(q))
	}
	return firsts
}

// TryMatch is part of interface lr.Terminal.
func (s *StringLiteral) TryMatch(src lr.Source) *lr.Token {
	quote := src.PreviewChar()
	if quote == lr.EOFChar || !strings.ContainsRune(s.Quotes, quote) {
		return nil
	}
	multiline := s.Is(lr.IsMultiline)
	var b strings.Builder
	for r := src.NextPreviewChar(); r != quote; {
		switch {
		case r == lr.EOFChar && src.EOF():
			return src.CreateErrorToken("unterminated string")
		case r == '\n' && !multiline:
			return src.CreateErrorToken("unterminated string")
		case r == '\\' && !s.NoEscapes:
			esc, ok := s.unescape(src, quote)
			if !ok {
				return src.CreateErrorToken("invalid escape sequence in string")
			}
			b.WriteString(esc)
			r = src.PreviewChar()
			continue
		}
		b.WriteRune(r)
		r = src.NextPreviewChar()
	}
	src.NextPreviewChar() // closing quote
	tok := src.CreateToken(s)
	tok.Value = lr.StringVal(b.String())
	return tok
}

// unescape reads an escape sequence starting at the backslash at the preview
// position and leaves the preview position after it.
func (s *StringLiteral) unescape(src lr.Source, quote rune) (string, bool) {
	start := src.PreviewPosition()
	r := src.NextPreviewChar()
	if r == quote {
		src.NextPreviewChar()
		return string(quote), true
	}
	length := 1
	switch r {
	case 'x':
		length = 3
	case 'u':
		length = 5
	case 'U':
		length = 9
	case '0', '1', '2', '3', '4', '5', '6', '7':
		length = 3
	}
	text := src.Text()
	end := src.PreviewPosition() + length
	if end > len(text) {
		return "", false
	}
	src.SetPreviewPosition(end)
	q := byte('"')
	if quote == '\'' {
		q = '\''
	}
	value, _, tail, err := strconv.UnquoteChar(text[start:end], q)
	if err != nil || tail != "" {
		return "", false
	}
	return string(value), true
}
