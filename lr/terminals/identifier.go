package terminals

import (
	"unicode"

	"github.com/npillmayer/lalr/lr"
)

// Identifier is a terminal for names: a letter or underscore, followed by
// letters, digits and underscores. With AllowUnicode set, letters may be any
// Unicode letters, otherwise they are restricted to ASCII.
//
// If the text of an identifier is a key term of the grammar, the token
// references that key term. Reserved words are labeled as the key term
// immediately, other keywords are left to the parser to decide.
type Identifier struct {
	lr.TerminalBase
	AllowUnicode bool
	ExtraChars   string // additional characters allowed after the first one, e.g. "-"
	gd           *lr.GrammarData
}

// NewIdentifier creates an identifier terminal.
func NewIdentifier(name string) *Identifier {
	id := &Identifier{TerminalBase: lr.MakeTerminalBase(name, lr.Content, lr.NormalPriority)}
	id.SetErrorAlias("identifier")
	return id
}

// Init is part of interface lr.Terminal.
func (id *Identifier) Init(gd *lr.GrammarData) {
	id.gd = gd
}

// Firsts is part of interface lr.Terminal. Unicode identifiers do not report
// first characters, which makes the scanner try them on every input.
func (id *Identifier) Firsts() []string {
	if id.AllowUnicode {
		return nil
	}
	firsts := make([]string, 0, 53)
	for c := 'a'; c <= 'z'; c++ {
		firsts = append(firsts, string(c), string(unicode.ToUpper(c)))
	}
	return append(firsts, "_")
}

func (id *Identifier) isLetter(r rune) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return id.AllowUnicode && unicode.IsLetter(r)
}

func (id *Identifier) isPart(r rune) bool {
	if id.isLetter(r) || (r >= '0' && r <= '9') {
		return true
	}
	if id.AllowUnicode && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)) {
		return true
	}
	for _, c := range id.ExtraChars {
		if c == r {
			return true
		}
	}
	return false
}

// TryMatch is part of interface lr.Terminal.
func (id *Identifier) TryMatch(src lr.Source) *lr.Token {
	if !id.isLetter(src.PreviewChar()) {
		return nil
	}
	for r := src.NextPreviewChar(); r != lr.EOFChar && id.isPart(r); {
		r = src.NextPreviewChar()
	}
	tok := src.CreateToken(id)
	tok.Value = lr.StringVal(tok.Text)
	if id.gd == nil {
		return tok
	}
	if kt, ok := id.gd.FindKeyTerm(tok.Text); ok {
		tok.KeyTerm = kt
		if kt.Is(lr.IsReservedWord) {
			tracer().Debugf("identifier %q is a reserved word", tok.Text)
			tok.SetTerminal(kt)
		}
	}
	return tok
}
