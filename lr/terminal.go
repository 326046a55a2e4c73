package lr

import (
	"strings"
	"unicode"
)

// TokenCategory classifies terminals and their tokens.
type TokenCategory int8

// Token categories. Only Content tokens are passed on to the parser; the other
// categories are out-of-band for the grammar.
const (
	Content TokenCategory = iota
	Outline
	Comment
	Directive
	ErrorCategory
)

func (c TokenCategory) String() string {
	switch c {
	case Content:
		return "content"
	case Outline:
		return "outline"
	case Comment:
		return "comment"
	case Directive:
		return "directive"
	}
	return "error"
}

// Priorities for terminals. If two terminals match input of the same length,
// the one with higher priority wins.
const (
	LowestPriority        = -1000
	LowPriority           = -100
	NormalPriority        = 0
	ReservedWordsPriority = 900
	HighPriority          = 1000
)

// Terminal is a grammar symbol matching raw input.
//
// Firsts returns the set of strings a match may start with. If Firsts is empty,
// the terminal will be tried for any input character.
//
// TryMatch tries to recognize a token at the current position of src. It
// advances src's preview position over the match and creates a token with
// src.CreateToken. If the terminal does not match, it returns nil.
// A terminal may return an error token (see Source.CreateErrorToken) if input
// starts like the terminal but is malformed.
type Terminal interface {
	Term
	Info() *TerminalBase
	Firsts() []string
	TryMatch(src Source) *Token
	Init(gd *GrammarData)
}

// TerminalBase holds the data common to all terminals.
type TerminalBase struct {
	TermBase
	Category TokenCategory
	Priority int
	output   Terminal // if set, tokens are labeled with this terminal
}

// MakeTerminalBase creates the base of a terminal. It is intended for implementations
// of terminals outside of this package.
func MakeTerminalBase(name string, category TokenCategory, priority int, flags ...TermFlags) TerminalBase {
	return TerminalBase{
		TermBase: makeTermBase(name, flags...),
		Category: category,
		Priority: priority,
	}
}

// Info returns the terminal data.
func (tb *TerminalBase) Info() *TerminalBase {
	return tb
}

// SetOutputTerminal lets tokens of a terminal appear as tokens of another one,
// e.g. quoted identifiers appearing as identifiers.
func (tb *TerminalBase) SetOutputTerminal(t Terminal) {
	tb.output = t
}

// OutputOf returns the terminal tokens of t are labeled with: t itself by default.
func OutputOf(t Terminal) Terminal {
	if out := t.Info().output; out != nil {
		return out
	}
	return t
}

// --- Key terms -------------------------------------------------------------

// KeyTerm is a terminal matching a fixed string: keywords, operators and
// punctuation. Key terms are created by Grammar.ToTerm, which makes sure
// that there is exactly one key term per text.
type KeyTerm struct {
	TerminalBase
	Text          string
	PairFor       *KeyTerm // matching brace
	caseSensitive bool
	keyword       bool
}

func newKeyTerm(text, name string) *KeyTerm {
	kt := &KeyTerm{
		TerminalBase:  MakeTerminalBase(name, Content, HighPriority),
		Text:          text,
		caseSensitive: true,
	}
	if isWordLike(text) {
		kt.keyword = true
		kt.SetFlag(IsKeyword)
	}
	return kt
}

func isWordLike(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

// Init is part of interface Terminal.
func (kt *KeyTerm) Init(gd *GrammarData) {
	kt.caseSensitive = gd.Grammar.CaseSensitive
}

// Firsts is part of interface Terminal.
func (kt *KeyTerm) Firsts() []string {
	return []string{kt.Text}
}

// TryMatch is part of interface Terminal. Keywords match only if not followed
// immediately by a letter or digit.
func (kt *KeyTerm) TryMatch(src Source) *Token {
	if !src.MatchSymbol(kt.Text) {
		return nil
	}
	src.SetPreviewPosition(src.PreviewPosition() + len(kt.Text))
	if kt.keyword {
		if r := src.PreviewChar(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return nil
		}
	}
	return src.CreateToken(kt)
}

// Matches checks if a text is equal to the key term's text, respecting case sensitivity.
func (kt *KeyTerm) Matches(text string) bool {
	if kt.caseSensitive {
		return text == kt.Text
	}
	return strings.EqualFold(text, kt.Text)
}

func (kt *KeyTerm) String() string {
	if kt.name == kt.Text {
		return kt.Text
	}
	return kt.name
}

// --- Grammar-owned terminals -----------------------------------------------

// specialTerminal is used for EOF, Empty and SyntaxError. These never match input
// directly; the scanner creates their tokens.
type specialTerminal struct {
	TerminalBase
}

func newSpecialTerminal(name string, category TokenCategory, flags ...TermFlags) *specialTerminal {
	return &specialTerminal{MakeTerminalBase(name, category, NormalPriority, flags...)}
}

func (st *specialTerminal) Init(gd *GrammarData)       {}
func (st *specialTerminal) Firsts() []string           { return nil }
func (st *specialTerminal) TryMatch(src Source) *Token { return nil }

// NewLineTerminal matches a line break. It is used by line-oriented grammars;
// if it is reachable from the grammar root, the scanner will not skip
// newline characters as whitespace.
type NewLineTerminal struct {
	TerminalBase
}

// Init is part of interface Terminal.
func (nl *NewLineTerminal) Init(gd *GrammarData) {}

// Firsts is part of interface Terminal.
func (nl *NewLineTerminal) Firsts() []string {
	return []string{"\n", "\r"}
}

// TryMatch is part of interface Terminal.
func (nl *NewLineTerminal) TryMatch(src Source) *Token {
	pos := src.PreviewPosition()
	switch src.PreviewChar() {
	case '\n':
		src.SetPreviewPosition(pos + 1)
	case '\r':
		src.SetPreviewPosition(pos + 1)
		if src.PreviewChar() == '\n' {
			src.SetPreviewPosition(pos + 2)
		}
	default:
		return nil
	}
	return src.CreateToken(nl)
}
