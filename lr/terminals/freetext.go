package terminals

import (
	"strings"

	"github.com/npillmayer/lalr/lr"
)

// FreeText is a terminal for arbitrary text up to a terminator, e.g. the
// text parts of a template language. The terminator is not part of the token.
// Escapes maps escape sequences within the text to their replacements.
type FreeText struct {
	lr.TerminalBase
	Terminators []string
	Escapes     map[string]string
	AllowEOF    bool // text may extend to the end of input
}

// NewFreeText creates a free text terminal.
func NewFreeText(name string, terminators ...string) *FreeText {
	return &FreeText{
		TerminalBase: lr.MakeTerminalBase(name, lr.Content, lr.LowPriority),
		Terminators:  terminators,
		Escapes:      make(map[string]string),
	}
}

// Init is part of interface lr.Terminal.
func (ft *FreeText) Init(gd *lr.GrammarData) {}

// Firsts is part of interface lr.Terminal. Free text may start with anything.
func (ft *FreeText) Firsts() []string {
	return nil
}

// TryMatch is part of interface lr.Terminal.
func (ft *FreeText) TryMatch(src lr.Source) *lr.Token {
	var b strings.Builder
	escapes := ft.sortedEscapes()
	for !src.EOF() {
		if ft.atTerminator(src) {
			break
		}
		if esc, repl, ok := matchEscape(src, escapes, ft.Escapes); ok {
			src.SetPreviewPosition(src.PreviewPosition() + len(esc))
			b.WriteString(repl)
			continue
		}
		b.WriteRune(src.PreviewChar())
		src.NextPreviewChar()
	}
	if src.EOF() && !ft.AllowEOF {
		return nil
	}
	tok := src.CreateToken(ft)
	if tok.Length == 0 {
		return nil
	}
	tok.Value = lr.StringVal(b.String())
	return tok
}

func (ft *FreeText) atTerminator(src lr.Source) bool {
	for _, t := range ft.Terminators {
		if src.MatchSymbol(t) {
			return true
		}
	}
	return false
}

// sortedEscapes returns the escape sequences, longest first.
func (ft *FreeText) sortedEscapes() []string {
	if len(ft.Escapes) == 0 {
		return nil
	}
	escapes := make([]string, 0, len(ft.Escapes))
	for e := range ft.Escapes {
		escapes = append(escapes, e)
	}
	sortLongestFirst(escapes)
	return escapes
}

func matchEscape(src lr.Source, escapes []string, repl map[string]string) (string, string, bool) {
	for _, e := range escapes {
		if src.MatchSymbol(e) {
			return e, repl[e], true
		}
	}
	return "", "", false
}
