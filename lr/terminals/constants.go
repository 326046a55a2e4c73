package terminals

import (
	"sort"

	"github.com/npillmayer/lalr/lr"
)

// Constants is a terminal for a fixed set of named values, like "true",
// "false" and "nil". The token value is the value registered for the text.
type Constants struct {
	lr.TerminalBase
	values map[string]lr.TokenValue
	texts  []string // longest first
}

// NewConstants creates an empty constants terminal.
func NewConstants(name string) *Constants {
	return &Constants{
		TerminalBase: lr.MakeTerminalBase(name, lr.Content, lr.HighPriority, lr.IsConstant),
		values:       make(map[string]lr.TokenValue),
	}
}

// Add registers a constant. It returns c, to allow chaining.
func (c *Constants) Add(text string, value lr.TokenValue) *Constants {
	if _, ok := c.values[text]; !ok {
		c.texts = append(c.texts, text)
		sortLongestFirst(c.texts)
	}
	c.values[text] = value
	return c
}

// Init is part of interface lr.Terminal.
func (c *Constants) Init(gd *lr.GrammarData) {}

// Firsts is part of interface lr.Terminal.
func (c *Constants) Firsts() []string {
	return c.texts
}

// TryMatch is part of interface lr.Terminal. Constants consisting of letters
// must not be followed by a letter or digit.
func (c *Constants) TryMatch(src lr.Source) *lr.Token {
	start := src.PreviewPosition()
	for _, text := range c.texts {
		if !src.MatchSymbol(text) {
			continue
		}
		src.SetPreviewPosition(start + len(text))
		if isWordChar(lastRune(text)) && isWordChar(src.PreviewChar()) {
			src.SetPreviewPosition(start)
			continue
		}
		return src.CreateTokenWithValue(c, c.values[text])
	}
	return nil
}

func sortLongestFirst(s []string) {
	sort.SliceStable(s, func(i, j int) bool {
		return len(s[i]) > len(s[j])
	})
}

func isWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
