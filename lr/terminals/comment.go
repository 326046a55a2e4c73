package terminals

import (
	"github.com/npillmayer/lalr/lr"
)

// Comment is a terminal for comments. A comment starts with a start symbol and
// extends to one of the end symbols. Line comments end with "\n"; the line
// break is not part of the comment, so line-oriented grammars still see it.
//
// Comments are usually registered as non-grammar terminals:
//
//	g.AddNonGrammarTerminal(terminals.NewComment("comment", "//", "\n"))
//	g.AddNonGrammarTerminal(terminals.NewComment("block-comment", "/*", "*/"))
type Comment struct {
	lr.TerminalBase
	Start string
	End   []string
}

// NewComment creates a comment terminal.
func NewComment(name string, start string, ends ...string) *Comment {
	c := &Comment{
		TerminalBase: lr.MakeTerminalBase(name, lr.Comment, lr.HighPriority),
		Start:        start,
		End:          ends,
	}
	if !c.isLineComment() {
		c.SetFlag(lr.IsMultiline)
	}
	return c
}

func (c *Comment) isLineComment() bool {
	for _, e := range c.End {
		if e == "\n" || e == "\r\n" {
			return true
		}
	}
	return false
}

// Init is part of interface lr.Terminal.
func (c *Comment) Init(gd *lr.GrammarData) {}

// Firsts is part of interface lr.Terminal.
func (c *Comment) Firsts() []string {
	return []string{c.Start}
}

// TryMatch is part of interface lr.Terminal.
func (c *Comment) TryMatch(src lr.Source) *lr.Token {
	if !src.MatchSymbol(c.Start) {
		return nil
	}
	src.SetPreviewPosition(src.PreviewPosition() + len(c.Start))
	for !src.EOF() {
		for _, end := range c.End {
			if !src.MatchSymbol(end) {
				continue
			}
			if end != "\n" && end != "\r\n" {
				src.SetPreviewPosition(src.PreviewPosition() + len(end))
			}
			return src.CreateToken(c)
		}
		src.NextPreviewChar()
	}
	if c.isLineComment() {
		return src.CreateToken(c)
	}
	return src.CreateErrorToken("unterminated comment")
}
