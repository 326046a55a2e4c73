package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/automaton"
)

// Status is the state of a parse.
type Status int8

// A parse tree is Parsing while the parser runs. Partial denotes incomplete,
// but so far valid input in command line mode.
const (
	Parsing Status = iota
	Partial
	Parsed
	Error
)

func (s Status) String() string {
	switch s {
	case Parsing:
		return "parsing"
	case Partial:
		return "partial"
	case Parsed:
		return "parsed"
	}
	return "error"
}

// ParseTree is the result of a parse.
//
// Tokens holds all tokens the parser read, in input order. ParserMessages are
// the diagnostics of the parse, at most MaxErrors of level error.
type ParseTree struct {
	Root           *ParseTreeNode
	SourceText     string
	FileName       string
	Tokens         []*lr.Token
	ParserMessages []lr.LogMessage
	Status         Status
	ParseTime      time.Duration
	Trace          []TraceEntry
}

func newParseTree(text, fileName string) *ParseTree {
	return &ParseTree{
		SourceText: text,
		FileName:   fileName,
		Status:     Parsing,
	}
}

// ParseTimeMilliseconds returns the time the parse took.
func (tree *ParseTree) ParseTimeMilliseconds() int64 {
	return tree.ParseTime.Milliseconds()
}

// HasErrors is true if the tree carries messages of level error.
func (tree *ParseTree) HasErrors() bool {
	for _, m := range tree.ParserMessages {
		if m.Level == lr.ErrorMessage {
			return true
		}
	}
	return false
}

func (tree *ParseTree) errorCount() int {
	n := 0
	for _, m := range tree.ParserMessages {
		if m.Level == lr.ErrorMessage {
			n++
		}
	}
	return n
}

// ParseTreeNode is a node of a parse tree. Leaf nodes carry a Token, inner
// nodes the Production they were reduced by.
//
// AstNode is not used by the parser; it is free for clients building abstract
// syntax trees from parse trees.
type ParseTreeNode struct {
	Term       lr.Term
	Token      *lr.Token
	Production *lr.Production
	Children   []*ParseTreeNode
	Location   lalr.Location
	Span       lalr.Span
	AstNode    interface{}
	state      *automaton.ParserState // state after pushing the node onto the stack
}

func newTokenNode(tok *lr.Token) *ParseTreeNode {
	return &ParseTreeNode{
		Term:     tok.Terminal,
		Token:    tok,
		Location: tok.Location,
		Span:     tok.Span(),
	}
}

// IsLeaf is true for nodes representing tokens.
func (node *ParseTreeNode) IsLeaf() bool {
	return node.Token != nil
}

// IsError is true for nodes inserted by error recovery, and for error tokens.
func (node *ParseTreeNode) IsError() bool {
	return node.Token != nil && node.Token.IsError()
}

// Text returns the source text covered by the node.
func (node *ParseTreeNode) Text(tree *ParseTree) string {
	from, to := int(node.Span.From()), int(node.Span.To())
	if to > len(tree.SourceText) || from > to {
		return ""
	}
	return tree.SourceText[from:to]
}

func (node *ParseTreeNode) String() string {
	if node.Token != nil {
		return node.Token.String()
	}
	if node.Term == nil {
		return "<stack bottom>"
	}
	return fmt.Sprintf("%s%v", node.Term.Name(), node.Location)
}

// Sexpr prints a tree as an S-expression. Leaves are printed as their text,
// inner nodes with more than one child in parentheses.
func (node *ParseTreeNode) Sexpr() string {
	var b strings.Builder
	node.sexpr(&b)
	return b.String()
}

func (node *ParseTreeNode) sexpr(b *strings.Builder) {
	if node.Token != nil {
		b.WriteString(node.Token.Text)
		return
	}
	if len(node.Children) == 1 {
		node.Children[0].sexpr(b)
		return
	}
	b.WriteByte('(')
	for i, ch := range node.Children {
		if i > 0 {
			b.WriteByte(' ')
		}
		ch.sexpr(b)
	}
	b.WriteByte(')')
}

// --- Trace -----------------------------------------------------------------

// TraceEntry records a step of the parser.
type TraceEntry struct {
	State   string
	Stack   string
	Input   string
	Action  string
	IsError bool
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("%-6s [%s] %-16s %s", e.State, e.Stack, e.Input, e.Action)
}
