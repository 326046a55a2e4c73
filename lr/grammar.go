package lr

import (
	"fmt"
)

// Grammar is the context for building a term graph. All combinators are methods
// of Grammar, so there is no hidden global state involved in defining a grammar.
//
// Example, an expression grammar:
//
//	g := lr.NewGrammar("Expressions")
//	num := terminals.NewNumber("number")
//	expr := g.NonTerminal("Expr")
//	plus, times := g.ToTerm("+"), g.ToTerm("*")
//	expr.SetRule(g.Alt(g.Seq(expr, plus, expr), g.Seq(expr, times, expr), num))
//	g.RegisterOperators(10, lr.Left, plus)
//	g.RegisterOperators(20, lr.Left, times)
//	g.Root = expr
//
// After a grammar has been compiled into language data, it must not be changed
// any more.
type Grammar struct {
	Name          string
	Root          *NonTerminal
	CaseSensitive bool
	// Whitespace lists the characters skipped between tokens.
	Whitespace string
	// Delimiters lists the characters where the scanner re-synchronizes after an error,
	// in addition to whitespace.
	Delimiters string
	// SkipWhitespace, if set, replaces the default whitespace skipping.
	SkipWhitespace func(src Source)
	// FatalLevel is the lowest error level stopping grammar compilation.
	FatalLevel GrammarErrorLevel

	EOF         Terminal
	Empty       Terminal
	SyntaxError Terminal
	NewLine     Terminal

	NonGrammarTerminals []Terminal
	ReportGroups        []*ReportGroup

	snippetRoots []*NonTerminal
	keyTerms     map[string]*KeyTerm
	reserved     []string
	optionals    map[Term]*NonTerminal
	autoCount    int
}

// NewGrammar creates an empty grammar.
func NewGrammar(name string) *Grammar {
	g := &Grammar{
		Name:          name,
		CaseSensitive: true,
		Whitespace:    " \t\r\n\v\f",
		Delimiters:    ",;[](){}",
		FatalLevel:    Error,
		keyTerms:      make(map[string]*KeyTerm),
		optionals:     make(map[Term]*NonTerminal),
	}
	g.EOF = newSpecialTerminal("EOF", Outline)
	g.Empty = newSpecialTerminal("EMPTY", Content)
	g.SyntaxError = newSpecialTerminal("SYNTAX_ERROR", ErrorCategory)
	nl := &NewLineTerminal{MakeTerminalBase("LF", Outline, NormalPriority)}
	nl.SetErrorAlias("[line break]")
	g.NewLine = nl
	return g
}

// NonTerminal creates a new non-terminal. If name is empty, a name will be
// generated during grammar analysis.
func (g *Grammar) NonTerminal(name string, flags ...TermFlags) *NonTerminal {
	return &NonTerminal{TermBase: makeTermBase(name, flags...)}
}

// ToTerm returns the key term for a text. Every text has exactly one key term
// per grammar.
func (g *Grammar) ToTerm(text string) *KeyTerm {
	return g.ToTermNamed(text, text)
}

// ToTermNamed returns the key term for a text. If the key term is created, it is
// named name.
func (g *Grammar) ToTermNamed(text, name string) *KeyTerm {
	if text == "" {
		panic("lr: key term with empty text")
	}
	if kt, ok := g.keyTerms[text]; ok {
		return kt
	}
	kt := newKeyTerm(text, name)
	g.keyTerms[text] = kt
	return kt
}

// AddSnippetRoot adds an alternative root. Input may be parsed starting from
// a snippet root instead of the grammar root.
func (g *Grammar) AddSnippetRoot(nt *NonTerminal) {
	g.snippetRoots = append(g.snippetRoots, nt)
}

// SnippetRoots returns the alternative roots.
func (g *Grammar) SnippetRoots() []*NonTerminal {
	return g.snippetRoots
}

// AddNonGrammarTerminal registers a terminal matched outside of the grammar rules,
// e.g. comments. Its tokens will be attached to the following content token.
func (g *Grammar) AddNonGrammarTerminal(t Terminal) {
	t.Base().SetFlag(IsNonGrammar)
	g.NonGrammarTerminals = append(g.NonGrammarTerminals, t)
}

// --- Combinators -----------------------------------------------------------

// Seq creates a sequence of terms. Sequences nested as arguments are spliced in;
// expressions with alternatives are kept as a nested group.
func (g *Grammar) Seq(terms ...Term) *Expression {
	seq := make([]Term, 0, len(terms))
	for _, t := range terms {
		if t == nil {
			panic("lr: nil term in sequence")
		}
		if e, ok := t.(*Expression); ok && len(e.Alternatives) == 1 {
			seq = append(seq, e.Alternatives[0]...)
			continue
		}
		seq = append(seq, t)
	}
	return &Expression{TermBase: makeTermBase(""), Alternatives: [][]Term{seq}}
}

// Alt creates alternatives of terms. Expression arguments contribute all of their
// alternatives.
func (g *Grammar) Alt(terms ...Term) *Expression {
	e := &Expression{TermBase: makeTermBase("")}
	for _, t := range terms {
		if t == nil {
			panic("lr: nil term in alternatives")
		}
		if x, ok := t.(*Expression); ok {
			e.Alternatives = append(e.Alternatives, x.Alternatives...)
			continue
		}
		e.Alternatives = append(e.Alternatives, []Term{t})
	}
	return e
}

// Q makes a term optional. It returns a non-terminal "t?" with rule t | ε.
func (g *Grammar) Q(t Term) *NonTerminal {
	if nt, ok := g.optionals[t]; ok {
		return nt
	}
	name := ""
	if t.Name() != "" {
		name = t.Name() + "?"
	}
	nt := g.NonTerminal(name)
	nt.SetRule(g.Alt(g.Empty, t))
	g.optionals[t] = nt
	return nt
}

// ListOptions modify the list rules created by MakeListRule.
type ListOptions uint8

// Options for lists.
const (
	AllowEmpty ListOptions = 1 << iota
	AllowTrailingDelimiter
)

// MakePlusRule sets the rule of list to one or more occurrences of member,
// separated by delim (which may be nil).
func (g *Grammar) MakePlusRule(list *NonTerminal, delim Term, member Term) *NonTerminal {
	return g.MakeListRule(list, delim, member, 0)
}

// MakeStarRule sets the rule of list to zero or more occurrences of member,
// separated by delim (which may be nil).
func (g *Grammar) MakeStarRule(list *NonTerminal, delim Term, member Term) *NonTerminal {
	return g.MakeListRule(list, delim, member, AllowEmpty)
}

// MakeListRule creates the left-recursive rules for a list. Lists appear flat
// within the parse tree.
//
//	list  ::= member | list delim member                 (plus, no options)
//	list  ::= ε | list member                            (star, without delimiter)
//	list  ::= ε | list+ | list+ delim                    (star, trailing delimiter)
func (g *Grammar) MakeListRule(list *NonTerminal, delim Term, member Term, opts ListOptions) *NonTerminal {
	if list == nil || member == nil {
		panic("lr: list rule needs a list and a member term")
	}
	if delim == nil && opts&AllowEmpty != 0 {
		list.SetFlag(IsList)
		list.SetRule(g.Alt(g.Empty, g.Seq(list, member)))
		return list
	}
	if delim == nil && opts == 0 {
		list.SetFlag(IsList)
		list.SetRule(g.Alt(member, g.Seq(list, member)))
		return list
	}
	if delim != nil && opts == 0 {
		list.SetFlag(IsList)
		list.SetRule(g.Alt(member, g.Seq(list, delim, member)))
		return list
	}
	plus := g.NonTerminal(list.Name() + "+")
	g.MakeListRule(plus, delim, member, 0)
	list.SetFlag(IsListContainer)
	alts := []Term{plus}
	if opts&AllowEmpty != 0 {
		alts = append([]Term{g.Empty}, alts...)
	}
	if delim != nil && opts&AllowTrailingDelimiter != 0 {
		alts = append(alts, g.Seq(plus, delim))
	}
	list.SetRule(g.Alt(alts...))
	return list
}

// --- Term properties -------------------------------------------------------

// RegisterOperators sets precedence and associativity for operator terms.
// Higher values bind tighter.
func (g *Grammar) RegisterOperators(precedence int, assoc Associativity, ops ...Term) {
	for _, op := range ops {
		op.Base().SetOperator(precedence, assoc)
	}
}

// RegisterOperatorSymbols is like RegisterOperators for key term texts.
func (g *Grammar) RegisterOperatorSymbols(precedence int, assoc Associativity, symbols ...string) {
	for _, s := range symbols {
		g.ToTerm(s).SetOperator(precedence, assoc)
	}
}

// RegisterBracePair declares open and close to be matching braces. The parser
// checks that braces are balanced.
func (g *Grammar) RegisterBracePair(openSym, closeSym string) {
	o, c := g.ToTerm(openSym), g.ToTerm(closeSym)
	o.SetFlag(IsOpenBrace)
	c.SetFlag(IsCloseBrace)
	o.PairFor, c.PairFor = c, o
}

// MarkPunctuation flags terms as punctuation. Punctuation tokens are not
// included as children in parse tree nodes.
func (g *Grammar) MarkPunctuation(terms ...Term) {
	for _, t := range terms {
		t.Base().SetFlag(IsPunctuation)
	}
}

// MarkPunctuationSymbols is like MarkPunctuation for key term texts.
func (g *Grammar) MarkPunctuationSymbols(symbols ...string) {
	for _, s := range symbols {
		g.ToTerm(s).SetFlag(IsPunctuation)
	}
}

// MarkTransient flags non-terminals as transient. A node for a transient
// non-terminal is replaced by its single child in the parse tree.
func (g *Grammar) MarkTransient(nts ...*NonTerminal) {
	for _, nt := range nts {
		nt.SetFlag(IsTransient)
	}
}

// MarkReservedWords declares key words to be reserved. Reserved words are never
// scanned as identifiers.
func (g *Grammar) MarkReservedWords(words ...string) {
	for _, w := range words {
		kt := g.ToTerm(w)
		kt.SetFlag(IsReservedWord | IsKeyword)
		kt.Priority = ReservedWordsPriority
		g.reserved = append(g.reserved, w)
	}
}

// --- Report groups ---------------------------------------------------------

// ReportGroupKind distinguishes kinds of report groups.
type ReportGroupKind int8

// A report group either lists terms explicitly, collects all operators, or
// suppresses terms from syntax error messages.
const (
	TermsGroup ReportGroupKind = iota
	OperatorGroup
	NoReportGroup
)

// ReportGroup summarizes terms in syntax error messages. If any of the terms is
// expected, Alias is reported instead of the terms.
type ReportGroup struct {
	Alias string
	Kind  ReportGroupKind
	Terms []Term
}

// AddTermsReportGroup creates a report group for a list of terms.
func (g *Grammar) AddTermsReportGroup(alias string, terms ...Term) *ReportGroup {
	rg := &ReportGroup{Alias: alias, Kind: TermsGroup, Terms: terms}
	g.ReportGroups = append(g.ReportGroups, rg)
	return rg
}

// AddOperatorReportGroup creates a report group of all the terms flagged as
// operators. Its members are collected during grammar analysis.
func (g *Grammar) AddOperatorReportGroup(alias string) *ReportGroup {
	rg := &ReportGroup{Alias: alias, Kind: OperatorGroup}
	g.ReportGroups = append(g.ReportGroups, rg)
	return rg
}

// AddToNoReportGroup excludes terms from syntax error messages.
func (g *Grammar) AddToNoReportGroup(terms ...Term) *ReportGroup {
	rg := &ReportGroup{Kind: NoReportGroup, Terms: terms}
	g.ReportGroups = append(g.ReportGroups, rg)
	return rg
}

func (g *Grammar) autoName(prefix string) string {
	g.autoCount++
	return fmt.Sprintf("%s%d", prefix, g.autoCount)
}
