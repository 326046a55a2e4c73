package lr

import (
	"fmt"
	"strings"
)

// TermFlags is a bitset of properties of grammar terms.
type TermFlags uint32

// Flags for terms. Some are set by grammar authors through methods of Grammar,
// others are computed during grammar analysis.
const (
	IsOperator TermFlags = 1 << iota
	IsOpenBrace
	IsCloseBrace
	IsPunctuation
	IsNullable
	IsTransient
	IsKeyword
	IsReservedWord
	IsList
	IsListContainer
	IsNonGrammar
	IsConstant
	IsMultiline
	IsHint
	NoAstNode
	IsAugmentedRoot

	IsBrace = IsOpenBrace | IsCloseBrace
)

var flagNames = []string{"operator", "open-brace", "close-brace", "punctuation",
	"nullable", "transient", "keyword", "reserved", "list", "list-container",
	"non-grammar", "constant", "multiline", "hint", "no-ast", "augmented-root"}

func (f TermFlags) String() string {
	var names []string
	for i, n := range flagNames {
		if f&(1<<uint(i)) != 0 {
			names = append(names, n)
		}
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Associativity of operators.
type Associativity int8

// Operators may be left- or right-associative. Neutral operators are
// non-associative; a conflict between two of them of equal precedence results in a shift.
const (
	Neutral Associativity = iota
	Left
	Right
)

func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "neutral"
}

// NoPrecedence is the precedence of terms which are not operators.
const NoPrecedence = 0

// Term is the common interface of all grammar symbols: terminals, non-terminals,
// rule expressions and grammar hints.
type Term interface {
	Name() string
	Base() *TermBase
	String() string
}

// TermBase holds the data shared by all kinds of terms. Concrete term types embed it.
type TermBase struct {
	name       string
	flags      TermFlags
	precedence int
	assoc      Associativity
	errorAlias string
	index      int // index within GrammarData, per kind
}

func makeTermBase(name string, flags ...TermFlags) TermBase {
	tb := TermBase{name: name, index: -1}
	for _, f := range flags {
		tb.flags |= f
	}
	return tb
}

// Name returns the name of a term.
func (tb *TermBase) Name() string {
	return tb.name
}

// Base returns the shared part of a term.
func (tb *TermBase) Base() *TermBase {
	return tb
}

// Flags returns all flags set for a term.
func (tb *TermBase) Flags() TermFlags {
	return tb.flags
}

// Is checks if all of the flags in f are set.
func (tb *TermBase) Is(f TermFlags) bool {
	return tb.flags&f == f
}

// SetFlag sets flags for a term.
func (tb *TermBase) SetFlag(f TermFlags) {
	tb.flags |= f
}

// Precedence returns the operator precedence of a term, or NoPrecedence.
func (tb *TermBase) Precedence() int {
	return tb.precedence
}

// Associativity returns the operator associativity of a term.
func (tb *TermBase) Associativity() Associativity {
	return tb.assoc
}

// SetOperator gives a term a precedence and an associativity and flags it as an
// operator.
func (tb *TermBase) SetOperator(precedence int, assoc Associativity) {
	tb.precedence = precedence
	tb.assoc = assoc
	tb.flags |= IsOperator
}

// ErrorAlias is the name used for a term within syntax error messages.
// If no alias is set, the name is used.
func (tb *TermBase) ErrorAlias() string {
	if tb.errorAlias == "" {
		return tb.name
	}
	return tb.errorAlias
}

// SetErrorAlias sets the name used in syntax error messages.
func (tb *TermBase) SetErrorAlias(alias string) {
	tb.errorAlias = alias
}

// Index is the serial number of a term within its kind (terminals or non-terminals),
// assigned during grammar analysis. It is -1 for terms not part of an analysed grammar.
func (tb *TermBase) Index() int {
	return tb.index
}

func (tb *TermBase) String() string {
	return tb.name
}

// --- Non-terminals ---------------------------------------------------------

// NonTerminal is a grammar symbol defined by a rule. The rule is an expression
// of alternatives, each alternative being a sequence of terms. During grammar
// analysis every alternative becomes a Production.
type NonTerminal struct {
	TermBase
	Rule        *Expression
	Productions []*Production
}

// SetRule sets the rule of a non-terminal. t is either an expression created with
// Grammar.Seq or Grammar.Alt, or a single term.
func (nt *NonTerminal) SetRule(t Term) {
	nt.Rule = asExpression(t)
}

// Or adds alternatives to the rule of a non-terminal.
func (nt *NonTerminal) Or(t Term) {
	if nt.Rule == nil {
		nt.SetRule(t)
		return
	}
	nt.Rule.Alternatives = append(nt.Rule.Alternatives, asExpression(t).Alternatives...)
}

func (nt *NonTerminal) String() string {
	return nt.name
}

// RuleString prints the rule of a non-terminal in BNF-like notation.
func (nt *NonTerminal) RuleString() string {
	if nt.Rule == nil {
		return nt.name + " ::= <no rule>"
	}
	return nt.name + " ::= " + nt.Rule.String()
}

// --- Expressions -----------------------------------------------------------

// Expression is a rule expression: a list of alternatives, each of which is a
// sequence of terms. Expressions nested within a sequence are replaced by
// generated non-terminals during grammar analysis.
type Expression struct {
	TermBase
	Alternatives [][]Term
}

func asExpression(t Term) *Expression {
	if t == nil {
		panic("lr: nil term in rule expression")
	}
	if e, ok := t.(*Expression); ok {
		return e
	}
	return &Expression{
		TermBase:     makeTermBase(""),
		Alternatives: [][]Term{{t}},
	}
}

func (e *Expression) String() string {
	var b strings.Builder
	for i, alt := range e.Alternatives {
		if i > 0 {
			b.WriteString(" | ")
		}
		if len(alt) == 0 {
			b.WriteString("ε")
		}
		for j, t := range alt {
			if j > 0 {
				b.WriteByte(' ')
			}
			if x, ok := t.(*Expression); ok {
				fmt.Fprintf(&b, "(%s)", x.String())
				continue
			}
			b.WriteString(t.Name())
		}
	}
	return b.String()
}
