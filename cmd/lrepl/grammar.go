package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/ebnf"
	"github.com/npillmayer/lalr/lr/terminals"
)

// buildGrammar creates the grammar described by gc. If no grammar file is
// configured, the built-in expression grammar is returned and builtin is set.
func buildGrammar(gc GrammarConfig) (g *lr.Grammar, builtin bool, err error) {
	if gc.File == "" {
		return expressionGrammar(), true, nil
	}
	f, err := os.Open(gc.File)
	if err != nil {
		return nil, false, fmt.Errorf("grammar: %w", err)
	}
	defer f.Close()
	g, err = loadGrammar(gc.File, f, gc)
	return g, false, err
}

// expressionGrammar is used if no grammar file is given.
func expressionGrammar() *lr.Grammar {
	g := lr.NewGrammar("Arithmetic")
	num := terminals.NewNumber("number", terminals.AllowHex)
	E := g.NonTerminal("Expr")
	plus, minus := g.ToTerm("+"), g.ToTerm("-")
	times, div, pow := g.ToTerm("*"), g.ToTerm("/"), g.ToTerm("^")
	lp, rp := g.ToTerm("("), g.ToTerm(")")
	E.SetRule(g.Alt(
		g.Seq(E, plus, E),
		g.Seq(E, minus, E),
		g.Seq(E, times, E),
		g.Seq(E, div, E),
		g.Seq(E, pow, E),
		g.Seq(minus, E, g.ImplyPrecedenceHere(40, lr.Right)),
		g.Seq(lp, E, rp),
		num))
	g.RegisterOperators(10, lr.Left, plus, minus)
	g.RegisterOperators(20, lr.Left, times, div)
	g.RegisterOperators(30, lr.Right, pow)
	g.MarkPunctuation(lp, rp)
	g.RegisterBracePair("(", ")")
	g.AddOperatorReportGroup("operator")
	g.Root = E
	return g
}

// loadGrammar reads an EBNF grammar and applies the refinements of gc.
func loadGrammar(name string, src io.Reader, gc GrammarConfig) (*lr.Grammar, error) {
	bindings, err := gc.bindings()
	if err != nil {
		return nil, err
	}
	g, err := ebnf.Load(name, src, gc.Start, bindings)
	if err != nil {
		return nil, err
	}
	g.CaseSensitive = !gc.CaseInsensitive
	for _, op := range gc.Operators {
		assoc, err := associativity(op.Assoc)
		if err != nil {
			return nil, err
		}
		g.RegisterOperatorSymbols(op.Precedence, assoc, op.Symbols...)
	}
	g.MarkPunctuationSymbols(gc.Punctuation...)
	g.MarkReservedWords(gc.ReservedWords...)
	for _, pair := range gc.Braces {
		if len(pair) != 2 {
			return nil, fmt.Errorf("grammar %s: brace pair must have 2 symbols, has %d", name, len(pair))
		}
		g.RegisterBracePair(pair[0], pair[1])
	}
	if gc.OperatorGroup != "" {
		g.AddOperatorReportGroup(gc.OperatorGroup)
	}
	if gc.LineComment != "" {
		g.AddNonGrammarTerminal(terminals.NewComment("line-comment", gc.LineComment, "\n"))
	}
	switch len(gc.BlockComment) {
	case 0:
	case 2:
		g.AddNonGrammarTerminal(terminals.NewComment("block-comment", gc.BlockComment[0], gc.BlockComment[1]))
	default:
		return nil, fmt.Errorf("grammar %s: block comment needs start and end symbol", name)
	}
	return g, nil
}

// bindings creates terminals for the lexical productions named in the
// configuration.
func (gc GrammarConfig) bindings() (map[string]lr.Terminal, error) {
	bindings := make(map[string]lr.Terminal, len(gc.Terminals))
	for name, kind := range gc.Terminals {
		switch strings.ToLower(kind) {
		case "number":
			bindings[name] = terminals.NewNumber(name, terminals.AllowHex)
		case "integer":
			bindings[name] = terminals.NewNumber(name, terminals.IntOnly)
		case "identifier":
			bindings[name] = terminals.NewIdentifier(name)
		case "string":
			bindings[name] = terminals.NewStringLiteral(name, `"`)
		default:
			return nil, fmt.Errorf("terminal %s: unknown kind %q", name, kind)
		}
	}
	return bindings, nil
}

func associativity(a string) (lr.Associativity, error) {
	switch strings.ToLower(a) {
	case "", "left":
		return lr.Left, nil
	case "right":
		return lr.Right, nil
	case "neutral", "none":
		return lr.Neutral, nil
	}
	return lr.Neutral, fmt.Errorf("unknown associativity %q", a)
}
