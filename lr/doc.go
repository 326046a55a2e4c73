/*
Package lr implements the grammar side of LALR parsing: terms, rules and the
analysis of grammars.

# Building a Grammar

Grammars are specified as a graph of terms, using a grammar object as the
context for all combinators. Terminals match input, non-terminals are defined
by rules, which are alternatives of sequences of terms.

Example:

	g := lr.NewGrammar("G")
	a, b := g.ToTerm("a"), g.ToTerm("b")
	S, A, B := g.NonTerminal("S"), g.NonTerminal("A"), g.NonTerminal("B")
	S.SetRule(g.Seq(A, a))        // S  ->  A a
	A.SetRule(g.Seq(B, B))        // A  ->  B B
	B.SetRule(g.Alt(b, g.Empty))  // B  ->  b | ε
	g.Root = S

Grammar hints may be placed within rule sequences to resolve conflicts
(see PreferShiftHere, ReduceHere, ReduceIf, ResolveInCode).

# Static Grammar Analysis

After the grammar is complete, it has to be analysed. BuildGrammarData
collects all terms reachable from the root, creates productions and LR(0) items
and determines all nullable non-terminals.

	errs := &lr.GrammarErrorList{}
	gd, err := lr.BuildGrammarData(g, errs)

	// gd.Productions:
	0: S' → S EOF
	1: S  → A a
	2: A  → B B
	3: B  → b
	4: B  → ε

Usually clients will not call BuildGrammarData directly, but rather create
language data with package parser, which compiles the complete parser.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.grammar")
}
