/*
Package lalr is a parser-generator runtime for LALR(1) grammars.

Grammars are written in Go as a graph of terms, built with a small set of
combinators. From such a grammar the toolbox compiles an LALR automaton and
drives it over source text, producing a concrete parse tree together with
diagnostics. Package structure is as follows:

■ lr: Package lr contains the term graph, the grammar builder and the grammar
analysis (reachable terms, productions, LR(0) items, nullability).

■ lr/automaton: Package automaton builds the LALR parser states, computes lookaheads
and resolves conflicts.

■ lr/scanner: Package scanner tokenizes input, cooperating with the parser on the set
of expected terminals.

■ lr/terminals: Package terminals provides ready-made terminals for numbers, strings,
identifiers, comments and regular expressions.

■ lr/parser: Package parser executes the automaton and creates parse trees.

■ lr/walk: Package walk traverses parse trees and computes values with listeners.

■ lr/ebnf: Package ebnf loads grammars written in EBNF notation.

■ cmd/lrepl: An interactive playground for grammars.

The base package contains data types which are used throughout all the other packages.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lalr
