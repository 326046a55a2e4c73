/*
Package main provides an interactive command line tool (LREPL) for
experimenting with LALR grammars.

Without a grammar file, LREPL parses and evaluates arithmetic expressions.
A grammar may be given in EBNF notation, together with a TOML configuration
file declaring operators, punctuation and the terminals to bind to lexical
productions:

	[grammar]
	file = "calc.ebnf"
	start = "Program"
	punctuation = [ "(", ")", ";" ]
	operator-group = "operator"
	line-comment = "#"

	[[grammar.operators]]
	symbols = [ "+", "-" ]
	precedence = 10
	assoc = "left"

	[grammar.terminals]
	number = "number"
	ident = "identifier"

Input which ends prematurely is continued on the next line. Sub-commands
"parse" and "tables" parse files in batch mode and export the parser tables.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.cli'
func tracer() tracing.Trace {
	return tracing.Select("lalr.cli")
}
