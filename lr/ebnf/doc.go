/*
Package ebnf creates grammars from EBNF text.

The notation is the one of the Go language specification, as implemented by
golang.org/x/exp/ebnf:

	Expr   = Term { ("+" | "-") Term } .
	Term   = number | "(" Expr ")" .
	number = digit { digit } .
	digit  = "0" … "9" .

Productions with an upper-case name become non-terminals. Productions with a
lower-case name are lexical: if a client binds a terminal to the name, this
terminal is used. Otherwise the production is translated to a regular
expression and matched by a regex terminal.

Repetitions create list non-terminals, options create optional terms. The
grammar returned may be refined by the client (operators, punctuation, report
groups) before it is compiled.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ebnf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.grammar")
}
