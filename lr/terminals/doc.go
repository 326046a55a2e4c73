/*
Package terminals provides terminals for common kinds of tokens: numbers,
string literals, identifiers, comments, constants, free text and tokens
described by a regular expression.

All terminals implement lr.Terminal and may be used in rules like key terms:

	num := terminals.NewNumber("number")
	id := terminals.NewIdentifier("identifier")
	expr.SetRule(g.Alt(num, id, g.Seq(expr, g.ToTerm("+"), expr)))

Terminals convert the text of a token to a value where this makes sense.
Malformed input, e.g. an unterminated string, results in an error token, which
the parser will report.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package terminals

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.terminals'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.terminals")
}
