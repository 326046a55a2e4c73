/*
Package parser executes LALR automata to parse input text.

A grammar is compiled once into LanguageData, which is read-only and may be
shared between parsers running in different goroutines:

	lang := parser.NewLanguageData(g)
	if !lang.CanParse() {
	    log.Fatal(lang.Errors)
	}
	p := parser.NewParser(lang)
	tree, err := p.Parse(ctx, "2+3*4", "input")

Parse returns a parse tree even for erroneous input. Syntax errors are not Go
errors, but are recorded as messages of the tree; the tree's status tells if
the input has been accepted. The only error returned is the one of a cancelled
context.

Parsers in command line mode accept incomplete input, i.e. input which would
be a prefix of a valid sentence. The status of the parse tree will then be
Partial, and clients may ask for more input.

Clients may observe the parser's actions by registering observers for terms:

	p.Observe(parser.Reduced, expr, func(ev *parser.Event) { … })

Tracing of parser actions is enabled by ParsingContext.TraceEnabled, or globally
by configuration key "lalr.trace-parse".

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.parser'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.parser")
}
