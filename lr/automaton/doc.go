/*
Package automaton constructs LALR(1) parser automata.

Input is analysed grammar data (see package lr). Build creates the LR(0) states
by closure and shift operations, then computes lookaheads with the method of
DeRemer and Pennello: every transition over a non-terminal gets the terminals
directly readable after it, and transitions are related by "includes" and
"reads". The lookaheads of a reduce item are the union of the lookaheads of the
transitions it looks back to.

Conflicts are resolved in the following order:

 1. operator precedence and associativity (decided at parse time)
 2. grammar hints (preferred actions, token preview, custom code)
 3. otherwise the conflict is reported, and the parser will shift,
    or reduce the production declared first

Reduce-reduce conflicts are reported with level Conflict. If configuration key
"lalr.strict-reduce-reduce" is set, they are reported as errors instead.

The automaton may be exported as ACTION and GOTO tables, as HTML and text,
and as a GraphViz diagram.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package automaton

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.automaton")
}
