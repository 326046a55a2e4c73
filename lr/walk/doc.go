/*
Package walk traverses parse trees with listeners, e.g. to create an AST.

A Cursor is a movable mark within a parse tree. Clients may navigate it
explicitly (Down, Sibling, Up) or let it traverse a sub-tree, calling the
methods of a Listener:

	value := walk.NewCursor(tree, nil).TopDown(listener, walk.LtoR, walk.Continue)

Values returned by the listener for child nodes are available to ExitRule of
the parent, and are stored as the AstNode of each node visited.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package walk

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.parser'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.parser")
}
