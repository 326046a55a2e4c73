/*
Package scanner tokenizes input for LALR parsers.

Scanner tables are built once per grammar with BuildScannerData: terminals are
indexed by the first characters they may match and ordered by priority.
A Scanner then reads tokens from a source text. Before each token, whitespace is
skipped and non-grammar tokens (comments) are collected; these are attached to
the following token.

The parser tells the scanner which terminals are expected in its current state.
Only expected terminals are tried, unless none of them fits the input. Of all
matches, the longest one wins; for matches of equal length the terminal with
higher priority wins.

Parsers may read ahead without consuming input:

	sc.BeginPreview()
	tok := sc.PreviewToken()
	…
	sc.EndPreview(false)  // rewind

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.scanner")
}
