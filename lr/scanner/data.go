package scanner

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/lalr/lr"
)

// Data holds the tables of a scanner for a grammar. It is read-only after
// construction and may be shared between scanners.
type Data struct {
	Grammar *lr.GrammarData
	// terminals by first character, ordered by priority
	firstChars map[rune][]lr.Terminal
	// terminals without first characters; tried on every input
	fallback []lr.Terminal
	// non-grammar terminals (comments) by first character
	nonGrammar map[rune][]lr.Terminal
	// non-grammar terminals without first characters
	nonGrammarFallback []lr.Terminal
	// grammar terminals, ordered by priority
	all        []lr.Terminal
	whitespace map[rune]bool
	delimiters map[rune]bool
}

// BuildScannerData creates the scanner tables for a grammar.
func BuildScannerData(gd *lr.GrammarData) *Data {
	g := gd.Grammar
	data := &Data{
		Grammar:    gd,
		firstChars: make(map[rune][]lr.Terminal),
		nonGrammar: make(map[rune][]lr.Terminal),
		whitespace: runeSet(g.Whitespace),
		delimiters: runeSet(g.Delimiters),
	}
	if gd.UsesNewLine {
		delete(data.whitespace, '\n')
		delete(data.whitespace, '\r')
	}
	for _, t := range gd.Terminals {
		if t == g.EOF || t == g.SyntaxError {
			continue
		}
		target := data.firstChars
		if t.Base().Is(lr.IsNonGrammar) {
			target = data.nonGrammar
		} else {
			data.all = append(data.all, t)
		}
		firsts := t.Firsts()
		if len(firsts) == 0 {
			if t.Base().Is(lr.IsNonGrammar) {
				data.nonGrammarFallback = append(data.nonGrammarFallback, t)
			} else {
				data.fallback = append(data.fallback, t)
			}
			continue
		}
		for _, r := range firstRunes(firsts, g.CaseSensitive) {
			if !contains(target[r], t) {
				target[r] = append(target[r], t)
			}
		}
	}
	sortByPriority(data.all)
	sortByPriority(data.fallback)
	for r, list := range data.firstChars {
		data.firstChars[r] = append(list, data.fallback...)
		sortByPriority(data.firstChars[r])
	}
	sortByPriority(data.nonGrammarFallback)
	for r, list := range data.nonGrammar {
		data.nonGrammar[r] = append(list, data.nonGrammarFallback...)
		sortByPriority(data.nonGrammar[r])
	}
	tracer().Debugf("scanner data: %d first characters, %d fallback terminals",
		len(data.firstChars), len(data.fallback))
	return data
}

// Candidates returns the terminals to try for input starting with r, ordered
// by descending priority.
func (data *Data) Candidates(r rune) []lr.Terminal {
	if list, ok := data.firstChars[r]; ok {
		return list
	}
	return data.fallback
}

// nonGrammarCandidates returns the non-grammar terminals to try for input
// starting with r.
func (data *Data) nonGrammarCandidates(r rune) []lr.Terminal {
	if list, ok := data.nonGrammar[r]; ok {
		return list
	}
	return data.nonGrammarFallback
}

func (data *Data) isWhitespace(r rune) bool {
	return data.whitespace[r]
}

func (data *Data) isDelimiter(r rune) bool {
	return data.whitespace[r] || data.delimiters[r] || unicode.IsSpace(r)
}

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

func firstRunes(firsts []string, caseSensitive bool) []rune {
	var rs []rune
	for _, f := range firsts {
		r, _ := utf8.DecodeRuneInString(f)
		if r == utf8.RuneError {
			continue
		}
		rs = append(rs, r)
		if !caseSensitive {
			rs = append(rs, unicode.ToLower(r), unicode.ToUpper(r))
		}
	}
	return rs
}

func contains(list []lr.Terminal, t lr.Terminal) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// sortByPriority sorts terminals by descending priority. Terminals of equal
// priority stay in grammar order.
func sortByPriority(list []lr.Terminal) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Info().Priority > list[j].Info().Priority
	})
}
