package ebnf

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/terminals"
	"golang.org/x/exp/ebnf"
)

// maxRangeFirsts limits the number of first characters enumerated for a
// character range.
const maxRangeFirsts = 256

// Load reads an EBNF grammar from src and creates a grammar rooted at the
// production named start. bindings maps names of lexical productions to
// terminals; it may be nil.
func Load(name string, src io.Reader, start string, bindings map[string]lr.Terminal) (*lr.Grammar, error) {
	syntax, err := ebnf.Parse(name, src)
	if err != nil {
		return nil, fmt.Errorf("parse grammar %s: %w", name, err)
	}
	if err := ebnf.Verify(syntax, start); err != nil {
		return nil, fmt.Errorf("verify grammar %s: %w", name, err)
	}
	if isLexical(start) {
		return nil, fmt.Errorf("grammar %s: start production %q is lexical", name, start)
	}
	ld := &loader{
		g:         lr.NewGrammar(name),
		syntax:    syntax,
		bindings:  bindings,
		nts:       make(map[string]*lr.NonTerminal),
		terminals: make(map[string]lr.Terminal),
	}
	var names []string // sorted for stable naming of generated terms
	for pname := range syntax {
		if !isLexical(pname) {
			ld.nts[pname] = ld.g.NonTerminal(pname)
			names = append(names, pname)
		}
	}
	sort.Strings(names)
	for _, pname := range names {
		t, err := ld.term(pname, syntax[pname].Expr)
		if err != nil {
			return nil, fmt.Errorf("grammar %s, production %s: %w", name, pname, err)
		}
		ld.nts[pname].SetRule(t)
	}
	ld.g.Root = ld.nts[start]
	tracer().Debugf("loaded grammar %s with %d non-terminals, %d lexical terminals",
		name, len(ld.nts), len(ld.terminals))
	return ld.g, nil
}

// LoadString is like Load for a grammar held in a string.
func LoadString(name, src, start string, bindings map[string]lr.Terminal) (*lr.Grammar, error) {
	return Load(name, strings.NewReader(src), start, bindings)
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

type loader struct {
	g         *lr.Grammar
	syntax    ebnf.Grammar
	bindings  map[string]lr.Terminal
	nts       map[string]*lr.NonTerminal
	terminals map[string]lr.Terminal // lexical productions in use
	lists     int
}

// term translates an expression of a non-lexical production.
func (ld *loader) term(pname string, expr ebnf.Expression) (lr.Term, error) {
	g := ld.g
	switch e := expr.(type) {
	case nil:
		return g.Empty, nil
	case *ebnf.Name:
		if nt, ok := ld.nts[e.String]; ok {
			return nt, nil
		}
		return ld.terminal(e.String)
	case *ebnf.Token:
		return g.ToTerm(e.String), nil
	case ebnf.Sequence:
		terms, err := ld.terms(pname, e)
		if err != nil {
			return nil, err
		}
		return g.Seq(terms...), nil
	case ebnf.Alternative:
		terms, err := ld.terms(pname, e)
		if err != nil {
			return nil, err
		}
		return g.Alt(terms...), nil
	case *ebnf.Group:
		return ld.term(pname, e.Body)
	case *ebnf.Option:
		body, err := ld.term(pname, e.Body)
		if err != nil {
			return nil, err
		}
		return g.Q(body), nil
	case *ebnf.Repetition:
		body, err := ld.term(pname, e.Body)
		if err != nil {
			return nil, err
		}
		ld.lists++
		list := g.NonTerminal(fmt.Sprintf("%s_list%d", pname, ld.lists))
		return g.MakeStarRule(list, nil, body), nil
	case *ebnf.Range:
		return nil, fmt.Errorf("character range %q … %q outside of lexical production", e.Begin.String, e.End.String)
	}
	return nil, fmt.Errorf("unsupported expression type %T", expr)
}

func (ld *loader) terms(pname string, exprs []ebnf.Expression) ([]lr.Term, error) {
	terms := make([]lr.Term, 0, len(exprs))
	for _, x := range exprs {
		t, err := ld.term(pname, x)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// terminal returns the terminal for a lexical production, creating a regex
// terminal if no terminal is bound to the name.
func (ld *loader) terminal(name string) (lr.Terminal, error) {
	if t, ok := ld.terminals[name]; ok {
		return t, nil
	}
	if t, ok := ld.bindings[name]; ok {
		ld.terminals[name] = t
		return t, nil
	}
	prod := ld.syntax[name]
	pattern, err := ld.regex(prod.Expr, map[string]bool{name: true})
	if err != nil {
		return nil, fmt.Errorf("lexical production %s: %w", name, err)
	}
	firsts, _ := ld.firsts(prod.Expr, map[string]bool{name: true})
	re, err := terminals.NewRegex(name, pattern, firsts...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("lexical production %s → /%s/", name, pattern)
	ld.terminals[name] = re
	return re, nil
}

// regex translates a lexical expression to lexmachine syntax. Names of other
// lexical productions are expanded in place.
func (ld *loader) regex(expr ebnf.Expression, active map[string]bool) (string, error) {
	switch e := expr.(type) {
	case nil:
		return "", nil
	case *ebnf.Token:
		return quoteMeta(e.String), nil
	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		return "[" + quoteClassChar(lo) + "-" + quoteClassChar(hi) + "]", nil
	case *ebnf.Name:
		if active[e.String] {
			return "", fmt.Errorf("recursive lexical production %s", e.String)
		}
		prod, ok := ld.syntax[e.String]
		if !ok || !isLexical(e.String) {
			return "", fmt.Errorf("lexical production refers to %s", e.String)
		}
		active[e.String] = true
		defer delete(active, e.String)
		return ld.regex(prod.Expr, active)
	case ebnf.Sequence:
		var b strings.Builder
		for _, x := range e {
			re, err := ld.regex(x, active)
			if err != nil {
				return "", err
			}
			b.WriteString(re)
		}
		return b.String(), nil
	case ebnf.Alternative:
		alts := make([]string, len(e))
		for i, x := range e {
			re, err := ld.regex(x, active)
			if err != nil {
				return "", err
			}
			alts[i] = re
		}
		return "(" + strings.Join(alts, "|") + ")", nil
	case *ebnf.Group:
		re, err := ld.regex(e.Body, active)
		return "(" + re + ")", err
	case *ebnf.Option:
		re, err := ld.regex(e.Body, active)
		return "(" + re + ")?", err
	case *ebnf.Repetition:
		re, err := ld.regex(e.Body, active)
		return "(" + re + ")*", err
	}
	return "", fmt.Errorf("unsupported expression type %T", expr)
}

// firsts collects the characters a lexical expression may start with. It
// returns false if they cannot be determined.
func (ld *loader) firsts(expr ebnf.Expression, active map[string]bool) ([]string, bool) {
	switch e := expr.(type) {
	case *ebnf.Token:
		r, _ := utf8.DecodeRuneInString(e.String)
		return []string{string(r)}, true
	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		if hi < lo || hi-lo >= maxRangeFirsts {
			return nil, false
		}
		var fs []string
		for r := lo; r <= hi; r++ {
			fs = append(fs, string(r))
		}
		return fs, true
	case *ebnf.Name:
		if active[e.String] {
			return nil, false
		}
		active[e.String] = true
		defer delete(active, e.String)
		return ld.firsts(ld.syntax[e.String].Expr, active)
	case ebnf.Sequence:
		if len(e) == 0 {
			return nil, false
		}
		return ld.firsts(e[0], active)
	case ebnf.Alternative:
		var fs []string
		for _, x := range e {
			f, ok := ld.firsts(x, active)
			if !ok {
				return nil, false
			}
			fs = append(fs, f...)
		}
		return fs, true
	case *ebnf.Group:
		return ld.firsts(e.Body, active)
	}
	return nil, false // options and repetitions may be empty
}

// quoteMeta escapes the characters with special meaning in lexmachine patterns.
func quoteMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\|+*?()[]^.`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quoteClassChar(r rune) string {
	if strings.ContainsRune(`\]^-`, r) {
		return `\` + string(r)
	}
	return string(r)
}
