package lr

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"golang.org/x/text/cases"
)

// ProductionFlags are properties of productions.
type ProductionFlags uint8

// Flags for productions.
const (
	HasTerminals ProductionFlags = 1 << iota
	IsErrorProduction
	IsEmptyProduction
)

// Production is one alternative of the rule of a non-terminal.
type Production struct {
	Index    int // serial number within grammar data
	LValue   *NonTerminal
	RValues  []Term
	LR0Items []*LR0Item
	Flags    ProductionFlags
	// Precedence and Associativity are set for productions containing an implied
	// precedence hint.
	Precedence    int
	Associativity Associativity
}

// Is checks production flags.
func (p *Production) Is(f ProductionFlags) bool {
	return p.Flags&f == f
}

func (p *Production) String() string {
	return p.LValue.Name() + " → " + symbolsString(p.RValues)
}

func symbolsString(terms []Term) string {
	if len(terms) == 0 {
		return "ε"
	}
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.String()
	}
	return strings.Join(names, " ")
}

// LR0Item is a production with a marker position ("dot"). Items are created once
// per grammar and are identified by their ID.
type LR0Item struct {
	ID         int
	Production *Production
	Position   int
	// Hints are the grammar hints placed right before the dot position.
	Hints []GrammarHint
	// TailIsNullable is true if the symbols from Position to the end of the
	// production all derive ε.
	TailIsNullable bool
}

// Current returns the term after the dot, or nil for a final item.
func (item *LR0Item) Current() Term {
	if item.Position >= len(item.Production.RValues) {
		return nil
	}
	return item.Production.RValues[item.Position]
}

// IsInitial is true for items with the dot at the start.
func (item *LR0Item) IsInitial() bool {
	return item.Position == 0
}

// IsFinal is true for items with the dot at the end.
func (item *LR0Item) IsFinal() bool {
	return item.Position == len(item.Production.RValues)
}

// IsKernel is true for items which are not created by closure: either the dot is
// past the start, or the production is one of the augmented root productions.
func (item *LR0Item) IsKernel() bool {
	return item.Position > 0 || item.Production.LValue.Is(IsAugmentedRoot)
}

// Next returns the item with the dot advanced by one, or nil for a final item.
func (item *LR0Item) Next() *LR0Item {
	if item.IsFinal() {
		return nil
	}
	return item.Production.LR0Items[item.Position+1]
}

func (item *LR0Item) String() string {
	var b strings.Builder
	b.WriteString(item.Production.LValue.Name())
	b.WriteString(" →")
	for i, t := range item.Production.RValues {
		if i == item.Position {
			b.WriteString(" ·")
		}
		b.WriteByte(' ')
		b.WriteString(t.String())
	}
	if item.IsFinal() {
		b.WriteString(" ·")
	}
	return b.String()
}

// GrammarData is the analysed form of a grammar: all terms reachable from the
// root, productions and LR(0) items. It is read-only after construction.
type GrammarData struct {
	Grammar               *Grammar
	AugmentedRoot         *NonTerminal
	AugmentedSnippetRoots []*NonTerminal
	Terminals             []Terminal
	NonTerminals          []*NonTerminal
	NonGrammarTerminals   []Terminal
	Productions           []*Production
	Items                 []*LR0Item
	Operators             []Terminal
	// UsesNewLine is true if the NewLine terminal is used in rules.
	UsesNewLine bool
	// NullabilityPasses is the number of passes the nullability analysis took.
	NullabilityPasses int

	keyTerms map[string]*KeyTerm
	seen     map[Term]bool
}

// BuildGrammarData analyses a grammar. Problems are recorded in errs. If a
// problem at or above the grammar's fatal level is found, errs is returned as an error.
func BuildGrammarData(g *Grammar, errs *GrammarErrorList) (*GrammarData, error) {
	tracer().Debugf("=== analysing grammar %q ===========================", g.Name)
	gd := &GrammarData{
		Grammar:  g,
		keyTerms: make(map[string]*KeyTerm),
		seen:     make(map[Term]bool),
	}
	if g.Root == nil {
		errs.Add(Error, "", "grammar %q has no root", g.Name)
		return nil, errs
	}
	gd.AugmentedRoot = gd.augment(g.Root)
	for _, snippet := range g.snippetRoots {
		gd.AugmentedSnippetRoots = append(gd.AugmentedSnippetRoots, gd.augment(snippet))
	}
	gd.collectTerms(errs)
	gd.createProductions()
	gd.computeNullability()
	gd.computeTailNullability()
	gd.initTerminals()
	gd.validate(errs)
	tracer().Debugf("grammar has %d terminals, %d non-terminals, %d productions",
		len(gd.Terminals), len(gd.NonTerminals), len(gd.Productions))
	gd.Dump()
	if errs.MaxLevel() >= g.FatalLevel {
		return gd, errs
	}
	return gd, nil
}

func (gd *GrammarData) augment(root *NonTerminal) *NonTerminal {
	name := root.Name()
	if name == "" {
		name = "root"
	}
	aug := gd.Grammar.NonTerminal(name+"'", IsAugmentedRoot)
	aug.Rule = &Expression{Alternatives: [][]Term{{root, gd.Grammar.EOF}}}
	return aug
}

// collectTerms walks the term graph, starting at the augmented roots. Nested
// expressions are replaced by generated non-terminals, unnamed non-terminals
// get a name.
func (gd *GrammarData) collectTerms(errs *GrammarErrorList) {
	g := gd.Grammar
	gd.addTerminal(g.EOF)
	gd.addTerminal(g.SyntaxError)
	worklist := arraystack.New()
	roots := append([]*NonTerminal{gd.AugmentedRoot}, gd.AugmentedSnippetRoots...)
	for i := len(roots) - 1; i >= 0; i-- {
		gd.seen[roots[i]] = true
		worklist.Push(roots[i])
	}
	for !worklist.Empty() {
		x, _ := worklist.Pop()
		nt := x.(*NonTerminal)
		nt.index = len(gd.NonTerminals)
		gd.NonTerminals = append(gd.NonTerminals, nt)
		if nt.Rule == nil || len(nt.Rule.Alternatives) == 0 {
			errs.Add(Error, "", "non-terminal %s has no rule", nt.Name())
			continue
		}
		var children []*NonTerminal
		groups := 0
		for a, alt := range nt.Rule.Alternatives {
			alt = append([]Term(nil), alt...)
			nt.Rule.Alternatives[a] = alt
			for i, t := range alt {
				if e, ok := t.(*Expression); ok {
					groups++
					sub := g.NonTerminal(fmt.Sprintf("%s_group%d", nt.Name(), groups))
					sub.Rule = e
					alt[i] = sub
					t = sub
				}
				switch term := t.(type) {
				case *NonTerminal:
					if term.Name() == "" {
						term.name = g.autoName("NT")
					}
					if !gd.seen[term] {
						gd.seen[term] = true
						children = append(children, term)
					}
				case GrammarHint:
					// hints are no symbols
				case Terminal:
					if term == g.Empty {
						continue
					}
					if term == g.NewLine {
						gd.UsesNewLine = true
					}
					gd.addTerminal(term)
				default:
					errs.Add(InternalError, "", "unknown kind of term %q (%T) in rule for %s",
						t.Name(), t, nt.Name())
				}
			}
		}
		for i := len(children) - 1; i >= 0; i-- {
			worklist.Push(children[i])
		}
	}
	for _, t := range g.NonGrammarTerminals {
		gd.addTerminal(t)
		gd.NonGrammarTerminals = append(gd.NonGrammarTerminals, t)
	}
	for _, w := range g.reserved {
		gd.addTerminal(g.keyTerms[w])
	}
}

func (gd *GrammarData) addTerminal(t Terminal) {
	if gd.seen[t] {
		return
	}
	gd.seen[t] = true
	t.Base().index = len(gd.Terminals)
	gd.Terminals = append(gd.Terminals, t)
	if kt, ok := t.(*KeyTerm); ok {
		gd.keyTerms[gd.foldKey(kt.Text)] = kt
	}
	if t.Base().Is(IsOperator) {
		gd.Operators = append(gd.Operators, t)
	}
}

// createProductions creates a production for every alternative of every
// non-terminal, together with its LR(0) items.
func (gd *GrammarData) createProductions() {
	g := gd.Grammar
	for _, nt := range gd.NonTerminals {
		nt.Productions = nil
		if nt.Rule == nil {
			continue
		}
		for _, alt := range nt.Rule.Alternatives {
			prod := &Production{
				Index:  len(gd.Productions),
				LValue: nt,
			}
			var hints [][]GrammarHint
			var pending []GrammarHint
			for _, t := range alt {
				if h, ok := t.(GrammarHint); ok {
					if ip, ok := h.(*ImpliedPrecedenceHint); ok {
						prod.Precedence = ip.Precedence
						prod.Associativity = ip.Associativity
					}
					pending = append(pending, h)
					continue
				}
				if t == g.Empty {
					continue
				}
				if _, ok := t.(Terminal); ok {
					prod.Flags |= HasTerminals
				}
				if t == g.SyntaxError {
					prod.Flags |= IsErrorProduction
				}
				prod.RValues = append(prod.RValues, t)
				hints = append(hints, pending)
				pending = nil
			}
			hints = append(hints, pending) // hints at end of production
			if len(prod.RValues) == 0 {
				prod.Flags |= IsEmptyProduction
			}
			for pos := 0; pos <= len(prod.RValues); pos++ {
				item := &LR0Item{
					ID:         len(gd.Items),
					Production: prod,
					Position:   pos,
					Hints:      hints[pos],
				}
				prod.LR0Items = append(prod.LR0Items, item)
				gd.Items = append(gd.Items, item)
			}
			nt.Productions = append(nt.Productions, prod)
			gd.Productions = append(gd.Productions, prod)
			tracer().Debugf("%3d: %v", prod.Index, prod)
		}
	}
}

// computeNullability marks non-terminals deriving ε. Each pass either marks at
// least one more non-terminal or ends the analysis, so there are at most
// |non-terminals| passes.
func (gd *GrammarData) computeNullability() {
	candidates := make([]*NonTerminal, 0, len(gd.NonTerminals))
	for _, nt := range gd.NonTerminals {
		if !nt.Is(IsNullable) {
			candidates = append(candidates, nt)
		}
	}
	for len(candidates) > 0 {
		gd.NullabilityPasses++
		rest := candidates[:0]
		for _, nt := range candidates {
			if gd.derivesEmpty(nt) {
				nt.SetFlag(IsNullable)
				tracer().Debugf("%s is nullable", nt.Name())
				continue
			}
			rest = append(rest, nt)
		}
		if len(rest) == len(candidates) {
			break
		}
		candidates = rest
	}
}

func (gd *GrammarData) derivesEmpty(nt *NonTerminal) bool {
	for _, prod := range nt.Productions {
		if allNullable(prod.RValues) {
			return true
		}
	}
	return false
}

func allNullable(terms []Term) bool {
	for _, t := range terms {
		nt, ok := t.(*NonTerminal)
		if !ok || !nt.Is(IsNullable) {
			return false
		}
	}
	return true
}

func (gd *GrammarData) computeTailNullability() {
	for _, item := range gd.Items {
		item.TailIsNullable = allNullable(item.Production.RValues[item.Position:])
	}
}

func (gd *GrammarData) initTerminals() {
	for _, t := range gd.Terminals {
		t.Init(gd)
	}
	for _, rg := range gd.Grammar.ReportGroups {
		if rg.Kind == OperatorGroup {
			rg.Terms = rg.Terms[:0]
			for _, op := range gd.Operators {
				rg.Terms = append(rg.Terms, op)
			}
		}
	}
}

func (gd *GrammarData) validate(errs *GrammarErrorList) {
	for _, nt := range gd.NonTerminals {
		if nt.Is(IsTransient) {
			for _, prod := range nt.Productions {
				if countNonPunctuation(prod.RValues) > 1 {
					errs.Add(Error, "", "transient non-terminal %s must have at most one non-punctuation child: %v",
						nt.Name(), prod)
				}
			}
		}
		for _, prod := range nt.Productions {
			if !prod.Is(IsErrorProduction) {
				continue
			}
			last := prod.RValues[len(prod.RValues)-1]
			if _, ok := last.(Terminal); !ok || last == gd.Grammar.SyntaxError {
				errs.Add(Error, "", "error production must end with a terminal: %v", prod)
			}
		}
	}
}

func countNonPunctuation(terms []Term) int {
	n := 0
	for _, t := range terms {
		if !t.Base().Is(IsPunctuation) {
			n++
		}
	}
	return n
}

// --- Queries ---------------------------------------------------------------

// FindKeyTerm returns the key term for a text, respecting the grammar's case
// sensitivity.
func (gd *GrammarData) FindKeyTerm(text string) (*KeyTerm, bool) {
	kt, ok := gd.keyTerms[gd.foldKey(text)]
	return kt, ok
}

func (gd *GrammarData) foldKey(s string) string {
	if gd.Grammar.CaseSensitive {
		return s
	}
	return cases.Fold().String(s) // a Caser must not be shared between goroutines
}

// FindTerm returns a term of the grammar by name.
func (gd *GrammarData) FindTerm(name string) Term {
	for _, t := range gd.Terminals {
		if t.Name() == name {
			return t
		}
	}
	for _, nt := range gd.NonTerminals {
		if nt.Name() == name {
			return nt
		}
	}
	return nil
}

// Dump prints all productions to the trace, on level Debug.
func (gd *GrammarData) Dump() {
	for _, prod := range gd.Productions {
		tracer().Debugf("%3d: %v", prod.Index, prod)
	}
}
