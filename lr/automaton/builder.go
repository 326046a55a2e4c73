package automaton

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/lalr/lr"
)

// ParserData is the compiled LALR automaton for a grammar. It is read-only
// after construction and may be shared between parsers.
type ParserData struct {
	Grammar      *lr.GrammarData
	States       []*ParserState
	InitialState *ParserState
	// InitialStates maps augmented roots, including those for snippet roots, to
	// their start states.
	InitialStates map[*lr.NonTerminal]*ParserState
	Transitions   *TransitionTable
}

// InitialStateFor returns the start state for parsing from root, which is either
// the grammar root or one of its snippet roots.
func (pd *ParserData) InitialStateFor(root *lr.NonTerminal) (*ParserState, bool) {
	for aug, s := range pd.InitialStates {
		if aug.Productions[0].RValues[0] == lr.Term(root) {
			return s, true
		}
	}
	return nil, false
}

// builder constructs the automaton. Construction proceeds in phases:
// states (closure and shifts), lookbacks and includes, lookaheads, conflict
// detection and resolution, action tables.
type builder struct {
	gd       *lr.GrammarData
	errs     *lr.GrammarErrorList
	pd       *ParserData
	byKernel map[string][]*ParserState
	worklist *arraystack.Stack
}

// Build constructs the LALR automaton for analysed grammar data. Problems are
// recorded in errs; unresolved conflicts are recorded with level Conflict and do
// not stop construction. Build returns errs as error if a problem at or above the
// grammar's fatal level occurs.
func Build(gd *lr.GrammarData, errs *lr.GrammarErrorList) (*ParserData, error) {
	tracer().Debugf("=== build LALR automaton ==========================================")
	b := &builder{
		gd:       gd,
		errs:     errs,
		byKernel: make(map[string][]*ParserState),
		worklist: arraystack.New(),
		pd: &ParserData{
			Grammar:       gd,
			InitialStates: make(map[*lr.NonTerminal]*ParserState),
			Transitions:   newTransitionTable(),
		},
	}
	b.createStates()
	b.computeLookbacksAndIncludes()
	b.computeLookaheads()
	b.computeConflicts()
	b.createActions()
	if err := b.resolveConflicts(); err != nil {
		return b.pd, err
	}
	b.computeDefaultActions()
	b.computeExpectedTerminals()
	tracer().Debugf("automaton has %d states, %d transitions", len(b.pd.States), b.pd.Transitions.Size())
	if errs.MaxLevel() >= gd.Grammar.FatalLevel {
		return b.pd, errs
	}
	return b.pd, nil
}

// --- States ----------------------------------------------------------------

func (b *builder) createStates() {
	roots := append([]*lr.NonTerminal{b.gd.AugmentedRoot}, b.gd.AugmentedSnippetRoots...)
	for _, aug := range roots {
		kernel := []*lr.LR0Item{aug.Productions[0].LR0Items[0]}
		s, _ := b.findOrCreateState(kernel)
		b.pd.InitialStates[aug] = s
		if aug == b.gd.AugmentedRoot {
			b.pd.InitialState = s
		}
	}
	for !b.worklist.Empty() {
		x, _ := b.worklist.Pop()
		b.expandState(x.(*ParserState))
	}
}

type kernelKey struct {
	Items []int
}

func hashKernel(ids []int) string {
	h, err := structhash.Hash(kernelKey{Items: ids}, 1)
	if err != nil {
		return fmt.Sprint(ids)
	}
	return h
}

// findOrCreateState returns the state for a kernel. States are identified by
// their set of kernel cores.
func (b *builder) findOrCreateState(kernel []*lr.LR0Item) (*ParserState, bool) {
	ids := make([]int, 0, len(kernel))
	seen := make(map[int]bool, len(kernel))
	for _, core := range kernel {
		if !seen[core.ID] {
			seen[core.ID] = true
			ids = append(ids, core.ID)
		}
	}
	sort.Ints(ids)
	key := hashKernel(ids)
	for _, s := range b.byKernel[key] {
		if equalInts(s.BuilderData.kernelIDs, ids) {
			return s, false
		}
	}
	s := newState(len(b.pd.States))
	s.BuilderData.kernelIDs = ids
	for _, id := range ids {
		core := b.gd.Items[id]
		s.BuilderData.Kernel = append(s.BuilderData.Kernel, core)
		s.BuilderData.addItem(core)
	}
	b.pd.States = append(b.pd.States, s)
	b.byKernel[key] = append(b.byKernel[key], s)
	b.worklist.Push(s)
	return s, true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// expandState computes the closure of a state's kernel, partitions its items and
// creates the successor states.
func (b *builder) expandState(s *ParserState) {
	bd := s.BuilderData
	for i := 0; i < len(bd.Items); i++ { // bd.Items grows while we iterate
		nt, ok := bd.Items[i].Core.Current().(*lr.NonTerminal)
		if !ok {
			continue
		}
		for _, prod := range nt.Productions {
			bd.addItem(prod.LR0Items[0])
		}
	}
	shifted := make(map[lr.Term][]*LRItem)
	for _, item := range bd.Items {
		t := item.Core.Current()
		if t == nil {
			bd.ReduceItems = append(bd.ReduceItems, item)
			continue
		}
		if _, isT := t.(lr.Terminal); isT {
			bd.ShiftItems = append(bd.ShiftItems, item)
		}
		if _, ok := shifted[t]; !ok {
			bd.ShiftTerms = append(bd.ShiftTerms, t)
		}
		shifted[t] = append(shifted[t], item)
	}
	for _, t := range bd.ShiftTerms {
		items := shifted[t]
		kernel := make([]*lr.LR0Item, len(items))
		for i, item := range items {
			kernel[i] = item.Core.Next()
		}
		next, _ := b.findOrCreateState(kernel)
		bd.next[t] = next
		var trans *Transition
		if nt, ok := t.(*lr.NonTerminal); ok {
			trans = b.pd.Transitions.add(s, next, nt)
			bd.transitions[nt] = trans
		}
		for _, item := range items {
			item.ShiftedItem = next.BuilderData.Item(item.Core.Next())
			item.Transition = trans
		}
	}
	tracer().Debugf("state %s:\n%s", s.Name, itemsString(bd.Items))
}

// --- Lookaheads ------------------------------------------------------------

// computeLookbacksAndIncludes follows every production of a transition's
// non-terminal through the automaton. Along the way, transitions over
// non-terminals followed by a nullable tail include the transition; at the end
// the final item gets the transition as a lookback.
func (b *builder) computeLookbacksAndIncludes() {
	b.pd.Transitions.Each(func(t *Transition) {
		t.DirectReads = b.gd.NewTerminalSet()
		for _, term := range t.To.BuilderData.ShiftTerms {
			switch x := term.(type) {
			case lr.Terminal:
				t.DirectReads.Add(x)
			case *lr.NonTerminal:
				if x.Is(lr.IsNullable) {
					t.reads = append(t.reads, t.To.BuilderData.transitions[x])
				}
			}
		}
	})
	b.pd.Transitions.Each(func(t *Transition) {
		for _, prod := range t.OverNonTerminal.Productions {
			item := t.From.BuilderData.Item(prod.LR0Items[0])
			for !item.Core.IsFinal() {
				if item.Transition != nil && item.Core.Next().TailIsNullable {
					item.Transition.Include(t)
				}
				item = item.ShiftedItem
			}
			item.addLookback(t)
		}
	})
}

// computeLookaheads first closes the direct reads of transitions over the reads
// relation, then adds the reads of all included transitions. Lookaheads of final
// items are the union of the lookaheads of their lookbacks.
func (b *builder) computeLookaheads() {
	b.pd.Transitions.Each(func(t *Transition) {
		t.Reads = t.DirectReads.Copy()
	})
	for changed := true; changed; {
		changed = false
		b.pd.Transitions.Each(func(t *Transition) {
			for _, r := range t.reads {
				if t.Reads.Union(r.Reads) {
					changed = true
				}
			}
		})
	}
	b.pd.Transitions.Each(func(t *Transition) {
		t.Lookaheads = t.Reads.Copy()
		for _, inc := range t.Includes() {
			t.Lookaheads.Union(inc.Reads)
		}
	})
	for _, s := range b.pd.States {
		for _, item := range s.BuilderData.ReduceItems {
			item.Lookaheads = b.gd.NewTerminalSet()
			for _, lb := range item.Lookbacks {
				item.Lookaheads.Union(lb.Lookaheads)
			}
		}
	}
}
