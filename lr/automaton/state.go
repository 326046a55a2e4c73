package automaton

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/lalr/lr"
	"golang.org/x/tools/container/intsets"
)

// ParserState is a state of the LALR automaton.
//
// Actions maps terms to parser actions. For terminals this is the action to take
// on input of the terminal, for non-terminals it is a ShiftAction denoting the
// GOTO target after reducing the non-terminal.
//
// If DefaultAction is set, the parser executes it without looking at the input.
//
// ReportedExpected lists the names used in syntax error messages for this state,
// with report groups applied.
type ParserState struct {
	ID                int
	Name              string
	Actions           map[lr.Term]Action
	ExpectedTerminals *lr.TerminalSet
	DefaultAction     Action
	ReportedExpected  []string
	BuilderData       *StateBuilderData
}

func newState(id int) *ParserState {
	s := &ParserState{
		ID:      id,
		Name:    fmt.Sprintf("S%d", id),
		Actions: make(map[lr.Term]Action),
	}
	s.BuilderData = &StateBuilderData{
		state:       s,
		itemsByCore: make(map[int]*LRItem),
		next:        make(map[lr.Term]*ParserState),
		transitions: make(map[*lr.NonTerminal]*Transition),
	}
	return s
}

// ClearBuilderData drops the data needed during construction only.
func (s *ParserState) ClearBuilderData() {
	s.BuilderData = nil
}

// Next returns the state reached by shifting term t, or nil.
func (s *ParserState) Next(t lr.Term) *ParserState {
	if a, ok := s.Actions[t].(*ShiftAction); ok {
		return a.NewState
	}
	return nil
}

func (s *ParserState) String() string {
	return s.Name
}

// StateBuilderData holds the items of a state and intermediate results of the
// automaton construction.
type StateBuilderData struct {
	state       *ParserState
	Items       []*LRItem
	Kernel      []*lr.LR0Item
	ShiftItems  []*LRItem // items with a terminal after the dot
	ReduceItems []*LRItem // final items
	ShiftTerms  []lr.Term // terms after the dot, in order of appearance
	Conflicts   *lr.TerminalSet
	itemsByCore map[int]*LRItem
	next        map[lr.Term]*ParserState
	transitions map[*lr.NonTerminal]*Transition
	kernelIDs   []int
}

// IsInadequate is true if a state needs lookahead to decide between actions:
// it has more than one reduce item, or a reduce item and shift items.
func (bd *StateBuilderData) IsInadequate() bool {
	return len(bd.ReduceItems) > 1 || (len(bd.ReduceItems) == 1 && len(bd.ShiftItems) > 0)
}

// addItem adds an item for core to the state. It is a no-op if the core is
// already present.
func (bd *StateBuilderData) addItem(core *lr.LR0Item) (*LRItem, bool) {
	if item, ok := bd.itemsByCore[core.ID]; ok {
		return item, false
	}
	item := &LRItem{State: bd.state, Core: core}
	bd.itemsByCore[core.ID] = item
	bd.Items = append(bd.Items, item)
	return item, true
}

// Item returns the item of this state for a core, or nil.
func (bd *StateBuilderData) Item(core *lr.LR0Item) *LRItem {
	return bd.itemsByCore[core.ID]
}

// Transition returns the transition over nt leaving this state, or nil.
func (bd *StateBuilderData) Transition(nt *lr.NonTerminal) *Transition {
	return bd.transitions[nt]
}

// LRItem is an LR(0) item within a parser state. Lookaheads are computed for
// final items only.
type LRItem struct {
	State       *ParserState
	Core        *lr.LR0Item
	ShiftedItem *LRItem     // item with the dot advanced, in the successor state
	Transition  *Transition // transition over the non-terminal after the dot
	Lookbacks   []*Transition
	Lookaheads  *lr.TerminalSet
}

func (item *LRItem) addLookback(t *Transition) {
	for _, lb := range item.Lookbacks {
		if lb == t {
			return
		}
	}
	item.Lookbacks = append(item.Lookbacks, t)
}

func (item *LRItem) String() string {
	if item.Lookaheads.IsEmpty() {
		return item.Core.String()
	}
	return item.Core.String() + " , " + item.Lookaheads.String()
}

// --- Transitions -----------------------------------------------------------

// Transition is a GOTO edge between two states over a non-terminal. Lookaheads
// are computed per transition: the terminals which may follow the non-terminal
// when it has been recognized starting from From.
//
// A transition includes another one if its lookaheads are a superset of the
// other's. Includes is kept transitively closed.
type Transition struct {
	ID              int
	From            *ParserState
	To              *ParserState
	OverNonTerminal *lr.NonTerminal
	DirectReads     *lr.TerminalSet
	Reads           *lr.TerminalSet // DirectReads plus reads over nullable non-terminals
	Lookaheads      *lr.TerminalSet
	reads           []*Transition
	includes        intsets.Sparse
	includedBy      intsets.Sparse
	table           *TransitionTable
}

// Include records that t's lookaheads include other's, together with everything
// other includes. All transitions including t are updated as well.
func (t *Transition) Include(other *Transition) {
	if other == t || t.includes.Has(other.ID) {
		return
	}
	targets := []*Transition{t}
	for _, id := range t.includedBy.AppendTo(nil) {
		targets = append(targets, t.table.At(id))
	}
	sources := []*Transition{other}
	for _, id := range other.includes.AppendTo(nil) {
		sources = append(sources, t.table.At(id))
	}
	for _, x := range targets {
		for _, y := range sources {
			if x == y {
				continue
			}
			if x.includes.Insert(y.ID) {
				y.includedBy.Insert(x.ID)
			}
		}
	}
}

// Includes returns all transitions t includes.
func (t *Transition) Includes() []*Transition {
	return t.table.resolve(&t.includes)
}

// IncludedBy returns all transitions including t.
func (t *Transition) IncludedBy() []*Transition {
	return t.table.resolve(&t.includedBy)
}

func (t *Transition) String() string {
	return fmt.Sprintf("%s --%s--> %s", t.From, t.OverNonTerminal.Name(), t.To)
}

// TransitionTable holds all transitions of an automaton, indexed by ID.
type TransitionTable struct {
	list *arraylist.List
}

func newTransitionTable() *TransitionTable {
	return &TransitionTable{list: arraylist.New()}
}

func (tt *TransitionTable) add(from, to *ParserState, nt *lr.NonTerminal) *Transition {
	t := &Transition{
		ID:              tt.list.Size(),
		From:            from,
		To:              to,
		OverNonTerminal: nt,
		table:           tt,
	}
	tt.list.Add(t)
	return t
}

// At returns the transition with ID id.
func (tt *TransitionTable) At(id int) *Transition {
	x, ok := tt.list.Get(id)
	if !ok {
		panic(fmt.Sprintf("automaton: no transition with ID %d", id))
	}
	return x.(*Transition)
}

// Size returns the number of transitions.
func (tt *TransitionTable) Size() int {
	return tt.list.Size()
}

// Each calls f for every transition in order of IDs.
func (tt *TransitionTable) Each(f func(t *Transition)) {
	it := tt.list.Iterator()
	for it.Next() {
		f(it.Value().(*Transition))
	}
}

func (tt *TransitionTable) resolve(set *intsets.Sparse) []*Transition {
	ids := set.AppendTo(nil)
	r := make([]*Transition, len(ids))
	for i, id := range ids {
		r[i] = tt.At(id)
	}
	return r
}

func itemsString(items []*LRItem) string {
	s := make([]string, len(items))
	for i, item := range items {
		s[i] = item.String()
	}
	return strings.Join(s, "\n")
}
