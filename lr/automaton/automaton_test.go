package automaton

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, g *lr.Grammar) (*ParserData, *lr.GrammarErrorList) {
	t.Helper()
	errs := &lr.GrammarErrorList{}
	gd, err := lr.BuildGrammarData(g, errs)
	require.NoError(t, err)
	pd, _ := Build(gd, errs)
	require.NotNil(t, pd)
	return pd, errs
}

func exprGrammar(withOperators bool) *lr.Grammar {
	g := lr.NewGrammar("Expr")
	id := g.ToTerm("id")
	plus, times := g.ToTerm("+"), g.ToTerm("*")
	lp, rp := g.ToTerm("("), g.ToTerm(")")
	E := g.NonTerminal("E")
	E.SetRule(g.Alt(
		g.Seq(E, plus, E),
		g.Seq(E, times, E),
		g.Seq(lp, E, rp),
		id))
	if withOperators {
		g.RegisterOperators(10, lr.Left, plus)
		g.RegisterOperators(20, lr.Left, times)
	}
	g.Root = E
	return g
}

func TestLR0StatesSimpleGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	g := lr.NewGrammar("G")
	a, b, c := g.ToTerm("a"), g.ToTerm("b"), g.ToTerm("c")
	S, A, B := g.NonTerminal("S"), g.NonTerminal("A"), g.NonTerminal("B")
	S.SetRule(g.Seq(A, a))
	A.SetRule(g.Seq(B, c))
	B.SetRule(g.Alt(b, g.Empty))
	g.Root = S
	pd, errs := build(t, g)
	assert.Equal(t, lr.NoError, errs.MaxLevel(), errs.Error())
	require.NotNil(t, pd.InitialState)
	assert.Equal(t, 0, pd.InitialState.ID)
	_, isShift := pd.InitialState.Actions[b].(*ShiftAction)
	assert.True(t, isShift, "expected shift on b in S0")
	// B → ε is reduced in the initial state with lookahead c only
	reduceEps, ok := pd.InitialState.Actions[c].(*ReduceAction)
	require.True(t, ok, "expected reduce on 'c' in S0")
	assert.True(t, reduceEps.Production.Is(lr.IsEmptyProduction))
	_, ok = pd.InitialState.Actions[a]
	assert.False(t, ok, "expected no action on 'a' in S0")
	assert.Equal(t, 2, pd.InitialState.ExpectedTerminals.Len())
}

func TestStatesAreUnique(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	pd, _ := build(t, exprGrammar(true))
	seen := make(map[string]*ParserState)
	for _, s := range pd.States {
		key := strings.Join(kernelStrings(s), ";")
		if other, ok := seen[key]; ok {
			t.Errorf("states %s and %s have equal kernels", s, other)
		}
		seen[key] = s
	}
}

func kernelStrings(s *ParserState) []string {
	var r []string
	for _, core := range s.BuilderData.Kernel {
		r = append(r, core.String())
	}
	return r
}

func TestOperatorConflictsResolvedByPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	pd, errs := build(t, exprGrammar(true))
	assert.Equal(t, 0, errs.Count(lr.Conflict), errs.Error())
	precActions := 0
	for _, s := range pd.States {
		for _, a := range s.Actions {
			if _, ok := a.(*PrecedenceAction); ok {
				precActions++
			}
		}
	}
	// E + E · with + or *, and E * E · with + or *
	assert.Equal(t, 4, precActions)
}

func TestUnresolvedConflictsAreReported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	pd, errs := build(t, exprGrammar(false))
	assert.Equal(t, 4, errs.Count(lr.Conflict), errs.Error())
	for _, e := range errs.Errors {
		assert.Contains(t, e.Message, "shift-reduce")
		assert.NotEmpty(t, e.State)
	}
	// unresolved shift-reduce conflicts are decided for shifting
	for _, s := range pd.States {
		for _, term := range s.BuilderData.Conflicts.Terminals() {
			_, ok := s.Actions[term].(*ShiftAction)
			assert.True(t, ok, "expected shift on %s in %s", term.Name(), s)
		}
	}
}

func TestDanglingElseWithHint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	g := lr.NewGrammar("IfElse")
	kwIf, kwThen, kwElse := g.ToTerm("if"), g.ToTerm("then"), g.ToTerm("else")
	cond, other := g.ToTerm("c"), g.ToTerm("x")
	stmt := g.NonTerminal("stmt")
	stmt.SetRule(g.Alt(
		g.Seq(kwIf, cond, kwThen, stmt),
		g.Seq(kwIf, cond, kwThen, stmt, g.PreferShiftHere(), kwElse, stmt),
		other))
	g.Root = stmt
	pd, errs := build(t, g)
	assert.Equal(t, 0, errs.Count(lr.Conflict), errs.Error())
	found := false
	for _, s := range pd.States {
		if s.BuilderData.Conflicts.Contains(kwElse) {
			found = true
			_, ok := s.Actions[kwElse].(*ShiftAction)
			assert.True(t, ok, "expected shift on 'else' in %s", s)
		}
	}
	assert.True(t, found, "expected a conflict on 'else'")
}

func reduceReduceGrammar() *lr.Grammar {
	g := lr.NewGrammar("RR")
	x := g.ToTerm("x")
	S, A, B := g.NonTerminal("S"), g.NonTerminal("A"), g.NonTerminal("B")
	S.SetRule(g.Alt(A, B))
	A.SetRule(x)
	B.SetRule(x)
	g.Root = S
	return g
}

func TestReduceReduceConflictPrefersFirstProduction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	pd, errs := build(t, reduceReduceGrammar())
	require.Equal(t, 1, errs.Count(lr.Conflict), errs.Error())
	assert.Contains(t, errs.Errors[0].Message, "reduce-reduce")
	s := pd.InitialState.Next(pd.Grammar.FindTerm("x"))
	require.NotNil(t, s)
	r, ok := s.Actions[pd.Grammar.Grammar.EOF].(*ReduceAction)
	require.True(t, ok, "expected reduce action on EOF")
	assert.Equal(t, "A", r.Production.LValue.Name())
}

func TestPreviewHintCreatesConditionalAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	g := lr.NewGrammar("Preview")
	x, y, z := g.ToTerm("x"), g.ToTerm("y"), g.ToTerm("z")
	S, A, B := g.NonTerminal("S"), g.NonTerminal("A"), g.NonTerminal("B")
	S.SetRule(g.Alt(g.Seq(A, y, z), g.Seq(B, y, y)))
	A.SetRule(g.Seq(x, g.ReduceIf("z", "y")))
	B.SetRule(x)
	g.Root = S
	pd, errs := build(t, g)
	assert.Equal(t, 0, errs.Count(lr.Conflict), errs.Error())
	s := pd.InitialState.Next(x)
	require.NotNil(t, s)
	cond, ok := s.Actions[y].(*ConditionalAction)
	require.True(t, ok, "expected conditional action on y, have %v", s.Actions[y])
	require.Len(t, cond.Entries, 1)
	assert.Equal(t, "A", cond.Entries[0].Action.(*ReduceAction).Production.LValue.Name())
	assert.Equal(t, "B", cond.Default.(*ReduceAction).Production.LValue.Name())
}

func TestDefaultActionsAndExpectedTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	g := exprGrammar(true)
	g.AddOperatorReportGroup("operator")
	pd, _ := build(t, g)
	accepting := 0
	for _, s := range pd.States {
		if _, ok := s.DefaultAction.(*AcceptAction); ok {
			accepting++
		}
		assert.False(t, s.ExpectedTerminals.Contains(pd.Grammar.Grammar.SyntaxError))
	}
	assert.Equal(t, 1, accepting)
	// after a top-level operand, the parser expects an operator or EOF
	s := pd.InitialState.Next(pd.Grammar.FindTerm("E"))
	require.NotNil(t, s)
	assert.Equal(t, []string{"EOF", "operator"}, s.ReportedExpected)
}

func TestTablesExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	pd, _ := build(t, exprGrammar(true))
	tables := pd.Tables()
	assert.Equal(t, len(pd.States), tables.Action.M())
	id := pd.Grammar.FindTerm("id").(lr.Terminal)
	assert.Equal(t, int32(ShiftEntry), tables.Action.Value(pd.InitialState.ID, id.Base().Index()))
	var html bytes.Buffer
	require.NoError(t, tables.ActionTableAsHTML(&html))
	assert.Contains(t, html.String(), "ACTION table")
	var dot bytes.Buffer
	require.NoError(t, pd.ToGraphViz(&dot))
	assert.True(t, strings.HasPrefix(dot.String(), "digraph {"))
	txt := tables.ActionTableAsText(120)
	assert.Contains(t, txt, "S0")
}

func TestTransitiveIncludes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	tt := newTransitionTable()
	s := newState(0)
	nt := lr.NewGrammar("T").NonTerminal("N")
	t1, t2, t3 := tt.add(s, s, nt), tt.add(s, s, nt), tt.add(s, s, nt)
	t2.Include(t3)
	t1.Include(t2)
	assert.ElementsMatch(t, []*Transition{t2, t3}, t1.Includes())
	assert.ElementsMatch(t, []*Transition{t1, t2}, t3.IncludedBy())
	t3.Include(t1) // cycle
	assert.ElementsMatch(t, []*Transition{t1, t2}, t3.Includes())
	assert.ElementsMatch(t, []*Transition{t1, t3}, t2.Includes())
}
