package parser

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/terminals"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar creates a grammar for arithmetic expressions. If unary is set,
// it contains a unary minus binding tighter than multiplication.
func exprGrammar(unary bool) *lr.Grammar {
	g := lr.NewGrammar("Expr")
	num := terminals.NewNumber("number")
	E := g.NonTerminal("E")
	plus, minus := g.ToTerm("+"), g.ToTerm("-")
	times, div := g.ToTerm("*"), g.ToTerm("/")
	lp, rp := g.ToTerm("("), g.ToTerm(")")
	alts := []lr.Term{
		g.Seq(E, plus, E),
		g.Seq(E, minus, E),
		g.Seq(E, times, E),
		g.Seq(E, div, E),
		g.Seq(lp, E, rp),
		num,
	}
	if unary {
		alts = append(alts, g.Seq(minus, E, g.ImplyPrecedenceHere(30, lr.Right)))
	}
	E.SetRule(g.Alt(alts...))
	g.RegisterOperators(10, lr.Left, plus, minus)
	g.RegisterOperators(20, lr.Left, times, div)
	g.MarkPunctuation(lp, rp)
	g.AddOperatorReportGroup("operator")
	g.Root = E
	return g
}

func language(t *testing.T, g *lr.Grammar) *LanguageData {
	t.Helper()
	lang := NewLanguageData(g)
	require.True(t, lang.CanParse(), lang.Errors.Error())
	return lang
}

func parse(t *testing.T, lang *LanguageData, input string) *ParseTree {
	t.Helper()
	tree, err := NewParser(lang).Parse(context.Background(), input, "test")
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func eval(t *testing.T, node *ParseTreeNode) int64 {
	if node.Token != nil {
		n, ok := node.Token.Value.Int()
		require.True(t, ok, "expected a number, have %v", node.Token)
		return n
	}
	switch len(node.Children) {
	case 1:
		return eval(t, node.Children[0])
	case 2:
		return -eval(t, node.Children[1])
	}
	require.Len(t, node.Children, 3)
	a, b := eval(t, node.Children[0]), eval(t, node.Children[2])
	switch node.Children[1].Token.Text {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	}
	return a / b
}

func tokenTexts(tokens []*lr.Token) []string {
	r := make([]string, len(tokens))
	for i, tok := range tokens {
		r[i] = tok.Text
	}
	return r
}

func TestOperatorPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	assert.Equal(t, 0, lang.Errors.Count(lr.Conflict), lang.Errors.Error())
	var inputs = []struct {
		text  string
		sexpr string
		value int64
	}{
		{"2+3*4", "(2 + (3 * 4))", 14},
		{"2*3+4", "((2 * 3) + 4)", 10},
		{"9-3-2", "((9 - 3) - 2)", 4},
		{"(2+3)*4", "((2 + 3) * 4)", 20},
		{"8/2/2", "((8 / 2) / 2)", 2},
		{"42", "42", 42},
	}
	for _, input := range inputs {
		tree := parse(t, lang, input.text)
		require.Equal(t, Parsed, tree.Status, "input %q: %v", input.text, tree.ParserMessages)
		assert.Equal(t, input.sexpr, tree.Root.Sexpr(), "input %q", input.text)
		assert.Equal(t, input.value, eval(t, tree.Root), "input %q", input.text)
	}
}

func TestImpliedPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(true))
	tree := parse(t, lang, "-2*3")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, "((- 2) * 3)", tree.Root.Sexpr())
	tree = parse(t, lang, "1--2")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, int64(3), eval(t, tree.Root))
}

func TestTreeSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	tree := parse(t, lang, " 12 + (3*4)")
	require.Equal(t, Parsed, tree.Status)
	assert.Equal(t, "12 + (3*4)", tree.Root.Text(tree))
	assert.Equal(t, 1, tree.Root.Location.Position)
	right := tree.Root.Children[2]
	assert.Equal(t, "(3*4)", right.Text(tree))
	assert.Len(t, tree.Tokens, 8) // including EOF
	assert.GreaterOrEqual(t, tree.ParseTimeMilliseconds(), int64(0))
}

func TestReportGroupInSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	tree := parse(t, lang, "1 2")
	assert.Equal(t, Error, tree.Status)
	require.Len(t, tree.ParserMessages, 1)
	msg := tree.ParserMessages[0]
	assert.Equal(t, lr.ErrorMessage, msg.Level)
	assert.Contains(t, msg.Message, "operator")
	assert.NotContains(t, msg.Message, "+")
	assert.Equal(t, 2, msg.Location.Position)
	assert.NotEmpty(t, msg.ParserState)
}

func TestPartialInputInCommandLineMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	p := NewParser(lang)
	p.Mode = ModeCommandLine
	tree, err := p.Parse(context.Background(), "1 +", "repl")
	require.NoError(t, err)
	assert.Equal(t, Partial, tree.Status)
	assert.Empty(t, tree.ParserMessages)
	tree, err = p.Parse(context.Background(), "1 + 2", "repl")
	require.NoError(t, err)
	assert.Equal(t, Parsed, tree.Status)
	//
	tree = parse(t, lang, "1 +")
	assert.Equal(t, Error, tree.Status)
	require.Len(t, tree.ParserMessages, 1)
	assert.Contains(t, tree.ParserMessages[0].Message, "unexpected end of input")
	assert.Contains(t, tree.ParserMessages[0].Message, "number")
}

func TestLongestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	g := lr.NewGrammar("Compare")
	id := terminals.NewIdentifier("identifier")
	eq, eqeq := g.ToTerm("="), g.ToTerm("==")
	S := g.NonTerminal("S")
	S.SetRule(g.Alt(g.Seq(id, eq, id), g.Seq(id, eqeq, id)))
	g.Root = S
	lang := language(t, g)
	tree := parse(t, lang, "a==b")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	require.Len(t, tree.Tokens, 4)
	assert.Equal(t, lr.Terminal(eqeq), tree.Tokens[1].Terminal)
	assert.Equal(t, "==", tree.Tokens[1].Text)
}

func previewGrammar(hint func(g *lr.Grammar) lr.Term) *lr.Grammar {
	g := lr.NewGrammar("Preview")
	x, y, z := g.ToTerm("x"), g.ToTerm("y"), g.ToTerm("z")
	S, A, B := g.NonTerminal("S"), g.NonTerminal("A"), g.NonTerminal("B")
	S.SetRule(g.Alt(g.Seq(A, y, z), g.Seq(B, y, y)))
	A.SetRule(g.Seq(x, hint(g)))
	B.SetRule(x)
	g.Root = S
	return g
}

func TestPreviewConflictResolution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, previewGrammar(func(g *lr.Grammar) lr.Term {
		return g.ReduceIf("z", "y")
	}))
	for _, input := range []string{"x y z", "x y y"} {
		tree := parse(t, lang, input)
		require.Equal(t, Parsed, tree.Status, "input %q: %v", input, tree.ParserMessages)
		first := tree.Root.Children[0].Term.Name()
		if strings.HasSuffix(input, "z") {
			assert.Equal(t, "A", first)
		} else {
			assert.Equal(t, "B", first)
		}
		// the token stream is the same as without preview
		scanned, err := NewParser(lang).ScanOnly(context.Background(), input, "test")
		require.NoError(t, err)
		assert.Equal(t, tokenTexts(scanned.Tokens), tokenTexts(tree.Tokens))
		for i, tok := range tree.Tokens {
			assert.Equal(t, scanned.Tokens[i].Location, tok.Location)
		}
	}
}

func TestCustomConflictResolution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	calls := 0
	resolve := func(ctx lr.ActionContext, opts lr.CustomOptions) lr.CustomChoice {
		calls++
		assert.False(t, opts.Shift)
		assert.Equal(t, "y", ctx.CurrentToken().Text)
		assert.Equal(t, 1, ctx.StackDepth())
		assert.Equal(t, "x", ctx.StackTerm(0).Name())
		next := ""
		err := ctx.Preview(5, func(tok *lr.Token) bool {
			next = tok.Text
			return false
		})
		assert.NoError(t, err)
		for _, prod := range opts.Reduces {
			if (next == "z") == (prod.LValue.Name() == "A") {
				return lr.CustomChoice{Reduce: prod}
			}
		}
		return lr.CustomChoice{}
	}
	lang := language(t, previewGrammar(func(g *lr.Grammar) lr.Term {
		return g.ResolveInCode(resolve)
	}))
	tree := parse(t, lang, "x y y")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, "B", tree.Root.Children[0].Term.Name())
	tree = parse(t, lang, "x y z")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, "A", tree.Root.Children[0].Term.Name())
	assert.Equal(t, 2, calls)
}

func statementGrammar() *lr.Grammar {
	g := lr.NewGrammar("Statements")
	x, semi := g.ToTerm("x"), g.ToTerm(";")
	stmts, stmt := g.NonTerminal("stmts"), g.NonTerminal("stmt")
	stmt.SetRule(g.Alt(g.Seq(x, semi), g.Seq(g.SyntaxError, semi)))
	g.MakeStarRule(stmts, nil, stmt)
	g.MarkPunctuation(semi)
	g.Root = stmts
	return g
}

func TestErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, statementGrammar())
	tree := parse(t, lang, "x; x x; x;")
	assert.Equal(t, Error, tree.Status)
	require.Len(t, tree.ParserMessages, 1)
	assert.Contains(t, tree.ParserMessages[0].Message, `syntax error at "x"`)
	assert.Equal(t, 5, tree.ParserMessages[0].Location.Position)
	require.NotNil(t, tree.Root)
	require.Len(t, tree.Root.Children, 3)
	assert.Equal(t, "x", tree.Root.Children[0].Children[0].Token.Text)
	assert.True(t, tree.Root.Children[1].Children[0].IsError())
	//
	p := NewParser(lang)
	p.MaxErrors = 3
	tree, err := p.Parse(context.Background(), strings.Repeat("x x; ", 10)+"x;", "test")
	require.NoError(t, err)
	assert.Equal(t, Error, tree.Status)
	assert.Len(t, tree.ParserMessages, 3)
	require.NotNil(t, tree.Root)
	assert.Len(t, tree.Root.Children, 11)
}

func TestUnrecoverableError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, statementGrammar())
	tree := parse(t, lang, "x; x x")
	assert.Equal(t, Error, tree.Status)
	assert.Nil(t, tree.Root)
	require.Len(t, tree.ParserMessages, 1)
}

func TestEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, statementGrammar())
	tree := parse(t, lang, "  ")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, "stmts", tree.Root.Term.Name())
	assert.Empty(t, tree.Root.Children)
}

func TestKeyTermBackpatching(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	g := lr.NewGrammar("Print")
	id := terminals.NewIdentifier("identifier")
	id.Priority = lr.HighPriority + 1 // let identifiers win over keywords in the scanner
	kwPrint := g.ToTerm("print")
	stmt := g.NonTerminal("stmt")
	stmt.SetRule(g.Alt(g.Seq(kwPrint, id), g.Seq(id, g.ToTerm("="), id)))
	g.Root = stmt
	lang := language(t, g)
	tree := parse(t, lang, "print x")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, lr.Terminal(kwPrint), tree.Tokens[0].Terminal)
	tree = parse(t, lang, "x = print")
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, lr.Terminal(id), tree.Tokens[2].Terminal)
	assert.Same(t, kwPrint, tree.Tokens[2].KeyTerm)
}

func TestBraceMatching(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	g := lr.NewGrammar("Braces")
	x := g.ToTerm("x")
	opening, closing := g.NonTerminal("open"), g.NonTerminal("close")
	opening.SetRule(g.Alt(g.ToTerm("("), g.ToTerm("[")))
	closing.SetRule(g.Alt(g.ToTerm(")"), g.ToTerm("]")))
	E := g.NonTerminal("E")
	E.SetRule(g.Alt(g.Seq(opening, E, closing), x))
	g.RegisterBracePair("(", ")")
	g.RegisterBracePair("[", "]")
	g.Root = E
	lang := language(t, g)
	tree := parse(t, lang, "([x])")
	assert.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	tree = parse(t, lang, "([x)]")
	assert.Equal(t, Error, tree.Status)
	require.Len(t, tree.ParserMessages, 2)
	assert.Contains(t, tree.ParserMessages[0].Message, "does not match")
}

func TestObservers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	g := exprGrammar(false)
	lang := language(t, g)
	p := NewParser(lang)
	E := lang.GrammarData.FindTerm("E")
	reduced, shifted := 0, 0
	var texts []string
	p.Observe(Reduced, E, func(ev *Event) {
		reduced++
		assert.Same(t, ev.Node, ev.Context.Stack().Top())
	})
	h := p.Observe(Shifting, nil, func(ev *Event) {
		shifted++
		texts = append(texts, ev.Node.Token.Text)
	})
	tree, err := p.Parse(context.Background(), "2+3*4", "test")
	require.NoError(t, err)
	require.Equal(t, Parsed, tree.Status)
	assert.Equal(t, 5, reduced)
	assert.Equal(t, 6, shifted)
	assert.Equal(t, []string{"2", "+", "3", "*", "4", ""}, texts)
	assert.True(t, p.RemoveObserver(h))
	assert.False(t, p.RemoveObserver(h))
	_, err = p.Parse(context.Background(), "1", "test")
	require.NoError(t, err)
	assert.Equal(t, 6, shifted)
	assert.Equal(t, 6, reduced)
}

func TestCancelledParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tree, err := NewParser(lang).Parse(ctx, "1+2", "test")
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, tree)
	assert.Equal(t, Error, tree.Status)
}

func TestInvalidGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	g := lr.NewGrammar("Broken")
	S, A := g.NonTerminal("S"), g.NonTerminal("A")
	S.SetRule(g.Seq(A, g.ToTerm("x")))
	g.Root = S
	lang := NewLanguageData(g)
	assert.False(t, lang.CanParse())
	assert.Equal(t, lr.Error, lang.ErrorLevel())
	assert.Greater(t, lang.ConstructionTime.Nanoseconds(), int64(0))
	_, err := NewParser(lang).Parse(context.Background(), "x", "test")
	assert.Error(t, err)
}

func TestStateConstructionIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	dump := func(lang *LanguageData) []string {
		var lines []string
		for _, s := range lang.ParserData.States {
			var acts []string
			for term, a := range s.Actions {
				acts = append(acts, fmt.Sprintf("%s:%v", term.Name(), a))
			}
			sort.Strings(acts)
			lines = append(lines, s.Name+" "+strings.Join(acts, " "))
		}
		return lines
	}
	a := dump(language(t, exprGrammar(true)))
	b := dump(language(t, exprGrammar(true)))
	assert.Equal(t, a, b)
}

func TestSnippetRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	g := lr.NewGrammar("Assignments")
	id, num := terminals.NewIdentifier("identifier"), terminals.NewNumber("number")
	assign, value := g.NonTerminal("assign"), g.NonTerminal("value")
	value.SetRule(g.Alt(id, num))
	assign.SetRule(g.Seq(id, g.ToTerm(":="), value))
	g.AddSnippetRoot(value)
	g.Root = assign
	lang := language(t, g)
	p := NewParser(lang)
	tree, err := p.ParseSnippet(context.Background(), value, "17", "snippet")
	require.NoError(t, err)
	require.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	assert.Equal(t, "value", tree.Root.Term.Name())
	tree, err = p.ParseSnippet(context.Background(), assign, "a := b", "snippet")
	require.NoError(t, err)
	assert.Equal(t, Parsed, tree.Status, "%v", tree.ParserMessages)
	_, err = p.ParseSnippet(context.Background(), g.NonTerminal("other"), "17", "snippet")
	assert.Error(t, err)
}

func TestTraceAndScanOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	p := NewParser(lang)
	p.TraceEnabled = true
	tree, err := p.Parse(context.Background(), "1+2", "test")
	require.NoError(t, err)
	require.NotEmpty(t, tree.Trace)
	assert.Equal(t, "accept", tree.Trace[len(tree.Trace)-1].Action)
	tree, err = p.ScanOnly(context.Background(), "1 + $ 2", "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "+", "$", "2", ""}, tokenTexts(tree.Tokens))
	assert.Equal(t, Error, tree.Status)
	require.Len(t, tree.ParserMessages, 1)
	assert.Contains(t, tree.ParserMessages[0].Message, "invalid character")
}

func TestParseAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.parser")
	defer teardown()
	//
	lang := language(t, exprGrammar(false))
	inputs := []Input{
		{Text: "1+2*3", FileName: "a"},
		{Text: "(1+2)*3", FileName: "b"},
		{Text: "1+", FileName: "c"},
		{Text: "10-4-3", FileName: "d"},
	}
	trees, err := ParseAll(context.Background(), lang, ModeFile, inputs...)
	require.NoError(t, err)
	require.Len(t, trees, 4)
	assert.Equal(t, int64(7), eval(t, trees[0].Root))
	assert.Equal(t, int64(9), eval(t, trees[1].Root))
	assert.Equal(t, Error, trees[2].Status)
	assert.Equal(t, "c", trees[2].FileName)
	assert.Equal(t, int64(3), eval(t, trees[3].Root))
}
