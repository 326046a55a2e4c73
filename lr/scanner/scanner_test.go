package scanner

import (
	"testing"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineComment is a minimal non-grammar terminal: '#' up to the end of the line.
type lineComment struct {
	lr.TerminalBase
}

func (c *lineComment) Init(gd *lr.GrammarData) {}

func (c *lineComment) Firsts() []string {
	return []string{"#"}
}

func (c *lineComment) TryMatch(src lr.Source) *lr.Token {
	if src.PreviewChar() != '#' {
		return nil
	}
	for r := src.NextPreviewChar(); r != '\n' && r != lr.EOFChar; r = src.NextPreviewChar() {
	}
	return src.CreateToken(c)
}

type testGrammar struct {
	g                    *lr.Grammar
	x, eq, eqeq, lt, shl *lr.KeyTerm
	gd                   *lr.GrammarData
	data                 *Data
}

// marker is a non-grammar terminal without first characters: '!' up to the
// next blank.
type marker struct {
	lr.TerminalBase
}

func (m *marker) Init(gd *lr.GrammarData) {}

func (m *marker) Firsts() []string {
	return nil
}

func (m *marker) TryMatch(src lr.Source) *lr.Token {
	if src.PreviewChar() != '!' {
		return nil
	}
	for r := src.NextPreviewChar(); r != ' ' && r != lr.EOFChar; r = src.NextPreviewChar() {
	}
	return src.CreateToken(m)
}

// pair is a terminal for "%%", delivered as two tokens of another terminal.
type pair struct {
	lr.TerminalBase
	part lr.Terminal
}

func (p *pair) Init(gd *lr.GrammarData) {}

func (p *pair) Firsts() []string {
	return []string{"%"}
}

func (p *pair) TryMatch(src lr.Source) *lr.Token {
	if src.PreviewChar() != '%' || src.NextPreviewChar() != '%' {
		return nil
	}
	src.NextPreviewChar()
	tok := src.CreateToken(p)
	first, second := *tok, *tok
	first.Terminal, first.Length, first.Text = p.part, 1, tok.Text[:1]
	second.Terminal, second.Length, second.Text = p.part, 1, tok.Text[1:]
	second.Location = tok.Location.Advance('%', 1)
	tok.Parts = []*lr.Token{&first, &second}
	return tok
}

func makeTestGrammar(t *testing.T, withComments bool) *testGrammar {
	g := lr.NewGrammar("Ops")
	tg := &testGrammar{g: g}
	tg.x = g.ToTerm("x")
	tg.eq, tg.eqeq = g.ToTerm("="), g.ToTerm("==")
	tg.lt, tg.shl = g.ToTerm("<"), g.ToTerm("<<")
	S := g.NonTerminal("S")
	S.SetRule(g.Alt(
		g.Seq(tg.x, tg.eq, tg.x),
		g.Seq(tg.x, tg.eqeq, tg.x),
		g.Seq(tg.x, tg.lt, tg.x),
		g.Seq(tg.x, tg.shl, tg.x)))
	g.Root = S
	if withComments {
		g.AddNonGrammarTerminal(&lineComment{lr.MakeTerminalBase("comment", lr.Comment, lr.NormalPriority)})
	}
	gd, err := lr.BuildGrammarData(g, &lr.GrammarErrorList{})
	require.NoError(t, err)
	tg.gd = gd
	tg.data = BuildScannerData(gd)
	return tg
}

func texts(tokens []*lr.Token) []string {
	r := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok.IsError() {
			r[i] = "!"
		} else {
			r[i] = tok.Text
		}
	}
	return r
}

var inputStrings = []string{
	"x = x",
	"x==x",
	"x<<x",
	"  x\t<\nx ",
	"",
}

var tokenTexts = [][]string{
	{"x", "=", "x", ""},
	{"x", "==", "x", ""},
	{"x", "<<", "x", ""},
	{"x", "<", "x", ""},
	{""},
}

func TestScanLongestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, false)
	for i, input := range inputStrings {
		sc := New(tg.data, input, "test")
		tokens := sc.ScanAll()
		assert.Equal(t, tokenTexts[i], texts(tokens), "input #%d", i)
		assert.Equal(t, tg.g.EOF, tokens[len(tokens)-1].Terminal)
	}
}

func TestScanLocations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, false)
	sc := New(tg.data, "x\n  ==\nx", "test")
	tokens := sc.ScanAll()
	require.Len(t, tokens, 4)
	assert.Equal(t, 1, tokens[1].Location.Line)
	assert.Equal(t, 2, tokens[1].Location.Column)
	assert.Equal(t, 4, tokens[1].Location.Position)
	assert.Equal(t, 2, tokens[1].Length)
	assert.Equal(t, "(3:1)", tokens[2].Location.String())
}

func TestScanExpectedTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, false)
	sc := New(tg.data, "<<", "test")
	sc.SetExpectedTerminals(func() *lr.TerminalSet {
		set := tg.gd.NewTerminalSet()
		set.Add(tg.lt)
		return set
	})
	tok := sc.NextToken()
	assert.Equal(t, lr.Terminal(tg.lt), tok.Terminal)
	assert.Equal(t, 1, tok.Length)
	// no expected terminal fits: fall back to all candidates
	sc = New(tg.data, "==", "test")
	sc.SetExpectedTerminals(func() *lr.TerminalSet {
		set := tg.gd.NewTerminalSet()
		set.Add(tg.x)
		return set
	})
	tok = sc.NextToken()
	assert.Equal(t, lr.Terminal(tg.eqeq), tok.Terminal)
}

func TestScanErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, false)
	sc := New(tg.data, "x $%& = x", "test")
	tokens := sc.ScanAll()
	assert.Equal(t, []string{"x", "!", "=", "x", ""}, texts(tokens))
	msg, ok := tokens[1].Value.Str()
	assert.True(t, ok)
	assert.Contains(t, msg, "invalid character")
	assert.Equal(t, 3, tokens[1].Length)
}

func TestScanComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, true)
	sc := New(tg.data, "x # first\n= # second\n x", "test")
	tokens := sc.ScanAll()
	assert.Equal(t, []string{"x", "=", "x", ""}, texts(tokens))
	require.Len(t, tokens[1].Comments, 1)
	assert.Equal(t, "# first", tokens[1].Comments[0].Text)
	assert.Equal(t, lr.Comment, tokens[1].Comments[0].Category())
	require.Len(t, tokens[2].Comments, 1)
	assert.Empty(t, tokens[0].Comments)
}

func TestPreviewRollback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, false)
	sc := New(tg.data, "x == x", "test")
	first := sc.NextToken()
	assert.Equal(t, "x", first.Text)
	sc.BeginPreview()
	assert.Equal(t, "==", sc.PreviewToken().Text)
	assert.Equal(t, "x", sc.PreviewToken().Text)
	assert.Equal(t, tg.g.EOF, sc.PreviewToken().Terminal)
	assert.Equal(t, tg.g.EOF, sc.PreviewToken().Terminal)
	sc.EndPreview(false)
	assert.Equal(t, 1, sc.Location().Position)
	assert.Equal(t, []string{"==", "x", ""}, texts(sc.ScanAll()))
}

func TestPreviewKeep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	tg := makeTestGrammar(t, false)
	sc := New(tg.data, "x == x", "test")
	sc.BeginPreview()
	a := sc.PreviewToken()
	b := sc.PreviewToken()
	sc.EndPreview(true)
	assert.Same(t, a, sc.NextToken())
	assert.Same(t, b, sc.NextToken())
	assert.Equal(t, "x", sc.NextToken().Text)
}

func TestNewLineBeforeEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	g := lr.NewGrammar("Lines")
	x := g.ToTerm("x")
	line, lines := g.NonTerminal("line"), g.NonTerminal("lines")
	line.SetRule(g.Seq(x, g.NewLine))
	g.MakePlusRule(lines, nil, line)
	g.Root = lines
	gd, err := lr.BuildGrammarData(g, &lr.GrammarErrorList{})
	require.NoError(t, err)
	require.True(t, gd.UsesNewLine)
	sc := New(BuildScannerData(gd), "x\n x", "test")
	tokens := sc.ScanAll()
	require.Len(t, tokens, 5)
	assert.Equal(t, g.NewLine, tokens[1].Terminal)
	assert.Equal(t, g.NewLine, tokens[3].Terminal)
	assert.Equal(t, g.EOF, tokens[4].Terminal)
}

func makePairGrammar(t *testing.T) (*lr.Grammar, *Data) {
	g := lr.NewGrammar("Pairs")
	x, eq := g.ToTerm("x"), g.ToTerm("=")
	S := g.NonTerminal("S")
	S.SetRule(g.Alt(
		g.Seq(x, eq, x),
		&pair{TerminalBase: lr.MakeTerminalBase("pair", lr.Content, lr.NormalPriority), part: x}))
	g.Root = S
	g.AddNonGrammarTerminal(&lineComment{lr.MakeTerminalBase("comment", lr.Comment, lr.NormalPriority)})
	gd, err := lr.BuildGrammarData(g, &lr.GrammarErrorList{})
	require.NoError(t, err)
	return g, BuildScannerData(gd)
}

func TestMultiTokenParts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	g, data := makePairGrammar(t)
	x := g.ToTerm("x")
	sc := New(data, "%% = x", "test")
	tokens := sc.ScanAll()
	assert.Equal(t, []string{"%", "%", "=", "x", ""}, texts(tokens))
	assert.Equal(t, lr.Terminal(x), tokens[0].Terminal)
	assert.Equal(t, lr.Terminal(x), tokens[1].Terminal)
	assert.Equal(t, 1, tokens[1].Location.Position)
	assert.Equal(t, 3, tokens[2].Location.Position)
	// the second part is queued when the first one is delivered
	sc = New(data, "%%", "test")
	first := sc.NextToken()
	assert.Equal(t, 0, first.Location.Position)
	sc.BeginPreview()
	second := sc.PreviewToken()
	assert.Equal(t, 1, second.Location.Position)
	assert.Equal(t, g.EOF, sc.PreviewToken().Terminal)
	sc.EndPreview(false)
	assert.Same(t, second, sc.NextToken(), "queued part must survive a rollback")
	assert.Equal(t, g.EOF, sc.NextToken().Terminal)
}

func TestMultiTokenPreview(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	g, data := makePairGrammar(t)
	sc := New(data, "# lead\n%%", "test")
	sc.BeginPreview()
	a, b := sc.PreviewToken(), sc.PreviewToken()
	assert.Equal(t, []string{"%", "%"}, texts([]*lr.Token{a, b}))
	assert.Equal(t, g.EOF, sc.PreviewToken().Terminal)
	sc.EndPreview(false)
	assert.Equal(t, 0, sc.Location().Position)
	tokens := sc.ScanAll()
	assert.Equal(t, []string{"%", "%", ""}, texts(tokens))
	require.Len(t, tokens[0].Comments, 1, "comments move to the first part")
	assert.Equal(t, "# lead", tokens[0].Comments[0].Text)
	// comments survive a preview which keeps its tokens
	sc = New(data, "# lead\n%%", "test")
	sc.BeginPreview()
	a = sc.PreviewToken()
	sc.EndPreview(true)
	assert.Same(t, a, sc.NextToken())
	require.Len(t, a.Comments, 1)
	assert.Equal(t, "# lead", a.Comments[0].Text)
	assert.Equal(t, "%", sc.NextToken().Text)
}

func TestNonGrammarWithoutFirsts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	g := lr.NewGrammar("Marks")
	x := g.ToTerm("x")
	S := g.NonTerminal("S")
	S.SetRule(g.Seq(x, x))
	g.Root = S
	g.AddNonGrammarTerminal(&marker{lr.MakeTerminalBase("marker", lr.Directive, lr.NormalPriority)})
	gd, err := lr.BuildGrammarData(g, &lr.GrammarErrorList{})
	require.NoError(t, err)
	sc := New(BuildScannerData(gd), "!one x !two x", "test")
	tokens := sc.ScanAll()
	assert.Equal(t, []string{"x", "x", ""}, texts(tokens))
	require.Len(t, tokens[0].Comments, 1)
	assert.Equal(t, "!one", tokens[0].Comments[0].Text)
	require.Len(t, tokens[1].Comments, 1)
	assert.Equal(t, "!two", tokens[1].Comments[0].Text)
}
