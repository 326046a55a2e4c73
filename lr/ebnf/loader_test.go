package ebnf

import (
	"context"
	"testing"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/parser"
	"github.com/npillmayer/lalr/lr/terminals"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprGrammar = `
Expr   = Term { AddOp Term } .
AddOp  = "+" | "-" .
Term   = number | "(" Expr ")" | ident [ "!" ] .
number = digit { digit } .
digit  = "0" … "9" .
ident  = letter { letter | digit } .
letter = "a" … "z" | "_" .
`

func TestLoadAndParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.grammar")
	defer teardown()
	//
	g, err := LoadString("expr", exprGrammar, "Expr", nil)
	require.NoError(t, err)
	require.NotNil(t, g.Root)
	assert.Equal(t, "Expr", g.Root.Name())
	lang := parser.NewLanguageData(g)
	require.True(t, lang.CanParse(), lang.Errors.Error())
	var inputs = []struct {
		text   string
		tokens int
	}{
		{"1+2", 4},
		{"(a1 + 20) - x_y!", 9},
		{"42", 2},
	}
	for _, input := range inputs {
		tree, err := parser.NewParser(lang).Parse(context.Background(), input.text, "test")
		require.NoError(t, err)
		assert.Equal(t, parser.Parsed, tree.Status, "input %q: %v", input.text, tree.ParserMessages)
		assert.Len(t, tree.Tokens, input.tokens, "input %q", input.text)
	}
	tree, err := parser.NewParser(lang).Parse(context.Background(), "1 + + 2", "test")
	require.NoError(t, err)
	assert.Equal(t, parser.Error, tree.Status)
}

func TestBoundTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.grammar")
	defer teardown()
	//
	num := terminals.NewNumber("number", terminals.AllowHex)
	g, err := LoadString("expr", exprGrammar, "Expr", map[string]lr.Terminal{"number": num})
	require.NoError(t, err)
	lang := parser.NewLanguageData(g)
	require.True(t, lang.CanParse(), lang.Errors.Error())
	assert.Equal(t, lr.Term(num), lang.GrammarData.FindTerm("number"))
	_, isRegex := lang.GrammarData.FindTerm("ident").(*terminals.Regex)
	assert.True(t, isRegex)
	tree, err := parser.NewParser(lang).Parse(context.Background(), "0x1F+1", "test")
	require.NoError(t, err)
	require.Equal(t, parser.Parsed, tree.Status, "%v", tree.ParserMessages)
	n, ok := tree.Tokens[0].Value.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(31), n)
}

func TestRegexTranslation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.grammar")
	defer teardown()
	//
	g, err := LoadString("lex", `
S     = op .
op    = "+" | "(*" [ "." ] | "[" "a" … "c" "]" .
`, "S", nil)
	require.NoError(t, err)
	lang := parser.NewLanguageData(g)
	require.True(t, lang.CanParse(), lang.Errors.Error())
	re, ok := lang.GrammarData.FindTerm("op").(*terminals.Regex)
	require.True(t, ok)
	assert.Equal(t, `(\+|\(\*(\.)?|\[[a-c]\])`, re.Pattern)
	assert.Equal(t, []string{"+", "(", "["}, re.Firsts())
	for _, input := range []string{"+", "(*.", "[b]"} {
		tree, err := parser.NewParser(lang).Parse(context.Background(), input, "test")
		require.NoError(t, err)
		assert.Equal(t, parser.Parsed, tree.Status, "input %q: %v", input, tree.ParserMessages)
	}
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.grammar")
	defer teardown()
	//
	var grammars = []struct {
		src, start, message string
	}{
		{`S = "x" `, "S", "parse grammar"},
		{`S = T .`, "S", "verify grammar"},
		{`s = "x" .`, "s", "is lexical"},
		{`S = "a" … "z" .`, "S", "outside of lexical production"},
		{`S = a . a = "x" { a } .`, "S", "recursive lexical production"},
	}
	for _, gr := range grammars {
		_, err := LoadString("bad", gr.src, gr.start, nil)
		require.Error(t, err, gr.src)
		assert.Contains(t, err.Error(), gr.message, gr.src)
	}
}
