package main

import (
	"fmt"
	"math"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/parser"
	"github.com/npillmayer/lalr/lr/walk"
	"github.com/pterm/pterm"
)

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func treeAsLeveledList(tree *parser.ParseTree) pterm.LeveledList {
	var ll pterm.LeveledList
	walk.Walk(tree.Root, func(node *parser.ParseTreeNode, level int) bool {
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: nodeLabel(node)})
		return true
	})
	return ll
}

func nodeLabel(node *parser.ParseTreeNode) string {
	switch {
	case node.IsError():
		return "<syntax error>"
	case node.IsLeaf() && node.Token != nil:
		return fmt.Sprintf("%s %q", node.Term.Name(), node.Token.Text)
	}
	return node.Term.Name()
}

func printTree(tree *parser.ParseTree) {
	if tree.Root == nil {
		return
	}
	root := pterm.NewTreeFromLeveledList(treeAsLeveledList(tree))
	pterm.DefaultTree.WithRoot(root).Render()
}

func printMessages(tree *parser.ParseTree) {
	for _, m := range tree.ParserMessages {
		switch m.Level {
		case lr.ErrorMessage:
			pterm.Error.Println(m.String())
		case lr.WarningMessage:
			pterm.Warning.Println(m.String())
		default:
			pterm.Info.Println(m.String())
		}
	}
}

func printTokens(tree *parser.ParseTree) {
	for _, tok := range tree.Tokens {
		pterm.Printf("%v\t%-12s %q\n", tok.Location, tok.Terminal.Name(), tok.Text)
	}
}

func printTrace(tree *parser.ParseTree) {
	for _, e := range tree.Trace {
		if e.IsError {
			pterm.Error.Println(e.String())
			continue
		}
		pterm.Println(e.String())
	}
}

// --- Evaluation of arithmetic expressions ----------------------------------

// evaluator computes the value of a tree for the built-in expression grammar.
type evaluator struct {
	walk.EmptyListener
}

func (ev evaluator) Terminal(tok *lr.Token, ctx walk.RuleCtxt) interface{} {
	if x, ok := tok.Value.Float(); ok {
		return x
	}
	return tok.Text
}

func (ev evaluator) ExitRule(sym lr.Term, children []*parser.ParseTreeNode, ctx walk.RuleCtxt) interface{} {
	switch len(ctx.Values) {
	case 1:
		return ctx.Values[0]
	case 2: // unary minus
		return -number(ctx.Values[1])
	case 3:
		a, b := number(ctx.Values[0]), number(ctx.Values[2])
		switch ctx.Values[1] {
		case "+":
			return a + b
		case "-":
			return a - b
		case "*":
			return a * b
		case "/":
			return a / b
		case "^":
			return math.Pow(a, b)
		}
	}
	return math.NaN()
}

func number(v interface{}) float64 {
	if x, ok := v.(float64); ok {
		return x
	}
	return math.NaN()
}

// evaluate returns the value of an arithmetic expression tree.
func evaluate(tree *parser.ParseTree) (float64, bool) {
	if tree.Status != parser.Parsed {
		return 0, false
	}
	c := walk.NewCursor(tree, nil)
	if c == nil {
		return 0, false
	}
	x, ok := c.BottomUp(evaluator{}, walk.LtoR).(float64)
	return x, ok
}
