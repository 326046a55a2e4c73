package parser

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lalr/lr"
)

// syntaxError handles input for which the current state has no action. In
// command line mode, premature end of input is accepted as partial input.
// Otherwise the error is reported and the parser tries to recover.
func (p *Parser) syntaxError(pc *ParsingContext) {
	g := pc.lang.Grammar
	tok := pc.input.Token
	state := pc.stack.TopState()
	if pc.Mode == ModeCommandLine && tok.Terminal == g.EOF {
		p.trace(pc, "accept partial input")
		pc.Tree.Status = Partial
		return
	}
	p.trace(pc, "error")
	if tok.IsError() {
		msg, _ := tok.Value.Str()
		pc.AddMessage(lr.ErrorMessage, tok, "%s", msg)
	} else {
		pc.AddMessage(lr.ErrorMessage, tok, "%s", syntaxErrorMessage(tok, state.ReportedExpected, g))
	}
	if !p.recover(pc) {
		tracer().Debugf("error recovery failed in state %s", state)
		pc.Tree.Status = Error
	}
}

func syntaxErrorMessage(tok *lr.Token, expected []string, g *lr.Grammar) string {
	var b strings.Builder
	if tok.Terminal == g.EOF {
		b.WriteString("syntax error, unexpected end of input")
	} else {
		fmt.Fprintf(&b, "syntax error at %q", tok.Text)
	}
	if len(expected) > 0 {
		b.WriteString(", expected: ")
		b.WriteString(strings.Join(expected, ", "))
	}
	return b.String()
}

// recover tries to continue after a syntax error. The stack is unwound to the
// nearest state with an action for the SyntaxError term, and the error term is
// shifted. Then input is skipped until the parser can continue. Recovery fails
// if no error production is available or if input ends.
func (p *Parser) recover(pc *ParsingContext) bool {
	g := pc.lang.Grammar
	tok := pc.input.Token
	if tok.Terminal == g.EOF {
		return false
	}
	depth := -1
	for d := 0; d <= pc.stack.Depth(); d++ {
		if pc.stack.StateAt(d).Next(g.SyntaxError) != nil {
			depth = d
			break
		}
	}
	if depth < 0 {
		return false
	}
	pc.stack.PopN(depth)
	next := pc.stack.TopState().Next(g.SyntaxError)
	errTok := &lr.Token{
		Terminal: g.SyntaxError,
		Location: tok.Location,
		Value:    lr.StringVal("syntax error"),
	}
	p.trace(pc, "error recovery: shift error term to "+next.Name)
	pc.stack.Push(newTokenNode(errTok), next)
	for {
		if pc.ctx.Err() != nil {
			return false
		}
		state := pc.stack.TopState()
		if state.DefaultAction != nil || p.findAction(pc, state) != nil {
			tracer().Debugf("recovered from syntax error at %v", pc.input.Token)
			return true
		}
		if pc.input.Token.Terminal == g.EOF {
			return false
		}
		tracer().Debugf("error recovery: skipping %v", pc.input.Token)
		p.readInput(pc)
	}
}
