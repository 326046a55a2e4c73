package parser

import (
	"strings"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/automaton"
)

// run is the main loop of the parser. It returns an error only if the parse
// has been cancelled.
func (p *Parser) run(pc *ParsingContext) error {
	for pc.Tree.Status == Parsing {
		if err := pc.ctx.Err(); err != nil {
			tracer().Infof("parse cancelled: %v", err)
			return err
		}
		state := pc.stack.TopState()
		if state.DefaultAction != nil {
			p.execute(pc, state.DefaultAction)
			continue
		}
		if pc.input == nil {
			p.readInput(pc)
		}
		action := p.findAction(pc, state)
		if action == nil {
			p.syntaxError(pc)
			continue
		}
		p.execute(pc, action)
	}
	return nil
}

// readInput reads the next token from the scanner and makes it the current
// input.
func (p *Parser) readInput(pc *ParsingContext) {
	tok := pc.scanner.NextToken()
	if out := lr.OutputOf(tok.Terminal); out != tok.Terminal {
		tok.SetTerminal(out)
	}
	pc.Tree.Tokens = append(pc.Tree.Tokens, tok)
	pc.input = newTokenNode(tok)
}

// findAction looks up the action for the current input. A token matching
// a key term of the grammar, e.g. an identifier spelled like a keyword, is
// re-labeled as the key term if the state has an action for it.
func (p *Parser) findAction(pc *ParsingContext, state *automaton.ParserState) automaton.Action {
	tok := pc.input.Token
	if tok.IsError() {
		return nil
	}
	if kt := tok.KeyTerm; kt != nil && tok.Terminal != lr.Terminal(kt) && kt.Matches(tok.Text) {
		if a, ok := state.Actions[kt]; ok {
			tracer().Debugf("token %v re-labeled as key term %s", tok, kt)
			tok.SetTerminal(kt)
			pc.input.Term = kt
			return a
		}
	}
	if a, ok := state.Actions[tok.Terminal]; ok {
		return a
	}
	return nil
}

func (p *Parser) execute(pc *ParsingContext, action automaton.Action) {
	switch a := action.(type) {
	case *automaton.ShiftAction:
		p.shift(pc, a)
	case *automaton.ReduceAction:
		p.reduce(pc, a.Production)
	case *automaton.AcceptAction:
		p.accept(pc, a.Production)
	case *automaton.ConditionalAction:
		for _, e := range a.Entries {
			if e.Condition(pc) {
				p.trace(pc, "condition "+e.Description+" holds")
				p.execute(pc, e.Action)
				return
			}
		}
		p.execute(pc, a.Default)
	case *automaton.PrecedenceAction:
		p.execute(pc, p.decidePrecedence(pc, a))
	case *automaton.CustomAction:
		choice := a.Resolve(pc, a.Options())
		next := a.Choose(choice)
		if next == nil {
			pc.AddMessage(lr.ErrorMessage, pc.CurrentToken(),
				"conflict resolution for %s chose an invalid action", a.Terminal.Name())
			if !p.recover(pc) {
				pc.Tree.Status = Error
			}
			return
		}
		p.execute(pc, next)
	default:
		pc.AddMessage(lr.ErrorMessage, pc.CurrentToken(), "internal error: unknown parser action %v", action)
		pc.Tree.Status = Error
	}
}

// --- Shift and reduce ------------------------------------------------------

func (p *Parser) shift(pc *ParsingContext, a *automaton.ShiftAction) {
	node := pc.input
	p.checkBraces(pc, node.Token)
	p.notify(pc, Shifting, node.Term, node)
	p.trace(pc, a.String())
	pc.stack.Push(node, a.NewState)
	pc.input = nil
}

// checkBraces keeps track of open braces and checks that closing braces match.
func (p *Parser) checkBraces(pc *ParsingContext, tok *lr.Token) {
	t := tok.Terminal.Base()
	if t.Is(lr.IsOpenBrace) {
		pc.braces = append(pc.braces, tok)
		return
	}
	if !t.Is(lr.IsCloseBrace) {
		return
	}
	if len(pc.braces) == 0 {
		pc.AddMessage(lr.ErrorMessage, tok, "unmatched closing brace %q", tok.Text)
		return
	}
	open := pc.braces[len(pc.braces)-1]
	pc.braces = pc.braces[:len(pc.braces)-1]
	kt, _ := tok.Terminal.(*lr.KeyTerm)
	if okt, ok := open.Terminal.(*lr.KeyTerm); ok && kt != nil && okt.PairFor != kt {
		pc.AddMessage(lr.ErrorMessage, tok, "closing brace %q does not match %q at %v",
			tok.Text, open.Text, open.Location)
	}
}

func (p *Parser) reduce(pc *ParsingContext, prod *lr.Production) {
	children := pc.stack.PopN(len(prod.RValues))
	node := p.buildNode(pc, prod, children)
	next := pc.stack.TopState().Next(prod.LValue)
	if next == nil {
		pc.AddMessage(lr.ErrorMessage, pc.CurrentToken(), "internal error: no transition for %s in state %s",
			prod.LValue.Name(), pc.stack.TopState())
		pc.Tree.Status = Error
		return
	}
	p.trace(pc, "reduce "+prod.String())
	pc.stack.Push(node, next)
	p.notify(pc, Reduced, prod.LValue, node)
}

// buildNode creates the parse tree node for a reduction. Punctuation is
// dropped, transient non-terminals are replaced by their single child, and
// lists are flattened.
func (p *Parser) buildNode(pc *ParsingContext, prod *lr.Production, children []*ParseTreeNode) *ParseTreeNode {
	lhs := prod.LValue
	kept := make([]*ParseTreeNode, 0, len(children))
	for _, ch := range children {
		if ch.Term != nil && ch.Term.Base().Is(lr.IsPunctuation) {
			continue
		}
		kept = append(kept, ch)
	}
	if lhs.Is(lr.IsTransient) && len(kept) == 1 {
		return kept[0]
	}
	node := &ParseTreeNode{Term: lhs, Production: prod}
	switch {
	case lhs.Is(lr.IsList) && len(children) > 1 && children[0].Term == lr.Term(lhs):
		node.Children = append(node.Children, children[0].Children...)
		if last := children[len(children)-1]; !last.Term.Base().Is(lr.IsPunctuation) {
			node.Children = append(node.Children, last)
		}
	case lhs.Is(lr.IsListContainer) && len(kept) > 0 && kept[0].Term != nil && kept[0].Term.Base().Is(lr.IsList):
		node.Children = append(node.Children, kept[0].Children...)
	default:
		node.Children = kept
	}
	if len(children) == 0 {
		loc := pc.scanner.Location()
		if pc.input != nil {
			loc = pc.input.Location
		}
		node.Location = loc
		node.Span = lalr.MakeSpan(loc.Position, 0)
		return node
	}
	node.Location = children[0].Location
	for _, ch := range children {
		node.Span = node.Span.Extend(ch.Span)
	}
	return node
}

func (p *Parser) accept(pc *ParsingContext, prod *lr.Production) {
	children := pc.stack.PopN(len(prod.RValues))
	pc.Tree.Root = children[0]
	p.trace(pc, "accept")
	if pc.Tree.HasErrors() {
		pc.Tree.Status = Error
	} else {
		pc.Tree.Status = Parsed
	}
}

// decidePrecedence decides between shift and reduce for an operator. The
// precedence of the production is either set explicitly, or it is the
// precedence of the topmost operator within the handle.
func (p *Parser) decidePrecedence(pc *ParsingContext, a *automaton.PrecedenceAction) automaton.Action {
	prod := a.Reduce.Production
	prec := prod.Precedence
	if prec == lr.NoPrecedence {
		for d := 0; d < len(prod.RValues); d++ {
			node := pc.stack.At(d)
			if node == nil {
				break
			}
			if node.Term != nil && node.Term.Base().Is(lr.IsOperator) {
				prec = node.Term.Base().Precedence()
				break
			}
		}
	}
	input := a.Terminal.Base()
	switch {
	case prec == lr.NoPrecedence:
		return a.Shift
	case prec > input.Precedence():
		return a.Reduce
	case prec < input.Precedence():
		return a.Shift
	case input.Associativity() == lr.Left:
		return a.Reduce
	}
	return a.Shift
}

// --- Events and tracing ----------------------------------------------------

func (p *Parser) notify(pc *ParsingContext, kind EventKind, term lr.Term, node *ParseTreeNode) {
	p.observers.notify(&Event{Kind: kind, Term: term, Node: node, Context: pc})
}

func (p *Parser) trace(pc *ParsingContext, action string) {
	input := ""
	if pc.input != nil {
		input = pc.input.Token.String()
	}
	state := pc.stack.TopState().Name
	tracer().Debugf("%-6s %-20s %s", state, input, action)
	if !pc.TraceEnabled {
		return
	}
	pc.Tree.Trace = append(pc.Tree.Trace, TraceEntry{
		State:   state,
		Stack:   pc.stack.String(),
		Input:   input,
		Action:  action,
		IsError: strings.HasPrefix(action, "error"),
	})
}
