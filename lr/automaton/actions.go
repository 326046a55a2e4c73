package automaton

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lalr/lr"
)

// Action is an entry of a parser state's action table. The set of actions is
// closed; the parser switches on the concrete type.
type Action interface {
	String() string
	isAction()
}

// ShiftAction shifts the current input and moves to NewState. For non-terminals
// it denotes the GOTO target after a reduction.
type ShiftAction struct {
	Term     lr.Term
	NewState *ParserState
}

// ReduceAction reduces a production.
type ReduceAction struct {
	Production *lr.Production
}

// AcceptAction accepts the input. It replaces the reduction of an augmented root
// production.
type AcceptAction struct {
	Production *lr.Production
}

// Condition is a predicate evaluated at parse time.
type Condition func(ctx lr.ActionContext) bool

// ConditionalEntry is an alternative of a conditional action.
type ConditionalEntry struct {
	Condition   Condition
	Action      Action
	Description string
}

// ConditionalAction executes the action of the first entry whose condition
// holds, or Default.
type ConditionalAction struct {
	Entries []ConditionalEntry
	Default Action
}

// PrecedenceAction decides between shifting an operator and reducing a production
// by comparing operator precedences at parse time. The precedence of the production
// is either implied by a hint, or is the precedence of the nearest operator on
// the stack within the production's handle.
type PrecedenceAction struct {
	Terminal lr.Terminal
	Shift    *ShiftAction
	Reduce   *ReduceAction
}

// CustomAction leaves the decision between Shift and Reduces to client code.
// Shift is nil if shifting is not possible.
type CustomAction struct {
	Terminal lr.Terminal
	Resolve  lr.CustomResolver
	Shift    *ShiftAction
	Reduces  []*ReduceAction
}

func (*ShiftAction) isAction()       {}
func (*ReduceAction) isAction()      {}
func (*AcceptAction) isAction()      {}
func (*ConditionalAction) isAction() {}
func (*PrecedenceAction) isAction()  {}
func (*CustomAction) isAction()      {}

func (a *ShiftAction) String() string {
	return "shift to " + a.NewState.Name
}

func (a *ReduceAction) String() string {
	return "reduce " + a.Production.String()
}

func (a *AcceptAction) String() string {
	return "accept"
}

func (a *ConditionalAction) String() string {
	var b strings.Builder
	b.WriteString("if ")
	for _, e := range a.Entries {
		fmt.Fprintf(&b, "%s then %s else ", e.Description, e.Action)
	}
	b.WriteString(a.Default.String())
	return b.String()
}

func (a *PrecedenceAction) String() string {
	return fmt.Sprintf("precedence(%s): %s | %s", a.Terminal.Name(), a.Shift, a.Reduce)
}

func (a *CustomAction) String() string {
	var alts []string
	if a.Shift != nil {
		alts = append(alts, a.Shift.String())
	}
	for _, r := range a.Reduces {
		alts = append(alts, r.String())
	}
	return fmt.Sprintf("custom(%s): %s", a.Terminal.Name(), strings.Join(alts, " | "))
}

// Choose maps the decision of a custom resolver to an action. It returns nil if
// the choice is not among the options.
func (a *CustomAction) Choose(choice lr.CustomChoice) Action {
	if choice.Shift {
		if a.Shift == nil {
			return nil
		}
		return a.Shift
	}
	for _, r := range a.Reduces {
		if r.Production == choice.Reduce {
			return r
		}
	}
	return nil
}

// Options returns the options to present to a custom resolver.
func (a *CustomAction) Options() lr.CustomOptions {
	opts := lr.CustomOptions{Terminal: a.Terminal, Shift: a.Shift != nil}
	for _, r := range a.Reduces {
		opts.Reduces = append(opts.Reduces, r.Production)
	}
	return opts
}
