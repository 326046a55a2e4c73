package lr

import "fmt"

// Grammar hints are pseudo-terms placed into rule sequences. They do not match
// any input, but guide the automaton builder in resolving conflicts at the position
// they occur. A hint placed before a symbol applies to shifting this symbol, a hint
// at the end of a sequence applies to reducing the production.
//
//	// if-else: shift 'else' instead of reducing the short form
//	ifStmt.SetRule(g.Alt(
//	    g.Seq(kwIf, cond, stmt),
//	    g.Seq(kwIf, cond, stmt, g.PreferShiftHere(), kwElse, stmt)))
type GrammarHint interface {
	Term
	hint()
}

type hintBase struct {
	TermBase
}

func (h *hintBase) hint() {}

// PreferredAction is an action a hint votes for.
type PreferredAction int8

// Hints vote for either shifting or reducing.
const (
	PreferShift PreferredAction = iota
	PreferReduce
)

func (a PreferredAction) String() string {
	if a == PreferShift {
		return "shift"
	}
	return "reduce"
}

// PreferredActionHint unconditionally resolves a conflict.
type PreferredActionHint struct {
	hintBase
	Action PreferredAction
}

// TokenPreviewHint resolves a conflict by scanning ahead. If the preview finds
// First before any of Before, Action is taken, otherwise the opposite action.
// At most MaxPreview tokens are read. The preview does not consume any input.
type TokenPreviewHint struct {
	hintBase
	Action     PreferredAction
	First      string
	Before     []string
	MaxPreview int
}

// DefaultMaxPreviewTokens limits the look-ahead of preview hints.
const DefaultMaxPreviewTokens = 1000

// ImpliedPrecedenceHint assigns a precedence to a production, overriding the
// precedence of an operator within it (e.g., unary minus).
type ImpliedPrecedenceHint struct {
	hintBase
	Precedence    int
	Associativity Associativity
}

// ActionContext is what custom conflict resolution code and preview conditions see
// of a running parse.
type ActionContext interface {
	CurrentToken() *Token
	StackDepth() int
	// StackTerm returns the term of the stack entry at depth d, 0 being the top.
	StackTerm(d int) Term
	// Preview reads tokens following the current one and calls visit for each,
	// until visit returns false, max tokens are read or input ends. After preview
	// the input position is restored.
	Preview(max int, visit func(*Token) bool) error
}

// CustomOptions are the alternatives a custom resolver may choose from.
// Shift is false if shifting is not an option.
type CustomOptions struct {
	Terminal Terminal
	Shift    bool
	Reduces  []*Production
}

// CustomChoice is the decision of a custom resolver: either shift, or reduce a
// production.
type CustomChoice struct {
	Shift  bool
	Reduce *Production
}

// CustomResolver is a function deciding a conflict at parse time.
type CustomResolver func(ctx ActionContext, options CustomOptions) CustomChoice

// CustomActionHint resolves conflicts by calling client code at parse time.
type CustomActionHint struct {
	hintBase
	Resolve CustomResolver
}

// PreferShiftHere creates a hint which resolves conflicts in favor of shifting the
// following symbol.
func (g *Grammar) PreferShiftHere() *PreferredActionHint {
	return &PreferredActionHint{hintBase: g.makeHintBase("PreferShift"), Action: PreferShift}
}

// ReduceHere creates a hint which resolves conflicts in favor of reducing the
// production it ends.
func (g *Grammar) ReduceHere() *PreferredActionHint {
	return &PreferredActionHint{hintBase: g.makeHintBase("ReduceHere"), Action: PreferReduce}
}

// ReduceIf creates a preview hint: reduce if symbol appears before any of the
// symbols in before.
func (g *Grammar) ReduceIf(symbol string, before ...string) *TokenPreviewHint {
	return g.previewHint(PreferReduce, symbol, before)
}

// ShiftIf creates a preview hint: shift if symbol appears before any of the symbols
// in before.
func (g *Grammar) ShiftIf(symbol string, before ...string) *TokenPreviewHint {
	return g.previewHint(PreferShift, symbol, before)
}

func (g *Grammar) previewHint(action PreferredAction, symbol string, before []string) *TokenPreviewHint {
	return &TokenPreviewHint{
		hintBase:   g.makeHintBase(fmt.Sprintf("%sIf(%s)", action, symbol)),
		Action:     action,
		First:      symbol,
		Before:     before,
		MaxPreview: DefaultMaxPreviewTokens,
	}
}

// ResolveInCode creates a hint which leaves conflict resolution to client code.
func (g *Grammar) ResolveInCode(resolve CustomResolver) *CustomActionHint {
	if resolve == nil {
		panic("lr: custom action hint needs a resolver")
	}
	return &CustomActionHint{hintBase: g.makeHintBase("CustomAction"), Resolve: resolve}
}

// ImplyPrecedenceHere creates a hint which sets the precedence for reducing the
// production it is placed in.
func (g *Grammar) ImplyPrecedenceHere(precedence int, assoc Associativity) *ImpliedPrecedenceHint {
	return &ImpliedPrecedenceHint{
		hintBase:      g.makeHintBase(fmt.Sprintf("Prec(%d)", precedence)),
		Precedence:    precedence,
		Associativity: assoc,
	}
}

func (g *Grammar) makeHintBase(name string) hintBase {
	return hintBase{makeTermBase(name, IsHint)}
}
