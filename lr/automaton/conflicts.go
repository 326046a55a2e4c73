package automaton

import (
	"sort"
	"strings"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/schuko/gconf"
)

// computeConflicts finds the terminals for which a state has more than one
// possible action.
func (b *builder) computeConflicts() {
	for _, s := range b.pd.States {
		bd := s.BuilderData
		bd.Conflicts = b.gd.NewTerminalSet()
		if !bd.IsInadequate() {
			continue
		}
		seen := b.gd.NewTerminalSet()
		for _, t := range bd.ShiftTerms {
			if terminal, ok := t.(lr.Terminal); ok {
				seen.Add(terminal)
			}
		}
		for _, item := range bd.ReduceItems {
			for _, la := range item.Lookaheads.Terminals() {
				if !seen.Add(la) {
					bd.Conflicts.Add(la)
				}
			}
		}
		if !bd.Conflicts.IsEmpty() {
			tracer().Debugf("state %s has conflicts on %v", s.Name, bd.Conflicts)
		}
	}
}

// createActions creates shift actions for all terms after the dot and reduce
// actions for all lookaheads without conflicts.
func (b *builder) createActions() {
	for _, s := range b.pd.States {
		bd := s.BuilderData
		for _, t := range bd.ShiftTerms {
			s.Actions[t] = &ShiftAction{Term: t, NewState: bd.next[t]}
		}
		for _, item := range bd.ReduceItems {
			for _, la := range item.Lookaheads.Terminals() {
				if bd.Conflicts.Contains(la) {
					continue
				}
				s.Actions[la] = reduceOrAccept(item.Core.Production)
			}
		}
	}
}

func reduceOrAccept(prod *lr.Production) Action {
	if prod.LValue.Is(lr.IsAugmentedRoot) {
		return &AcceptAction{Production: prod}
	}
	return &ReduceAction{Production: prod}
}

// resolveConflicts decides every conflict, trying operator precedence first,
// then grammar hints. Conflicts which cannot be resolved are reported and decided
// in favor of shifting, or of the production declared first.
func (b *builder) resolveConflicts() error {
	strictRR := gconf.GetBool("lalr.strict-reduce-reduce")
	for _, s := range b.pd.States {
		bd := s.BuilderData
		for _, t := range bd.Conflicts.Terminals() {
			shift, _ := s.Actions[t].(*ShiftAction)
			var shiftItems []*LRItem
			for _, item := range bd.ShiftItems {
				if item.Core.Current() == lr.Term(t) {
					shiftItems = append(shiftItems, item)
				}
			}
			var reduceItems []*LRItem
			for _, item := range bd.ReduceItems {
				if item.Lookaheads.Contains(t) {
					reduceItems = append(reduceItems, item)
				}
			}
			if a := b.resolveByPrecedence(t, shift, reduceItems); a != nil {
				s.Actions[t] = a
				continue
			}
			if a := b.resolveByHints(t, shift, shiftItems, reduceItems); a != nil {
				tracer().Debugf("state %s: conflict on %s resolved by hint: %v", s.Name, t.Name(), a)
				s.Actions[t] = a
				continue
			}
			b.reportConflict(s, t, shift, reduceItems, strictRR)
		}
	}
	if b.errs.MaxLevel() >= lr.InternalError {
		return b.errs
	}
	return nil
}

// resolveByPrecedence applies to shift-reduce conflicts between an operator and a
// single production, or a production with implied precedence. The decision is
// deferred to parse time, as the precedence of the production is found on the
// parser stack.
func (b *builder) resolveByPrecedence(t lr.Terminal, shift *ShiftAction, reduceItems []*LRItem) Action {
	if shift == nil || len(reduceItems) != 1 {
		return nil
	}
	prod := reduceItems[0].Core.Production
	if !t.Base().Is(lr.IsOperator) && prod.Precedence == lr.NoPrecedence {
		return nil
	}
	return &PrecedenceAction{
		Terminal: t,
		Shift:    shift,
		Reduce:   &ReduceAction{Production: prod},
	}
}

func (b *builder) resolveByHints(t lr.Terminal, shift *ShiftAction, shiftItems, reduceItems []*LRItem) Action {
	reduces := make([]*ReduceAction, len(reduceItems))
	for i, item := range reduceItems {
		reduces[i] = &ReduceAction{Production: item.Core.Production}
	}
	// custom resolution overrides other hints
	for _, item := range append(append([]*LRItem{}, shiftItems...), reduceItems...) {
		for _, h := range item.Core.Hints {
			if custom, ok := h.(*lr.CustomActionHint); ok {
				return &CustomAction{Terminal: t, Resolve: custom.Resolve, Shift: shift, Reduces: reduces}
			}
		}
	}
	for _, item := range shiftItems {
		for _, h := range item.Core.Hints {
			if p, ok := h.(*lr.PreferredActionHint); ok && p.Action == lr.PreferShift {
				return shift
			}
		}
	}
	for i, item := range reduceItems {
		for _, h := range item.Core.Hints {
			if p, ok := h.(*lr.PreferredActionHint); ok && p.Action == lr.PreferReduce {
				return reduces[i]
			}
		}
	}
	var cond *ConditionalAction
	addPreview := func(h *lr.TokenPreviewHint, own Action) {
		target, fallback := b.previewAlternatives(h, own, shift, reduces)
		if target == nil || fallback == nil {
			return
		}
		if cond == nil {
			cond = &ConditionalAction{Default: fallback}
		}
		cond.Entries = append(cond.Entries, ConditionalEntry{
			Condition:   b.previewCondition(h),
			Action:      target,
			Description: h.Name(),
		})
	}
	for _, item := range shiftItems {
		for _, h := range item.Core.Hints {
			if p, ok := h.(*lr.TokenPreviewHint); ok {
				addPreview(p, shift)
			}
		}
	}
	for i, item := range reduceItems {
		for _, h := range item.Core.Hints {
			if p, ok := h.(*lr.TokenPreviewHint); ok {
				addPreview(p, reduces[i])
			}
		}
	}
	if cond != nil {
		return cond
	}
	return nil
}

// previewAlternatives determines the action to take if a preview succeeds, and
// the one to take otherwise. own is the action of the item carrying the hint.
func (b *builder) previewAlternatives(h *lr.TokenPreviewHint, own Action, shift *ShiftAction,
	reduces []*ReduceAction) (Action, Action) {
	//
	var target Action
	if h.Action == lr.PreferShift {
		if shift == nil {
			return nil, nil
		}
		target = shift
	} else if r, ok := own.(*ReduceAction); ok {
		target = r
	} else if len(reduces) > 0 {
		target = reduces[0]
	}
	if target == nil {
		return nil, nil
	}
	if target == Action(shift) {
		return target, reduces[0]
	}
	if shift != nil {
		return target, shift
	}
	for _, r := range reduces {
		if Action(r) != target {
			return target, r
		}
	}
	return nil, nil
}

// previewCondition creates a condition which previews the input until it finds
// the hint's symbol, or one of the stop symbols.
func (b *builder) previewCondition(h *lr.TokenPreviewHint) Condition {
	first := b.gd.FindTerm(h.First)
	if first == nil {
		b.errs.Add(lr.Error, "", "preview hint %s: unknown symbol %q", h.Name(), h.First)
	}
	var before []lr.Term
	for _, name := range h.Before {
		if t := b.gd.FindTerm(name); t != nil {
			before = append(before, t)
		} else {
			b.errs.Add(lr.Error, "", "preview hint %s: unknown symbol %q", h.Name(), name)
		}
	}
	max := h.MaxPreview
	if max <= 0 {
		max = lr.DefaultMaxPreviewTokens
	}
	return func(ctx lr.ActionContext) bool {
		found := false
		err := ctx.Preview(max, func(tok *lr.Token) bool {
			if tokenIs(tok, first) {
				found = true
				return false
			}
			for _, t := range before {
				if tokenIs(tok, t) {
					return false
				}
			}
			return true
		})
		return err == nil && found
	}
}

func tokenIs(tok *lr.Token, t lr.Term) bool {
	if t == nil {
		return false
	}
	if tok.Terminal != nil && lr.Term(tok.Terminal) == t {
		return true
	}
	return tok.KeyTerm != nil && lr.Term(tok.KeyTerm) == t
}

func (b *builder) reportConflict(s *ParserState, t lr.Terminal, shift *ShiftAction,
	reduceItems []*LRItem, strictRR bool) {
	//
	var prods []string
	for _, item := range reduceItems {
		prods = append(prods, item.Core.Production.String())
	}
	if shift != nil {
		b.errs.Add(lr.Conflict, s.Name, "shift-reduce conflict on %s, reductions: %s; will shift",
			t.Name(), strings.Join(prods, ", "))
		return // shift action is already in place
	}
	level := lr.Conflict
	if strictRR {
		level = lr.Error
	}
	first := reduceItems[0].Core.Production
	for _, item := range reduceItems[1:] {
		if item.Core.Production.Index < first.Index {
			first = item.Core.Production
		}
	}
	b.errs.Add(level, s.Name, "reduce-reduce conflict on %s, reductions: %s; will reduce %v",
		t.Name(), strings.Join(prods, ", "), first)
	s.Actions[t] = reduceOrAccept(first)
}

// --- Default actions and expected terminals ---------------------------------

// computeDefaultActions sets a default action for states which have a single
// reduction and no terminal to shift. Such states do not need to look at the input.
func (b *builder) computeDefaultActions() {
	for _, s := range b.pd.States {
		bd := s.BuilderData
		if len(bd.ReduceItems) != 1 || len(bd.ShiftItems) > 0 {
			continue
		}
		s.DefaultAction = reduceOrAccept(bd.ReduceItems[0].Core.Production)
	}
}

// computeExpectedTerminals collects the terminals with actions in a state and the
// names to report for them in syntax errors.
func (b *builder) computeExpectedTerminals() {
	groupOf := make(map[lr.Term]*lr.ReportGroup)
	for _, rg := range b.gd.Grammar.ReportGroups {
		for _, t := range rg.Terms {
			if _, ok := groupOf[t]; !ok {
				groupOf[t] = rg
			}
		}
	}
	for _, s := range b.pd.States {
		s.ExpectedTerminals = b.gd.NewTerminalSet()
		for _, t := range b.gd.Terminals {
			if lr.Term(t) == lr.Term(b.gd.Grammar.SyntaxError) {
				continue
			}
			if _, ok := s.Actions[t]; ok {
				s.ExpectedTerminals.Add(t)
			}
		}
		s.ReportedExpected = reportedNames(s.ExpectedTerminals, groupOf)
	}
}

func reportedNames(expected *lr.TerminalSet, groupOf map[lr.Term]*lr.ReportGroup) []string {
	names := make(map[string]bool)
	for _, t := range expected.Terminals() {
		if rg, ok := groupOf[t]; ok {
			if rg.Kind != lr.NoReportGroup {
				names[rg.Alias] = true
			}
			continue
		}
		names[t.Base().ErrorAlias()] = true
	}
	r := make([]string, 0, len(names))
	for n := range names {
		r = append(r, n)
	}
	sort.Strings(r)
	return r
}
