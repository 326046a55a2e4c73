package parser

import (
	"strings"

	"github.com/npillmayer/lalr/lr/automaton"
)

// ParserStack is the value stack of the parser. Every entry is a parse tree
// node together with the parser state reached after pushing it. The bottom
// entry holds the initial state and no term.
type ParserStack struct {
	entries []*ParseTreeNode
}

func newParserStack(initial *automaton.ParserState) *ParserStack {
	st := &ParserStack{entries: make([]*ParseTreeNode, 0, 64)}
	st.entries = append(st.entries, &ParseTreeNode{state: initial})
	return st
}

// Push pushes a node and the state reached.
func (st *ParserStack) Push(node *ParseTreeNode, state *automaton.ParserState) {
	node.state = state
	st.entries = append(st.entries, node)
}

// PopN removes the topmost n entries and returns them in stack order, i.e.
// the top entry last. The bottom entry is never removed.
func (st *ParserStack) PopN(n int) []*ParseTreeNode {
	if n > len(st.entries)-1 {
		n = len(st.entries) - 1
	}
	cut := len(st.entries) - n
	popped := make([]*ParseTreeNode, n)
	copy(popped, st.entries[cut:])
	st.entries = st.entries[:cut]
	return popped
}

// Top returns the node at the top of the stack.
func (st *ParserStack) Top() *ParseTreeNode {
	return st.entries[len(st.entries)-1]
}

// TopState returns the parser state at the top of the stack.
func (st *ParserStack) TopState() *automaton.ParserState {
	return st.Top().state
}

// At returns the node at depth d, with 0 being the top. It returns nil if d
// exceeds the stack.
func (st *ParserStack) At(d int) *ParseTreeNode {
	i := len(st.entries) - 1 - d
	if d < 0 || i < 1 {
		return nil
	}
	return st.entries[i]
}

// StateAt returns the state of the entry at depth d. The bottom entry is
// included.
func (st *ParserStack) StateAt(d int) *automaton.ParserState {
	i := len(st.entries) - 1 - d
	if d < 0 || i < 0 {
		return nil
	}
	return st.entries[i].state
}

// Depth is the number of entries above the bottom entry.
func (st *ParserStack) Depth() int {
	return len(st.entries) - 1
}

func (st *ParserStack) String() string {
	var b strings.Builder
	for i, e := range st.entries {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(e.Term.Name())
			b.WriteByte(' ')
		}
		b.WriteString(e.state.Name)
	}
	return b.String()
}
