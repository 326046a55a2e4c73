package lr

import (
	"strings"

	"golang.org/x/tools/container/intsets"
)

// TerminalSet is a set of terminals of a grammar, stored as a bitset over
// terminal indices. Iteration order is the order of terminal indices.
type TerminalSet struct {
	bits     intsets.Sparse
	universe []Terminal
}

// NewTerminalSet creates an empty set of terminals of gd.
func (gd *GrammarData) NewTerminalSet() *TerminalSet {
	return &TerminalSet{universe: gd.Terminals}
}

// Add inserts a terminal, returning true if it has not been a member before.
func (ts *TerminalSet) Add(t Terminal) bool {
	if t.Base().index < 0 {
		panic("lr: terminal " + t.Name() + " is not part of the grammar")
	}
	return ts.bits.Insert(t.Base().index)
}

// Contains checks for membership of a terminal.
func (ts *TerminalSet) Contains(t Terminal) bool {
	if ts == nil || t == nil || t.Base().index < 0 {
		return false
	}
	return ts.bits.Has(t.Base().index)
}

// Union adds all members of other, returning true if ts changed.
func (ts *TerminalSet) Union(other *TerminalSet) bool {
	return ts.bits.UnionWith(&other.bits)
}

// Intersects checks if ts and other have members in common.
func (ts *TerminalSet) Intersects(other *TerminalSet) bool {
	return ts.bits.Intersects(&other.bits)
}

// Len returns the number of members.
func (ts *TerminalSet) Len() int {
	if ts == nil {
		return 0
	}
	return ts.bits.Len()
}

// IsEmpty is true for a set without members.
func (ts *TerminalSet) IsEmpty() bool {
	return ts == nil || ts.bits.IsEmpty()
}

// Copy returns an independent copy of ts.
func (ts *TerminalSet) Copy() *TerminalSet {
	c := &TerminalSet{universe: ts.universe}
	c.bits.Copy(&ts.bits)
	return c
}

// Terminals returns the members ordered by index.
func (ts *TerminalSet) Terminals() []Terminal {
	if ts == nil {
		return nil
	}
	inx := ts.bits.AppendTo(make([]int, 0, ts.bits.Len()))
	r := make([]Terminal, len(inx))
	for i, x := range inx {
		r[i] = ts.universe[x]
	}
	return r
}

func (ts *TerminalSet) String() string {
	var names []string
	for _, t := range ts.Terminals() {
		names = append(names, t.Name())
	}
	return "{" + strings.Join(names, " ") + "}"
}
