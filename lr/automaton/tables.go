package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/sparse"
)

// Encodings of table entries. Reduce entries are encoded as the index of the
// production to reduce.
const (
	ShiftEntry  = -1
	AcceptEntry = -2
)

// Tables is the table form of an automaton. Rows are states.
//
// ACTION has a column per terminal, indexed by terminal index. Entries decided at
// parse time (by precedence, preview or custom code) hold a pair of values.
//
// GOTO has a column per terminal and non-terminal. Non-terminal columns start
// after the last terminal column.
type Tables struct {
	Action *sparse.IntMatrix
	Goto   *sparse.IntMatrix
	pd     *ParserData
}

// Tables exports the automaton as ACTION and GOTO tables.
func (pd *ParserData) Tables() *Tables {
	gd := pd.Grammar
	nterm := len(gd.Terminals)
	tables := &Tables{
		Action: sparse.NewIntMatrix(len(pd.States), nterm, sparse.DefaultNullValue),
		Goto:   sparse.NewIntMatrix(len(pd.States), nterm+len(gd.NonTerminals), sparse.DefaultNullValue),
		pd:     pd,
	}
	for _, s := range pd.States {
		for _, t := range gd.Terminals {
			a, ok := s.Actions[t]
			if !ok {
				continue
			}
			for _, v := range entryValues(a) {
				tables.Action.Add(s.ID, t.Base().Index(), v)
			}
			if next := successor(s, t); next != nil {
				tables.Goto.Set(s.ID, t.Base().Index(), int32(next.ID))
			}
		}
		for _, nt := range gd.NonTerminals {
			if next := s.Next(nt); next != nil {
				tables.Goto.Set(s.ID, nterm+nt.Index(), int32(next.ID))
			}
		}
	}
	tracer().Infof("ACTION table with %d entries, GOTO table with %d entries",
		tables.Action.ValueCount(), tables.Goto.ValueCount())
	return tables
}

func entryValues(a Action) []int32 {
	switch a := a.(type) {
	case *ShiftAction:
		return []int32{ShiftEntry}
	case *AcceptAction:
		return []int32{AcceptEntry}
	case *ReduceAction:
		return []int32{int32(a.Production.Index)}
	case *PrecedenceAction:
		return []int32{ShiftEntry, int32(a.Reduce.Production.Index)}
	case *ConditionalAction:
		r := entryValues(a.Default)
		if len(a.Entries) > 0 {
			r = append(entryValues(a.Entries[0].Action), r...)
		}
		return r
	case *CustomAction:
		var r []int32
		if a.Shift != nil {
			r = append(r, ShiftEntry)
		}
		for _, red := range a.Reduces {
			r = append(r, int32(red.Production.Index))
		}
		if len(r) > 2 {
			r = r[:2]
		}
		return r
	}
	panic(fmt.Sprintf("automaton: unknown action type %T", a))
}

func (tables *Tables) entryString(m *sparse.IntMatrix, i, j int) string {
	v1, v2 := m.Values(i, j)
	if v1 == m.NullValue() {
		return ""
	}
	if v2 == m.NullValue() {
		return valstring(v1, m == tables.Goto)
	}
	return valstring(v1, false) + "/" + valstring(v2, false)
}

func valstring(v int32, isGoto bool) string {
	if isGoto {
		return fmt.Sprintf("S%d", v)
	}
	switch v {
	case AcceptEntry:
		return "acc"
	case ShiftEntry:
		return "s"
	}
	return fmt.Sprintf("r%d", v)
}

func (tables *Tables) columns(m *sparse.IntMatrix) []lr.Term {
	gd := tables.pd.Grammar
	cols := make([]lr.Term, 0, m.N())
	for _, t := range gd.Terminals {
		cols = append(cols, t)
	}
	if m == tables.Goto {
		for _, nt := range gd.NonTerminals {
			cols = append(cols, nt)
		}
	}
	return cols
}

// ActionTableAsHTML exports the ACTION table in HTML format.
func (tables *Tables) ActionTableAsHTML(w io.Writer) error {
	return tables.asHTML("ACTION", tables.Action, w)
}

// GotoTableAsHTML exports the GOTO table in HTML format.
func (tables *Tables) GotoTableAsHTML(w io.Writer) error {
	return tables.asHTML("GOTO", tables.Goto, w)
}

func (tables *Tables) asHTML(tname string, m *sparse.IntMatrix, w io.Writer) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "%s table of size = %d<p>", tname, m.ValueCount())
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	cols := tables.columns(m)
	for _, t := range cols {
		fmt.Fprintf(&b, "<td>%s</td>", htmlEscape(t.Name()))
	}
	b.WriteString("</tr>\n")
	for _, s := range tables.pd.States {
		fmt.Fprintf(&b, "<tr><td>%s</td>\n", s.Name)
		for j := range cols {
			td := tables.entryString(m, s.ID, j)
			if td == "" {
				td = "&nbsp;"
			}
			fmt.Fprintf(&b, "<td>%s</td>\n", td)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}

// ActionTableAsText renders the ACTION table as a text table, wrapped to width.
func (tables *Tables) ActionTableAsText(width int) string {
	cols := tables.columns(tables.Action)
	data := [][]string{{""}}
	for _, t := range cols {
		data[0] = append(data[0], t.Name())
	}
	for _, s := range tables.pd.States {
		row := []string{s.Name}
		for j := range cols {
			row = append(row, tables.entryString(tables.Action, s.ID, j))
		}
		if s.DefaultAction != nil {
			row[0] += "*"
		}
		data = append(data, row)
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders: true,
			TableHeaders: true,
		}).
		String()
}

// --- GraphViz --------------------------------------------------------------

// ToGraphViz exports the automaton in GraphViz Dot format. States with a
// default action are filled gray.
func (pd *ParserData) ToGraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range pd.States {
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%s | %s}\"]\n",
			s.ID, nodecolor(s), s.Name, forGraphviz(s))
	}
	for _, s := range pd.States {
		for _, t := range shiftTermsOf(s) {
			fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", s.ID, successor(s, t).ID,
				dotEscape(t.Name()))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// successor returns the state reached by shifting t, including shifts which are
// part of conflict resolving actions.
func successor(s *ParserState, t lr.Term) *ParserState {
	if s.BuilderData != nil {
		return s.BuilderData.next[t]
	}
	switch a := s.Actions[t].(type) {
	case *PrecedenceAction:
		return a.Shift.NewState
	case *CustomAction:
		if a.Shift != nil {
			return a.Shift.NewState
		}
	}
	return s.Next(t)
}

// shiftTermsOf lists the terms with shift actions in a state, in grammar order.
func shiftTermsOf(s *ParserState) []lr.Term {
	if s.BuilderData != nil {
		return s.BuilderData.ShiftTerms
	}
	var terms []lr.Term
	for t := range s.Actions {
		if successor(s, t) != nil {
			terms = append(terms, t)
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Name() < terms[j].Name() })
	return terms
}

func nodecolor(s *ParserState) string {
	if s.DefaultAction != nil {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(s *ParserState) string {
	if s.BuilderData == nil {
		return ""
	}
	var items []string
	for _, item := range s.BuilderData.Items {
		items = append(items, dotEscape(item.Core.String()))
	}
	return strings.Join(items, "\\l") + "\\l"
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, "{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`)

func dotEscape(s string) string {
	return dotEscaper.Replace(s)
}
