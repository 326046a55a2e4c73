package parser

import (
	"github.com/npillmayer/lalr/lr"
)

// EventKind is the kind of parser event an observer is notified of.
type EventKind int8

// Shifting is sent before a token is shifted, Reduced after a production has
// been reduced.
const (
	Shifting EventKind = iota
	Reduced
)

func (k EventKind) String() string {
	if k == Shifting {
		return "shifting"
	}
	return "reduced"
}

// Event is passed to observers. Node is the token node to be shifted, or the
// node created by a reduction.
type Event struct {
	Kind    EventKind
	Term    lr.Term
	Node    *ParseTreeNode
	Context *ParsingContext
}

// Observer is a function called for parser events.
type Observer func(ev *Event)

// ObserverHandle identifies a registered observer.
type ObserverHandle struct {
	kind EventKind
	term lr.Term
	id   int
}

type observerEntry struct {
	id  int
	obs Observer
}

// observerTable maps event kinds and terms to observers. Observers registered
// for a nil term receive events for all terms.
type observerTable struct {
	entries map[EventKind]map[lr.Term][]observerEntry
	nextID  int
}

func (ot *observerTable) add(kind EventKind, term lr.Term, obs Observer) ObserverHandle {
	if ot.entries == nil {
		ot.entries = make(map[EventKind]map[lr.Term][]observerEntry)
	}
	byTerm := ot.entries[kind]
	if byTerm == nil {
		byTerm = make(map[lr.Term][]observerEntry)
		ot.entries[kind] = byTerm
	}
	ot.nextID++
	byTerm[term] = append(byTerm[term], observerEntry{id: ot.nextID, obs: obs})
	return ObserverHandle{kind: kind, term: term, id: ot.nextID}
}

func (ot *observerTable) remove(h ObserverHandle) bool {
	list := ot.entries[h.kind][h.term]
	for i, e := range list {
		if e.id == h.id {
			ot.entries[h.kind][h.term] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

func (ot *observerTable) notify(ev *Event) {
	byTerm := ot.entries[ev.Kind]
	if len(byTerm) == 0 {
		return
	}
	for _, e := range byTerm[ev.Term] {
		e.obs(ev)
	}
	if ev.Term != nil {
		for _, e := range byTerm[nil] {
			e.obs(ev)
		}
	}
}

// Observe registers an observer for events of a kind concerning term. If term
// is nil, the observer is notified for all terms. The handle returned may be
// used to remove the observer.
func (p *Parser) Observe(kind EventKind, term lr.Term, obs Observer) ObserverHandle {
	return p.observers.add(kind, term, obs)
}

// RemoveObserver unregisters an observer. It returns false if the observer
// was not registered.
func (p *Parser) RemoveObserver(h ObserverHandle) bool {
	return p.observers.remove(h)
}
