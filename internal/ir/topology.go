// Package ir holds the state-machine descriptor's storage model: an
// immutable Topology (states, choice pseudo-states, transitions) plus a
// generic, mutable Extension (action/guard tables, nested-machine
// slots, user data, runtime counters).
//
// The split exists so derivation can share a Topology verbatim while
// each derived descriptor owns an independent Extension — see
// spec.md §4.1 and §4.4, and SPEC_FULL.md §4/§7.
package ir

import "github.com/flightcore/hsm/corecode"

// DestKind tags what a transition destination points at. It replaces
// the signed-integer encoding of the original C descriptor (spec.md §3,
// Design Notes §9: "signed indices for destinations → sum types").
type DestKind int

const (
	DestFinal DestKind = iota
	DestState
	DestChoice
)

// Dest is a transition's destination: a proper state, a choice
// pseudo-state, or the final pseudo-state.
type Dest struct {
	Kind DestKind
	ID   int // state or choice id; meaningless for DestFinal
}

// Transition is one edge of the shared transition pool: the initial
// transition (slot 0, no source range), or one slot inside a proper
// state's or choice pseudo-state's outgoing range.
type Transition struct {
	Dest      Dest
	Trigger   int // ignored for choice-sourced transitions and the initial one
	ActionIdx int // index into the action table, 0 = no-op
	GuardIdx  int // index into the guard table, 0 = always-true
	set       bool
}

// StateTop is a proper state's topology: its reserved range inside the
// shared transition pool, and the action-table slots for its entry/do/
// exit actions.
type StateTop struct {
	TransStart, TransCount int
	EntryIdx, ExitIdx, DoIdx int
	filled                   int
	defined                  bool
}

// ChoiceTop is a choice pseudo-state's topology: just its reserved
// range inside the shared transition pool.
type ChoiceTop struct {
	TransStart, TransCount int
	filled                 int
	defined                bool
}

// Topology is the immutable, structurally-shared part of a descriptor.
// A derived descriptor's Topology pointer is identical to its base's
// (spec.md invariant 6).
type Topology struct {
	NStates  int
	NChoices int
	NTrans   int // declared total transition-pool capacity

	States  []StateTop  // index 1..NStates, index 0 unused
	Choices []ChoiceTop // index 1..NChoices, index 0 unused
	Trans   []Transition

	NActions int // declared action-table capacity (index 0 reserved)
	NGuards  int // declared guard-table capacity (index 0 reserved)
}

// StateOutgoing returns the topology's transition slots for proper
// state id (1-based).
func (t *Topology) StateOutgoing(id int) []Transition {
	s := t.States[id]
	return t.Trans[s.TransStart : s.TransStart+s.TransCount]
}

// ChoiceOutgoing returns the topology's transition slots for choice
// pseudo-state id (1-based).
func (t *Topology) ChoiceOutgoing(id int) []Transition {
	c := t.Choices[id]
	return t.Trans[c.TransStart : c.TransStart+c.TransCount]
}

// Initial returns the initial transition (slot 0).
func (t *Topology) Initial() Transition {
	return t.Trans[0]
}

// Dump is the structured, non-rendered snapshot handed to an external
// diagnostic sink (SPEC_FULL.md §10). It carries no formatting logic —
// only data.
type Dump struct {
	NStates, NChoices, NTrans, NActions, NGuards int
	States                                       []StateTop
	Choices                                      []ChoiceTop
	Trans                                        []Transition
}

// DumpOf builds a Dump from a Topology.
func DumpOf(t *Topology) Dump {
	return Dump{
		NStates:  t.NStates,
		NChoices: t.NChoices,
		NTrans:   t.NTrans,
		NActions: t.NActions,
		NGuards:  t.NGuards,
		States:   append([]StateTop(nil), t.States...),
		Choices:  append([]ChoiceTop(nil), t.Choices...),
		Trans:    append([]Transition(nil), t.Trans...),
	}
}

// ValidKind reports whether d's kind/id combination can possibly be
// valid for a topology of this size (used by the validator's
// destination-bounds check).
func (t *Topology) ValidKind(d Dest) corecode.Code {
	switch d.Kind {
	case DestFinal:
		return corecode.Success
	case DestState:
		if d.ID < 1 || d.ID > t.NStates {
			return corecode.IllegalPDest
		}
		return corecode.Success
	case DestChoice:
		if d.ID < 1 || d.ID > t.NChoices {
			return corecode.IllegalCDest
		}
		return corecode.Success
	}
	return corecode.IllegalPDest
}
