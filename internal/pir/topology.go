// Package pir holds the procedure descriptor's storage model: an
// immutable Topology (action nodes, decision nodes, flows) plus a
// generic, mutable Extension (action/guard tables, user data, runtime
// counter). It mirrors internal/ir's SM split (spec.md §4.1) but for
// the simpler, non-nesting, non-derivable activity-procedure model
// (spec.md §4.6 / SPEC_FULL.md §9): no nested-machine slots, no Clone.
package pir

import "github.com/flightcore/hsm/corecode"

// DestKind tags what a flow destination points at.
type DestKind int

const (
	DestFinal DestKind = iota
	DestNode
	DestDecision
)

// Dest is a flow's destination: an action node, a decision node, or
// the final pseudo-node.
type Dest struct {
	Kind DestKind
	ID   int
}

// Flow is one edge of the shared flow pool: the initial flow (slot 0)
// or one slot inside an action node's or decision node's outgoing
// range. Flows carry a guard but never a trigger — they fire on the
// implicit tick (spec.md §3).
type Flow struct {
	Dest      Dest
	ActionIdx int
	GuardIdx  int
	set       bool
}

// NodeTop is an action node's topology: its reserved range inside the
// shared flow pool, and its own action-table slot.
type NodeTop struct {
	TransStart, TransCount int
	ActionIdx              int
	filled                 int
	defined                bool
}

// DecisionTop is a decision node's topology: just its reserved range.
type DecisionTop struct {
	TransStart, TransCount int
	filled                 int
	defined                bool
}

// Topology is the immutable part of a procedure descriptor.
type Topology struct {
	NNodes     int
	NDecisions int
	NFlows     int

	Nodes     []NodeTop
	Decisions []DecisionTop
	Flows     []Flow

	NActions int
	NGuards  int
}

// NodeOutgoing returns the topology's flow slots for action node id.
func (t *Topology) NodeOutgoing(id int) []Flow {
	n := t.Nodes[id]
	return t.Flows[n.TransStart : n.TransStart+n.TransCount]
}

// DecisionOutgoing returns the topology's flow slots for decision node id.
func (t *Topology) DecisionOutgoing(id int) []Flow {
	d := t.Decisions[id]
	return t.Flows[d.TransStart : d.TransStart+d.TransCount]
}

// Initial returns the initial flow (slot 0).
func (t *Topology) Initial() Flow {
	return t.Flows[0]
}

// Dump is the structured, non-rendered snapshot handed to an external
// diagnostic sink (SPEC_FULL.md §10).
type Dump struct {
	NNodes, NDecisions, NFlows, NActions, NGuards int
	Nodes                                         []NodeTop
	Decisions                                     []DecisionTop
	Flows                                         []Flow
}

// DumpOf builds a Dump from a Topology.
func DumpOf(t *Topology) Dump {
	return Dump{
		NNodes:     t.NNodes,
		NDecisions: t.NDecisions,
		NFlows:     t.NFlows,
		NActions:   t.NActions,
		NGuards:    t.NGuards,
		Nodes:      append([]NodeTop(nil), t.Nodes...),
		Decisions:  append([]DecisionTop(nil), t.Decisions...),
		Flows:      append([]Flow(nil), t.Flows...),
	}
}

// ValidKind reports whether d's kind/id combination can possibly be
// valid for a topology of this size.
func (t *Topology) ValidKind(d Dest) corecode.Code {
	switch d.Kind {
	case DestFinal:
		return corecode.Success
	case DestNode:
		if d.ID < 1 || d.ID > t.NNodes {
			return corecode.IllegalNodeDest
		}
		return corecode.Success
	case DestDecision:
		if d.ID < 1 || d.ID > t.NDecisions {
			return corecode.IllegalDecisionDest
		}
		return corecode.Success
	}
	return corecode.IllegalNodeDest
}
