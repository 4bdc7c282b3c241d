package pir

import "github.com/flightcore/hsm/corecode"

// TopologyBuilder grows a procedure's action-node, decision-node and
// flow pool under fixed capacities, then Freeze()s it. Mirrors
// internal/ir.TopologyBuilder.
type TopologyBuilder struct {
	t        *Topology
	nextSlot int // 0 is reserved for the initial flow
}

// NewTopologyBuilder allocates a builder for the declared sizes,
// failing with corecode.OutOfMemory for negative sizes or nFlows <= 0.
func NewTopologyBuilder(nNodes, nDecisions, nFlows, nActions, nGuards int) (*TopologyBuilder, corecode.Code) {
	if nNodes < 0 || nDecisions < 0 || nFlows <= 0 || nActions < 0 || nGuards < 0 {
		return nil, corecode.OutOfMemory
	}
	t := &Topology{
		NNodes:     nNodes,
		NDecisions: nDecisions,
		NFlows:     nFlows,
		NActions:   nActions,
		NGuards:    nGuards,
		Nodes:      make([]NodeTop, nNodes+1),
		Decisions:  make([]DecisionTop, nDecisions+1),
		Flows:      make([]Flow, nFlows),
	}
	return &TopologyBuilder{t: t, nextSlot: 1}, corecode.Success
}

// AddActionNode reserves an action node's outgoing range and its own
// action-table slot.
func (b *TopologyBuilder) AddActionNode(id, nOut, actionIdx int) corecode.Code {
	if id < 1 || id > b.t.NNodes {
		return corecode.IllNodeId
	}
	if b.t.Nodes[id].defined {
		return corecode.NodeIdInUse
	}
	if nOut < 0 {
		return corecode.NegOutTrans
	}
	if b.nextSlot+nOut > b.t.NFlows {
		return corecode.TooManyOutTrans
	}
	b.t.Nodes[id] = NodeTop{
		TransStart: b.nextSlot,
		TransCount: nOut,
		ActionIdx:  actionIdx,
		defined:    true,
	}
	b.nextSlot += nOut
	return corecode.Success
}

// AddDecisionNode reserves a decision node's outgoing range.
func (b *TopologyBuilder) AddDecisionNode(id, nOut int) corecode.Code {
	if id < 1 || id > b.t.NDecisions {
		return corecode.IllDecisionId
	}
	if b.t.Decisions[id].defined {
		return corecode.DecisionIdInUse
	}
	if nOut < 1 {
		return corecode.IllNOfOutTrans
	}
	if b.nextSlot+nOut > b.t.NFlows {
		return corecode.TooManyOutTrans
	}
	b.t.Decisions[id] = DecisionTop{
		TransStart: b.nextSlot,
		TransCount: nOut,
		defined:    true,
	}
	b.nextSlot += nOut
	return corecode.Success
}

type srcKind int

const (
	srcNode srcKind = iota
	srcDecision
)

// AddInitial sets the initial flow (slot 0). A destination whose
// kind/id is out of bounds is stored as configured, not rejected here
// — it surfaces later as IllegalNodeDest/IllegalDecisionDest from
// Validate's destination-bounds check.
func (b *TopologyBuilder) AddInitial(dest Dest, actionIdx, guardIdx int) corecode.Code {
	b.t.Flows[0] = Flow{Dest: dest, ActionIdx: actionIdx, GuardIdx: guardIdx, set: true}
	return corecode.Success
}

// AddFromNode adds one outgoing flow to action node src's reserved
// range, in the order called.
func (b *TopologyBuilder) AddFromNode(src int, dest Dest, actionIdx, guardIdx int) corecode.Code {
	return b.addFrom(srcNode, src, dest, actionIdx, guardIdx)
}

// AddFromDecision adds one outgoing flow to decision node src's
// reserved range, in the order called.
func (b *TopologyBuilder) AddFromDecision(src int, dest Dest, actionIdx, guardIdx int) corecode.Code {
	return b.addFrom(srcDecision, src, dest, actionIdx, guardIdx)
}

// addFrom stores dest unchecked — destination bounds are validated
// only by Validate, not here (see AddInitial).
func (b *TopologyBuilder) addFrom(kind srcKind, src int, dest Dest, actionIdx, guardIdx int) corecode.Code {
	var start, count, filled *int
	switch kind {
	case srcNode:
		if src < 1 || src > b.t.NNodes {
			return corecode.IllTransSrc
		}
		if !b.t.Nodes[src].defined {
			return corecode.UndefinedTransSrc
		}
		start, count, filled = &b.t.Nodes[src].TransStart, &b.t.Nodes[src].TransCount, &b.t.Nodes[src].filled
	case srcDecision:
		if src < 1 || src > b.t.NDecisions {
			return corecode.IllTransSrc
		}
		if !b.t.Decisions[src].defined {
			return corecode.UndefinedTransSrc
		}
		start, count, filled = &b.t.Decisions[src].TransStart, &b.t.Decisions[src].TransCount, &b.t.Decisions[src].filled
	}
	if *filled >= *count {
		return corecode.TooManyTrans
	}
	slot := *start + *filled
	b.t.Flows[slot] = Flow{Dest: dest, ActionIdx: actionIdx, GuardIdx: guardIdx, set: true}
	*filled++
	return corecode.Success
}

// Freeze returns the built Topology.
func (b *TopologyBuilder) Freeze() *Topology {
	return b.t
}
