package procedure

import (
	"github.com/flightcore/hsm/internal/obslog"
	"github.com/flightcore/hsm/internal/pir"
)

// Builder grows a fixed-capacity procedure descriptor: action nodes,
// decision nodes and the shared flow pool. Mirrors hsm.Builder.
type Builder[C any] struct {
	tb  *pir.TopologyBuilder
	ext *pir.Extension[C, *Machine[C]]
	err Code
}

// NewBuilder allocates a Builder for a descriptor of the declared
// sizes. Fails with corecode.OutOfMemory wrapped as an error for
// negative sizes, or nFlows <= 0.
func NewBuilder[C any](nNodes, nDecisions, nFlows, nActions, nGuards int) (*Builder[C], error) {
	tb, code := pir.NewTopologyBuilder(nNodes, nDecisions, nFlows, nActions, nGuards)
	if code != 0 {
		return nil, wrapCode(code)
	}
	return &Builder[C]{
		tb:  tb,
		ext: pir.NewExtension[C, *Machine[C]](nActions, nGuards),
	}, nil
}

func (b *Builder[C]) setErr(c Code) {
	if c != 0 {
		b.err = c
	}
}

// Err reports the sticky configuration error, or nil.
func (b *Builder[C]) Err() error {
	return wrapCode(b.err)
}

// AddActionNode declares action node id with nOut outgoing flows and
// its own action.
func (b *Builder[C]) AddActionNode(id, nOut int, action Action[C]) *Builder[C] {
	actionIdx, c1 := b.ext.InternAction(action)
	b.setErr(c1)
	b.setErr(b.tb.AddActionNode(id, nOut, actionIdx))
	return b
}

// AddDecisionNode declares decision node id with nOut outgoing flows
// (nOut must be >= 1).
func (b *Builder[C]) AddDecisionNode(id, nOut int) *Builder[C] {
	b.setErr(b.tb.AddDecisionNode(id, nOut))
	return b
}

// AddInitialToNode sets the procedure's initial flow to target action
// node dest.
func (b *Builder[C]) AddInitialToNode(dest int) *Builder[C] {
	return b.addInitial(Node(dest))
}

// AddInitialToDecision sets the procedure's initial flow to target
// decision node dest.
func (b *Builder[C]) AddInitialToDecision(dest int) *Builder[C] {
	return b.addInitial(Decision(dest))
}

func (b *Builder[C]) addInitial(dest Dest) *Builder[C] {
	b.setErr(b.tb.AddInitial(dest, 0, 0))
	return b
}

// AddFlowNodeToNode adds an outgoing, guarded flow from action node
// src to action node dest, in the order called.
func (b *Builder[C]) AddFlowNodeToNode(src, dest int, guard Guard[C]) *Builder[C] {
	return b.addFromNode(src, Node(dest), guard)
}

// AddFlowNodeToDecision adds an outgoing flow from action node src to
// decision node dest.
func (b *Builder[C]) AddFlowNodeToDecision(src, dest int, guard Guard[C]) *Builder[C] {
	return b.addFromNode(src, Decision(dest), guard)
}

// AddFlowNodeToFinal adds an outgoing flow from action node src to the
// final pseudo-node.
func (b *Builder[C]) AddFlowNodeToFinal(src int, guard Guard[C]) *Builder[C] {
	return b.addFromNode(src, Final(), guard)
}

func (b *Builder[C]) addFromNode(src int, dest Dest, guard Guard[C]) *Builder[C] {
	guardIdx, c1 := b.ext.InternGuard(guard)
	b.setErr(c1)
	b.setErr(b.tb.AddFromNode(src, dest, 0, guardIdx))
	return b
}

// AddFlowDecisionToNode adds an outgoing, guarded flow from decision
// node src to action node dest, in the order called. The first whose
// guard is true is taken when the decision is resolved.
func (b *Builder[C]) AddFlowDecisionToNode(src, dest int, guard Guard[C]) *Builder[C] {
	return b.addFromDecision(src, Node(dest), guard)
}

// AddFlowDecisionToFinal adds an outgoing flow from decision node src
// to the final pseudo-node.
func (b *Builder[C]) AddFlowDecisionToFinal(src int, guard Guard[C]) *Builder[C] {
	return b.addFromDecision(src, Final(), guard)
}

func (b *Builder[C]) addFromDecision(src int, dest Dest, guard Guard[C]) *Builder[C] {
	guardIdx, c1 := b.ext.InternGuard(guard)
	b.setErr(c1)
	b.setErr(b.tb.AddFromDecision(src, dest, 0, guardIdx))
	return b
}

// Build freezes the topology and returns the base Machine. Like
// hsm.Builder.Build, this never fails on its own; a sticky
// configuration error (if any) surfaces from Check.
func (b *Builder[C]) Build() *Machine[C] {
	m := &Machine[C]{
		topo:   b.tb.Freeze(),
		ext:    b.ext,
		logger: obslog.Discard,
	}
	m.ext.Err = b.err
	return m
}
