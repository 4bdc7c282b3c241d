package pir

import "github.com/flightcore/hsm/corecode"

// Validate runs the procedure analogue of internal/ir.Validate's ten
// checks and returns the first failing code, or corecode.Success.
func Validate[C, M any](t *Topology, e *Extension[C, M]) corecode.Code {
	if e.Err != corecode.Success {
		return corecode.ConfigErr
	}

	for i := 1; i <= t.NNodes; i++ {
		if !t.Nodes[i].defined {
			return corecode.NullActionNode
		}
	}

	for i := 1; i <= t.NDecisions; i++ {
		if !t.Decisions[i].defined {
			return corecode.NullDecisionNode
		}
	}

	for i := 0; i < t.NFlows; i++ {
		if !t.Flows[i].set {
			return corecode.NullTrans
		}
	}

	for i := 0; i < t.NFlows; i++ {
		if code := t.ValidKind(t.Flows[i].Dest); code != corecode.Success {
			return code
		}
	}

	for i := 1; i < len(e.Actions); i++ {
		if e.Actions[i] == nil {
			return corecode.TooFewActions
		}
	}

	for i := 1; i < len(e.Guards); i++ {
		if e.Guards[i] == nil {
			return corecode.TooFewGuards
		}
	}

	reachedNode := make([]bool, t.NNodes+1)
	reachedDecision := make([]bool, t.NDecisions+1)
	for i := 0; i < t.NFlows; i++ {
		d := t.Flows[i].Dest
		switch d.Kind {
		case DestNode:
			reachedNode[d.ID] = true
		case DestDecision:
			reachedDecision[d.ID] = true
		}
	}
	for i := 1; i <= t.NNodes; i++ {
		if !reachedNode[i] {
			return corecode.UnreachableActionNode
		}
	}
	for i := 1; i <= t.NDecisions; i++ {
		if !reachedDecision[i] {
			return corecode.UnreachableDecisionNode
		}
	}

	return corecode.Success
}
