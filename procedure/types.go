// Package procedure implements the activity-procedure runtime: action
// nodes and decision nodes linked by guarded flows that fire on an
// implicit tick, with no nesting and no derivation (spec.md §4.6,
// SPEC_FULL.md §9). It mirrors package hsm's shape, specialised to the
// simpler, non-hierarchical model.
package procedure

import (
	"github.com/flightcore/hsm/corecode"
	"github.com/flightcore/hsm/internal/pir"
)

// Code re-exports the shared closed error enumeration.
type Code = corecode.Code

// Dest names a flow's destination: an action node, a decision node,
// or the final pseudo-node.
type Dest = pir.Dest

// Node builds a Dest pointing at action node id.
func Node(id int) Dest { return Dest{Kind: pir.DestNode, ID: id} }

// Decision builds a Dest pointing at decision node id.
func Decision(id int) Dest { return Dest{Kind: pir.DestDecision, ID: id} }

// Final is the Dest a flow targets to end the procedure.
func Final() Dest { return Dest{Kind: pir.DestFinal} }

// Action is a side-effect callable run by an action node.
type Action[C any] = pir.Action[*Machine[C]]

// Guard is a side-effect-free predicate consulted during decision-node
// resolution. May be evaluated more than once per tick.
type Guard[C any] = pir.Guard[*Machine[C]]
