// Package hsm implements the hierarchical state-machine runtime:
// proper states, choice pseudo-states, guarded/triggered transitions,
// entry/do/exit actions, embedded nested machines, and structural
// derivation of a built descriptor. See SPEC_FULL.md for the full
// requirements this package implements.
package hsm

import (
	"github.com/flightcore/hsm/corecode"
	"github.com/flightcore/hsm/internal/ir"
)

// Re-export the shared closed error enumeration under the package
// developers actually import.
type Code = corecode.Code

// Trigger identifies the event that may fire a state-sourced
// transition. Choice-sourced transitions and the initial transition
// ignore it (spec.md §3).
type Trigger = int

// Tick is the trigger value reserved for a plain, event-less advance
// (procedure flows always use it; a state machine may too).
const Tick Trigger = 0

// Dest names a transition's destination: a proper state, a choice
// pseudo-state, or the final pseudo-state. Replaces the original
// signed-integer encoding (spec.md Design Notes §9).
type Dest = ir.Dest

// State builds a Dest pointing at proper state id.
func State(id int) Dest { return Dest{Kind: ir.DestState, ID: id} }

// Choice builds a Dest pointing at choice pseudo-state id.
func Choice(id int) Dest { return Dest{Kind: ir.DestChoice, ID: id} }

// Final is the Dest every machine eventually reaches when a
// transition targets the final pseudo-state (id 0 in spec.md's
// original encoding).
func Final() Dest { return Dest{Kind: ir.DestFinal} }

// Action is a side-effect callable run during entry/exit/do or a
// transition. It receives the owning machine, which exposes queries
// and user data, and on a derived descriptor also OverrideAction,
// OverrideGuard and Embed; nothing stops an action from calling them
// on the descriptor it runs within.
type Action[C any] = ir.Action[*Machine[C]]

// Guard is a side-effect-free predicate consulted during transition
// or choice resolution. May be evaluated more than once per tick.
type Guard[C any] = ir.Guard[*Machine[C]]
