package ir

import "github.com/flightcore/hsm/corecode"

// TopologyBuilder grows a Topology's states, choice pseudo-states and
// transition pool under the fixed capacities declared at construction,
// then Freeze()s it into an immutable value. It owns no behavioural
// data (actions/guards live in Extension) — only the shape.
//
// Grounded on spec.md's Design Notes §9 ("manual array packing with a
// cursor → builder + frozen descriptor"): the builder owns growth
// bookkeeping so the frozen Topology needs none.
type TopologyBuilder struct {
	t         *Topology
	nextSlot  int // next free index in t.Trans, 0 is reserved for the initial transition
	initialOK bool
}

// NewTopologyBuilder allocates a builder for a topology of the given
// declared sizes. It fails with corecode.OutOfMemory for negative sizes
// or nTrans <= 0 (spec.md: "every machine has at least the initial
// transition").
func NewTopologyBuilder(nStates, nChoices, nTrans, nActions, nGuards int) (*TopologyBuilder, corecode.Code) {
	if nStates < 0 || nChoices < 0 || nTrans <= 0 || nActions < 0 || nGuards < 0 {
		return nil, corecode.OutOfMemory
	}
	t := &Topology{
		NStates:  nStates,
		NChoices: nChoices,
		NTrans:   nTrans,
		NActions: nActions,
		NGuards:  nGuards,
		States:   make([]StateTop, nStates+1),
		Choices:  make([]ChoiceTop, nChoices+1),
		Trans:    make([]Transition, nTrans),
	}
	return &TopologyBuilder{t: t, nextSlot: 1}, corecode.Success
}

// AddState reserves a proper state's outgoing range.
func (b *TopologyBuilder) AddState(id, nOut, entryIdx, exitIdx, doIdx int) corecode.Code {
	if id < 1 || id > b.t.NStates {
		return corecode.IllStateId
	}
	if b.t.States[id].defined {
		return corecode.StateIdInUse
	}
	if nOut < 0 {
		return corecode.NegOutTrans
	}
	if b.nextSlot+nOut > b.t.NTrans {
		return corecode.TooManyOutTrans
	}
	b.t.States[id] = StateTop{
		TransStart: b.nextSlot,
		TransCount: nOut,
		EntryIdx:   entryIdx,
		ExitIdx:    exitIdx,
		DoIdx:      doIdx,
		defined:    true,
	}
	b.nextSlot += nOut
	return corecode.Success
}

// AddChoice reserves a choice pseudo-state's outgoing range.
func (b *TopologyBuilder) AddChoice(id, nOut int) corecode.Code {
	if id < 1 || id > b.t.NChoices {
		return corecode.IllChoiceId
	}
	if b.t.Choices[id].defined {
		return corecode.ChoiceIdInUse
	}
	if nOut < 1 {
		return corecode.IllNOfOutTrans
	}
	if b.nextSlot+nOut > b.t.NTrans {
		return corecode.TooManyOutTrans
	}
	b.t.Choices[id] = ChoiceTop{
		TransStart: b.nextSlot,
		TransCount: nOut,
		defined:    true,
	}
	b.nextSlot += nOut
	return corecode.Success
}

// srcKind identifies the source of a transition being added.
type srcKind int

const (
	srcInitial srcKind = iota
	srcState
	srcChoice
)

// AddInitial sets the initial transition (slot 0). A destination whose
// kind/id is out of bounds is stored as configured, not rejected here
// — spec.md §4.2's add_trans error table does not list it as a
// config-time failure; it surfaces later as IllegalPDest/IllegalCDest
// from Validate's check 5 (spec.md §4.3).
func (b *TopologyBuilder) AddInitial(dest Dest, actionIdx, guardIdx int) corecode.Code {
	b.t.Trans[0] = Transition{Dest: dest, ActionIdx: actionIdx, GuardIdx: guardIdx, set: true}
	b.initialOK = true
	return corecode.Success
}

// AddFromState adds one outgoing transition to state src's reserved
// range, in the order called.
func (b *TopologyBuilder) AddFromState(src int, dest Dest, trigger, actionIdx, guardIdx int) corecode.Code {
	return b.addFrom(srcState, src, dest, trigger, actionIdx, guardIdx)
}

// AddFromChoice adds one outgoing transition to choice src's reserved
// range, in the order called. Choice-sourced transitions take no
// trigger (spec.md §3): Trigger is stored as 0 and is not consulted at
// evaluation time.
func (b *TopologyBuilder) AddFromChoice(src int, dest Dest, actionIdx, guardIdx int) corecode.Code {
	return b.addFrom(srcChoice, src, dest, 0, actionIdx, guardIdx)
}

// addFrom stores dest unchecked — destination bounds are validated
// only by Validate's check 5, not here (see AddInitial).
func (b *TopologyBuilder) addFrom(kind srcKind, src int, dest Dest, trigger, actionIdx, guardIdx int) corecode.Code {
	var start, count, filled *int
	switch kind {
	case srcState:
		if src < 1 || src > b.t.NStates {
			return corecode.IllTransSrc
		}
		if !b.t.States[src].defined {
			return corecode.UndefinedTransSrc
		}
		start, count, filled = &b.t.States[src].TransStart, &b.t.States[src].TransCount, &b.t.States[src].filled
	case srcChoice:
		if src < 1 || src > b.t.NChoices {
			return corecode.IllTransSrc
		}
		if !b.t.Choices[src].defined {
			return corecode.UndefinedTransSrc
		}
		start, count, filled = &b.t.Choices[src].TransStart, &b.t.Choices[src].TransCount, &b.t.Choices[src].filled
	}
	if *filled >= *count {
		return corecode.TooManyTrans
	}
	slot := *start + *filled
	b.t.Trans[slot] = Transition{Dest: dest, Trigger: trigger, ActionIdx: actionIdx, GuardIdx: guardIdx, set: true}
	*filled++
	return corecode.Success
}

// Freeze returns the built Topology. The caller (hsm.Builder) is
// responsible for invoking validation separately — Freeze itself never
// fails, matching spec.md's "configuration errors are sticky, not
// immediately fatal" model.
func (b *TopologyBuilder) Freeze() *Topology {
	return b.t
}
