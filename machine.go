package hsm

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/flightcore/hsm/corecode"
	"github.com/flightcore/hsm/internal/ir"
	"github.com/flightcore/hsm/internal/obslog"
)

// Machine is a built state-machine descriptor: an immutable Topology
// shared with every descriptor derived from the same Builder, and an
// independently-owned Extension (action/guard tables, nested
// machines, user data, runtime counters).
//
// Grounded on the teacher's Interpreter[C] (interpreter.go):
// Start/Send/executeTransitionHierarchical/executeActions is the
// idiom kept, re-expressed over spec.md's two-level topology (a
// proper state either has, or does not have, exactly one nested
// machine — there is no deeper compound nesting of ordinary states).
type Machine[C any] struct {
	topo   *ir.Topology
	ext    *ir.Extension[C, *Machine[C]]
	logger *obslog.Logger
	runID  uuid.UUID
}

// WithLogger attaches a structured execution tracer. A Machine from
// Build traces to io.Discard (obslog.Discard) until one is attached.
func (m *Machine[C]) WithLogger(l *obslog.Logger) *Machine[C] {
	m.logger = l
	return m
}

// Check runs the ten validator checks (spec.md §4.3) and returns the
// first one that fails, wrapped as a *ValidationError. Does not
// recurse into nested machines; see CheckRecursive.
func (m *Machine[C]) Check() error {
	if code := ir.Validate(m.topo, m.ext); code != corecode.Success {
		return &ValidationError{Code: code}
	}
	return nil
}

// CheckRecursive runs Check on this descriptor and every embedded
// nested machine, depth-first, stopping at the first failure found
// anywhere in the tree. The returned error's Path names which nested
// machine failed as a dotted state-id path.
func (m *Machine[C]) CheckRecursive() error {
	if err := m.Check(); err != nil {
		return err
	}
	for id := 1; id <= m.topo.NStates; id++ {
		nested := m.ext.Nested[id]
		if nested == nil {
			continue
		}
		if err := nested.CheckRecursive(); err != nil {
			ve, _ := err.(*ValidationError)
			if ve == nil {
				return err
			}
			path := strconv.Itoa(id)
			if ve.Path != "" {
				path += "." + ve.Path
			}
			return &ValidationError{Code: ve.Code, Path: path}
		}
	}
	return nil
}

// Start runs the initial transition, entering whatever proper state
// or choice chain it resolves to. A no-op if already started
// (idempotent, per spec.md's universal properties). Refuses to start
// an invalid descriptor.
func (m *Machine[C]) Start() error {
	if m.ext.Current != 0 {
		return nil
	}
	if err := m.Check(); err != nil {
		return err
	}
	m.runID = uuid.New()
	m.ext.MachineCount = 0
	m.logger.Info().Str("run_id", m.runID.String()).Log("hsm start")
	m.executeTransition(m.topo.Initial())
	return nil
}

// Stop exits the current proper state (and any nested machine running
// inside it) without following any transition. A no-op if not
// started.
func (m *Machine[C]) Stop() {
	if m.ext.Current == 0 {
		return
	}
	m.exitCurrentState()
	m.ext.Current = 0
	m.logger.Info().Log("hsm stop")
}

// SendTrigger always offers trigger to the active nested machine (if
// any) first, then always evaluates this machine's own current
// state's outgoing transitions in declaration order, taking the first
// whose trigger matches and whose guard is true — regardless of
// whether the nested machine consumed the trigger (spec.md §4.5 steps
// 4-5: nested propagation and the outer scan are unconditional and
// sequential, not a consume-or-bubble mechanism). Reports whether this
// machine's own scan fired a transition; if not, reports whatever the
// nested machine reported.
func (m *Machine[C]) SendTrigger(trigger Trigger) bool {
	if m.ext.Current == 0 {
		return false
	}
	nestedConsumed := false
	if nested := m.ext.Nested[m.ext.Current]; nested != nil {
		nestedConsumed = nested.SendTrigger(trigger)
	}
	for _, tr := range m.topo.StateOutgoing(m.ext.Current) {
		if tr.Trigger != trigger || !m.evalGuard(tr.GuardIdx) {
			continue
		}
		m.exitCurrentState()
		m.executeTransition(tr)
		m.ext.MachineCount++
		m.logger.Debug().Str("trigger", strconv.Itoa(trigger)).Log("hsm trigger consumed")
		return true
	}
	return nestedConsumed
}

// Execute runs one tick: the active nested machine's Execute (if any)
// followed by the current state's do-activity, and advances the
// execution counters. A no-op if not started.
func (m *Machine[C]) Execute() {
	if m.ext.Current == 0 {
		return
	}
	if nested := m.ext.Nested[m.ext.Current]; nested != nil {
		nested.Execute()
	}
	m.runAction(m.topo.States[m.ext.Current].DoIdx)
	m.ext.StateCount++
	m.ext.MachineCount++
}

func (m *Machine[C]) exitCurrentState() {
	id := m.ext.Current
	if nested := m.ext.Nested[id]; nested != nil {
		nested.Stop()
	}
	m.runAction(m.topo.States[id].ExitIdx)
}

// executeTransition runs a transition's action then resolves its
// destination: enter a proper state (running its entry action and
// starting any nested machine), resolve a choice pseudo-state by
// testing its outgoing transitions in order, or reach final.
func (m *Machine[C]) executeTransition(t ir.Transition) {
	m.runAction(t.ActionIdx)
	switch t.Dest.Kind {
	case ir.DestState:
		id := t.Dest.ID
		m.ext.Current = id
		m.ext.StateCount = 0
		m.runAction(m.topo.States[id].EntryIdx)
		if nested := m.ext.Nested[id]; nested != nil {
			_ = nested.Start()
		}
	case ir.DestChoice:
		m.resolveChoice(t.Dest.ID)
	case ir.DestFinal:
		m.ext.Current = 0
	}
}

// resolveChoice tries a choice pseudo-state's outgoing transitions in
// declaration order, taking the first whose guard is true. Resolving
// to another choice pseudo-state, or finding no true guard, is a
// runtime transition failure (corecode.TransErr, spec.md §4.5 step 3
// / testable property 5).
func (m *Machine[C]) resolveChoice(id int) {
	for _, tr := range m.topo.ChoiceOutgoing(id) {
		if !m.evalGuard(tr.GuardIdx) {
			continue
		}
		if tr.Dest.Kind == ir.DestChoice {
			m.ext.Err = corecode.TransErr
			return
		}
		m.executeTransition(tr)
		return
	}
	m.ext.Err = corecode.TransErr
}

func (m *Machine[C]) runAction(idx int) {
	m.ext.Actions[idx](m)
}

func (m *Machine[C]) evalGuard(idx int) bool {
	return m.ext.Guards[idx](m)
}

// Derive returns a new Machine sharing this one's Topology pointer but
// owning an independent Extension: fresh action/guard tables (deep
// copies, same length and dedup-preserving offsets), current state
// and counters reset, sticky error copied, user data cleared, and
// every nested machine recursively derived too (spec.md §4.4).
func (m *Machine[C]) Derive() *Machine[C] {
	clone := &Machine[C]{
		topo:   m.topo,
		ext:    m.ext.Clone(),
		logger: m.logger,
	}
	for id := 1; id <= m.topo.NStates; id++ {
		if nested := m.ext.Nested[id]; nested != nil {
			clone.ext.Nested[id] = nested.Derive()
		}
	}
	return clone
}

// OverrideAction replaces every slot holding old with replacement.
// Only legal on a derived descriptor (corecode.NotDerivedSM
// otherwise) — a base descriptor's behaviour is fixed at Build time.
func (m *Machine[C]) OverrideAction(old, replacement Action[C]) error {
	if !m.ext.Derived {
		return wrapCode(corecode.NotDerivedSM)
	}
	return wrapCode(m.ext.OverrideAction(old, replacement))
}

// OverrideGuard is OverrideAction's guard-table counterpart.
func (m *Machine[C]) OverrideGuard(old, replacement Guard[C]) error {
	if !m.ext.Derived {
		return wrapCode(corecode.NotDerivedSM)
	}
	return wrapCode(m.ext.OverrideGuard(old, replacement))
}

// Embed attaches nested to proper state id on a derived descriptor,
// failing with corecode.EsmDefined if a nested machine is already
// there, or corecode.NotDerivedSM if m is not derived.
func (m *Machine[C]) Embed(id int, nested *Machine[C]) error {
	if !m.ext.Derived {
		return wrapCode(corecode.NotDerivedSM)
	}
	if id < 1 || id >= len(m.ext.Nested) {
		return wrapCode(corecode.IllStateId)
	}
	if m.ext.Nested[id] != nil {
		return wrapCode(corecode.EsmDefined)
	}
	m.ext.Nested[id] = nested
	return nil
}

// IsStarted reports whether the machine has an active state.
func (m *Machine[C]) IsStarted() bool { return m.ext.Current != 0 }

// CurrentState returns the active proper state id, or 0 if stopped.
func (m *Machine[C]) CurrentState() int { return m.ext.Current }

// NestedAt returns the nested machine embedded in proper state id, or
// nil if none.
func (m *Machine[C]) NestedAt(id int) *Machine[C] {
	if id < 0 || id >= len(m.ext.Nested) {
		return nil
	}
	return m.ext.Nested[id]
}

// NestedAtCurrent returns the nested machine embedded in the current
// state, or nil if stopped or there is none.
func (m *Machine[C]) NestedAtCurrent() *Machine[C] {
	if m.ext.Current == 0 {
		return nil
	}
	return m.ext.Nested[m.ext.Current]
}

// ExecutionCount returns the number of ticks (Execute calls) and
// consumed triggers since Start.
func (m *Machine[C]) ExecutionCount() int { return m.ext.MachineCount }

// StateExecutionCount returns the number of Execute calls since
// entering the current state.
func (m *Machine[C]) StateExecutionCount() int { return m.ext.StateCount }

// ErrorCode returns the sticky error last recorded against this
// descriptor (corecode.Success if none).
func (m *Machine[C]) ErrorCode() Code { return m.ext.Err }

// RunID returns the identifier stamped by the most recent Start, or
// the empty string if never started.
func (m *Machine[C]) RunID() string {
	if m.runID == uuid.Nil {
		return ""
	}
	return m.runID.String()
}

// UserData returns the caller-supplied context pointer, or nil.
func (m *Machine[C]) UserData() *C { return m.ext.UserData }

// SetUserData replaces the caller-supplied context pointer. Always
// legal, independent of Start/Stop state or derivation (spec.md §6.1).
func (m *Machine[C]) SetUserData(c *C) { m.ext.UserData = c }

// Dump returns a structured, non-rendered snapshot of this
// descriptor's topology for an external diagnostic sink
// (SPEC_FULL.md §10). It carries no formatting logic.
func (m *Machine[C]) Dump() ir.Dump { return ir.DumpOf(m.topo) }

// Release drops this descriptor's references. Safe to call more than
// once.
func (m *Machine[C]) Release() {
	m.ext = nil
	m.topo = nil
}

// ReleaseDerived is Release for a descriptor obtained from Derive: the
// Topology pointer is shared with the base and others derived from
// it, so only this descriptor's independent Extension is dropped.
func (m *Machine[C]) ReleaseDerived() {
	m.Release()
}

// ReleaseRecursive releases this descriptor and every nested machine
// reachable from it, depth-first.
func (m *Machine[C]) ReleaseRecursive() {
	if m.ext != nil {
		for _, n := range m.ext.Nested {
			if n != nil {
				n.ReleaseRecursive()
			}
		}
	}
	m.Release()
}
