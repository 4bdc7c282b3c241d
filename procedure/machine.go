package procedure

import (
	"github.com/google/uuid"

	"github.com/flightcore/hsm/corecode"
	"github.com/flightcore/hsm/internal/obslog"
	"github.com/flightcore/hsm/internal/pir"
)

// Machine is a built procedure descriptor: action nodes and decision
// nodes linked by guarded flows. Unlike hsm.Machine there is no
// nesting and no derivation (spec.md's PR section asks for neither —
// SPEC_FULL.md §9).
type Machine[C any] struct {
	topo   *pir.Topology
	ext    *pir.Extension[C, *Machine[C]]
	logger *obslog.Logger
	runID  uuid.UUID
}

// WithLogger attaches a structured execution tracer.
func (m *Machine[C]) WithLogger(l *obslog.Logger) *Machine[C] {
	m.logger = l
	return m
}

// Check runs the validator's checks and returns the first one that
// fails, wrapped as a *ValidationError.
func (m *Machine[C]) Check() error {
	if code := pir.Validate(m.topo, m.ext); code != corecode.Success {
		return &ValidationError{Code: code}
	}
	return nil
}

// Start runs the initial flow, resolving through any chain of
// decision nodes transparently until it lands on an action node or
// final. A no-op if already started.
func (m *Machine[C]) Start() error {
	if m.ext.Current != 0 {
		return nil
	}
	if err := m.Check(); err != nil {
		return err
	}
	m.runID = uuid.New()
	m.ext.ExecutionCount = 0
	m.ext.NodeCount = 0
	m.logger.Info().Str("run_id", m.runID.String()).Log("procedure start")
	init := m.topo.Initial()
	m.runAction(init.ActionIdx)
	m.land(init.Dest)
	return nil
}

// Stop halts the procedure without running any further flows. A
// no-op if not started.
func (m *Machine[C]) Stop() {
	if m.ext.Current == 0 {
		return
	}
	m.ext.Current = 0
	m.logger.Info().Log("procedure stop")
}

// Execute runs the current action node's action, then follows its
// outgoing flows — taking the first whose guard is true — resolving
// through any chain of decision nodes transparently within this one
// call, until it lands on the next action node or final. If no
// outgoing flow of the action node has a true guard, the procedure
// stays on that node. A no-op if not started.
func (m *Machine[C]) Execute() {
	if m.ext.Current == 0 {
		return
	}
	node := m.topo.Nodes[m.ext.Current]
	m.runAction(node.ActionIdx)
	m.ext.NodeCount++
	m.advance(m.topo.NodeOutgoing(m.ext.Current))
	m.ext.ExecutionCount++
}

// advance tries flows in declaration order, taking the first whose
// guard is true, running its action, then either landing on an action
// node/final or recursing through a decision node — the recursion is
// what makes decision-node resolution transparent within one tick.
// Reports whether a flow was taken.
func (m *Machine[C]) advance(flows []pir.Flow) bool {
	for _, f := range flows {
		if !m.evalGuard(f.GuardIdx) {
			continue
		}
		m.runAction(f.ActionIdx)
		m.land(f.Dest)
		return true
	}
	return false
}

func (m *Machine[C]) land(dest pir.Dest) {
	switch dest.Kind {
	case pir.DestNode:
		m.ext.Current = dest.ID
		m.ext.NodeCount = 0
	case pir.DestDecision:
		// A decision node with no true guard is a runtime flow-resolution
		// failure (corecode.TransErr).
		if !m.advance(m.topo.DecisionOutgoing(dest.ID)) {
			m.ext.Err = corecode.TransErr
		}
	case pir.DestFinal:
		m.ext.Current = 0
	}
}

func (m *Machine[C]) runAction(idx int) {
	m.ext.Actions[idx](m)
}

func (m *Machine[C]) evalGuard(idx int) bool {
	return m.ext.Guards[idx](m)
}

// IsStarted reports whether the procedure has an active action node.
func (m *Machine[C]) IsStarted() bool { return m.ext.Current != 0 }

// CurrentNode returns the active action node id, or 0 if stopped.
func (m *Machine[C]) CurrentNode() int { return m.ext.Current }

// ExecutionCount returns the number of Execute calls since Start.
func (m *Machine[C]) ExecutionCount() int { return m.ext.ExecutionCount }

// NodeExecutionCount returns the number of Execute calls since landing
// on the current action node, resetting to 0 every time Execute
// advances to another action node (spec.md §4.6's node counter, the
// procedure analogue of hsm.Machine.StateExecutionCount).
func (m *Machine[C]) NodeExecutionCount() int { return m.ext.NodeCount }

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

// SetUserData replaces the caller-supplied context pointer. Always legal.
func (m *Machine[C]) SetUserData(c *C) { m.ext.UserData = c }

// Dump returns a structured, non-rendered snapshot of this
// descriptor's topology for an external diagnostic sink.
func (m *Machine[C]) Dump() pir.Dump { return pir.DumpOf(m.topo) }

// Release drops this descriptor's references. Safe to call more than
// once.
func (m *Machine[C]) Release() {
	m.ext = nil
	m.topo = nil
}
