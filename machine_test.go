package hsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/hsm/corecode"
)

// Scenario 1 (spec.md §8): IPS -> S1 -> tick -> tick, checking action
// order and counters.
func TestMachine_EnterTickTick(t *testing.T) {
	var log []string

	b, err := NewBuilder[int](1, 0, 1, 3, 0)
	require.NoError(t, err)
	entry := Action[int](func(m *Machine[int]) { log = append(log, "entry") })
	do := Action[int](func(m *Machine[int]) { log = append(log, "do") })
	exit := Action[int](func(m *Machine[int]) { log = append(log, "exit") })
	b.AddState(1, 0, entry, do, exit)
	b.AddTransInitialToState(1, nil)
	require.NoError(t, b.Err())

	m := b.Build()
	require.NoError(t, m.Start())
	m.Execute()
	m.Execute()
	m.Stop()

	assert.Equal(t, []string{"entry", "do", "do", "exit"}, log)
	assert.Equal(t, 2, m.ExecutionCount())
	assert.Equal(t, 2, m.StateExecutionCount())
}

// Scenario 2 (spec.md §8): a guarded choice pseudo-state picks between
// two proper states depending on user data.
func TestMachine_GuardedChoice(t *testing.T) {
	type ctx struct{ flag bool }

	build := func() *Machine[ctx] {
		b, err := NewBuilder[ctx](3, 1, 4, 0, 2)
		require.NoError(t, err)
		b.AddState(1, 1, nil, nil, nil)
		b.AddState(2, 0, nil, nil, nil)
		b.AddState(3, 0, nil, nil, nil)
		b.AddChoice(1, 2)
		b.AddTransInitialToState(1, nil)
		b.AddTransStateToChoice(1, 1, 1, nil, nil)
		isFlag := Guard[ctx](func(m *Machine[ctx]) bool { return m.UserData().flag })
		notFlag := Guard[ctx](func(m *Machine[ctx]) bool { return !m.UserData().flag })
		b.AddTransChoiceToState(1, 2, isFlag, nil)
		b.AddTransChoiceToState(1, 3, notFlag, nil)
		require.NoError(t, b.Err())
		return b.Build()
	}

	t.Run("true branch", func(t *testing.T) {
		m := build()
		ud := ctx{flag: true}
		m.SetUserData(&ud)
		require.NoError(t, m.Start())
		m.SendTrigger(1)
		assert.Equal(t, 2, m.CurrentState())
	})

	t.Run("false branch", func(t *testing.T) {
		m := build()
		ud := ctx{flag: false}
		m.SetUserData(&ud)
		require.NoError(t, m.Start())
		m.SendTrigger(1)
		assert.Equal(t, 3, m.CurrentState())
	})
}

// Scenario 3 (spec.md §8): a derived descriptor can override an
// action independently of its base.
func TestMachine_DeriveOverride(t *testing.T) {
	var calls int

	b, err := NewBuilder[int](1, 0, 1, 1, 0)
	require.NoError(t, err)
	orig := Action[int](func(m *Machine[int]) { calls++ })
	b.AddState(1, 0, orig, nil, nil)
	b.AddTransInitialToState(1, nil)
	require.NoError(t, b.Err())

	base := b.Build()

	var err2 error
	err2 = base.OverrideAction(orig, func(m *Machine[int]) { calls += 100 })
	require.Error(t, err2, "overriding a non-derived descriptor must fail")
	assert.Equal(t, corecode.NotDerivedSM, err2.(*corecode.Err).Code)

	derived := base.Derive()
	require.NoError(t, derived.OverrideAction(orig, func(m *Machine[int]) { calls += 10 }))

	require.NoError(t, derived.Start())
	assert.Equal(t, 10, calls, "derived descriptor runs the overridden action")

	require.NoError(t, base.Start())
	assert.Equal(t, 11, calls, "base descriptor is unaffected by the derived override")
}

// Scenario 4 (spec.md §8): a trigger offered to a machine with an
// active nested machine always propagates into the nested machine
// first, and the outer machine always evaluates its own transitions
// afterward regardless of what the nested machine did — not a
// consume-or-bubble mechanism.
func TestMachine_NestedTriggerPropagation(t *testing.T) {
	var log []string

	nb, err := NewBuilder[int](2, 0, 2, 1, 0)
	require.NoError(t, err)
	nb.AddState(1, 1, nil, nil, nil)
	nb.AddState(2, 0, nil, nil, nil)
	nb.AddTransInitialToState(1, nil)
	nb.AddTransStateToState(1, 5, 2, nil, Action[int](func(m *Machine[int]) { log = append(log, "nested") }))
	require.NoError(t, nb.Err())
	nested := nb.Build()

	pb, err := NewBuilder[int](2, 0, 2, 1, 0)
	require.NoError(t, err)
	pb.AddState(1, 1, nil, nil, nil)
	pb.AddState(2, 0, nil, nil, nil)
	pb.AddTransInitialToState(1, nil)
	pb.AddTransStateToState(1, 5, 2, nil, Action[int](func(m *Machine[int]) { log = append(log, "outer") }))
	pb.Embed(1, nested)
	require.NoError(t, pb.Err())
	parent := pb.Build()

	require.NoError(t, parent.Start())
	handled := parent.SendTrigger(5)

	require.True(t, handled)
	assert.Equal(t, []string{"nested", "outer"}, log, "nested is offered the trigger before the outer's own scan runs")
	assert.Equal(t, 2, parent.CurrentState(), "the outer's own matching transition fires unconditionally, too")
	assert.Equal(t, 0, parent.NestedAt(1).CurrentState(), "the nested machine is stopped when the outer exits state 1")
}

// A trigger the outer has no matching transition for still reaches
// the nested machine and leaves the outer's own state untouched.
func TestMachine_NestedTriggerPropagation_OuterNoMatch(t *testing.T) {
	nb, err := NewBuilder[int](2, 0, 2, 0, 0)
	require.NoError(t, err)
	nb.AddState(1, 1, nil, nil, nil)
	nb.AddState(2, 0, nil, nil, nil)
	nb.AddTransInitialToState(1, nil)
	nb.AddTransStateToState(1, 5, 2, nil, nil)
	require.NoError(t, nb.Err())
	nested := nb.Build()

	pb, err := NewBuilder[int](1, 0, 1, 0, 0)
	require.NoError(t, err)
	pb.AddState(1, 0, nil, nil, nil)
	pb.AddTransInitialToState(1, nil)
	pb.Embed(1, nested)
	require.NoError(t, pb.Err())
	parent := pb.Build()

	require.NoError(t, parent.Start())
	handled := parent.SendTrigger(5)

	require.True(t, handled, "the nested machine consumed it even though the outer had no matching transition")
	assert.Equal(t, 1, parent.CurrentState())
	assert.Equal(t, 2, parent.NestedAt(1).CurrentState())
}

// Scenario 5 (spec.md §8): a choice pseudo-state with no true guard is
// a runtime transition failure.
func TestMachine_ChoiceNoTrueGuard(t *testing.T) {
	b, err := NewBuilder[int](2, 1, 3, 0, 1)
	require.NoError(t, err)
	b.AddState(1, 1, nil, nil, nil)
	b.AddState(2, 0, nil, nil, nil)
	b.AddChoice(1, 1)
	b.AddTransInitialToState(1, nil)
	b.AddTransStateToChoice(1, 1, 1, nil, nil)
	never := Guard[int](func(m *Machine[int]) bool { return false })
	b.AddTransChoiceToState(1, 2, never, nil)
	require.NoError(t, b.Err())

	m := b.Build()
	require.NoError(t, m.Start())
	m.SendTrigger(1)

	assert.Equal(t, corecode.TransErr, m.ErrorCode())
}

// Idempotent start/stop: calling either twice in a row is a no-op.
func TestMachine_IdempotentStartStop(t *testing.T) {
	var entries, exits int
	b, err := NewBuilder[int](1, 0, 1, 2, 0)
	require.NoError(t, err)
	b.AddState(1, 0,
		Action[int](func(m *Machine[int]) { entries++ }),
		nil,
		Action[int](func(m *Machine[int]) { exits++ }))
	b.AddTransInitialToState(1, nil)
	require.NoError(t, b.Err())

	m := b.Build()
	require.NoError(t, m.Start())
	require.NoError(t, m.Start())
	assert.Equal(t, 1, entries)

	m.Stop()
	m.Stop()
	assert.Equal(t, 1, exits)
}

// Counter reset law: StateExecutionCount resets to 0 on every state
// entry, while ExecutionCount keeps accumulating.
func TestMachine_CounterResetLaw(t *testing.T) {
	b, err := NewBuilder[int](2, 0, 2, 0, 0)
	require.NoError(t, err)
	b.AddState(1, 1, nil, nil, nil)
	b.AddState(2, 0, nil, nil, nil)
	b.AddTransInitialToState(1, nil)
	b.AddTransStateToState(1, 1, 2, nil, nil)
	require.NoError(t, b.Err())

	m := b.Build()
	require.NoError(t, m.Start())
	m.Execute()
	m.Execute()
	assert.Equal(t, 2, m.StateExecutionCount())
	assert.Equal(t, 2, m.ExecutionCount())

	m.SendTrigger(1)
	assert.Equal(t, 0, m.StateExecutionCount(), "entering state 2 resets the per-state counter")
	assert.Equal(t, 3, m.ExecutionCount(), "the overall counter keeps accumulating across the transition")
}

// CheckRecursive must name the nested machine that actually fails, as a
// dotted state-id path, not just fail at the outer level.
func TestMachine_CheckRecursive_NestedFailure(t *testing.T) {
	nb, err := NewBuilder[int](2, 0, 1, 0, 0)
	require.NoError(t, err)
	nb.AddState(1, 0, nil, nil, nil) // state 2 is declared but never added
	nb.AddTransInitialToState(1, nil)
	require.NoError(t, nb.Err(), "the builder itself reports no sticky error")
	nested := nb.Build()

	pb, err := NewBuilder[int](1, 0, 1, 0, 0)
	require.NoError(t, err)
	pb.AddState(1, 0, nil, nil, nil)
	pb.AddTransInitialToState(1, nil)
	pb.Embed(1, nested)
	require.NoError(t, pb.Err())
	parent := pb.Build()

	require.NoError(t, parent.Check(), "the outer descriptor alone is valid")

	err = parent.CheckRecursive()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, corecode.NullPState, ve.Code)
	assert.Equal(t, "1", ve.Path, "the nested machine embedded at state 1 is the one that failed")
	assert.Contains(t, err.Error(), "nested at 1")
}

// Dump returns a structural, non-rendered snapshot: no formatting, just
// the sizes and slot data a diagnostic sink would render (spec.md's
// human-readable printing is explicitly out of scope).
func TestMachine_Dump(t *testing.T) {
	b, err := NewBuilder[int](1, 0, 1, 0, 0)
	require.NoError(t, err)
	b.AddState(1, 0, nil, nil, nil)
	b.AddTransInitialToState(1, nil)
	require.NoError(t, b.Err())

	m := b.Build()
	d := m.Dump()
	assert.Equal(t, 1, d.NStates)
	assert.Len(t, d.States, 2) // index 0 unused, index 1 is state 1
}

// ReleaseRecursive must drop the nested machine's references too, not
// just the host's.
func TestMachine_ReleaseRecursive(t *testing.T) {
	nb, err := NewBuilder[int](1, 0, 1, 0, 0)
	require.NoError(t, err)
	nb.AddState(1, 0, nil, nil, nil)
	nb.AddTransInitialToState(1, nil)
	nested := nb.Build()

	pb, err := NewBuilder[int](1, 0, 1, 0, 0)
	require.NoError(t, err)
	pb.AddState(1, 0, nil, nil, nil)
	pb.AddTransInitialToState(1, nil)
	pb.Embed(1, nested)
	parent := pb.Build()

	parent.ReleaseRecursive()
	assert.Nil(t, parent.ext)
	assert.Nil(t, nested.ext)
}
