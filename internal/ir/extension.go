package ir

import (
	"reflect"

	"github.com/flightcore/hsm/corecode"
)

// Action is a side-effect callable, run during entry/exit/do/transition.
// It receives the owning machine so it can read/write user data and
// query runtime state; this type itself places no limit on what the
// action does with that machine.
type Action[M any] func(m M)

// Guard is a side-effect-free predicate consulted during transition and
// choice/decision resolution. May be evaluated more than once per tick
// (spec.md §6.2).
type Guard[M any] func(m M) bool

// Extension is the mutable, independently-owned part of a descriptor:
// action/guard tables, nested-machine slots, user data and runtime
// state. C is the user-data/context type; N is the nested-machine
// pointer type (e.g. *hsm.Machine[C]), kept as a type parameter here so
// this package never needs to import the public machine type.
type Extension[C, N any] struct {
	Actions []Action[N]
	Guards  []Guard[N]
	Nested  []N // index 1..NStates; zero value of N means "no nested machine"

	UserData *C

	Current      int // 0 = stopped
	MachineCount int
	StateCount   int

	Err     corecode.Code
	Derived bool
}

// NewExtension allocates a fresh, base Extension with reserved slot 0
// in both tables (no-op action, always-true guard).
func NewExtension[C, N any](nStates, nActions, nGuards int) *Extension[C, N] {
	e := &Extension[C, N]{
		Actions: make([]Action[N], nActions+1),
		Guards:  make([]Guard[N], nGuards+1),
		Nested:  make([]N, nStates+1),
	}
	e.Actions[0] = func(N) {}
	e.Guards[0] = func(N) bool { return true }
	return e
}

// InternAction returns the slot holding fn, allocating a new one if fn
// is not already present (identity de-duplication, spec.md §4.2). A nil
// fn always yields slot 0.
func (e *Extension[C, N]) InternAction(fn Action[N]) (int, corecode.Code) {
	if fn == nil {
		return 0, corecode.Success
	}
	fp := funcPointer(fn)
	free := -1
	for i := 1; i < len(e.Actions); i++ {
		if e.Actions[i] == nil {
			if free == -1 {
				free = i
			}
			continue
		}
		if funcPointer(e.Actions[i]) == fp {
			return i, corecode.Success
		}
	}
	if free == -1 {
		return 0, corecode.TooManyActions
	}
	e.Actions[free] = fn
	return free, corecode.Success
}

// InternGuard is InternAction's guard-table counterpart.
func (e *Extension[C, N]) InternGuard(fn Guard[N]) (int, corecode.Code) {
	if fn == nil {
		return 0, corecode.Success
	}
	fp := funcPointer(fn)
	free := -1
	for i := 1; i < len(e.Guards); i++ {
		if e.Guards[i] == nil {
			if free == -1 {
				free = i
			}
			continue
		}
		if funcPointer(e.Guards[i]) == fp {
			return i, corecode.Success
		}
	}
	if free == -1 {
		return 0, corecode.TooManyGuards
	}
	e.Guards[free] = fn
	return free, corecode.Success
}

// OverrideAction replaces every occurrence of old in the action table
// with replacement, returning corecode.UndefAction if old is absent.
func (e *Extension[C, N]) OverrideAction(old, replacement Action[N]) corecode.Code {
	oldfp := funcPointer(old)
	found := false
	for i := 1; i < len(e.Actions); i++ {
		if e.Actions[i] != nil && funcPointer(e.Actions[i]) == oldfp {
			e.Actions[i] = replacement
			found = true
		}
	}
	if !found {
		return corecode.UndefAction
	}
	return corecode.Success
}

// OverrideGuard is OverrideAction's guard-table counterpart.
func (e *Extension[C, N]) OverrideGuard(old, replacement Guard[N]) corecode.Code {
	oldfp := funcPointer(old)
	found := false
	for i := 1; i < len(e.Guards); i++ {
		if e.Guards[i] != nil && funcPointer(e.Guards[i]) == oldfp {
			e.Guards[i] = replacement
			found = true
		}
	}
	if !found {
		return corecode.UndefGuard
	}
	return corecode.Success
}

// Clone returns an independent copy of e for derivation: fresh action/
// guard/nested slices, counters and current state reset, error copied,
// user data cleared. Nested machines are NOT cloned here — the caller
// (hsm.Machine.Derive) recurses into each nested slot, since deriving a
// nested machine requires the public Machine type this package cannot
// import.
func (e *Extension[C, N]) Clone() *Extension[C, N] {
	out := &Extension[C, N]{
		Actions: append([]Action[N](nil), e.Actions...),
		Guards:  append([]Guard[N](nil), e.Guards...),
		Nested:  make([]N, len(e.Nested)),
		Err:     e.Err,
		Derived: true,
	}
	return out
}

func funcPointer(fn any) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}
