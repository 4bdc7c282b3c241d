package pir

import (
	"reflect"

	"github.com/flightcore/hsm/corecode"
)

// Action is a side-effect callable run by an action node.
type Action[M any] func(m M)

// Guard is a side-effect-free predicate consulted during decision-node
// resolution.
type Guard[M any] func(m M) bool

// Extension is the mutable part of a procedure descriptor: action/
// guard tables, user data, current node and execution counter. C is
// the user-data/context type; M is the machine pointer type, kept as
// a type parameter so this package never needs to import the public
// machine type (mirrors internal/ir.Extension's split, minus the
// nested-machine table and Clone/Derived support the procedure model
// does not have — spec.md's PR section asks for neither nesting nor
// derivation).
type Extension[C, M any] struct {
	Actions []Action[M]
	Guards  []Guard[M]

	UserData *C

	Current        int // 0 = stopped
	ExecutionCount int
	NodeCount      int // ticks since landing on the current node

	Err corecode.Code
}

// NewExtension allocates a fresh Extension with reserved slot 0 in
// both tables (no-op action, always-true guard).
func NewExtension[C, M any](nActions, nGuards int) *Extension[C, M] {
	e := &Extension[C, M]{
		Actions: make([]Action[M], nActions+1),
		Guards:  make([]Guard[M], nGuards+1),
	}
	e.Actions[0] = func(M) {}
	e.Guards[0] = func(M) bool { return true }
	return e
}

// InternAction returns the slot holding fn, allocating a new one if fn
// is not already present. A nil fn always yields slot 0.
func (e *Extension[C, M]) InternAction(fn Action[M]) (int, corecode.Code) {
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
func (e *Extension[C, M]) InternGuard(fn Guard[M]) (int, corecode.Code) {
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

func funcPointer(fn any) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}
