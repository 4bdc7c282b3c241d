// Package corecode defines the closed error enumeration shared by the
// state-machine and procedure runtimes. A single Code value is recorded
// in a descriptor's sticky error field and returned from every
// configuration, validation and execution operation that can fail.
package corecode

// Code is a closed enumeration of every way a descriptor can fail to be
// built, validated or executed. The same type is used by the SM (hsm)
// and PR (procedure) subsystems; names that apply to only one subsystem
// say so in their comment.
type Code int

const (
	// Success means no error occurred. The zero value, so a freshly
	// created descriptor always starts in this state.
	Success Code = iota

	// OutOfMemory is returned by a creation function when the requested
	// sizes cannot be honoured (negative sizes, or zero transitions).
	OutOfMemory

	// NullPState: a declared proper-state slot was never populated (SM).
	NullPState
	// NullCState: a declared choice-pseudo-state slot was never populated (SM).
	NullCState
	// NullActionNode: a declared action-node slot was never populated (PR).
	NullActionNode
	// NullDecisionNode: a declared decision-node slot was never populated (PR).
	NullDecisionNode
	// NullTrans: a declared transition/flow slot was never populated.
	NullTrans

	// ConfigErr means the sticky configuration error was non-Success when
	// validation ran.
	ConfigErr

	// IllStateId: a state id used in AddState or Embed is out of the
	// declared [1,N] range (SM).
	IllStateId
	// IllChoiceId: a choice id used in AddChoice is out of the declared
	// [1,M] range (SM).
	IllChoiceId
	// IllNodeId: an action-node id is out of the declared [1,N] range (PR).
	IllNodeId
	// IllDecisionId: a decision-node id is out of the declared [1,M] range (PR).
	IllDecisionId

	// StateIdInUse: AddState called twice for the same id (SM).
	StateIdInUse
	// ChoiceIdInUse: AddChoice called twice for the same id (SM).
	ChoiceIdInUse
	// NodeIdInUse: AddActionNode called twice for the same id (PR).
	NodeIdInUse
	// DecisionIdInUse: AddDecisionNode called twice for the same id (PR).
	DecisionIdInUse

	// UndefinedTransSrc: a transition/flow source id is in range but was
	// never added via AddState/AddChoice (or AddActionNode/AddDecisionNode).
	UndefinedTransSrc
	// IllTransSrc: a transition/flow source id is out of the declared range.
	IllTransSrc

	// IllegalPDest: a transition destination claims to be a proper state
	// but is out of [1,N] (SM).
	IllegalPDest
	// IllegalCDest: a transition destination claims to be a choice
	// pseudo-state but is out of [1,M] (SM).
	IllegalCDest
	// IllegalNodeDest: a flow destination claims to be an action node but
	// is out of [1,N] (PR).
	IllegalNodeDest
	// IllegalDecisionDest: a flow destination claims to be a decision node
	// but is out of [1,M] (PR).
	IllegalDecisionDest

	// IllNOfOutTrans: AddChoice/AddDecisionNode called with n_out < 1.
	IllNOfOutTrans
	// NegOutTrans: AddState/AddActionNode called with n_out < 0.
	NegOutTrans
	// TooManyOutTrans: the cumulative n_out reserved so far would exceed
	// the declared total transition/flow capacity.
	TooManyOutTrans
	// TooManyTrans: a transition/flow source's reserved outgoing range is
	// already full.
	TooManyTrans

	// TooManyActions: the action table has no free slot for a new,
	// distinct callable.
	TooManyActions
	// TooManyGuards: the guard table has no free slot for a new, distinct
	// callable.
	TooManyGuards
	// TooFewActions: validation found an action slot above 0 that is nil.
	TooFewActions
	// TooFewGuards: validation found a guard slot above 0 that is nil.
	TooFewGuards

	// UndefAction: OverrideAction called with an old callable that is not
	// currently present in the action table.
	UndefAction
	// UndefGuard: OverrideGuard called with an old callable that is not
	// currently present in the guard table.
	UndefGuard

	// NotDerivedSM: OverrideAction/OverrideGuard/Embed called on a base
	// (non-derived) SM descriptor.
	NotDerivedSM
	// NotDerivedPR: the PR-subsystem analogue of NotDerivedSM.
	NotDerivedPR

	// EsmDefined: Embed called on a proper state whose nested-machine slot
	// is already occupied.
	EsmDefined

	// WrongNOfActions: Derive found a base/derived action-table length
	// mismatch (defensive; cannot occur through the public API).
	WrongNOfActions
	// WrongNOfGuards: the guard-table analogue of WrongNOfActions.
	WrongNOfGuards

	// UnreachablePState: validation found a proper state that is never
	// the destination of any transition (SM).
	UnreachablePState
	// UnreachableCState: validation found a choice pseudo-state that is
	// never the destination of any transition (SM).
	UnreachableCState
	// UnreachableActionNode: the PR-subsystem analogue of UnreachablePState.
	UnreachableActionNode
	// UnreachableDecisionNode: the PR-subsystem analogue of UnreachableCState.
	UnreachableDecisionNode

	// TransErr: a runtime transition/flow-resolution failure — choice (or
	// decision) resolution found no true guard, or a choice resolved to
	// another choice pseudo-state, which is never a legal final hop (SM).
	TransErr
)

// String renders the code the way the teacher package renders its own
// small enumerations (StateType.String(), HistoryType.String()): a
// terse name lookup with an "Unknown" fallback.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Unknown"
}

var codeNames = map[Code]string{
	Success:                 "Success",
	OutOfMemory:             "OutOfMemory",
	NullPState:              "NullPState",
	NullCState:              "NullCState",
	NullActionNode:          "NullActionNode",
	NullDecisionNode:        "NullDecisionNode",
	NullTrans:               "NullTrans",
	ConfigErr:               "ConfigErr",
	IllStateId:              "IllStateId",
	IllChoiceId:             "IllChoiceId",
	IllNodeId:               "IllNodeId",
	IllDecisionId:           "IllDecisionId",
	StateIdInUse:            "StateIdInUse",
	ChoiceIdInUse:           "ChoiceIdInUse",
	NodeIdInUse:             "NodeIdInUse",
	DecisionIdInUse:         "DecisionIdInUse",
	UndefinedTransSrc:       "UndefinedTransSrc",
	IllTransSrc:             "IllTransSrc",
	IllegalPDest:            "IllegalPDest",
	IllegalCDest:            "IllegalCDest",
	IllegalNodeDest:         "IllegalNodeDest",
	IllegalDecisionDest:     "IllegalDecisionDest",
	IllNOfOutTrans:          "IllNOfOutTrans",
	NegOutTrans:             "NegOutTrans",
	TooManyOutTrans:         "TooManyOutTrans",
	TooManyTrans:            "TooManyTrans",
	TooManyActions:          "TooManyActions",
	TooManyGuards:           "TooManyGuards",
	TooFewActions:           "TooFewActions",
	TooFewGuards:            "TooFewGuards",
	UndefAction:             "UndefAction",
	UndefGuard:              "UndefGuard",
	NotDerivedSM:            "NotDerivedSM",
	NotDerivedPR:            "NotDerivedPR",
	EsmDefined:              "EsmDefined",
	WrongNOfActions:         "WrongNOfActions",
	WrongNOfGuards:          "WrongNOfGuards",
	UnreachablePState:       "UnreachablePState",
	UnreachableCState:       "UnreachableCState",
	UnreachableActionNode:   "UnreachableActionNode",
	UnreachableDecisionNode: "UnreachableDecisionNode",
	TransErr:                "TransErr",
}

// Err wraps a Code as an error, for operations that prefer returning the
// failure over making the caller poll a sticky field (spec.md Design
// Notes §9 recommends exactly this, while keeping the sticky field as a
// secondary "last observed error" query).
type Err struct {
	Code Code
}

func (e *Err) Error() string {
	return "corecode: " + e.Code.String()
}

// New wraps a Code as an error, or returns nil for Success.
func New(c Code) error {
	if c == Success {
		return nil
	}
	return &Err{Code: c}
}
