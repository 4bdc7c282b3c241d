package hsm

import "github.com/flightcore/hsm/corecode"

// ValidationError reports the single failing check found by Check or
// CheckRecursive. Unlike the teacher's ValidationError (which
// accumulates every ValidationIssue across a pass), spec.md §4.3 is
// explicit that validation "returns on the first failure" — a
// descriptor is either valid or it names the one thing wrong with it,
// never a list (see DESIGN.md).
type ValidationError struct {
	Code Code
	// Path names which descriptor failed, for CheckRecursive: empty
	// for the root, otherwise the dotted state-id path to the nested
	// machine that failed (e.g. "3.2" = state 3's nested machine,
	// its state 2's nested machine).
	Path string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "hsm: " + e.Code.String()
	}
	return "hsm: " + e.Code.String() + " (nested at " + e.Path + ")"
}

// Unwrap exposes the underlying corecode.Err so callers can use
// errors.Is/errors.As against corecode values.
func (e *ValidationError) Unwrap() error {
	return corecode.New(e.Code)
}

// wrapCode wraps a raw corecode.Code as an error, or nil for Success.
func wrapCode(c Code) error {
	return corecode.New(c)
}
