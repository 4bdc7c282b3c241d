package procedure

import "github.com/flightcore/hsm/corecode"

// ValidationError reports the single failing check found by Check.
// See hsm.ValidationError for the rationale behind stop-at-first-
// failure over the teacher's collect-all style.
type ValidationError struct {
	Code Code
}

func (e *ValidationError) Error() string {
	return "procedure: " + e.Code.String()
}

func (e *ValidationError) Unwrap() error {
	return corecode.New(e.Code)
}

func wrapCode(c Code) error {
	return corecode.New(c)
}
