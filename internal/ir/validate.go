package ir

import "github.com/flightcore/hsm/corecode"

// Validate runs the ten checks of spec.md §4.3 in order and returns the
// first failing code, or corecode.Success. Unlike the teacher's
// internal/ir.Validate (which collects every ValidationIssue it finds),
// spec.md is explicit that the validator "returns on the first
// failure" — followed here over the teacher's style (see DESIGN.md).
func Validate[C, N any](t *Topology, e *Extension[C, N]) corecode.Code {
	// 1. sticky configuration error
	if e.Err != corecode.Success {
		return corecode.ConfigErr
	}

	// 2. every proper state slot populated
	for i := 1; i <= t.NStates; i++ {
		if !t.States[i].defined {
			return corecode.NullPState
		}
	}

	// 3. every choice pseudo-state slot populated
	for i := 1; i <= t.NChoices; i++ {
		if !t.Choices[i].defined {
			return corecode.NullCState
		}
	}

	// 4. every transition slot populated
	for i := 0; i < t.NTrans; i++ {
		if !t.Trans[i].set {
			return corecode.NullTrans
		}
	}

	// 5. every transition destination within bounds
	for i := 0; i < t.NTrans; i++ {
		if code := t.ValidKind(t.Trans[i].Dest); code != corecode.Success {
			return code
		}
	}

	// 6. every action slot above 0 non-nil
	for i := 1; i < len(e.Actions); i++ {
		if e.Actions[i] == nil {
			return corecode.TooFewActions
		}
	}

	// 7. every guard slot above 0 non-nil
	for i := 1; i < len(e.Guards); i++ {
		if e.Guards[i] == nil {
			return corecode.TooFewGuards
		}
	}

	// 8. every proper state is the destination of at least one transition
	reachedState := make([]bool, t.NStates+1)
	reachedChoice := make([]bool, t.NChoices+1)
	for i := 0; i < t.NTrans; i++ {
		d := t.Trans[i].Dest
		switch d.Kind {
		case DestState:
			reachedState[d.ID] = true
		case DestChoice:
			reachedChoice[d.ID] = true
		}
	}
	for i := 1; i <= t.NStates; i++ {
		if !reachedState[i] {
			return corecode.UnreachablePState
		}
	}

	// 9. every choice pseudo-state is the destination of at least one transition
	for i := 1; i <= t.NChoices; i++ {
		if !reachedChoice[i] {
			return corecode.UnreachableCState
		}
	}

	// 10. success
	return corecode.Success
}
