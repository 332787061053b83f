// Package statemachine implements a small finite-state machine with guards,
// actions and transition observers.
//
// States and events are plain interfaces; StringState and StringEvent cover
// the common case. Transitions are registered with functional options:
//
//	const (
//		Idle       = statemachine.StringState("idle")
//		Submitting = statemachine.StringState("submitting")
//		Submit     = statemachine.StringEvent("submit")
//	)
//
//	m := statemachine.MustNew(Idle,
//		statemachine.WithTransition(Idle, Submitting, Submit),
//	)
//	if err := m.Fire(ctx, Submit, nil); err != nil {
//		// statemachine.IsNoTransitionAvailableError(err) when the event is not
//		// valid in the current state.
//	}
//
// All methods are safe for concurrent use. Observers registered with
// WithObserver run after the state has changed and outside the machine lock.
package statemachine
